package models

import "time"

// Service is a citizen service offered by the panchayat office
type Service struct {
	Meta
	Name         string `json:"name" db:"name" gorm:"type:text;not null"`
	Description  string `json:"description" db:"description" gorm:"type:text"`
	Requirements string `json:"requirements" db:"requirements" gorm:"type:text"`
	Fees         string `json:"fees" db:"fees" gorm:"type:text"`
}

func (Service) TableName() string { return Services.Table }
func (Service) Collection() Collection { return Services }
func (*Service) SortKey() string { return "" }
func (*Service) ApplyDefaults(time.Time) {}

func (s *Service) Validate() error {
	return required("name", s.Name)
}
