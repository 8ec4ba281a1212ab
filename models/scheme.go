package models

import "time"

// Scheme is a government welfare scheme listed for citizens
type Scheme struct {
	Meta
	Title         string `json:"title" db:"title" gorm:"type:text;not null"`
	Description   string `json:"description" db:"description" gorm:"type:text"`
	Beneficiaries string `json:"beneficiaries" db:"beneficiaries" gorm:"type:text"`
	Link          string `json:"link,omitempty" db:"link" gorm:"type:text"`
}

func (Scheme) TableName() string { return Schemes.Table }
func (Scheme) Collection() Collection { return Schemes }
func (*Scheme) SortKey() string { return "" }
func (*Scheme) ApplyDefaults(time.Time) {}

func (s *Scheme) Validate() error {
	return required("title", s.Title)
}
