package models

import "time"

type OfficialCategory string

const (
	CategoryCommittee OfficialCategory = "committee"
	CategoryStaff     OfficialCategory = "staff"
)

// Official is an elected committee member or a staff member
type Official struct {
	Meta
	Role     string           `json:"role" db:"role" gorm:"type:text;not null"`
	Name     string           `json:"name" db:"name" gorm:"type:text;not null"`
	Photo    string           `json:"photo" db:"photo" gorm:"type:text"`
	Phone    string           `json:"phone" db:"phone" gorm:"type:text"`
	Address  string           `json:"address,omitempty" db:"address" gorm:"type:text"`
	Category OfficialCategory `json:"category" db:"category" gorm:"type:text;not null;index"`
}

func (Official) TableName() string { return Officials.Table }
func (Official) Collection() Collection { return Officials }
func (*Official) SortKey() string { return "" }

func (o *Official) ApplyDefaults(time.Time) {
	if o.Category == "" {
		o.Category = CategoryCommittee
	}
}

func (o *Official) Validate() error {
	return firstError(
		required("name", o.Name),
		required("role", o.Role),
		oneOf("category", o.Category, CategoryCommittee, CategoryStaff),
	)
}
