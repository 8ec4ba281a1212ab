package models

import (
	"time"

	"gorm.io/datatypes"
)

type MeetingType string

const (
	GramSabha  MeetingType = "Gram Sabha"
	MasikSabha MeetingType = "Masik Sabha"
	WardSabha  MeetingType = "Ward Sabha"
	BalSabha   MeetingType = "Bal Sabha"
)

// Meeting records a sabha with its minutes and photos
type Meeting struct {
	Meta
	Title       string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Type        MeetingType                 `json:"type" db:"type" gorm:"type:text;not null"`
	Date        string                      `json:"date" db:"date" gorm:"type:text;not null;index"`
	Description string                      `json:"description" db:"description" gorm:"type:text"`
	File        string                      `json:"file,omitempty" db:"file" gorm:"type:text"`
	Photos      datatypes.JSONSlice[string] `json:"photos" db:"photos"`
}

func (Meeting) TableName() string { return Meetings.Table }
func (Meeting) Collection() Collection { return Meetings }
func (m *Meeting) SortKey() string { return m.Date }

func (m *Meeting) ApplyDefaults(time.Time) {
	if m.Type == "" {
		m.Type = GramSabha
	}
	if m.Photos == nil {
		m.Photos = datatypes.JSONSlice[string]{}
	}
}

func (m *Meeting) Validate() error {
	return firstError(
		required("title", m.Title),
		required("date", m.Date),
		dateField("date", m.Date),
		oneOf("type", m.Type, GramSabha, MasikSabha, WardSabha, BalSabha),
	)
}
