package models

import (
	"time"

	"gorm.io/datatypes"
)

type Contact struct {
	Address string `json:"address" db:"address" gorm:"type:text"`
	Phone   string `json:"phone" db:"phone" gorm:"type:text"`
	Email   string `json:"email" db:"email" gorm:"type:text"`
	MapURL  string `json:"mapUrl" db:"map_url" gorm:"type:text"`
}

// SiteSettings is the singleton holding the logo, contact block and home slider
type SiteSettings struct {
	Meta
	Logo         string                      `json:"logo" db:"logo" gorm:"type:text"`
	Contact      Contact                     `json:"contact" gorm:"embedded;embeddedPrefix:contact_"`
	SliderImages datatypes.JSONSlice[string] `json:"sliderImages" db:"slider_images"`
}

func (SiteSettings) TableName() string { return Settings.Table }
func (SiteSettings) Collection() Collection { return Settings }
func (*SiteSettings) SortKey() string { return "" }

func (s *SiteSettings) ApplyDefaults(time.Time) {
	if s.SliderImages == nil {
		s.SliderImages = datatypes.JSONSlice[string]{}
	}
}

func (s *SiteSettings) Validate() error {
	return nil
}
