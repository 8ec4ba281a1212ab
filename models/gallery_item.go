package models

import "time"

// GalleryItem is a single photo in the public gallery
type GalleryItem struct {
	Meta
	Image string `json:"image" db:"image" gorm:"type:text;not null"`
}

func (GalleryItem) TableName() string { return Gallery.Table }
func (GalleryItem) Collection() Collection { return Gallery }
func (*GalleryItem) SortKey() string { return "" }
func (*GalleryItem) ApplyDefaults(time.Time) {}

func (g *GalleryItem) Validate() error {
	return required("image", g.Image)
}
