package models

import (
	"time"

	"github.com/chikhali-gp/portal/backend/errs"
	"gorm.io/datatypes"
)

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

// Categories offered to blog authors; the first is the default.
var Categories = []string{"Development", "Health", "Education", "Agriculture", "General"}

// BlogPost represents a news or blog entry with its media
type BlogPost struct {
	Meta
	Title      string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Category   string                      `json:"category" db:"category" gorm:"type:text;not null"`
	Content    string                      `json:"content" db:"content" gorm:"type:text"`
	Thumbnail  string                      `json:"thumbnail" db:"thumbnail" gorm:"type:text"`
	Images     datatypes.JSONSlice[string] `json:"images" db:"images"`
	Tags       datatypes.JSONSlice[string] `json:"tags" db:"tags"`
	Status     PostStatus                  `json:"status" db:"status" gorm:"type:text;not null;index"`
	Date       string                      `json:"date" db:"date" gorm:"type:text;index"`
	Author     string                      `json:"author" db:"author" gorm:"type:text"`
	VideoURL   string                      `json:"videoUrl,omitempty" db:"video_url" gorm:"type:text"`
	YoutubeURL string                      `json:"youtubeUrl,omitempty" db:"youtube_url" gorm:"type:text"`
}

func (BlogPost) TableName() string { return BlogPosts.Table }
func (BlogPost) Collection() Collection { return BlogPosts }
func (p *BlogPost) SortKey() string { return p.Date }

func (p *BlogPost) ApplyDefaults(now time.Time) {
	if p.Status == "" {
		p.Status = PostDraft
	}
	if p.Date == "" {
		p.Date = Today(now)
	}
	if p.Author == "" {
		p.Author = "Admin"
	}
	if p.Category == "" {
		p.Category = "General"
	}
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[string]{}
	}
	if p.Tags == nil {
		p.Tags = datatypes.JSONSlice[string]{}
	}
}

func (p *BlogPost) Validate() error {
	if p.VideoURL != "" && p.YoutubeURL != "" {
		return errs.NewInvalidFieldError("youtubeUrl", "a post has either an uploaded video or a YouTube link, not both")
	}
	return firstError(
		required("title", p.Title),
		oneOf("status", p.Status, PostDraft, PostPublished),
		dateField("date", p.Date),
	)
}

// Published reports whether the post is visible on the public site.
func (p *BlogPost) Published() bool { return p.Status == PostPublished }

// CheckTransition rejects status changes other than draft to published.
func (p *BlogPost) CheckTransition(next *BlogPost) error {
	if p.Status == next.Status {
		return nil
	}
	if p.Status == PostDraft && next.Status == PostPublished {
		return nil
	}
	return errs.NewInvalidFieldError("status", "a "+string(p.Status)+" post cannot become "+string(next.Status))
}

// NormalizeVideo keeps the two video sources exclusive: whichever source the
// patch sets clears the other one.
func NormalizeVideo(p Patch) error {
	video, youtube := p.Has("videoUrl"), p.Has("youtubeUrl")
	switch {
	case video && youtube:
		return errs.NewInvalidFieldError("youtubeUrl", "a post has either an uploaded video or a YouTube link, not both")
	case video:
		p["youtubeUrl"] = ""
	case youtube:
		p["videoUrl"] = ""
	}
	return nil
}
