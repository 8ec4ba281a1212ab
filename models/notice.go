package models

import (
	"time"

	"github.com/chikhali-gp/portal/backend/errs"
)

// Notice is a short announcement shown in the public ticker
type Notice struct {
	Meta
	Text string `json:"text" db:"text" gorm:"type:text;not null"`
	Date string `json:"date" db:"date" gorm:"type:text;index"`
	// IsNew is nil until set, so an explicit false survives defaulting
	IsNew *bool  `json:"isNew" db:"is_new" gorm:"not null;default:true"`
	Image string `json:"image,omitempty" db:"image" gorm:"type:text"`
}

func (Notice) TableName() string { return Notices.Table }
func (Notice) Collection() Collection { return Notices }
func (n *Notice) SortKey() string { return n.Date }

// ApplyDefaults dates a fresh notice today and marks it new unless the
// caller said otherwise.
func (n *Notice) ApplyDefaults(now time.Time) {
	if n.Date == "" {
		n.Date = Today(now)
	}
	if n.IsNew == nil {
		n.IsNew = flag(true)
	}
}

func (n *Notice) Validate() error {
	if err := firstError(required("text", n.Text), dateField("date", n.Date)); err != nil {
		return err
	}
	if n.IsNew == nil {
		return errs.NewInvalidFieldError("isNew", "must be true or false")
	}
	return nil
}

// MarkedNew reports whether the ticker shows the notice with a "new" badge.
func (n *Notice) MarkedNew() bool {
	return n.IsNew != nil && *n.IsNew
}

func flag(v bool) *bool { return &v }
