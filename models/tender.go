package models

import (
	"time"

	"gorm.io/datatypes"
)

// Applicant is a contractor who applied for a tender. Applicants live inside
// their tender and are removed by their own id.
type Applicant struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ApplicationDate string `json:"applicationDate"`
}

// Tender is a public works tender notice
type Tender struct {
	Meta
	Title        string                         `json:"title" db:"title" gorm:"type:text;not null"`
	RefNumber    string                         `json:"refNumber" db:"ref_number" gorm:"type:text"`
	ClosingDate  string                         `json:"closingDate" db:"closing_date" gorm:"type:text;not null;index"`
	DownloadLink string                         `json:"downloadLink" db:"download_link" gorm:"type:text"`
	Applicants   datatypes.JSONSlice[Applicant] `json:"applicants" db:"applicants"`
}

func (Tender) TableName() string { return Tenders.Table }
func (Tender) Collection() Collection { return Tenders }
func (t *Tender) SortKey() string { return t.ClosingDate }

func (t *Tender) ApplyDefaults(time.Time) {
	if t.DownloadLink == "" {
		t.DownloadLink = "#"
	}
	if t.Applicants == nil {
		t.Applicants = datatypes.JSONSlice[Applicant]{}
	}
}

func (t *Tender) Validate() error {
	return firstError(
		required("title", t.Title),
		required("closingDate", t.ClosingDate),
		dateField("closingDate", t.ClosingDate),
	)
}
