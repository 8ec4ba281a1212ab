package models

import "time"

type ProjectStatus string

const (
	ProjectPlanned   ProjectStatus = "Planned"
	ProjectOngoing   ProjectStatus = "Ongoing"
	ProjectCompleted ProjectStatus = "Completed"
)

// Project represents a village development work
type Project struct {
	Meta
	Title  string        `json:"title" db:"title" gorm:"type:text;not null"`
	Status ProjectStatus `json:"status" db:"status" gorm:"type:text;not null"`
	Image  string        `json:"image" db:"image" gorm:"type:text"`
}

func (Project) TableName() string { return Projects.Table }
func (Project) Collection() Collection { return Projects }
func (*Project) SortKey() string { return "" }

func (p *Project) ApplyDefaults(time.Time) {
	if p.Status == "" {
		p.Status = ProjectPlanned
	}
}

func (p *Project) Validate() error {
	return firstError(
		required("title", p.Title),
		oneOf("status", p.Status, ProjectPlanned, ProjectOngoing, ProjectCompleted),
	)
}
