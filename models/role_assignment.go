package models

import "time"

type Role string

const RoleAdmin Role = "admin"

// RoleAssignment grants a role to the account with exactly this email
type RoleAssignment struct {
	Meta
	Email string `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	Role  Role   `json:"role" db:"role" gorm:"type:text;not null"`
}

func (RoleAssignment) TableName() string { return RoleAssignments.Table }
func (RoleAssignment) Collection() Collection { return RoleAssignments }
func (*RoleAssignment) SortKey() string { return "" }

func (r *RoleAssignment) ApplyDefaults(time.Time) {
	if r.Role == "" {
		r.Role = RoleAdmin
	}
}

func (r *RoleAssignment) Validate() error {
	return firstError(required("email", r.Email), oneOf("role", r.Role, RoleAdmin))
}
