package models

import (
	"strings"
	"time"

	"github.com/chikhali-gp/portal/backend/errs"
)

// DateLayout is the calendar-date format every record date field uses.
const DateLayout = "2006-01-02"

// Meta holds the identity and bookkeeping timestamps shared by every record.
type Meta struct {
	ID        string    `json:"id" db:"id" gorm:"type:text;primaryKey;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" gorm:"not null"`
}

func (m *Meta) Metadata() *Meta { return m }

// Collection describes where a record type lives in each backing store.
type Collection struct {
	Name        string // document-store collection
	BlobKey     string // field of the local blob document
	Table       string
	OrderField  string // JSON field listed descending, empty when unordered
	OrderColumn string
}

// Record is satisfied by a pointer to every entity struct in this package.
type Record[T any] interface {
	*T
	Metadata() *Meta
	Collection() Collection
	ApplyDefaults(now time.Time)
	Validate() error
	SortKey() string
}

var (
	BlogPosts       = Collection{Name: "blogs", BlobKey: "posts", Table: "blog_posts", OrderField: "date", OrderColumn: "date"}
	Notices         = Collection{Name: "notices", BlobKey: "notices", Table: "notices", OrderField: "date", OrderColumn: "date"}
	Schemes         = Collection{Name: "schemes", BlobKey: "schemes", Table: "schemes"}
	Services        = Collection{Name: "services", BlobKey: "services", Table: "services"}
	Projects        = Collection{Name: "projects", BlobKey: "projects", Table: "projects"}
	Tenders         = Collection{Name: "tenders", BlobKey: "tenders", Table: "tenders", OrderField: "closingDate", OrderColumn: "closing_date"}
	Meetings        = Collection{Name: "meetings", BlobKey: "meetings", Table: "meetings", OrderField: "date", OrderColumn: "date"}
	Officials       = Collection{Name: "officials", BlobKey: "officials", Table: "officials"}
	Taxes           = Collection{Name: "taxes", BlobKey: "taxes", Table: "taxes"}
	Gallery         = Collection{Name: "gallery", BlobKey: "gallery", Table: "gallery"}
	Settings        = Collection{Name: "settings", BlobKey: "settings", Table: "site_settings"}
	RoleAssignments = Collection{Name: "roles", BlobKey: "roles", Table: "role_assignments"}
)

// All returns one zero value of every persisted entity, in migration order.
func All() []any {
	return []any{
		&BlogPost{},
		&Notice{},
		&Scheme{},
		&Service{},
		&Project{},
		&Tender{},
		&Meeting{},
		&Official{},
		&TaxRecord{},
		&GalleryItem{},
		&SiteSettings{},
		&RoleAssignment{},
	}
}

// Today formats now as a record date.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewMissingRequiredFieldError(field)
	}
	return nil
}

func oneOf[S ~string](field string, value S, allowed ...S) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return errs.NewInvalidFieldError(field, "must be one of "+strings.Join(names, ", "))
}

// dateField accepts an empty value; pair it with required for mandatory dates.
func dateField(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		return errs.NewInvalidFieldError(field, "expected YYYY-MM-DD")
	}
	return nil
}

func firstError(checks ...error) error {
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}
