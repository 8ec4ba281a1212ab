package api

import (
	"github.com/chikhali-gp/portal/backend/auth"
	"github.com/chikhali-gp/portal/backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	blogPosts  collectionHandler[models.BlogPost, *models.BlogPost]
	notices    collectionHandler[models.Notice, *models.Notice]
	schemes    collectionHandler[models.Scheme, *models.Scheme]
	services   collectionHandler[models.Service, *models.Service]
	projects   collectionHandler[models.Project, *models.Project]
	tenders    collectionHandler[models.Tender, *models.Tender]
	meetings   collectionHandler[models.Meeting, *models.Meeting]
	officials  collectionHandler[models.Official, *models.Official]
	taxes      collectionHandler[models.TaxRecord, *models.TaxRecord]
	gallery    collectionHandler[models.GalleryItem, *models.GalleryItem]
	roles      collectionHandler[models.RoleAssignment, *models.RoleAssignment]
	blogMedia  blogMediaHandler
	tenderApps tenderApplicantHandler
	taxTools   taxHandler
	settings   settingsHandler
	uploads    uploadHandler
	auth       authHandler
	dashboard  dashboardHandler
	contact    contactHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// SessionResponse describes who is signed in
type SessionResponse struct {
	Loading bool       `json:"loading"`
	User    *auth.User `json:"user"`
	IsAdmin bool       `json:"isAdmin"`
	Token   string     `json:"token,omitempty"`
}

// BatchUploadResponse lists the objects stored before a batch stopped
type BatchUploadResponse struct {
	URLs  []string `json:"urls"`
	Error string   `json:"error,omitempty"`
}

// UploadResponse is the URL of one stored object
type UploadResponse struct {
	URL string `json:"url"`
}

// DashboardCounts summarises the admin overview
type DashboardCounts struct {
	Posts          int `json:"posts"`
	PublishedPosts int `json:"publishedPosts"`
	Schemes        int `json:"schemes"`
	Notices        int `json:"notices"`
	Officials      int `json:"officials"`
	Tenders        int `json:"tenders"`
	PendingTaxes   int `json:"pendingTaxes"`
}
