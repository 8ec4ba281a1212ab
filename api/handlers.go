package api

import (
	"context"
	"net/http"

	"github.com/chikhali-gp/portal/backend/models"
	"github.com/rs/zerolog/log"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies) *routeHandlers {
	db := deps.Database

	reloadRoles := func(ctx context.Context) {
		if err := deps.Gate.ReloadRoles(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to reload roles")
		}
	}
	officialOptions := collectionOptions[models.Official]{
		filter: func(r *http.Request, o *models.Official) bool {
			category := r.URL.Query().Get("category")
			return category == "" || string(o.Category) == category
		},
	}

	return &routeHandlers{
		blogPosts:  newCollectionHandler[models.BlogPost](db.BlogPostRepo(), blogPostOptions()),
		notices:    newCollectionHandler[models.Notice](db.NoticeRepo(), collectionOptions[models.Notice]{}),
		schemes:    newCollectionHandler[models.Scheme](db.SchemeRepo(), collectionOptions[models.Scheme]{}),
		services:   newCollectionHandler[models.Service](db.ServiceRepo(), collectionOptions[models.Service]{}),
		projects:   newCollectionHandler[models.Project](db.ProjectRepo(), collectionOptions[models.Project]{}),
		tenders:    newCollectionHandler[models.Tender](db.TenderRepo().Repo, collectionOptions[models.Tender]{}),
		meetings:   newCollectionHandler[models.Meeting](db.MeetingRepo(), collectionOptions[models.Meeting]{}),
		officials:  newCollectionHandler[models.Official](db.OfficialRepo(), officialOptions),
		taxes:      newCollectionHandler[models.TaxRecord](db.TaxRecordRepo().Repo, taxOptions()),
		gallery:    newCollectionHandler[models.GalleryItem](db.GalleryRepo(), collectionOptions[models.GalleryItem]{}),
		roles:      newCollectionHandler[models.RoleAssignment](db.RoleRepo(), collectionOptions[models.RoleAssignment]{changed: reloadRoles}),
		blogMedia:  newBlogMediaHandler(db.BlogPostRepo(), deps.Uploader),
		tenderApps: newTenderApplicantHandler(db.TenderRepo()),
		taxTools:   newTaxHandler(db.TaxRecordRepo(), deps.Reminders),
		settings:   newSettingsHandler(db.SettingsRepo(), deps.Uploader),
		uploads:    newUploadHandler(deps.Uploader, db.GalleryRepo()),
		auth:       newAuthHandler(deps.Gate, deps.Config),
		dashboard:  newDashboardHandler(db),
		contact:    newContactHandler(db.SettingsRepo(), deps.Mailer),
	}
}
