package api

import (
	"net/http"
	"strings"

	"github.com/chikhali-gp/portal/backend/database"
	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/chikhali-gp/portal/backend/models"
	"github.com/chikhali-gp/portal/backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func taxOptions() collectionOptions[models.TaxRecord] {
	return collectionOptions[models.TaxRecord]{
		view: func(t models.TaxRecord) any { return models.ViewTax(t) },
		filter: func(r *http.Request, t *models.TaxRecord) bool {
			status := r.URL.Query().Get("status")
			return status == "" || string(t.Status) == status
		},
	}
}

type taxHandler struct {
	responder Responder
	logger    zerolog.Logger
	taxRepo   *database.TaxRecordRepo
	reminders *services.TaxReminders
}

func newTaxHandler(taxRepo *database.TaxRecordRepo, reminders *services.TaxReminders) taxHandler {
	logger := log.With().Str("handlerName", "taxHandler").Logger()

	return taxHandler{
		responder: NewResponder(logger),
		logger:    logger,
		taxRepo:   taxRepo,
		reminders: reminders,
	}
}

// search finds tax records by owner name or house number
func (h taxHandler) search() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("q"))
			return
		}

		matches, err := h.taxRepo.Search(r.Context(), query)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("search", models.Taxes.Name, err))
			return
		}
		views := make([]models.TaxView, 0, len(matches))
		for _, t := range matches {
			views = append(views, models.ViewTax(t))
		}
		h.responder.WriteJSON(w, views)
	}
}

// sendReminders texts the owners of every pending record
func (h taxHandler) sendReminders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.reminders == nil {
			h.responder.WriteError(w, errs.NewServiceNotConfiguredError("sms"))
			return
		}

		report, err := h.reminders.SendTaxReminders(r.Context(), h.taxRepo)
		switch {
		case errs.IsPartialFailureError(err):
			h.responder.WriteJSONStatus(w, http.StatusMultiStatus, report)
		case err != nil:
			h.responder.WriteError(w, wrapDatabaseError("list pending", models.Taxes.Name, err))
		default:
			h.responder.WriteJSON(w, report)
		}
	}
}
