package api

import (
	"net/http"

	"github.com/chikhali-gp/portal/backend/database"
	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/chikhali-gp/portal/backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type tenderApplicantHandler struct {
	responder  Responder
	logger     zerolog.Logger
	tenderRepo *database.TenderRepo
}

func newTenderApplicantHandler(tenderRepo *database.TenderRepo) tenderApplicantHandler {
	logger := log.With().Str("handlerName", "tenderApplicantHandler").Logger()

	return tenderApplicantHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		tenderRepo: tenderRepo,
	}
}

type applicantRequest struct {
	Name string `json:"name"`
}

func (h tenderApplicantHandler) addApplicant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenderID := chi.URLParam(r, "id")
		var req applicantRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		applicant, err := h.tenderRepo.AddApplicant(r.Context(), tenderID, req.Name)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("add applicant to", models.Tenders.Name, err))
			return
		}
		if applicant == nil {
			h.responder.WriteError(w, errs.NewNotFound(models.Tenders.Name))
			return
		}

		h.logger.Info().Str("tenderID", tenderID).Str("applicantID", applicant.ID).Msg("Added applicant")
		h.responder.WriteJSONStatus(w, http.StatusCreated, applicant)
	}
}

func (h tenderApplicantHandler) removeApplicant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenderID := chi.URLParam(r, "id")
		applicantID := chi.URLParam(r, "applicantID")

		removed, err := h.tenderRepo.RemoveApplicant(r.Context(), tenderID, applicantID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("remove applicant from", models.Tenders.Name, err))
			return
		}
		if !removed {
			h.responder.WriteError(w, errs.NewNotFound("applicant"))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
