package api

import (
	"net/http"

	"github.com/chikhali-gp/portal/backend/database"
	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/chikhali-gp/portal/backend/models"
	"github.com/chikhali-gp/portal/backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contactHandler struct {
	responder    Responder
	logger       zerolog.Logger
	settingsRepo *database.SettingsRepo
	mailer       *services.Mailer
}

func newContactHandler(settingsRepo *database.SettingsRepo, mailer *services.Mailer) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		settingsRepo: settingsRepo,
		mailer:       mailer,
	}
}

// sendEnquiry emails a contact form submission to the office
func (h contactHandler) sendEnquiry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var enquiry services.ContactEnquiry
		if err := decodeJSON(w, r, &enquiry); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := enquiry.Validate(); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if h.mailer == nil {
			h.responder.WriteError(w, errs.NewServiceNotConfiguredError("email"))
			return
		}

		settings, err := h.settingsRepo.Get(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", models.Settings.Name, err))
			return
		}
		officeEmail := ""
		if settings != nil {
			officeEmail = settings.Contact.Email
		}
		if err := h.mailer.SendEnquiry(officeEmail, enquiry); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusAccepted, map[string]string{"status": "sent"})
	}
}
