package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/chikhali-gp/portal/backend/database"
	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/chikhali-gp/portal/backend/models"
	"github.com/chikhali-gp/portal/backend/storage"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type settingsHandler struct {
	responder    Responder
	logger       zerolog.Logger
	settingsRepo *database.SettingsRepo
	uploader     *storage.Uploader
}

func newSettingsHandler(settingsRepo *database.SettingsRepo, uploader *storage.Uploader) settingsHandler {
	logger := log.With().Str("handlerName", "settingsHandler").Logger()

	return settingsHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		settingsRepo: settingsRepo,
		uploader:     uploader,
	}
}

// current returns the saved settings, or defaults when none were saved yet.
func (h settingsHandler) current(r *http.Request) (*models.SiteSettings, error) {
	settings, err := h.settingsRepo.Get(r.Context())
	if err != nil {
		return nil, wrapDatabaseError("find", models.Settings.Name, err)
	}
	if settings == nil {
		settings = &models.SiteSettings{}
		settings.ApplyDefaults(time.Now())
	}
	return settings, nil
}

func (h settingsHandler) getSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := h.current(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, settings)
	}
}

func (h settingsHandler) saveSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patch, err := decodePatch(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		saved, err := h.settingsRepo.Save(r.Context(), patch)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("save", models.Settings.Name, err))
			return
		}
		h.responder.WriteJSON(w, saved)
	}
}

// uploadLogo replaces the site logo
func (h settingsHandler) uploadLogo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, done, err := formFiles(w, r, h.uploader.Limits(), "file")
		defer done()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		previous, err := h.current(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		f := files[0]
		url, err := h.uploader.Upload(r.Context(), prefixSettings, storage.Image, f, progressLogger(h.logger, f.Name))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		saved, err := h.settingsRepo.Save(r.Context(), models.Patch{"logo": url})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("save", models.Settings.Name, err))
			return
		}
		if previous.Logo != "" && previous.Logo != url {
			if err := h.uploader.Remove(r.Context(), previous.Logo); err != nil {
				h.logger.Warn().Err(err).Str("url", previous.Logo).Msg("Could not remove old logo")
			}
		}
		h.responder.WriteJSON(w, saved)
	}
}

// addSliderImages appends home slider images one at a time, saving after each.
func (h settingsHandler) addSliderImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, done, err := formFiles(w, r, h.uploader.Limits(), "files")
		defer done()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		settings, err := h.current(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		slider := append([]string{}, settings.SliderImages...)
		urls, err := h.uploader.UploadBatch(r.Context(), prefixSettings, storage.Image, files, func(url string) error {
			slider = append(slider, url)
			if _, err := h.settingsRepo.Save(r.Context(), models.Patch{"sliderImages": slider}); err != nil {
				return wrapDatabaseError("save", models.Settings.Name, err)
			}
			return nil
		})
		if err != nil {
			h.logger.Warn().Err(err).Int("stored", len(urls)).Msg("Slider upload stopped")
		}
		writeBatch(h.responder, w, urls, err)
	}
}

// removeSliderImage drops the slider image at a position
func (h settingsHandler) removeSliderImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("index", "not a number"))
			return
		}
		settings, err := h.current(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if index < 0 || index >= len(settings.SliderImages) {
			h.responder.WriteError(w, errs.NewNotFound("slider image"))
			return
		}

		removed := settings.SliderImages[index]
		slider := make([]string, 0, len(settings.SliderImages)-1)
		slider = append(slider, settings.SliderImages[:index]...)
		slider = append(slider, settings.SliderImages[index+1:]...)

		saved, err := h.settingsRepo.Save(r.Context(), models.Patch{"sliderImages": slider})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("save", models.Settings.Name, err))
			return
		}
		if err := h.uploader.Remove(r.Context(), removed); err != nil {
			h.logger.Warn().Err(err).Str("url", removed).Msg("Could not remove slider image")
		}
		h.responder.WriteJSON(w, saved)
	}
}
