package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/chikhali-gp/portal/backend/database"
	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/chikhali-gp/portal/backend/models"
	"github.com/chikhali-gp/portal/backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temp files.
const multipartMemory = 32 << 20

// Object key prefixes
const (
	prefixThumbnails = "thumbnails"
	prefixImages     = "images"
	prefixVideos     = "videos"
	prefixGallery    = "gallery"
	prefixSettings   = "settings"
)

// uploadPrefixes are the folders a client may name on the generic upload route
var uploadPrefixes = map[string]bool{
	prefixThumbnails: true,
	prefixImages:     true,
	prefixVideos:     true,
	prefixGallery:    true,
	prefixSettings:   true,
	"notices":        true,
	"meetings":       true,
	"officials":      true,
	"projects":       true,
	"documents":      true,
}

// formFiles parses a multipart request and opens every part under field.
// The caller closes the returned files.
func formFiles(w http.ResponseWriter, r *http.Request, limits storage.Limits, field string) ([]storage.File, func(), error) {
	maxBody := limits.MaxVideoBytes
	if limits.MaxImageBytes > maxBody {
		maxBody = limits.MaxImageBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBody+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, func() {}, errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return nil, func() {}, errs.NewMalformedPayloadError("multipart", err)
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, func() {}, errs.NewMissingRequiredFieldError(field)
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
		r.MultipartForm.RemoveAll()
	}
	files := make([]storage.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, errs.NewMalformedPayloadError("multipart", err)
		}
		opened = append(opened, f)
		files = append(files, storage.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return files, closeAll, nil
}

// progressLogger logs an upload at every quarter it completes.
func progressLogger(l zerolog.Logger, name string) storage.ProgressFunc {
	next := 25
	return func(percent int) {
		for percent >= next && next <= 100 {
			l.Debug().Str("file", name).Int("percent", next).Msg("Upload progress")
			next += 25
		}
	}
}

// writeBatch reports a sequential upload batch. A batch that stopped part way
// answers 207 with the URLs already saved.
func writeBatch(responder Responder, w http.ResponseWriter, urls []string, err error) {
	if err != nil && len(urls) == 0 {
		responder.WriteError(w, err)
		return
	}
	if err != nil {
		responder.WriteJSONStatus(w, http.StatusMultiStatus, BatchUploadResponse{URLs: urls, Error: err.Error()})
		return
	}
	responder.WriteJSONStatus(w, http.StatusCreated, BatchUploadResponse{URLs: urls})
}

type uploadHandler struct {
	responder   Responder
	logger      zerolog.Logger
	uploader    *storage.Uploader
	galleryRepo database.Repo[models.GalleryItem]
}

func newUploadHandler(uploader *storage.Uploader, galleryRepo database.Repo[models.GalleryItem]) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		uploader:    uploader,
		galleryRepo: galleryRepo,
	}
}

// uploadFile stores one file under the prefix named in the form and returns its URL.
// Videos are accepted only under the videos prefix.
func (h uploadHandler) uploadFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, done, err := formFiles(w, r, h.uploader.Limits(), "file")
		defer done()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		prefix := strings.Trim(r.FormValue("prefix"), "/")
		if !uploadPrefixes[prefix] {
			h.responder.WriteError(w, errs.NewInvalidFieldError("prefix", "unknown upload folder"))
			return
		}
		kind := storage.Image
		if prefix == prefixVideos {
			kind = storage.Video
		}

		f := files[0]
		url, err := h.uploader.Upload(r.Context(), prefix, kind, f, progressLogger(h.logger, f.Name))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, UploadResponse{URL: url})
	}
}

// uploadGallery stores each image and adds it to the gallery before
// starting the next.
func (h uploadHandler) uploadGallery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, done, err := formFiles(w, r, h.uploader.Limits(), "files")
		defer done()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		urls, err := h.uploader.UploadBatch(r.Context(), prefixGallery, storage.Image, files, func(url string) error {
			if _, err := h.galleryRepo.Add(r.Context(), models.GalleryItem{Image: url}); err != nil {
				return wrapDatabaseError("create", models.Gallery.Name, err)
			}
			return nil
		})
		if err != nil {
			h.logger.Warn().Err(err).Int("stored", len(urls)).Int("requested", len(files)).Msg("Gallery upload stopped")
		}
		writeBatch(h.responder, w, urls, err)
	}
}
