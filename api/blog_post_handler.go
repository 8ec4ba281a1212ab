package api

import (
	"context"
	"net/http"

	"github.com/chikhali-gp/portal/backend/database"
	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/chikhali-gp/portal/backend/models"
	"github.com/chikhali-gp/portal/backend/storage"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// blogPostOptions hides drafts from the public site, keeps the two video
// sources exclusive and allows only draft to published.
func blogPostOptions() collectionOptions[models.BlogPost] {
	return collectionOptions[models.BlogPost]{
		visible:   (*models.BlogPost).Published,
		normalize: models.NormalizeVideo,
		check: func(current, next *models.BlogPost) error {
			return current.CheckTransition(next)
		},
		filter: func(r *http.Request, p *models.BlogPost) bool {
			category := r.URL.Query().Get("category")
			return category == "" || p.Category == category
		},
	}
}

type blogMediaHandler struct {
	responder    Responder
	logger       zerolog.Logger
	blogPostRepo database.Repo[models.BlogPost]
	uploader     *storage.Uploader
}

func newBlogMediaHandler(blogPostRepo database.Repo[models.BlogPost], uploader *storage.Uploader) blogMediaHandler {
	logger := log.With().Str("handlerName", "blogMediaHandler").Logger()

	return blogMediaHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		blogPostRepo: blogPostRepo,
		uploader:     uploader,
	}
}

func (h blogMediaHandler) findPost(ctx context.Context, id string) (*models.BlogPost, error) {
	post, err := h.blogPostRepo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapDatabaseError("find", models.BlogPosts.Name, err)
	}
	if post == nil {
		return nil, errs.NewNotFound(models.BlogPosts.Name)
	}
	return post, nil
}

// replaceSingle uploads one file, points field at it and drops the object it replaced.
func (h blogMediaHandler) replaceSingle(w http.ResponseWriter, r *http.Request, prefix string, kind storage.Kind, patchFor func(url string) models.Patch, previous func(*models.BlogPost) string) {
	id := chi.URLParam(r, "id")
	files, done, err := formFiles(w, r, h.uploader.Limits(), "file")
	defer done()
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}
	post, err := h.findPost(r.Context(), id)
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}

	f := files[0]
	url, err := h.uploader.Upload(r.Context(), prefix, kind, f, progressLogger(h.logger, f.Name))
	if err != nil {
		h.responder.WriteError(w, err)
		return
	}
	updated, err := h.blogPostRepo.Update(r.Context(), id, patchFor(url))
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("update", models.BlogPosts.Name, err))
		return
	}
	if updated == nil {
		h.responder.WriteError(w, errs.NewNotFound(models.BlogPosts.Name))
		return
	}

	if old := previous(post); old != "" && old != url {
		if err := h.uploader.Remove(r.Context(), old); err != nil {
			h.logger.Warn().Err(err).Str("url", old).Msg("Could not remove replaced object")
		}
	}
	h.responder.WriteJSON(w, updated)
}

// uploadThumbnail sets the post's thumbnail image
func (h blogMediaHandler) uploadThumbnail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.replaceSingle(w, r, prefixThumbnails, storage.Image,
			func(url string) models.Patch { return models.Patch{"thumbnail": url} },
			func(p *models.BlogPost) string { return p.Thumbnail },
		)
	}
}

// uploadVideo sets an uploaded video, clearing any YouTube link
func (h blogMediaHandler) uploadVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.replaceSingle(w, r, prefixVideos, storage.Video,
			func(url string) models.Patch { return models.Patch{"videoUrl": url, "youtubeUrl": ""} },
			func(p *models.BlogPost) string { return p.VideoURL },
		)
	}
}

// uploadImages appends up to six gallery images to the post, saving the post
// after each one.
func (h blogMediaHandler) uploadImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		files, done, err := formFiles(w, r, h.uploader.Limits(), "files")
		defer done()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if len(files) > storage.MaxBlogImages {
			h.responder.WriteError(w, errs.NewInvalidFieldError("files", "at most 6 images per upload"))
			return
		}
		post, err := h.findPost(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		images := append([]string{}, post.Images...)
		urls, err := h.uploader.UploadBatch(r.Context(), prefixImages, storage.Image, files, func(url string) error {
			images = append(images, url)
			updated, err := h.blogPostRepo.Update(r.Context(), id, models.Patch{"images": images})
			if err != nil {
				return wrapDatabaseError("update", models.BlogPosts.Name, err)
			}
			if updated == nil {
				return errs.NewNotFound(models.BlogPosts.Name)
			}
			return nil
		})
		if err != nil {
			h.logger.Warn().Err(err).Str("postID", id).Int("stored", len(urls)).Msg("Blog image upload stopped")
		}
		writeBatch(h.responder, w, urls, err)
	}
}
