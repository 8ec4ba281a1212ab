package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/chikhali-gp/portal/backend/config"
	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/rs/zerolog/log"
)

type Kind string

const (
	Image Kind = "image"
	Video Kind = "video"
)

// MaxBlogImages caps the gallery images attached to a post in one request.
const MaxBlogImages = 6

// File is one upload received from a client.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

type Limits struct {
	MaxImageBytes int64
	MaxVideoBytes int64
}

func LimitsFromConfig(cfg map[string]string) Limits {
	return Limits{
		MaxImageBytes: int64(config.GetInt(cfg, "MAX_IMAGE_MB", 10)) << 20,
		MaxVideoBytes: int64(config.GetInt(cfg, "MAX_VIDEO_MB", 1000)) << 20,
	}
}

// Check enforces the media type and size allowed for kind.
func (l Limits) Check(kind Kind, f File) error {
	if !strings.HasPrefix(f.ContentType, string(kind)+"/") {
		return errs.NewUnsupportedMediaTypeError(f.ContentType, []string{string(kind) + "/*"})
	}
	max := l.MaxImageBytes
	if kind == Video {
		max = l.MaxVideoBytes
	}
	if max > 0 && f.Size > max {
		return errs.NewMaxBodySizeExceededError(max)
	}
	return nil
}

// Uploader validates files and stores them under generated keys.
type Uploader struct {
	store  ObjectStore
	limits Limits
	now    func() time.Time
}

func NewUploader(store ObjectStore, limits Limits) *Uploader {
	return &Uploader{store: store, limits: limits, now: time.Now}
}

func (u *Uploader) Store() ObjectStore {
	return u.store
}

func (u *Uploader) Limits() Limits {
	return u.limits
}

// Upload stores a single file under prefix and returns its URL.
func (u *Uploader) Upload(ctx context.Context, prefix string, kind Kind, f File, progress ProgressFunc) (string, error) {
	if err := u.limits.Check(kind, f); err != nil {
		return "", err
	}
	key, err := ObjectKey(prefix, f.Name, u.now())
	if err != nil {
		return "", err
	}
	url, err := u.store.Upload(ctx, key, f.Body, f.Size, f.ContentType, progress)
	if err != nil {
		var apiErr *errs.ApiErr
		if errors.As(err, &apiErr) {
			return "", err
		}
		return "", errs.NewUploadFailedError(key, err)
	}
	log.Debug().Str("component", "uploader").Str("key", key).Int64("size", f.Size).Msg("Stored object")
	return url, nil
}

// UploadBatch uploads files one at a time in order and hands each URL to
// persist before starting the next. On the first failure it stops and returns
// the URLs already persisted together with the error; nothing is rolled back.
func (u *Uploader) UploadBatch(ctx context.Context, prefix string, kind Kind, files []File, persist func(url string) error) ([]string, error) {
	done := make([]string, 0, len(files))
	for _, f := range files {
		url, err := u.Upload(ctx, prefix, kind, f, nil)
		if err != nil {
			return done, err
		}
		if err := persist(url); err != nil {
			return done, err
		}
		done = append(done, url)
	}
	return done, nil
}

// Remove deletes an object, logging rather than failing when the URL is not
// one this store issued.
func (u *Uploader) Remove(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	err := u.store.Delete(ctx, url)
	if errs.IsForeignObjectError(err) {
		log.Debug().Str("component", "uploader").Str("url", url).Msg("Skipping delete of external object")
		return nil
	}
	return err
}
