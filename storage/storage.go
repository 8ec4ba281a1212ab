package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/chikhali-gp/portal/backend/config"
	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/google/uuid"
)

// ProgressFunc receives the percentage of an upload sent so far.
type ProgressFunc func(percent int)

// ObjectStore holds uploaded media and hands back a public URL for each object.
type ObjectStore interface {
	Upload(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string, progress ProgressFunc) (string, error)
	Delete(ctx context.Context, url string) error
}

// Open picks S3 when S3_BUCKET is set and the local disk otherwise.
func Open(ctx context.Context, cfg map[string]string) (ObjectStore, error) {
	if config.GetString(cfg, "S3_BUCKET", "") != "" {
		return NewS3Store(ctx, cfg)
	}
	return NewDiskStore(
		config.GetString(cfg, "UPLOAD_DIR", "uploads"),
		strings.TrimSuffix(config.GetString(cfg, "PUBLIC_BASE_URL", ""), "/")+DiskRoute,
	)
}

var whitespace = regexp.MustCompile(`\s+`)

// ObjectKey names an upload as prefix/<unix millis>_<tag>_<file name>, with runs
// of whitespace in the name replaced by underscores. tag is eight random hex
// digits so same-named files stored in one millisecond get distinct keys.
func ObjectKey(prefix, name string, at time.Time) (string, error) {
	prefix = strings.Trim(path.Clean("/"+strings.TrimSpace(prefix)), "/")
	if prefix == "" {
		return "", errs.NewMissingRequiredFieldError("prefix")
	}
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "" || name == "." || name == "/" {
		return "", errs.NewMissingRequiredFieldError("file")
	}
	tag := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s/%d_%s_%s", prefix, at.UnixMilli(), tag, whitespace.ReplaceAllString(name, "_")), nil
}

// progressReader reports progress as the store reads the body. Seeks are
// passed through so signing and retries can rewind.
type progressReader struct {
	r        io.ReadSeeker
	size     int64
	read     int64
	reported int
	fn       ProgressFunc
}

func newProgressReader(r io.ReadSeeker, size int64, fn ProgressFunc) io.ReadSeeker {
	if fn == nil || size <= 0 {
		return r
	}
	return &progressReader{r: r, size: size, reported: -1, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if pct := int(p.read * 100 / p.size); pct != p.reported && pct <= 100 {
		p.reported = pct
		p.fn(pct)
	}
	return n, err
}

func (p *progressReader) Seek(offset int64, whence int) (int64, error) {
	pos, err := p.r.Seek(offset, whence)
	if err == nil {
		p.read = pos
	}
	return pos, err
}
