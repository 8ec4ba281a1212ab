package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/chikhali-gp/portal/backend/errs"
)

// DiskRoute is where the API serves files of a DiskStore.
const DiskRoute = "/uploads"

// DiskStore writes objects below a local directory.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *DiskStore) Upload(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string, progress ProgressFunc) (string, error) {
	target := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, newProgressReader(body, size, progress)); err != nil {
		os.Remove(target)
		return "", err
	}
	return s.baseURL + "/" + key, nil
}

func (s *DiskStore) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || strings.Contains(key, "..") {
		return errs.NewForeignObjectError(url)
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Handler serves the stored files; mount it at DiskRoute.
func (s *DiskStore) Handler() http.Handler {
	return http.StripPrefix(DiskRoute+"/", http.FileServer(http.Dir(s.dir)))
}
