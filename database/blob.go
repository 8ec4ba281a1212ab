package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/chikhali-gp/portal/backend/models"
	"github.com/rs/zerolog/log"
)

// DefaultBlobQuota matches the usual browser local-storage limit.
const DefaultBlobQuota = 5 << 20

// BlobStore keeps every collection as a field of one JSON document on disk.
// The read-modify-write cycle of every operation runs under one mutex.
type BlobStore struct {
	path  string
	quota int

	mu sync.Mutex
}

func NewBlobStore(dir, key string, quota int) (*BlobStore, error) {
	if key == "" {
		return nil, errs.NewEnvironmentVariableError("BLOB_KEY")
	}
	if quota <= 0 {
		quota = DefaultBlobQuota
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &BlobStore{path: filepath.Join(dir, key+".json"), quota: quota}, nil
}

func (s *BlobStore) Kind() string { return KindBlob }
func (s *BlobStore) Close() error { return nil }
func (s *BlobStore) backend() {}

// Path is the file holding the document.
func (s *BlobStore) Path() string { return s.path }

// load reads the document, substituting the seed when the file is missing or
// does not parse. Callers hold s.mu.
func (s *BlobStore) load() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(s.path)
	if err == nil {
		doc := map[string]json.RawMessage{}
		if err = json.Unmarshal(raw, &doc); err == nil {
			return doc, nil
		}
		log.Warn().Err(err).Str("component", "blob").Str("path", s.path).Msg("Unreadable blob document, using seed data")
	} else if !os.IsNotExist(err) {
		log.Warn().Err(err).Str("component", "blob").Str("path", s.path).Msg("Could not read blob document, using seed data")
	}
	return models.Seed().Document()
}

// save writes the whole document, or nothing when it would exceed the quota.
// Callers hold s.mu.
func (s *BlobStore) save(doc map[string]json.RawMessage) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode blob document: %w", err)
	}
	if len(raw) > s.quota {
		return errs.NewStorageQuotaFullError("save", len(raw), s.quota)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp blob: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

type blobRepo[T any, PT models.Record[T]] struct {
	store *BlobStore
	coll  models.Collection
}

func (r *blobRepo[T, PT]) read(doc map[string]json.RawMessage) ([]T, error) {
	raw, ok := doc[r.coll.BlobKey]
	if !ok || string(raw) == "null" {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errs.NewDatabaseCorruptionError("read "+r.coll.BlobKey, err)
	}
	return records, nil
}

func (r *blobRepo[T, PT]) write(doc map[string]json.RawMessage, records []T) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.coll.BlobKey, err)
	}
	doc[r.coll.BlobKey] = raw
	return r.store.save(doc)
}

// open loads the document and this repo's records. Callers hold the lock.
func (r *blobRepo[T, PT]) open() (map[string]json.RawMessage, []T, error) {
	doc, err := r.store.load()
	if err != nil {
		return nil, nil, err
	}
	records, err := r.read(doc)
	if err != nil {
		return nil, nil, err
	}
	return doc, records, nil
}

func (r *blobRepo[T, PT]) indexOf(records []T, id string) int {
	for i := range records {
		if PT(&records[i]).Metadata().ID == id {
			return i
		}
	}
	return -1
}

func (r *blobRepo[T, PT]) FindAll(ctx context.Context) ([]T, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, records, err := r.open()
	if err != nil {
		return nil, err
	}
	sortForDisplay[T, PT](records)
	return records, nil
}

func (r *blobRepo[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, records, err := r.open()
	if err != nil {
		return nil, err
	}
	if i := r.indexOf(records, id); i >= 0 {
		return &records[i], nil
	}
	return nil, nil
}

func (r *blobRepo[T, PT]) Add(ctx context.Context, record T) (*T, error) {
	if err := prepareNew[T, PT](&record, newUUID); err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doc, records, err := r.open()
	if err != nil {
		return nil, err
	}
	if err := r.write(doc, append(records, record)); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *blobRepo[T, PT]) Update(ctx context.Context, id string, patch models.Patch) (*T, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doc, records, err := r.open()
	if err != nil {
		return nil, err
	}
	i := r.indexOf(records, id)
	if i < 0 {
		return nil, nil
	}
	updated := records[i]
	if err := applyPatch[T, PT](&updated, patch); err != nil {
		return nil, err
	}
	records[i] = updated
	if err := r.write(doc, records); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *blobRepo[T, PT]) Delete(ctx context.Context, id string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doc, records, err := r.open()
	if err != nil {
		return false, err
	}
	i := r.indexOf(records, id)
	if i < 0 {
		return false, nil
	}
	records = append(records[:i], records[i+1:]...)
	if err := r.write(doc, records); err != nil {
		return false, err
	}
	return true, nil
}
