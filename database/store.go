package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/chikhali-gp/portal/backend/models"
	"github.com/google/uuid"
)

// Repo is the record contract every backing store implements.
type Repo[T any] interface {
	// FindAll returns every record, newest first for collections with a display order.
	FindAll(ctx context.Context) ([]T, error)
	// FindByID returns nil, nil when no record has the id.
	FindByID(ctx context.Context, id string) (*T, error)
	// Add assigns an id when missing, stamps timestamps, applies defaults and persists.
	Add(ctx context.Context, record T) (*T, error)
	// Update shallow-merges patch into the stored record. It returns nil, nil
	// when no record has the id.
	Update(ctx context.Context, id string, patch models.Patch) (*T, error)
	// Delete reports whether a record was removed.
	Delete(ctx context.Context, id string) (bool, error)
}

// Backend is one of the interchangeable backing stores.
type Backend interface {
	Kind() string
	Close() error
	backend()
}

const (
	KindBlob      = "blob"
	KindFirestore = "firestore"
	KindGorm      = "gorm"
)

// now is the clock every backend stamps records with.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// NewRepo returns the Repo for record type T on backend b.
func NewRepo[T any, PT models.Record[T]](b Backend) Repo[T] {
	coll := PT(new(T)).Collection()
	switch s := b.(type) {
	case *BlobStore:
		return &blobRepo[T, PT]{store: s, coll: coll}
	case *FirestoreStore:
		return &firestoreRepo[T, PT]{coll: s.client.Collection(coll.Name), order: coll.OrderField}
	case *GormStore:
		return &gormRepo[T, PT]{db: s.db, order: coll.OrderColumn}
	}
	panic(fmt.Sprintf("database: no repo for backend %T", b))
}

// prepareNew readies a record for its first save.
func prepareNew[T any, PT models.Record[T]](record *T, newID func() string) error {
	p := PT(record)
	meta := p.Metadata()
	if meta.ID == "" {
		meta.ID = newID()
	}
	t := now()
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = t
	}
	meta.UpdatedAt = t
	p.ApplyDefaults(t)
	return p.Validate()
}

// applyPatch merges patch into a stored record and revalidates it.
func applyPatch[T any, PT models.Record[T]](record *T, patch models.Patch) error {
	if err := models.Merge(record, patch); err != nil {
		return err
	}
	p := PT(record)
	p.Metadata().UpdatedAt = now()
	return p.Validate()
}

func sortForDisplay[T any, PT models.Record[T]](records []T) {
	if PT(new(T)).Collection().OrderField == "" {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		return PT(&records[i]).SortKey() > PT(&records[j]).SortKey()
	})
}

func newUUID() string {
	return uuid.NewString()
}
