package database

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/chikhali-gp/portal/backend/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore keeps each collection in a Firestore collection of the same
// name, keyed by record id.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects with application default credentials, or to the
// emulator when FIRESTORE_EMULATOR_HOST is set.
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Kind() string { return KindFirestore }
func (s *FirestoreStore) Close() error { return s.client.Close() }
func (s *FirestoreStore) backend() {}

type firestoreRepo[T any, PT models.Record[T]] struct {
	coll  *firestore.CollectionRef
	order string
}

// toDocument drops the id, which lives in the document key.
func toDocument(record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	delete(data, "id")
	return data, nil
}

func fromSnapshot[T any](snap *firestore.DocumentSnapshot) (*T, error) {
	data := snap.Data()
	data["id"] = snap.Ref.ID
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var record T
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode %s: %w", snap.Ref.Path, err)
	}
	return &record, nil
}

func (r *firestoreRepo[T, PT]) FindAll(ctx context.Context) ([]T, error) {
	q := r.coll.OrderBy("createdAt", firestore.Asc)
	if r.order != "" {
		q = r.coll.OrderBy(r.order, firestore.Desc)
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	records := make([]T, 0, len(snaps))
	for _, snap := range snaps {
		record, err := fromSnapshot[T](snap)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

func (r *firestoreRepo[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, nil
	}
	snap, err := r.coll.Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fromSnapshot[T](snap)
}

func (r *firestoreRepo[T, PT]) Add(ctx context.Context, record T) (*T, error) {
	ref := r.coll.NewDoc()
	if id := PT(&record).Metadata().ID; id != "" {
		ref = r.coll.Doc(id)
	}
	if err := prepareNew[T, PT](&record, func() string { return ref.ID }); err != nil {
		return nil, err
	}
	data, err := toDocument(&record)
	if err != nil {
		return nil, err
	}
	if _, err := ref.Set(ctx, data); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *firestoreRepo[T, PT]) Update(ctx context.Context, id string, patch models.Patch) (*T, error) {
	record, err := r.FindByID(ctx, id)
	if err != nil || record == nil {
		return nil, err
	}
	if err := applyPatch[T, PT](record, patch); err != nil {
		return nil, err
	}
	data, err := toDocument(record)
	if err != nil {
		return nil, err
	}
	if _, err := r.coll.Doc(id).Set(ctx, data); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *firestoreRepo[T, PT]) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	_, err := r.coll.Doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
