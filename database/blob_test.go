package database

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/chikhali-gp/portal/backend/models"
)

func TestBlobSeedsFreshStore(t *testing.T) {
	db := New(newBlobStore(t))

	schemes, err := db.SchemeRepo().FindAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Pradhan Mantri Awas Yojana", "Swachh Bharat Mission", "Jal Jeevan Mission"}
	if len(schemes) != len(want) {
		t.Fatalf("got %d schemes, want %d", len(schemes), len(want))
	}
	for i, s := range schemes {
		if s.Title != want[i] {
			t.Errorf("scheme %d = %q, want %q", i, s.Title, want[i])
		}
	}
}

func TestBlobUnparsableDocumentFallsBackToSeed(t *testing.T) {
	store := newBlobStore(t)
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	schemes, err := New(store).SchemeRepo().FindAll(context.Background())
	if err != nil {
		t.Fatalf("parse failure should not surface, got %v", err)
	}
	if len(schemes) != 3 {
		t.Fatalf("got %d schemes, want the 3 seeded", len(schemes))
	}
}

func TestBlobPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	first, err := NewBlobStore(dir, "portal", 0)
	if err != nil {
		t.Fatal(err)
	}
	created, err := New(first).GalleryRepo().Add(context.Background(), models.GalleryItem{Image: "https://img/1.jpg"})
	if err != nil {
		t.Fatal(err)
	}

	second, err := NewBlobStore(dir, "portal", 0)
	if err != nil {
		t.Fatal(err)
	}
	got, err := New(second).GalleryRepo().FindByID(context.Background(), created.ID)
	if err != nil || got == nil || got.Image != "https://img/1.jpg" {
		t.Fatalf("FindByID() = %+v, %v", got, err)
	}
}

func TestBlobQuotaAbandonsWrite(t *testing.T) {
	ctx := context.Background()
	store, err := NewBlobStore(t.TempDir(), "portal", 16<<10)
	if err != nil {
		t.Fatal(err)
	}
	db := New(store)
	if _, err := db.GalleryRepo().Add(ctx, models.GalleryItem{Image: "https://img/small.jpg"}); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}

	huge := models.GalleryItem{Image: "data:image/png;base64," + strings.Repeat("A", 32<<10)}
	_, err = db.GalleryRepo().Add(ctx, huge)
	if !errs.IsStorageQuotaFullError(err) {
		t.Fatalf("Add() = %v, want quota error", err)
	}

	after, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Fatal("document changed after an over-quota write")
	}
}

func TestBlobCorruptCollectionIsReported(t *testing.T) {
	store := newBlobStore(t)
	if err := os.WriteFile(store.Path(), []byte(`{"schemes": {"not": "a list"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(store).SchemeRepo().FindAll(context.Background())
	if !errs.IsDatabaseCorruptionError(err) {
		t.Fatalf("FindAll() = %v, want corruption error", err)
	}

	// other collections in the same document still read
	notices, err := New(store).NoticeRepo().FindAll(context.Background())
	if err != nil || len(notices) != 0 {
		t.Fatalf("notices = %v, %v", notices, err)
	}
}
