package models

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestColumnMismatchReport(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(All()...); err != nil {
		t.Fatal(err)
	}

	n, err := GenerateColumnMismatchReport(db, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("fresh schema reported %d mismatched columns", n)
	}

	if err := db.Exec("ALTER TABLE officials ADD COLUMN legacy_ward text").Error; err != nil {
		t.Fatal(err)
	}
	n, err = GenerateColumnMismatchReport(db, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("mismatched = %d, want 1", n)
	}
}

func TestFindColumnMismatches(t *testing.T) {
	got := findColumnMismatches([]string{"id", "zeta", "name", "alpha"}, []string{"id", "name"})
	if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
		t.Fatalf("findColumnMismatches() = %v", got)
	}
}
