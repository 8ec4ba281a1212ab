package models

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Column Mismatch Report Usage:

GenerateModels migrates every record table, writes typed query helpers to
./generated and then reports database columns that no model field maps to.

To run it:

1. Set DB_TYPE to a relational backend (postgres, supa or sqlite)
2. Set the environment variable: GENERATE_MODELS=true
3. Start the server

Example output:
{"level":"warn","table":"officials","columns":["legacy_ward"],"message":"columns not accounted for in model"}
{"level":"info","mismatched":1,"message":"column mismatch report complete"}
*/

func GenerateModels(db *gorm.DB, l zerolog.Logger) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	// Set up verbose logging for migration
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	migrateDB := db.Session(&gorm.Session{
		Logger:                 newLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(migrateDB)
	g.ApplyBasic(All()...)

	l.Info().Msg("migrating models")
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}

	if _, err := GenerateColumnMismatchReport(db, l); err != nil {
		return err
	}

	g.Execute()
	l.Info().Msg("model generation complete")
	return nil
}

// GenerateColumnMismatchReport logs, per table, the columns present in the
// database that no field of the model maps to, and returns their total.
func GenerateColumnMismatchReport(db *gorm.DB, l zerolog.Logger) (int, error) {
	total := 0
	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return total, fmt.Errorf("error parsing model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		dbColumns, err := getTableColumns(db, model)
		if err != nil {
			l.Error().Err(err).Str("table", table).Msg("could not read columns")
			continue
		}

		mismatches := findColumnMismatches(dbColumns, stmt.Schema.DBNames)
		if len(mismatches) > 0 {
			l.Warn().Str("table", table).Strs("columns", mismatches).Msg("columns not accounted for in model")
			total += len(mismatches)
		} else {
			l.Debug().Str("table", table).Msg("all columns are accounted for in the model")
		}
	}

	l.Info().Int("mismatched", total).Msg("column mismatch report complete")
	return total, nil
}

// getTableColumns retrieves column names of the model's table
func getTableColumns(db *gorm.DB, model any) ([]string, error) {
	if !db.Migrator().HasTable(model) {
		return nil, fmt.Errorf("table for %T does not exist", model)
	}
	types, err := db.Migrator().ColumnTypes(model)
	if err != nil {
		return nil, fmt.Errorf("error querying columns for %T: %w", model, err)
	}
	columns := make([]string, 0, len(types))
	for _, ct := range types {
		columns = append(columns, ct.Name())
	}
	return columns, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	sort.Strings(mismatches)
	return mismatches
}
