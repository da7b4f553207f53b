package models

import (
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
)

/*
Column Mismatch Report

`column-report` lists, per table, columns present in the database that no model
field maps to. Stale columns are what AutoMigrate leaves behind after a field is
renamed or removed.

	=== COLUMN MISMATCH REPORT ===
	--- Table: skills ---
	Found 1 columns not accounted for in model:
	  - level
	--- Table: languages ---
	All columns are accounted for in the model.
	=== SUMMARY ===
	Total mismatched columns across all tables: 1
*/

// AllModels is every persisted type, in migration order.
func AllModels() []any {
	return []any{
		&Profile{},
		&Portfolio{},
		&Experience{},
		&Skill{},
		&Achievement{},
		&Certification{},
		&Language{},
		&Interest{},
		&SocialLink{},
		&ContactMessage{},
		&AnalyticsEvent{},
	}
}

// Migrate creates or alters every table.
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{SkipDefaultTransaction: true, PrepareStmt: false})
	if err := migrateDB.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	log.Info().Int("models", len(AllModels())).Msg("database migration completed")
	return nil
}

// GenerateModels migrates, prints the column report and writes typed query code to outPath.
func GenerateModels(db *gorm.DB, outPath string, w io.Writer) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}
	if err := Migrate(db); err != nil {
		return err
	}
	if _, err := GenerateColumnMismatchReport(db, w); err != nil {
		return err
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(AllModels()...)
	g.Execute()

	log.Info().Str("outPath", outPath).Msg("model generation complete")
	return nil
}

// GenerateColumnMismatchReport writes the report and returns the total number of stale columns.
func GenerateColumnMismatchReport(db *gorm.DB, w io.Writer) (int, error) {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")

	total := 0
	for _, model := range AllModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return total, fmt.Errorf("parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table
		fmt.Fprintf(w, "\n--- Table: %s ---\n", table)

		if !db.Migrator().HasTable(table) {
			fmt.Fprintln(w, "Table does not exist yet (will be created during migration)")
			continue
		}

		dbColumns, err := tableColumns(db, model)
		if err != nil {
			return total, err
		}
		mismatches := findColumnMismatches(dbColumns, stmt.Schema.DBNames)
		if len(mismatches) == 0 {
			fmt.Fprintln(w, "All columns are accounted for in the model.")
			continue
		}
		fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(w, "  - %s\n", col)
		}
		total += len(mismatches)
	}

	fmt.Fprintf(w, "\n=== SUMMARY ===\n")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", total)
	return total, nil
}

func tableColumns(db *gorm.DB, model any) ([]string, error) {
	types, err := db.Migrator().ColumnTypes(model)
	if err != nil {
		return nil, fmt.Errorf("read columns for %T: %w", model, err)
	}
	columns := make([]string, 0, len(types))
	for _, columnType := range types {
		columns = append(columns, columnType.Name())
	}
	return columns, nil
}

// findColumnMismatches returns database columns missing from the model, sorted.
func findColumnMismatches(dbColumns, modelColumns []string) []string {
	known := make(map[string]bool, len(modelColumns))
	for _, col := range modelColumns {
		known[col] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !known[col] {
			mismatches = append(mismatches, col)
		}
	}
	sort.Strings(mismatches)
	return mismatches
}
