// Package transfer moves content collections in and out of CSV and JSON files.
// Columns come from each type's schema; nothing outside that allow-list is
// ever exported.
package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errs.NewValidationError(map[string]string{"format": "must be csv or json"})
	}
}

func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

// Exporter is the read side of a content store.
type Exporter interface {
	Schema() *models.Schema
	All(ctx context.Context) ([]any, error)
}

// Importer is the write side of a content store. Each Create commits on its own.
type Importer interface {
	Schema() *models.Schema
	Create(ctx context.Context, fields database.Fields) (any, error)
}

// Result summarizes an import: rows created, blank rows skipped and rows rejected.
type Result struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []errs.ItemError `json:"errors"`
}

// Err is nil when every non-blank row was imported.
func (r Result) Err() error {
	return errs.NewPartialFailure("import", r.Imported, r.Errors)
}

// records renders every entity as its JSON field map.
func records(ctx context.Context, store Exporter) ([]map[string]any, error) {
	items, err := store.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", store.Schema().Name, err)
		}
		values := map[string]any{}
		if err := json.Unmarshal(raw, &values); err != nil {
			return nil, fmt.Errorf("decode %s: %w", store.Schema().Name, err)
		}
		out = append(out, values)
	}
	return out, nil
}

// columnIndex maps both the human header and the JSON key to a column, case-insensitively.
func columnIndex(schema *models.Schema) map[string]models.Column {
	index := make(map[string]models.Column, len(schema.Columns)*2)
	for _, col := range schema.Columns {
		index[strings.ToLower(col.Header)] = col
		index[strings.ToLower(col.Key)] = col
	}
	return index
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	}
	return false
}

// importRow creates one entity, or records why it could not be created.
func importRow(ctx context.Context, store Importer, row int, fields database.Fields, result *Result) {
	if len(fields) == 0 {
		result.Skipped++
		return
	}
	if _, err := store.Create(ctx, fields); err != nil {
		result.Errors = append(result.Errors, errs.ItemError{Row: row, Reason: err.Error()})
		return
	}
	result.Imported++
}
