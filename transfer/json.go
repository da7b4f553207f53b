package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// Envelope is the JSON export document.
type Envelope struct {
	Entity     string           `json:"entity"`
	ExportedAt time.Time        `json:"exported_at"`
	Total      int              `json:"total"`
	Data       []map[string]any `json:"data"`
}

// ExportJSON writes the export envelope with native arrays and booleans.
func ExportJSON(ctx context.Context, w io.Writer, store Exporter, now time.Time) (int, error) {
	schema := store.Schema()
	rows, err := records(ctx, store)
	if err != nil {
		return 0, err
	}

	envelope := Envelope{
		Entity:     schema.Name,
		ExportedAt: now.UTC(),
		Total:      len(rows),
		Data:       make([]map[string]any, 0, len(rows)),
	}
	for _, values := range rows {
		out := make(map[string]any, len(schema.Columns))
		for _, col := range schema.Columns {
			out[col.Key] = models.NativeValue(col.Kind, values[col.Key])
		}
		envelope.Data = append(envelope.Data, out)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return envelope.Total, encoder.Encode(envelope)
}

// ImportJSON accepts an export envelope or a bare array of objects. Keys may be
// JSON keys or column headers.
func ImportJSON(ctx context.Context, r io.Reader, store Importer) (Result, error) {
	result := Result{Errors: []errs.ItemError{}}

	raw, err := io.ReadAll(r)
	if err != nil {
		return result, errs.NewMalformedPayloadError("JSON", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return result, errs.NewValidationError(map[string]string{"file": "is empty"})
	}

	var rows []json.RawMessage
	if raw[0] == '[' {
		err = json.Unmarshal(raw, &rows)
	} else {
		var envelope struct {
			Data []json.RawMessage `json:"data"`
		}
		err = json.Unmarshal(raw, &envelope)
		rows = envelope.Data
	}
	if err != nil {
		return result, errs.NewInvalidJSONError(err)
	}

	index := columnIndex(store.Schema())
	for i, rowRaw := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		row := i + 1

		var values map[string]any
		if err := json.Unmarshal(rowRaw, &values); err != nil {
			result.Errors = append(result.Errors, errs.ItemError{Row: row, Reason: "row is not an object"})
			continue
		}

		fields := database.Fields{}
		for key, value := range values {
			col, ok := index[strings.ToLower(strings.TrimSpace(key))]
			if !ok || isBlank(value) {
				continue
			}
			fields[col.Key] = value
		}
		importRow(ctx, store, row, fields, &result)
	}
	return result, nil
}
