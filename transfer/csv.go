package transfer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// ExportCSV writes a header row of the schema's column headers followed by one
// row per entity, and returns the number of entities written.
func ExportCSV(ctx context.Context, w io.Writer, store Exporter) (int, error) {
	schema := store.Schema()
	rows, err := records(ctx, store)
	if err != nil {
		return 0, err
	}

	writer := csv.NewWriter(w)
	header := make([]string, len(schema.Columns))
	for i, col := range schema.Columns {
		header[i] = col.Header
	}
	if err := writer.Write(header); err != nil {
		return 0, err
	}

	for _, values := range rows {
		record := make([]string, len(schema.Columns))
		for i, col := range schema.Columns {
			record[i] = models.FormatCell(col.Kind, values[col.Key])
		}
		if err := writer.Write(record); err != nil {
			return 0, err
		}
	}
	writer.Flush()
	return len(rows), writer.Error()
}

// ImportCSV creates one entity per data row. Columns are matched by header or
// JSON key; unknown columns are ignored. Row numbers in the result count data
// rows from 1, header excluded.
func ImportCSV(ctx context.Context, r io.Reader, store Importer) (Result, error) {
	result := Result{Errors: []errs.ItemError{}}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return result, errs.NewValidationError(map[string]string{"file": "is empty"})
	}
	if err != nil {
		return result, errs.NewMalformedPayloadError("CSV", err)
	}

	index := columnIndex(store.Schema())
	columns := make([]*models.Column, len(header))
	matched := 0
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		if col, ok := index[strings.ToLower(strings.TrimSpace(name))]; ok {
			col := col
			columns[i] = &col
			matched++
		}
	}
	if matched == 0 {
		return result, errs.NewValidationError(map[string]string{"header": fmt.Sprintf("no recognised %s columns", store.Schema().Label)})
	}

	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, errs.ItemError{Row: row, Reason: err.Error()})
			continue
		}

		fields := database.Fields{}
		for i, cell := range record {
			if i >= len(columns) || columns[i] == nil || isBlank(cell) {
				continue
			}
			fields[columns[i].Key] = cell
		}
		importRow(ctx, store, row, fields, &result)
	}
	return result, nil
}
