package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/validation"
)

func newDatabase(t *testing.T) database.Database {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return database.New(db, validation.New(), nil)
}

func seedPortfolios(t *testing.T, store database.Store) {
	t.Helper()
	ctx := context.Background()
	_, err := store.Create(ctx, database.Fields{
		"title":        "Portfolio CMS",
		"description":  "Admin API, with commas,\nand a second line",
		"category":     "Web",
		"technologies": []any{"go", "postgres", "s3"},
		"project_url":  "https://example.com/cms",
		"github_url":   "https://github.com/example/cms",
		"image_path":   "portfolio/cms.png",
		"completed_at": "2024-03-15",
		"is_featured":  true,
	})
	require.NoError(t, err)
	_, err = store.Create(ctx, database.Fields{"title": "Bare"})
	require.NoError(t, err)
}

func TestCSVExportLayout(t *testing.T) {
	ctx := context.Background()
	store, _ := newDatabase(t).Store("portfolios")
	seedPortfolios(t, store)

	var buf bytes.Buffer
	n, err := ExportCSV(ctx, &buf, store)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines := strings.SplitN(buf.String(), "\n", 2)
	assert.Equal(t, "Title,Description,Category,Technologies,Project URL,GitHub URL,Image Path,Completed At,Featured,Order", lines[0])
	assert.Contains(t, buf.String(), "go|postgres|s3")
	assert.Contains(t, buf.String(), "2024-03-15,Yes,0")
	assert.Contains(t, buf.String(), "Bare,,,,,,,,No,1")
}

func TestCSVRoundTrip(t *testing.T) {
	ctx := context.Background()
	source, _ := newDatabase(t).Store("portfolios")
	seedPortfolios(t, source)

	var first bytes.Buffer
	_, err := ExportCSV(ctx, &first, source)
	require.NoError(t, err)

	target, _ := newDatabase(t).Store("portfolios")
	result, err := ImportCSV(ctx, bytes.NewReader(first.Bytes()), target)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Errors)
	assert.NoError(t, result.Err())

	var second bytes.Buffer
	_, err = ExportCSV(ctx, &second, target)
	require.NoError(t, err)
	assert.Equal(t, first.String(), second.String())
}

func TestCSVRoundTripKeepsWhitespaceAndListItems(t *testing.T) {
	ctx := context.Background()
	source, _ := newDatabase(t).Store("skills")
	_, err := source.Create(ctx, database.Fields{
		"name":     "Go",
		"category": "  Systems  ",
		"tags":     []any{" spaced ", "plain"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = ExportCSV(ctx, &buf, source)
	require.NoError(t, err)

	target, _ := newDatabase(t).Store("skills")
	result, err := ImportCSV(ctx, bytes.NewReader(buf.Bytes()), target)
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)

	items, err := target.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	skill := items[0].(models.Skill)
	assert.Equal(t, "  Systems  ", skill.Category)
	assert.Equal(t, []string{" spaced ", "plain"}, []string(skill.Tags))
}

func TestListItemsWithSeparatorAreRejected(t *testing.T) {
	store, _ := newDatabase(t).Store("skills")
	_, err := store.Create(context.Background(), database.Fields{"name": "Go", "tags": []any{"a|b"}})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	source, _ := newDatabase(t).Store("experiences")
	for _, fields := range []database.Fields{
		{"company": "Acme", "position": "Engineer", "location": "Remote", "description": "Built things",
			"start_date": "2021-02-01", "is_current": true},
		{"company": "Initech", "position": "Intern", "start_date": "2019-06-01", "end_date": "2019-09-01"},
	} {
		_, err := source.Create(ctx, fields)
		require.NoError(t, err)
	}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var first bytes.Buffer
	n, err := ExportJSON(ctx, &first, source, now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(first.Bytes(), &envelope))
	assert.Equal(t, "experience", envelope.Entity)
	assert.Equal(t, 2, envelope.Total)
	assert.Equal(t, now, envelope.ExportedAt)
	assert.Equal(t, true, envelope.Data[0]["is_current"])
	assert.Equal(t, "2021-02-01", envelope.Data[0]["start_date"])
	assert.Nil(t, envelope.Data[0]["end_date"])
	assert.NotContains(t, envelope.Data[0], "id")
	assert.NotContains(t, envelope.Data[0], "created_at")

	target, _ := newDatabase(t).Store("experiences")
	result, err := ImportJSON(ctx, bytes.NewReader(first.Bytes()), target)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	var second bytes.Buffer
	_, err = ExportJSON(ctx, &second, target, now)
	require.NoError(t, err)
	assert.JSONEq(t, first.String(), second.String())
}

func TestJSONExportKeepsNativeLists(t *testing.T) {
	ctx := context.Background()
	store, _ := newDatabase(t).Store("skills")
	_, err := store.Create(ctx, database.Fields{"name": "Go", "tags": []any{"backend"}})
	require.NoError(t, err)
	_, err = store.Create(ctx, database.Fields{"name": "SQL"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = ExportJSON(ctx, &buf, store, time.Now())
	require.NoError(t, err)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &envelope))
	assert.Equal(t, []any{"backend"}, envelope.Data[0]["tags"])
	assert.Equal(t, []any{}, envelope.Data[1]["tags"])
}

func TestImportCSVCollectsRowErrors(t *testing.T) {
	ctx := context.Background()
	store, _ := newDatabase(t).Store("skills")

	input := strings.Join([]string{
		"Name,Category,Proficiency,Featured,Active,Ignored",
		"Go,Languages,90,1,Yes,x",
		",,,,,",
		",Languages,50,No,No,",
		"Rust,Languages,70,sometimes,No,",
		"SQL,Databases,,0,0,",
	}, "\n")

	result, err := ImportCSV(ctx, strings.NewReader(input), store)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Reason, "name")
	assert.Equal(t, 4, result.Errors[1].Row)
	assert.Contains(t, result.Errors[1].Reason, "is_featured")

	err = result.Err()
	require.Error(t, err)
	assert.True(t, errs.IsPartialFailure(err))

	items, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	goSkill := items[0].(models.Skill)
	assert.Equal(t, "Go", goSkill.Name)
	assert.True(t, goSkill.IsFeatured)
	sqlSkill := items[1].(models.Skill)
	assert.False(t, sqlSkill.IsActive)
}

func TestImportRejectsUnreadableInput(t *testing.T) {
	ctx := context.Background()
	store, _ := newDatabase(t).Store("languages")

	_, err := ImportCSV(ctx, strings.NewReader(""), store)
	assert.True(t, errs.IsValidation(err))

	_, err = ImportCSV(ctx, strings.NewReader("Colour,Size\nred,big\n"), store)
	assert.True(t, errs.IsValidation(err))

	_, err = ImportJSON(ctx, strings.NewReader("{not json"), store)
	assert.Error(t, err)
}

func TestImportJSONAcceptsHeadersAndBareArrays(t *testing.T) {
	ctx := context.Background()
	store, _ := newDatabase(t).Store("languages")

	result, err := ImportJSON(ctx, strings.NewReader(`[
		{"Name": "English", "Proficiency": "native"},
		{"name": "english"},
		{},
		"nope"
	]`), store)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 2, result.Errors[0].Row)
	assert.Equal(t, 4, result.Errors[1].Row)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.True(t, errs.IsValidation(err))
}
