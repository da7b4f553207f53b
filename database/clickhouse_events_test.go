package database

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

// scanInto copies values into Scan destinations the way the driver does for matching types.
func scanInto(values []any, dest []any) error {
	if len(values) != len(dest) {
		return errors.New("column count mismatch")
	}
	for i, value := range values {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(value))
	}
	return nil
}

type fakeRows struct {
	driver.Rows
	rows [][]any
	pos  int
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos <= len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error { return scanInto(r.rows[r.pos-1], dest) }
func (r *fakeRows) Close() error           { return nil }
func (r *fakeRows) Err() error             { return nil }

type fakeRow struct {
	driver.Row
	values []any
}

func (r fakeRow) Scan(dest ...any) error { return scanInto(r.values, dest) }

type execCall struct {
	query string
	args  []any
}

type fakeClickHouse struct {
	execs   []execCall
	queries []string
	rows    [][]any
	row     []any
}

func (f *fakeClickHouse) Exec(_ context.Context, query string, args ...any) error {
	f.execs = append(f.execs, execCall{query: query, args: args})
	return nil
}

func (f *fakeClickHouse) Query(_ context.Context, query string, _ ...any) (driver.Rows, error) {
	f.queries = append(f.queries, query)
	return &fakeRows{rows: f.rows}, nil
}

func (f *fakeClickHouse) QueryRow(_ context.Context, query string, _ ...any) driver.Row {
	f.queries = append(f.queries, query)
	return fakeRow{values: f.row}
}

func (f *fakeClickHouse) Close() error { return nil }

func TestClickHouseAppendEncodesPayload(t *testing.T) {
	conn := &fakeClickHouse{}
	eventLog := &ClickHouseEventLog{conn: conn}
	local := time.FixedZone("CET", 3600)

	withPayload := &models.AnalyticsEvent{
		EventType: models.EventPageView,
		Page:      "/contact",
		Payload:   map[string]any{"message_id": "abc"},
		CreatedAt: time.Date(2024, 5, 1, 13, 0, 0, 0, local),
	}
	require.NoError(t, eventLog.Append(context.Background(), withPayload))
	require.NoError(t, eventLog.Append(context.Background(), &models.AnalyticsEvent{EventType: models.EventCVDownload}))

	require.Len(t, conn.execs, 2)
	first := conn.execs[0].args
	assert.NotEqual(t, uuid.Nil, withPayload.ID)
	assert.Equal(t, withPayload.ID, first[0])
	assert.Equal(t, `{"message_id":"abc"}`, first[3])
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), first[6])

	second := conn.execs[1].args
	assert.Equal(t, "{}", second[3])
	assert.False(t, second[6].(time.Time).IsZero())
}

func TestClickHouseRecentDecodesPayload(t *testing.T) {
	stamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	conn := &fakeClickHouse{rows: [][]any{
		{uuid.New(), models.EventContactFormSubmit, "/contact", `{"message_id":"abc"}`, "10.0.0.1", "curl", stamp},
		{uuid.New(), models.EventPageView, "/", "{}", "10.0.0.2", "curl", stamp},
		{uuid.New(), models.EventPageView, "/", "not json", "10.0.0.3", "curl", stamp},
	}}
	eventLog := &ClickHouseEventLog{conn: conn}

	events, err := eventLog.Recent(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "abc", events[0].Payload["message_id"])
	assert.Equal(t, "10.0.0.1", events[0].IPAddress)
	assert.Equal(t, stamp, events[0].CreatedAt)
	assert.Nil(t, events[1].Payload)
	assert.Nil(t, events[2].Payload)
}

func TestClickHouseCountsAndTopPages(t *testing.T) {
	conn := &fakeClickHouse{row: []any{uint64(7)}, rows: [][]any{{"/", uint64(4)}, {"/cv", uint64(2)}}}
	eventLog := &ClickHouseEventLog{conn: conn}
	ctx := context.Background()
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	visitors, err := eventLog.CountDistinctIPs(ctx, models.EventPageView, start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(7), visitors)
	assert.Contains(t, conn.queries[0], "uniqExact(ip_address)")

	pages, err := eventLog.TopPages(ctx, models.EventPageView, start, start.AddDate(0, 0, 1), 10)
	require.NoError(t, err)
	assert.Equal(t, []PageCount{{Page: "/", Count: 4}, {Page: "/cv", Count: 2}}, pages)
}
