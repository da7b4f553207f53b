package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

const clickHouseEventsDDL = `
	CREATE TABLE IF NOT EXISTS analytics_events (
		id         UUID,
		event_type LowCardinality(String),
		page       String,
		payload    String,
		ip_address String,
		user_agent String,
		created_at DateTime64(3, 'UTC')
	) ENGINE = MergeTree
	ORDER BY (event_type, created_at)
`

// clickHouseConn is the subset of driver.Conn the event log uses.
type clickHouseConn interface {
	Exec(ctx context.Context, query string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) driver.Row
	Close() error
}

// ClickHouseEventLog keeps events in ClickHouse for sites with more traffic than the primary database should carry.
type ClickHouseEventLog struct {
	conn clickHouseConn
}

// OpenClickHouse connects over the native protocol and makes sure the events table exists.
func OpenClickHouse(ctx context.Context, cfg config.Config) (*ClickHouseEventLog, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.ClickHouseHost, cfg.ClickHousePort)},
		Auth: clickhouse.Auth{
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "portfolio-cms", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to ClickHouse: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("ping ClickHouse: %w", err)
	}
	if err := conn.Exec(ctx, clickHouseEventsDDL); err != nil {
		return nil, fmt.Errorf("create analytics_events: %w", err)
	}

	log.Info().Str("host", cfg.ClickHouseHost).Msg("connected to ClickHouse event log")
	return &ClickHouseEventLog{conn: conn}, nil
}

func (l *ClickHouseEventLog) Close() error {
	return l.conn.Close()
}

func (l *ClickHouseEventLog) Append(ctx context.Context, event *models.AnalyticsEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	event.CreatedAt = event.CreatedAt.UTC()

	payload := "{}"
	if len(event.Payload) > 0 {
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		payload = string(raw)
	}

	return l.conn.Exec(ctx,
		`INSERT INTO analytics_events (id, event_type, page, payload, ip_address, user_agent, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.EventType, event.Page, payload, event.IPAddress, event.UserAgent, event.CreatedAt,
	)
}

func (l *ClickHouseEventLog) countQuery(ctx context.Context, expr, eventType string, start, end time.Time) (int64, error) {
	var count uint64
	query := fmt.Sprintf(`SELECT %s FROM analytics_events WHERE event_type = ? AND created_at >= ? AND created_at < ?`, expr)
	if err := l.conn.QueryRow(ctx, query, eventType, start.UTC(), end.UTC()).Scan(&count); err != nil {
		return 0, fmt.Errorf("query %s: %w", expr, err)
	}
	return int64(count), nil
}

func (l *ClickHouseEventLog) Count(ctx context.Context, eventType string, start, end time.Time) (int64, error) {
	return l.countQuery(ctx, "count()", eventType, start, end)
}

func (l *ClickHouseEventLog) CountDistinctIPs(ctx context.Context, eventType string, start, end time.Time) (int64, error) {
	return l.countQuery(ctx, "uniqExact(ip_address)", eventType, start, end)
}

func (l *ClickHouseEventLog) Timestamps(ctx context.Context, eventType string, start, end time.Time) ([]time.Time, error) {
	rows, err := l.conn.Query(ctx,
		`SELECT created_at FROM analytics_events WHERE event_type = ? AND created_at >= ? AND created_at < ?`,
		eventType, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query timestamps: %w", err)
	}
	defer rows.Close()

	var stamps []time.Time
	for rows.Next() {
		var stamp time.Time
		if err := rows.Scan(&stamp); err != nil {
			return nil, fmt.Errorf("scan timestamp: %w", err)
		}
		stamps = append(stamps, stamp)
	}
	return stamps, rows.Err()
}

func (l *ClickHouseEventLog) TopPages(ctx context.Context, eventType string, start, end time.Time, limit int) ([]PageCount, error) {
	rows, err := l.conn.Query(ctx, `
		SELECT page, count() AS view_count
		FROM analytics_events
		WHERE event_type = ? AND created_at >= ? AND created_at < ? AND page != ''
		GROUP BY page
		ORDER BY view_count DESC, page ASC
		LIMIT ?
	`, eventType, start.UTC(), end.UTC(), uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("query top pages: %w", err)
	}
	defer rows.Close()

	pages := []PageCount{}
	for rows.Next() {
		var page string
		var count uint64
		if err := rows.Scan(&page, &count); err != nil {
			return nil, fmt.Errorf("scan top page: %w", err)
		}
		pages = append(pages, PageCount{Page: page, Count: int64(count)})
	}
	return pages, rows.Err()
}

func (l *ClickHouseEventLog) Recent(ctx context.Context, limit int) ([]models.AnalyticsEvent, error) {
	rows, err := l.conn.Query(ctx, `
		SELECT id, event_type, page, payload, ip_address, user_agent, created_at
		FROM analytics_events
		ORDER BY created_at DESC
		LIMIT ?
	`, uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("query recent events: %w", err)
	}
	defer rows.Close()

	events := []models.AnalyticsEvent{}
	for rows.Next() {
		var event models.AnalyticsEvent
		var payload string
		if err := rows.Scan(&event.ID, &event.EventType, &event.Page, &payload, &event.IPAddress, &event.UserAgent, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recent event: %w", err)
		}
		if payload != "" && payload != "{}" {
			if err := json.Unmarshal([]byte(payload), &event.Payload); err != nil {
				log.Warn().Err(err).Str("eventID", event.ID.String()).Msg("dropping unreadable event payload")
			}
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
