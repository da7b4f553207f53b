package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

type Granularity string

const (
	GranularityDay  Granularity = "day"
	GranularityHour Granularity = "hour"
)

// Result marks whether Data came from the event log or is an empty stand-in
// because the log could not be read.
type Result[T any] struct {
	Data     T      `json:"data"`
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

type Overview struct {
	Visitors           int64 `json:"visitors"`
	PageViews          int64 `json:"page_views"`
	ContactSubmissions int64 `json:"contact_submissions"`
	CVDownloads        int64 `json:"cv_downloads"`
}

type Bucket struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Activity is an event as shown in the admin feed, with the address masked.
type Activity struct {
	EventType string    `json:"event_type"`
	Page      string    `json:"page,omitempty"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	defaultTopPages = 10
	maxTopPages     = 50
	defaultRecent   = 20
	maxRecent       = 100
)

// Aggregator turns the raw event log into dashboard numbers. Days are UTC days.
type Aggregator struct {
	events database.EventLog
}

func NewAggregator(events database.EventLog) *Aggregator {
	return &Aggregator{events: events}
}

// dayRange widens [start, end] to whole UTC days and returns a half-open range.
func dayRange(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, errs.NewValidationError(map[string]string{"range": "start and end are required"})
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, errs.NewValidationError(map[string]string{"range": "start must not be after end"})
	}
	from := start.UTC().Truncate(24 * time.Hour)
	to := end.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	return from, to, nil
}

func fallback[T any](operation string, empty T, err error) Result[T] {
	log.Warn().Err(err).Str("operation", operation).Msg("analytics event log unavailable, returning fallback")
	return Result[T]{Data: empty, Fallback: true, Reason: err.Error()}
}

// Overview counts visitors (distinct IPs of page views), page views, contact
// submissions and CV downloads in parallel.
func (a *Aggregator) Overview(ctx context.Context, start, end time.Time) (Result[Overview], error) {
	from, to, err := dayRange(start, end)
	if err != nil {
		return Result[Overview]{}, err
	}

	var overview Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		overview.Visitors, err = a.events.CountDistinctIPs(gctx, models.EventPageView, from, to)
		return err
	})
	g.Go(func() (err error) {
		overview.PageViews, err = a.events.Count(gctx, models.EventPageView, from, to)
		return err
	})
	g.Go(func() (err error) {
		overview.ContactSubmissions, err = a.events.Count(gctx, models.EventContactFormSubmit, from, to)
		return err
	})
	g.Go(func() (err error) {
		overview.CVDownloads, err = a.events.Count(gctx, models.EventCVDownload, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return fallback("overview", Overview{}, err), nil
	}
	return Result[Overview]{Data: overview}, nil
}

// TimeBucketed counts eventType per day (every day in range, ascending, zeros
// included) or per hour of day (always 24 buckets "00".."23").
func (a *Aggregator) TimeBucketed(ctx context.Context, eventType string, start, end time.Time, granularity Granularity) (Result[[]Bucket], error) {
	if eventType == "" {
		return Result[[]Bucket]{}, errs.NewValidationError(map[string]string{"event_type": "is required"})
	}
	if granularity != GranularityDay && granularity != GranularityHour {
		return Result[[]Bucket]{}, errs.NewValidationError(map[string]string{"granularity": "must be day or hour"})
	}
	from, to, err := dayRange(start, end)
	if err != nil {
		return Result[[]Bucket]{}, err
	}

	stamps, err := a.events.Timestamps(ctx, eventType, from, to)
	if err != nil {
		return fallback("time buckets", []Bucket{}, err), nil
	}

	var keys []string
	keyOf := func(t time.Time) string { return t.UTC().Format(models.DateLayout) }
	if granularity == GranularityHour {
		for h := 0; h < 24; h++ {
			keys = append(keys, fmt.Sprintf("%02d", h))
		}
		keyOf = func(t time.Time) string { return fmt.Sprintf("%02d", t.UTC().Hour()) }
	} else {
		for day := from; day.Before(to); day = day.Add(24 * time.Hour) {
			keys = append(keys, day.Format(models.DateLayout))
		}
	}

	counts := make(map[string]int64, len(keys))
	for _, key := range keys {
		counts[key] = 0
	}
	for _, stamp := range stamps {
		if stamp.Before(from) || !stamp.Before(to) {
			continue
		}
		if _, ok := counts[keyOf(stamp)]; ok {
			counts[keyOf(stamp)]++
		}
	}

	buckets := make([]Bucket, len(keys))
	for i, key := range keys {
		buckets[i] = Bucket{Key: key, Count: counts[key]}
	}
	return Result[[]Bucket]{Data: buckets}, nil
}

// TopPages ranks pages by page views.
func (a *Aggregator) TopPages(ctx context.Context, start, end time.Time, limit int) (Result[[]database.PageCount], error) {
	from, to, err := dayRange(start, end)
	if err != nil {
		return Result[[]database.PageCount]{}, err
	}
	limit = clamp(limit, defaultTopPages, maxTopPages)

	pages, err := a.events.TopPages(ctx, models.EventPageView, from, to, limit)
	if err != nil {
		return fallback("top pages", []database.PageCount{}, err), nil
	}
	return Result[[]database.PageCount]{Data: pages}, nil
}

// RecentActivity returns the newest events with masked addresses.
func (a *Aggregator) RecentActivity(ctx context.Context, limit int) Result[[]Activity] {
	events, err := a.events.Recent(ctx, clamp(limit, defaultRecent, maxRecent))
	if err != nil {
		return fallback("recent activity", []Activity{}, err)
	}

	activity := make([]Activity, 0, len(events))
	for _, event := range events {
		activity = append(activity, Activity{
			EventType: event.EventType,
			Page:      event.Page,
			IPAddress: MaskIP(event.IPAddress),
			UserAgent: event.UserAgent,
			CreatedAt: event.CreatedAt,
		})
	}
	return Result[[]Activity]{Data: activity}
}

// Track appends one event. Tracking is best-effort for callers, so failures are only logged.
func (a *Aggregator) Track(ctx context.Context, event *models.AnalyticsEvent) {
	if err := a.events.Append(ctx, event); err != nil {
		log.Warn().Err(err).Str("eventType", event.EventType).Msg("failed to record analytics event")
	}
}

func clamp(n, fallback, max int) int {
	if n <= 0 {
		return fallback
	}
	if n > max {
		return max
	}
	return n
}
