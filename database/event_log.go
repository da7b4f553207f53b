package database

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// PageCount is one row of a most-visited listing.
type PageCount struct {
	Page  string `json:"page"`
	Count int64  `json:"count"`
}

// EventLog is the append-only analytics store. Ranges are half-open: start <= t < end.
type EventLog interface {
	Append(ctx context.Context, event *models.AnalyticsEvent) error
	Count(ctx context.Context, eventType string, start, end time.Time) (int64, error)
	CountDistinctIPs(ctx context.Context, eventType string, start, end time.Time) (int64, error)
	Timestamps(ctx context.Context, eventType string, start, end time.Time) ([]time.Time, error)
	TopPages(ctx context.Context, eventType string, start, end time.Time, limit int) ([]PageCount, error)
	Recent(ctx context.Context, limit int) ([]models.AnalyticsEvent, error)
}

// GormEventLog keeps events in the primary database. Reads go to the replica when one is registered.
type GormEventLog struct {
	db *gorm.DB
}

func NewGormEventLog(db *gorm.DB) *GormEventLog {
	return &GormEventLog{db}
}

func (l *GormEventLog) read(ctx context.Context) *gorm.DB {
	return l.db.WithContext(ctx).Clauses(dbresolver.Read).Model(&models.AnalyticsEvent{})
}

func (l *GormEventLog) inRange(ctx context.Context, eventType string, start, end time.Time) *gorm.DB {
	return l.read(ctx).
		Where("event_type = ?", eventType).
		Where("created_at >= ? AND created_at < ?", start.UTC(), end.UTC())
}

func (l *GormEventLog) Append(ctx context.Context, event *models.AnalyticsEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	event.CreatedAt = event.CreatedAt.UTC()
	if err := l.db.WithContext(ctx).Create(event).Error; err != nil {
		return errs.NewDatabaseError("record", "Analytics event", err)
	}
	return nil
}

func (l *GormEventLog) Count(ctx context.Context, eventType string, start, end time.Time) (int64, error) {
	var count int64
	err := l.inRange(ctx, eventType, start, end).Count(&count).Error
	return count, err
}

func (l *GormEventLog) CountDistinctIPs(ctx context.Context, eventType string, start, end time.Time) (int64, error) {
	var count int64
	err := l.inRange(ctx, eventType, start, end).Distinct("ip_address").Count(&count).Error
	return count, err
}

func (l *GormEventLog) Timestamps(ctx context.Context, eventType string, start, end time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := l.inRange(ctx, eventType, start, end).Pluck("created_at", &stamps).Error
	return stamps, err
}

func (l *GormEventLog) TopPages(ctx context.Context, eventType string, start, end time.Time, limit int) ([]PageCount, error) {
	pages := []PageCount{}
	err := l.inRange(ctx, eventType, start, end).
		Select("page, COUNT(*) AS count").
		Where("page <> ''").
		Group("page").
		Order("count DESC").Order("page").
		Limit(limit).
		Scan(&pages).Error
	return pages, err
}

func (l *GormEventLog) Recent(ctx context.Context, limit int) ([]models.AnalyticsEvent, error) {
	events := []models.AnalyticsEvent{}
	err := l.read(ctx).Order("created_at DESC").Order("id").Limit(limit).Find(&events).Error
	return events, err
}
