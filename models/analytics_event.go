package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EventPageView          = "page_view"
	EventCVDownload        = "cv_download"
	EventContactFormSubmit = "contact_form_submit"
	EventProjectView       = "project_view"
)

// AnalyticsEvent is an append-only tracking row.
type AnalyticsEvent struct {
	ID        uuid.UUID         `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	EventType string            `json:"event_type" db:"event_type" gorm:"type:text;not null;index:idx_events_type_created"`
	Page      string            `json:"page,omitempty" db:"page" gorm:"type:text;index"`
	Payload   datatypes.JSONMap `json:"payload,omitempty" db:"payload"`
	IPAddress string            `json:"ip_address" db:"ip_address" gorm:"type:text"`
	UserAgent string            `json:"user_agent" db:"user_agent" gorm:"type:text"`
	CreatedAt time.Time         `json:"created_at" db:"created_at" gorm:"not null;index:idx_events_type_created"`
}

func (e *AnalyticsEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
