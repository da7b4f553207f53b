package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity is implemented by every admin-managed content type.
type Entity interface {
	GetID() uuid.UUID
	Schema() *Schema
}

// Base holds identity and timestamps shared by all tables.
type Base struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"not null"`
}

func (b Base) GetID() uuid.UUID {
	return b.ID
}

// BeforeCreate assigns the id in Go so the schema does not depend on gen_random_uuid().
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Ordering is embedded by types that keep a dense display order.
type Ordering struct {
	Order int `json:"order" db:"sort_order" gorm:"column:sort_order;not null;index" validate:"gte=0"`
}

func (o Ordering) SortOrder() int {
	return o.Order
}

// Ordered is satisfied by types embedding Ordering.
type Ordered interface {
	SortOrder() int
}

// Normalizer fixes up derived fields before validation.
type Normalizer interface {
	Normalize()
}

// Checker reports invariants that struct tags cannot express, keyed by JSON field.
type Checker interface {
	Check() map[string]string
}

// Switchable is satisfied by types with an is_active flag; inactive rows stay hidden from visitors.
type Switchable interface {
	Active() bool
}
