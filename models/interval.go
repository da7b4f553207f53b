package models

import (
	"time"

	"gorm.io/datatypes"
)

// Interval models a possibly open-ended period. A current interval has no end date.
type Interval struct {
	StartDate datatypes.Date  `json:"start_date" db:"start_date" gorm:"not null"`
	EndDate   *datatypes.Date `json:"end_date,omitempty" db:"end_date"`
	IsCurrent bool            `json:"is_current" db:"is_current" gorm:"not null"`
}

func (i *Interval) Normalize() {
	if i.IsCurrent {
		i.EndDate = nil
	}
}

func (i Interval) Check() map[string]string {
	problems := map[string]string{}
	if time.Time(i.StartDate).IsZero() {
		problems["start_date"] = "is required"
	}
	if i.EndDate != nil && time.Time(*i.EndDate).Before(time.Time(i.StartDate)) {
		problems["end_date"] = "must not be before start_date"
	}
	return problems
}
