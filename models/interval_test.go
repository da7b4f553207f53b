package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func date(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestIntervalNormalizeClearsEndWhenCurrent(t *testing.T) {
	end := date(2022, 1, 1)
	exp := Experience{Interval: Interval{StartDate: date(2020, 1, 1), EndDate: &end, IsCurrent: true}}
	exp.Normalize()
	assert.Nil(t, exp.EndDate)
}

func TestIntervalCheck(t *testing.T) {
	before := date(2019, 1, 1)
	exp := Experience{Interval: Interval{StartDate: date(2020, 1, 1), EndDate: &before}}
	assert.Contains(t, exp.Check(), "end_date")

	assert.Contains(t, Experience{}.Check(), "start_date")

	after := date(2021, 1, 1)
	exp.EndDate = &after
	assert.Empty(t, exp.Check())
}

func TestCertificationCheck(t *testing.T) {
	issued, expires := date(2023, 1, 1), date(2022, 1, 1)
	assert.Contains(t, Certification{IssuedAt: &issued, ExpiresAt: &expires}.Check(), "expires_at")
	assert.Empty(t, Certification{IssuedAt: &issued}.Check())
}
