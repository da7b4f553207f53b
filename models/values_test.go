package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestParseBool(t *testing.T) {
	for _, raw := range []string{"Yes", "yes", " Y ", "true", "TRUE", "1", "on"} {
		got, err := ParseBool(raw)
		require.NoError(t, err, raw)
		assert.True(t, got, raw)
	}
	for _, raw := range []string{"No", "n", "false", "0", "OFF"} {
		got, err := ParseBool(raw)
		require.NoError(t, err, raw)
		assert.False(t, got, raw)
	}

	_, err := ParseBool("maybe")
	assert.Error(t, err)
	_, err = ParseBool("")
	assert.Error(t, err)
}

func TestParseDateKeepsCalendarDay(t *testing.T) {
	got, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", got.Format(DateLayout))

	got, err = ParseDate("2024-03-01T23:30:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", got.Format(DateLayout))

	_, err = ParseDate("03/01/2024")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"go", "sql"}, SplitList("go| |sql|"))
	assert.Equal(t, []string{" spaced ", "x"}, SplitList(" spaced |x"))
	assert.Equal(t, []string{}, SplitList(""))
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		in    any
		want  any
		fails bool
	}{
		{"int from json number", KindInt, float64(3), 3, false},
		{"int from fraction", KindInt, 2.5, nil, true},
		{"int from string", KindInt, " 7 ", 7, false},
		{"int from word", KindInt, "seven", nil, true},
		{"bool from yes", KindBool, "Yes", true, false},
		{"bool from number", KindBool, float64(0), false, false},
		{"blank date", KindDate, "  ", nil, false},
		{"date from string", KindDate, "2023-05-06", time.Date(2023, 5, 6, 0, 0, 0, 0, time.UTC), false},
		{"date from datatypes", KindDate, datatypes.Date(time.Date(2023, 5, 6, 0, 0, 0, 0, time.UTC)), time.Date(2023, 5, 6, 0, 0, 0, 0, time.UTC), false},
		{"list from cell", KindList, "a|b", []string{"a", "b"}, false},
		{"list from json", KindList, []any{"a", "b"}, []string{"a", "b"}, false},
		{"list of numbers", KindList, []any{1.0}, nil, true},
		{"list item with separator", KindList, []any{"a|b"}, nil, true},
		{"list with blank item", KindList, []string{"a", " "}, nil, true},
		{"list keeps item spaces", KindList, []any{" a "}, []string{" a "}, false},
		{"string from number", KindString, float64(12), "12", false},
		{"nil stays nil", KindInt, nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceValue(tt.kind, tt.in)
			if tt.fails {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "Yes", FormatCell(KindBool, true))
	assert.Equal(t, "No", FormatCell(KindBool, false))
	assert.Equal(t, "4", FormatCell(KindInt, float64(4)))
	assert.Equal(t, "2024-01-02", FormatCell(KindDate, "2024-01-02T00:00:00Z"))
	assert.Equal(t, "go|sql", FormatCell(KindList, []any{"go", "sql"}))
	assert.Equal(t, "", FormatCell(KindString, nil))
}

func TestNativeValue(t *testing.T) {
	assert.Equal(t, []any{}, NativeValue(KindList, nil))
	assert.Equal(t, "2024-01-02", NativeValue(KindDate, "2024-01-02T00:00:00Z"))
	assert.Nil(t, NativeValue(KindDate, nil))
	assert.Equal(t, int64(3), NativeValue(KindInt, float64(3)))
}
