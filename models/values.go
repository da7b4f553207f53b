package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	DateLayout    = "2006-01-02"
	ListSeparator = "|"
)

// ParseBool is the one boolean parser used for every imported or query-string flag.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "t", "1", "on":
		return true, nil
	case "no", "n", "false", "f", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%q is not a boolean (use Yes/No, true/false or 1/0)", raw)
	}
}

func FormatBool(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// ParseDate accepts YYYY-MM-DD or RFC3339.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%q is not a date (use YYYY-MM-DD)", raw)
}

// SplitList splits a joined list cell, dropping blank items. Items keep their
// surrounding spaces so a cell written by FormatCell reads back unchanged.
func SplitList(raw string) []string {
	items := []string{}
	for _, part := range strings.Split(raw, ListSeparator) {
		if strings.TrimSpace(part) != "" {
			items = append(items, part)
		}
	}
	return items
}

// checkListItems rejects items that could not survive a CSV round trip.
func checkListItems(items []string) error {
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return fmt.Errorf("must not contain blank items")
		}
		if strings.Contains(item, ListSeparator) {
			return fmt.Errorf("items must not contain %q", ListSeparator)
		}
	}
	return nil
}

// CoerceValue converts value to the representation kind expects. nil stays nil.
func CoerceValue(kind Kind, value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch kind {
	case KindInt:
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("must be a whole number")
			}
			return int(v), nil
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("%q is not a whole number", v)
			}
			return n, nil
		}
	case KindBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case float64:
			return v != 0, nil
		case string:
			return ParseBool(v)
		}
	case KindDate:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case datatypes.Date:
			return time.Time(v), nil
		case string:
			if strings.TrimSpace(v) == "" {
				return nil, nil
			}
			return ParseDate(v)
		}
	case KindList:
		switch v := value.(type) {
		case []string:
			if err := checkListItems(v); err != nil {
				return nil, err
			}
			return v, nil
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("must be a list of strings")
				}
				items = append(items, s)
			}
			if err := checkListItems(items); err != nil {
				return nil, err
			}
			return items, nil
		case string:
			return SplitList(v), nil
		}
	default:
		switch v := value.(type) {
		case string:
			return v, nil
		case float64, bool, int:
			return fmt.Sprint(v), nil
		}
	}
	return nil, fmt.Errorf("must be a %s", kind)
}

// FormatCell renders a JSON-decoded field value as a CSV cell.
func FormatCell(kind Kind, value any) string {
	if value == nil {
		return ""
	}

	switch kind {
	case KindBool:
		if b, ok := value.(bool); ok {
			return FormatBool(b)
		}
	case KindInt:
		if f, ok := value.(float64); ok {
			return strconv.FormatInt(int64(f), 10)
		}
	case KindDate:
		if s, ok := value.(string); ok {
			if t, err := ParseDate(s); err == nil {
				return t.Format(DateLayout)
			}
			return s
		}
	case KindList:
		if items, ok := value.([]any); ok {
			parts := make([]string, 0, len(items))
			for _, item := range items {
				parts = append(parts, fmt.Sprint(item))
			}
			return strings.Join(parts, ListSeparator)
		}
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// NativeValue renders a JSON-decoded field value for JSON export: dates become
// YYYY-MM-DD, lists stay arrays and an absent list becomes empty.
func NativeValue(kind Kind, value any) any {
	switch kind {
	case KindDate:
		if value == nil {
			return nil
		}
		return FormatCell(kind, value)
	case KindList:
		if value == nil {
			return []any{}
		}
	case KindInt:
		if f, ok := value.(float64); ok {
			return int64(f)
		}
	}
	return value
}
