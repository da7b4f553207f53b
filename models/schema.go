package models

import (
	"fmt"
)

// Kind tells the import/export engine and the store how to coerce a field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindDate
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindList:
		return "list"
	default:
		return "string"
	}
}

// Column is one exported field: Header is what humans see in CSV, Key is the JSON field.
type Column struct {
	Header string
	Key    string
	Kind   Kind
}

// SortKey is a column with a direction.
type SortKey struct {
	Column string
	Desc   bool
}

func (k SortKey) String() string {
	if k.Desc {
		return k.Column + " DESC"
	}
	return k.Column + " ASC"
}

// Schema describes one content type: defaults, query capabilities and export layout.
type Schema struct {
	Name        string // entity type used by bulk actions, e.g. "social-link"
	Collection  string // URL segment, e.g. "social-links"
	Label       string
	Ordered     bool
	HasFeatured bool
	HasActive   bool
	Defaults    map[string]any
	Filterable  map[string]Kind
	Searchable  []string
	Sortable    []string
	Unique      []string
	TieBreak    []SortKey
	Columns     []Column
}

// ColumnFor returns the DB column for a JSON key.
func (s *Schema) ColumnFor(key string) string {
	if key == "order" {
		return "sort_order"
	}
	return key
}

// KindOf returns the declared kind of a JSON key, defaulting to string.
func (s *Schema) KindOf(key string) (Kind, bool) {
	for _, col := range s.Columns {
		if col.Key == key {
			return col.Kind, true
		}
	}
	if kind, ok := s.Filterable[key]; ok {
		return kind, true
	}
	return KindString, false
}

// CanSortBy reports whether key is an allowed sort field.
func (s *Schema) CanSortBy(key string) bool {
	for _, allowed := range s.Sortable {
		if allowed == key {
			return true
		}
	}
	return false
}

// DefaultSort is order (when ordered), then the declared tie-break, then creation and id.
func (s *Schema) DefaultSort() []SortKey {
	var keys []SortKey
	if s.Ordered {
		keys = append(keys, SortKey{Column: "sort_order"})
	}
	keys = append(keys, s.TieBreak...)
	return append(keys, SortKey{Column: "created_at"}, SortKey{Column: "id"})
}

// Coerce converts loosely typed input (JSON bodies, CSV cells) into the shapes the
// entity structs decode. Unknown keys pass through unchanged.
func (s *Schema) Coerce(fields map[string]any) (map[string]any, map[string]string) {
	out := make(map[string]any, len(fields))
	problems := map[string]string{}
	for key, value := range fields {
		kind, _ := s.KindOf(key)
		if key == "order" {
			kind = KindInt
		}
		coerced, err := CoerceValue(kind, value)
		if err != nil {
			problems[key] = err.Error()
			continue
		}
		out[key] = coerced
	}
	return out, problems
}

var registry = map[string]*Schema{}

func register(schema *Schema) *Schema {
	if _, exists := registry[schema.Name]; exists {
		panic(fmt.Sprintf("schema %q registered twice", schema.Name))
	}
	registry[schema.Name] = schema
	return schema
}

// LookupSchema finds a schema by entity type or collection name.
func LookupSchema(name string) (*Schema, bool) {
	if schema, ok := registry[name]; ok {
		return schema, true
	}
	for _, schema := range registry {
		if schema.Collection == name {
			return schema, true
		}
	}
	return nil, false
}
