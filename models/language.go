package models

type Language struct {
	Base
	Name        string `json:"name" db:"name" gorm:"type:text;not null" validate:"required,max=100"`
	Proficiency string `json:"proficiency" db:"proficiency" gorm:"type:text" validate:"omitempty,oneof=native fluent advanced intermediate basic"`
}

var LanguageSchema = register(&Schema{
	Name:       "language",
	Collection: "languages",
	Label:      "Language",
	Filterable: map[string]Kind{"proficiency": KindString},
	Searchable: []string{"name"},
	Sortable:   []string{"name", "created_at"},
	Unique:     []string{"name"},
	TieBreak:   []SortKey{{Column: "name"}},
	Columns: []Column{
		{Header: "Name", Key: "name"},
		{Header: "Proficiency", Key: "proficiency"},
	},
})

func (Language) Schema() *Schema { return LanguageSchema }
