package models

// Experience is a position held; it embeds Interval so a current job has no end date.
type Experience struct {
	Base
	Ordering
	Interval
	Company     string `json:"company" db:"company" gorm:"type:text;not null" validate:"required,max=200"`
	Position    string `json:"position" db:"position" gorm:"type:text;not null" validate:"required,max=200"`
	Location    string `json:"location" db:"location" gorm:"type:text"`
	Description string `json:"description" db:"description" gorm:"type:text"`
}

var ExperienceSchema = register(&Schema{
	Name:       "experience",
	Collection: "experiences",
	Label:      "Experience",
	Ordered:    true,
	Defaults:   map[string]any{"is_current": false},
	Filterable: map[string]Kind{"company": KindString, "is_current": KindBool},
	Searchable: []string{"company", "position", "location", "description"},
	Sortable:   []string{"order", "company", "start_date", "created_at"},
	TieBreak:   []SortKey{{Column: "start_date", Desc: true}},
	Columns: []Column{
		{Header: "Company", Key: "company"},
		{Header: "Position", Key: "position"},
		{Header: "Location", Key: "location"},
		{Header: "Description", Key: "description"},
		{Header: "Start Date", Key: "start_date", Kind: KindDate},
		{Header: "End Date", Key: "end_date", Kind: KindDate},
		{Header: "Current", Key: "is_current", Kind: KindBool},
		{Header: "Order", Key: "order", Kind: KindInt},
	},
})

func (Experience) Schema() *Schema { return ExperienceSchema }
