package models

type Interest struct {
	Base
	Name        string `json:"name" db:"name" gorm:"type:text;not null" validate:"required,max=100"`
	Description string `json:"description" db:"description" gorm:"type:text"`
	Icon        string `json:"icon" db:"icon" gorm:"type:text"`
	IsActive    bool   `json:"is_active" db:"is_active" gorm:"not null;index"`
}

var InterestSchema = register(&Schema{
	Name:       "interest",
	Collection: "interests",
	Label:      "Interest",
	HasActive:  true,
	Defaults:   map[string]any{"is_active": true},
	Filterable: map[string]Kind{"is_active": KindBool},
	Searchable: []string{"name", "description"},
	Sortable:   []string{"name", "created_at"},
	TieBreak:   []SortKey{{Column: "name"}},
	Columns: []Column{
		{Header: "Name", Key: "name"},
		{Header: "Description", Key: "description"},
		{Header: "Icon", Key: "icon"},
		{Header: "Active", Key: "is_active", Kind: KindBool},
	},
})

func (Interest) Schema() *Schema { return InterestSchema }

func (i Interest) Active() bool { return i.IsActive }
