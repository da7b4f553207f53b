package models

import "gorm.io/datatypes"

type Achievement struct {
	Base
	Ordering
	Title       string          `json:"title" db:"title" gorm:"type:text;not null" validate:"required,max=200"`
	Issuer      string          `json:"issuer" db:"issuer" gorm:"type:text"`
	Description string          `json:"description" db:"description" gorm:"type:text"`
	AchievedAt  *datatypes.Date `json:"achieved_at" db:"achieved_at"`
	URL         string          `json:"url" db:"url" gorm:"type:text" validate:"omitempty,url"`
	IsActive    bool            `json:"is_active" db:"is_active" gorm:"not null;index"`
}

var AchievementSchema = register(&Schema{
	Name:       "achievement",
	Collection: "achievements",
	Label:      "Achievement",
	Ordered:    true,
	HasActive:  true,
	Defaults:   map[string]any{"is_active": true},
	Filterable: map[string]Kind{"issuer": KindString, "is_active": KindBool},
	Searchable: []string{"title", "issuer", "description"},
	Sortable:   []string{"order", "title", "achieved_at", "created_at"},
	TieBreak:   []SortKey{{Column: "achieved_at", Desc: true}, {Column: "title"}},
	Columns: []Column{
		{Header: "Title", Key: "title"},
		{Header: "Issuer", Key: "issuer"},
		{Header: "Description", Key: "description"},
		{Header: "Achieved At", Key: "achieved_at", Kind: KindDate},
		{Header: "URL", Key: "url"},
		{Header: "Active", Key: "is_active", Kind: KindBool},
		{Header: "Order", Key: "order", Kind: KindInt},
	},
})

func (Achievement) Schema() *Schema { return AchievementSchema }

func (a Achievement) Active() bool { return a.IsActive }
