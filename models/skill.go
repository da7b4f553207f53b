package models

import "gorm.io/datatypes"

type Skill struct {
	Base
	Ordering
	Name        string                      `json:"name" db:"name" gorm:"type:text;not null" validate:"required,max=100"`
	Category    string                      `json:"category" db:"category" gorm:"type:text;index" validate:"max=100"`
	Proficiency int                         `json:"proficiency" db:"proficiency" gorm:"not null" validate:"gte=0,lte=100"`
	Icon        string                      `json:"icon" db:"icon" gorm:"type:text"`
	Tags        datatypes.JSONSlice[string] `json:"tags" db:"tags"`
	IsFeatured  bool                        `json:"is_featured" db:"is_featured" gorm:"not null"`
	IsActive    bool                        `json:"is_active" db:"is_active" gorm:"not null;index"`
}

var SkillSchema = register(&Schema{
	Name:        "skill",
	Collection:  "skills",
	Label:       "Skill",
	Ordered:     true,
	HasFeatured: true,
	HasActive:   true,
	Defaults:    map[string]any{"is_featured": false, "is_active": true},
	Filterable:  map[string]Kind{"category": KindString, "is_featured": KindBool, "is_active": KindBool},
	Searchable:  []string{"name", "category"},
	Sortable:    []string{"order", "name", "proficiency", "created_at"},
	TieBreak:    []SortKey{{Column: "name"}},
	Columns: []Column{
		{Header: "Name", Key: "name"},
		{Header: "Category", Key: "category"},
		{Header: "Proficiency", Key: "proficiency", Kind: KindInt},
		{Header: "Icon", Key: "icon"},
		{Header: "Tags", Key: "tags", Kind: KindList},
		{Header: "Featured", Key: "is_featured", Kind: KindBool},
		{Header: "Active", Key: "is_active", Kind: KindBool},
		{Header: "Order", Key: "order", Kind: KindInt},
	},
})

func (Skill) Schema() *Schema { return SkillSchema }

func (s Skill) Active() bool { return s.IsActive }
