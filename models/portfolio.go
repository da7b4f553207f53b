package models

import "gorm.io/datatypes"

// Portfolio is a showcased project.
type Portfolio struct {
	Base
	Ordering
	Title        string                      `json:"title" db:"title" gorm:"type:text;not null" validate:"required,max=200"`
	Description  string                      `json:"description" db:"description" gorm:"type:text"`
	Category     string                      `json:"category" db:"category" gorm:"type:text;index" validate:"max=100"`
	Technologies datatypes.JSONSlice[string] `json:"technologies" db:"technologies"`
	ProjectURL   string                      `json:"project_url" db:"project_url" gorm:"type:text" validate:"omitempty,url"`
	GithubURL    string                      `json:"github_url" db:"github_url" gorm:"type:text" validate:"omitempty,url"`
	ImagePath    string                      `json:"image_path" db:"image_path" gorm:"type:text"`
	CompletedAt  *datatypes.Date             `json:"completed_at" db:"completed_at"`
	IsFeatured   bool                        `json:"is_featured" db:"is_featured" gorm:"not null;index"`
}

var PortfolioSchema = register(&Schema{
	Name:        "portfolio",
	Collection:  "portfolios",
	Label:       "Portfolio",
	Ordered:     true,
	HasFeatured: true,
	Defaults:    map[string]any{"is_featured": false},
	Filterable:  map[string]Kind{"category": KindString, "is_featured": KindBool},
	Searchable:  []string{"title", "description", "category"},
	Sortable:    []string{"order", "title", "completed_at", "created_at"},
	TieBreak:    []SortKey{{Column: "completed_at", Desc: true}, {Column: "title"}},
	Columns: []Column{
		{Header: "Title", Key: "title"},
		{Header: "Description", Key: "description"},
		{Header: "Category", Key: "category"},
		{Header: "Technologies", Key: "technologies", Kind: KindList},
		{Header: "Project URL", Key: "project_url"},
		{Header: "GitHub URL", Key: "github_url"},
		{Header: "Image Path", Key: "image_path"},
		{Header: "Completed At", Key: "completed_at", Kind: KindDate},
		{Header: "Featured", Key: "is_featured", Kind: KindBool},
		{Header: "Order", Key: "order", Kind: KindInt},
	},
})

func (Portfolio) Schema() *Schema { return PortfolioSchema }
