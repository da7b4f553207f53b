package models

type SocialLink struct {
	Base
	Ordering
	Platform string `json:"platform" db:"platform" gorm:"type:text;not null" validate:"required,max=50"`
	URL      string `json:"url" db:"url" gorm:"type:text;not null" validate:"required,url"`
	Icon     string `json:"icon" db:"icon" gorm:"type:text"`
	IsActive bool   `json:"is_active" db:"is_active" gorm:"not null;index"`
}

var SocialLinkSchema = register(&Schema{
	Name:       "social-link",
	Collection: "social-links",
	Label:      "Social link",
	Ordered:    true,
	HasActive:  true,
	Defaults:   map[string]any{"is_active": true},
	Filterable: map[string]Kind{"platform": KindString, "is_active": KindBool},
	Searchable: []string{"platform", "url"},
	Sortable:   []string{"order", "platform", "created_at"},
	TieBreak:   []SortKey{{Column: "platform"}},
	Columns: []Column{
		{Header: "Platform", Key: "platform"},
		{Header: "URL", Key: "url"},
		{Header: "Icon", Key: "icon"},
		{Header: "Active", Key: "is_active", Kind: KindBool},
		{Header: "Order", Key: "order", Kind: KindInt},
	},
})

func (SocialLink) Schema() *Schema { return SocialLinkSchema }

func (l SocialLink) Active() bool { return l.IsActive }
