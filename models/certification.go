package models

import (
	"time"

	"gorm.io/datatypes"
)

type Certification struct {
	Base
	Name          string          `json:"name" db:"name" gorm:"type:text;not null" validate:"required,max=200"`
	Issuer        string          `json:"issuer" db:"issuer" gorm:"type:text;not null" validate:"required,max=200"`
	IssuedAt      *datatypes.Date `json:"issued_at" db:"issued_at"`
	ExpiresAt     *datatypes.Date `json:"expires_at" db:"expires_at"`
	CredentialID  string          `json:"credential_id" db:"credential_id" gorm:"type:text"`
	CredentialURL string          `json:"credential_url" db:"credential_url" gorm:"type:text" validate:"omitempty,url"`
	IsFeatured    bool            `json:"is_featured" db:"is_featured" gorm:"not null"`
}

var CertificationSchema = register(&Schema{
	Name:        "certification",
	Collection:  "certifications",
	Label:       "Certification",
	HasFeatured: true,
	Defaults:    map[string]any{"is_featured": false},
	Filterable:  map[string]Kind{"issuer": KindString, "is_featured": KindBool},
	Searchable:  []string{"name", "issuer", "credential_id"},
	Sortable:    []string{"name", "issued_at", "expires_at", "created_at"},
	TieBreak:    []SortKey{{Column: "issued_at", Desc: true}, {Column: "name"}},
	Columns: []Column{
		{Header: "Name", Key: "name"},
		{Header: "Issuer", Key: "issuer"},
		{Header: "Issued At", Key: "issued_at", Kind: KindDate},
		{Header: "Expires At", Key: "expires_at", Kind: KindDate},
		{Header: "Credential ID", Key: "credential_id"},
		{Header: "Credential URL", Key: "credential_url"},
		{Header: "Featured", Key: "is_featured", Kind: KindBool},
	},
})

func (Certification) Schema() *Schema { return CertificationSchema }

func (c Certification) Check() map[string]string {
	problems := map[string]string{}
	if c.IssuedAt != nil && c.ExpiresAt != nil && time.Time(*c.ExpiresAt).Before(time.Time(*c.IssuedAt)) {
		problems["expires_at"] = "must not be before issued_at"
	}
	return problems
}
