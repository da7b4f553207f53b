package models

// Profile is the single site-owner row.
type Profile struct {
	Base
	FullName  string `json:"full_name" db:"full_name" gorm:"type:text;not null" validate:"required,max=200"`
	Headline  string `json:"headline" db:"headline" gorm:"type:text" validate:"max=200"`
	Bio       string `json:"bio" db:"bio" gorm:"type:text"`
	Email     string `json:"email" db:"email" gorm:"type:text" validate:"omitempty,email"`
	Location  string `json:"location" db:"location" gorm:"type:text"`
	PhotoPath string `json:"-" db:"photo_path" gorm:"type:text"`
	CVPath    string `json:"-" db:"cv_path" gorm:"type:text"`
}

// PublicProfile is what visitors see: stored paths resolved to URLs.
type PublicProfile struct {
	FullName string `json:"full_name"`
	Headline string `json:"headline"`
	Bio      string `json:"bio"`
	Email    string `json:"email"`
	Location string `json:"location"`
	PhotoURL string `json:"photo_url,omitempty"`
	CVURL    string `json:"cv_url,omitempty"`
}

func (p Profile) Public(urlFor func(path string) string) PublicProfile {
	out := PublicProfile{
		FullName: p.FullName,
		Headline: p.Headline,
		Bio:      p.Bio,
		Email:    p.Email,
		Location: p.Location,
	}
	if p.PhotoPath != "" {
		out.PhotoURL = urlFor(p.PhotoPath)
	}
	if p.CVPath != "" {
		out.CVURL = urlFor(p.CVPath)
	}
	return out
}
