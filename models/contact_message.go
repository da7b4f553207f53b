package models

import (
	"time"

	"github.com/rpupo63/portfolio-cms-backend/errs"
)

type MessageStatus string

const (
	StatusNew      MessageStatus = "new"
	StatusRead     MessageStatus = "read"
	StatusReplied  MessageStatus = "replied"
	StatusArchived MessageStatus = "archived"
)

// MessageStatuses lists every status in lifecycle order.
var MessageStatuses = []MessageStatus{StatusNew, StatusRead, StatusReplied, StatusArchived}

func (s MessageStatus) Valid() bool {
	for _, status := range MessageStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ContactMessage is an inbound message from the public contact form.
type ContactMessage struct {
	Base
	Name       string        `json:"name" db:"name" gorm:"type:text;not null" validate:"required,max=100"`
	Email      string        `json:"email" db:"email" gorm:"type:text;not null" validate:"required,email,max=254"`
	Subject    string        `json:"subject" db:"subject" gorm:"type:text" validate:"max=200"`
	Body       string        `json:"body" db:"body" gorm:"type:text;not null" validate:"required,max=5000"`
	Status     MessageStatus `json:"status" db:"status" gorm:"type:text;not null;index"`
	ReadAt     *time.Time    `json:"read_at" db:"read_at"`
	RepliedAt  *time.Time    `json:"replied_at" db:"replied_at"`
	ArchivedAt *time.Time    `json:"archived_at" db:"archived_at"`
	AdminNotes string        `json:"admin_notes" db:"admin_notes" gorm:"type:text"`
	ReplyBody  string        `json:"reply_body" db:"reply_body" gorm:"type:text"`
	IPAddress  string        `json:"ip_address" db:"ip_address" gorm:"type:text"`
	UserAgent  string        `json:"user_agent" db:"user_agent" gorm:"type:text"`
	Referrer   string        `json:"referrer" db:"referrer" gorm:"type:text"`
	Country    string        `json:"country" db:"country" gorm:"type:text"`
}

// NewContactMessage returns a message in the initial state.
func NewContactMessage(name, email, subject, body string) *ContactMessage {
	return &ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Body:    body,
		Status:  StatusNew,
	}
}

// MarkRead moves new to read. Any other state is left alone.
func (m *ContactMessage) MarkRead(now time.Time) bool {
	if m.Status != StatusNew {
		return false
	}
	m.Status = StatusRead
	m.ReadAt = &now
	return true
}

// MarkReplied records a reply from any state except archived. A later reply
// overwrites the earlier body.
func (m *ContactMessage) MarkReplied(body string, now time.Time) error {
	if m.Status == StatusArchived {
		return errs.NewInvalidTransitionError(string(m.Status), string(StatusReplied))
	}
	if m.ReadAt == nil {
		m.ReadAt = &now
	}
	m.Status = StatusReplied
	m.RepliedAt = &now
	m.ReplyBody = body
	return nil
}

// Archive is terminal; archiving twice is a no-op.
func (m *ContactMessage) Archive(now time.Time) bool {
	if m.Status == StatusArchived {
		return false
	}
	m.Status = StatusArchived
	m.ArchivedAt = &now
	return true
}
