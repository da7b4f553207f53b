package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// Submission is what a visitor sends through the contact form, plus request metadata.
type Submission struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
	Referrer  string `json:"-"`
	Country   string `json:"-"`
}

// MessageService drives the contact message lifecycle.
type MessageService struct {
	messages  *database.MessageRepo
	events    database.EventLog
	validator database.Validator
	notifier  *Notifier
	now       func() time.Time
}

// NewMessageService accepts a nil notifier, in which case nobody is told about new messages.
func NewMessageService(db database.Database, validator database.Validator, notifier *Notifier) *MessageService {
	return &MessageService{
		messages:  db.MessageRepo(),
		events:    db.EventLog(),
		validator: validator,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Submit stores a new message. Recording the analytics event and notifying the
// admin never fail the submission.
func (s *MessageService) Submit(ctx context.Context, submission Submission) (*models.ContactMessage, error) {
	msg := models.NewContactMessage(
		strings.TrimSpace(submission.Name),
		strings.TrimSpace(submission.Email),
		strings.TrimSpace(submission.Subject),
		strings.TrimSpace(submission.Body),
	)
	msg.IPAddress = submission.IPAddress
	msg.UserAgent = submission.UserAgent
	msg.Referrer = submission.Referrer
	msg.Country = submission.Country

	if err := s.validator.Struct(msg); err != nil {
		return nil, err
	}
	if err := s.messages.Add(ctx, msg); err != nil {
		return nil, err
	}

	event := &models.AnalyticsEvent{
		EventType: models.EventContactFormSubmit,
		Page:      "/contact",
		Payload:   map[string]any{"message_id": msg.ID.String()},
		IPAddress: submission.IPAddress,
		UserAgent: submission.UserAgent,
	}
	if err := s.events.Append(ctx, event); err != nil {
		log.Warn().Err(err).Str("messageID", msg.ID.String()).Msg("Failed to record contact submission event")
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyNewMessage(ctx, msg); err != nil {
			log.Warn().Err(err).Str("messageID", msg.ID.String()).Msg("Contact message stored but notification failed")
		}
	}
	return msg, nil
}

// Show returns the message and marks it read when it is new.
func (s *MessageService) Show(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	return s.MarkRead(ctx, id)
}

func (s *MessageService) MarkRead(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	msg, _, err := s.messages.Transition(ctx, id, func(msg *models.ContactMessage) (bool, error) {
		return msg.MarkRead(s.now()), nil
	})
	return msg, err
}

// Reply records the admin's reply. With sendEmail set the reply is emailed first
// and nothing is recorded if sending fails.
func (s *MessageService) Reply(ctx context.Context, id uuid.UUID, body string, sendEmail bool) (*models.ContactMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errs.NewValidationError(map[string]string{"reply_body": "is required"})
	}

	msg, err := s.messages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.Status == models.StatusArchived {
		return nil, errs.NewInvalidTransitionError(string(msg.Status), string(models.StatusReplied))
	}

	if sendEmail {
		if s.notifier == nil {
			return nil, errs.NewNotificationError("email", errs.NewConfigMissingError("RESEND_API_KEY"))
		}
		if err := s.notifier.SendReply(ctx, msg, body); err != nil {
			return nil, errs.NewNotificationError("email", err)
		}
	}

	msg, _, err = s.messages.Transition(ctx, id, func(msg *models.ContactMessage) (bool, error) {
		if err := msg.MarkReplied(body, s.now()); err != nil {
			return false, err
		}
		return true, nil
	})
	return msg, err
}

func (s *MessageService) Archive(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	msg, _, err := s.messages.Transition(ctx, id, func(msg *models.ContactMessage) (bool, error) {
		return msg.Archive(s.now()), nil
	})
	return msg, err
}

// UpdateNotes replaces the admin notes without touching the status.
func (s *MessageService) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*models.ContactMessage, error) {
	msg, _, err := s.messages.Transition(ctx, id, func(msg *models.ContactMessage) (bool, error) {
		if msg.AdminNotes == notes {
			return false, nil
		}
		msg.AdminNotes = notes
		return true, nil
	})
	return msg, err
}

func (s *MessageService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.messages.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errs.NewNotFound(messageLabel)
	}
	return nil
}

func (s *MessageService) List(ctx context.Context, query database.MessageQuery) (database.Page[models.ContactMessage], error) {
	return s.messages.List(ctx, query)
}

func (s *MessageService) StatusCounts(ctx context.Context) (map[models.MessageStatus]int64, error) {
	return s.messages.StatusCounts(ctx)
}

const messageLabel = "Message"
