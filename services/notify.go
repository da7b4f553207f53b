package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

// SMSSender delivers a text message.
type SMSSender interface {
	SendSMS(to, body string) error
}

// Notifier tells the site owner about a new contact message over every configured channel.
type Notifier struct {
	mailer     Mailer
	adminEmail string
	sms        SMSSender
	adminPhone string
}

// NewNotifier accepts nil channels; a channel with no sender or no recipient is skipped.
func NewNotifier(mailer Mailer, adminEmail string, sms SMSSender, adminPhone string) *Notifier {
	return &Notifier{mailer: mailer, adminEmail: adminEmail, sms: sms, adminPhone: adminPhone}
}

// Channels lists the channels that will be attempted.
func (n *Notifier) Channels() []string {
	var channels []string
	if n.mailer != nil && n.adminEmail != "" {
		channels = append(channels, "email")
	}
	if n.sms != nil && n.adminPhone != "" {
		channels = append(channels, "sms")
	}
	return channels
}

// NotifyNewMessage tries every channel even when one fails and returns the combined failure.
func (n *Notifier) NotifyNewMessage(ctx context.Context, msg *models.ContactMessage) error {
	var failures []string
	var successes []string

	for _, channel := range n.Channels() {
		var err error
		switch channel {
		case "email":
			err = n.mailer.SendEmail(ctx, Email{
				To:      []string{n.adminEmail},
				Subject: "New contact message: " + subjectOf(msg),
				HTML:    messageHTML(msg),
				ReplyTo: msg.Email,
			})
		case "sms":
			err = n.sms.SendSMS(n.adminPhone, messageSMS(msg))
		}
		if err != nil {
			log.Error().Err(err).Str("channel", channel).Str("messageID", msg.ID.String()).Msg("Failed to notify about contact message")
			failures = append(failures, fmt.Sprintf("%s: %v", channel, err))
			continue
		}
		successes = append(successes, channel)
	}

	if len(successes) > 0 {
		log.Info().Strs("channels", successes).Str("messageID", msg.ID.String()).Msg("Notified about contact message")
	}
	if len(failures) > 0 {
		return fmt.Errorf("some channels failed: %s", strings.Join(failures, "; "))
	}
	return nil
}

// SendReply emails the admin's reply to the original sender.
func (n *Notifier) SendReply(ctx context.Context, msg *models.ContactMessage, body string) error {
	if n.mailer == nil {
		return fmt.Errorf("email is not configured")
	}
	return n.mailer.SendEmail(ctx, Email{
		To:      []string{msg.Email},
		Subject: "Re: " + subjectOf(msg),
		Text:    body,
		ReplyTo: n.adminEmail,
	})
}

func subjectOf(msg *models.ContactMessage) string {
	if strings.TrimSpace(msg.Subject) == "" {
		return "(no subject)"
	}
	return msg.Subject
}

func messageHTML(msg *models.ContactMessage) string {
	return fmt.Sprintf("<p><strong>%s</strong> &lt;%s&gt; wrote:</p><p>%s</p>",
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		strings.ReplaceAll(html.EscapeString(msg.Body), "\n", "<br>"),
	)
}

func messageSMS(msg *models.ContactMessage) string {
	body := msg.Body
	if len([]rune(body)) > 120 {
		body = string([]rune(body)[:120]) + "..."
	}
	return fmt.Sprintf("New message from %s (%s): %s", msg.Name, msg.Email, body)
}
