package services

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rpupo63/portfolio-cms-backend/errs"
)

type twilioMessages interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioSender sends SMS through Twilio's REST API.
type TwilioSender struct {
	api  twilioMessages
	from string
}

func NewTwilioSender(accountSID, authToken, from string) (*TwilioSender, error) {
	if accountSID == "" || authToken == "" {
		return nil, errs.NewConfigMissingError("TWILIO_ACCOUNT_SID/TWILIO_AUTH_TOKEN")
	}
	if from == "" {
		return nil, errs.NewConfigMissingError("TWILIO_FROM_NUMBER")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{api: client.Api, from: from}, nil
}

func (s *TwilioSender) SendSMS(to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return errs.NewNotificationError("SMS", fmt.Errorf("twilio: %w", err))
	}
	if resp != nil && resp.Sid != nil {
		log.Info().Str("sid", *resp.Sid).Msg("Successfully sent SMS via Twilio")
	}
	return nil
}
