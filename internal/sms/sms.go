// Package sms delivers entanglement alerts over Twilio when the account
// is configured. Without credentials the feature is simply off.
package sms

import (
	"fmt"
	"os"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

type Sender struct {
	client *twilio.RestClient
	from   string
	to     string
}

// NewFromEnv builds a sender from TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN,
// TWILIO_FROM and TWILIO_ALERT_TO. Returns nil when any are missing.
func NewFromEnv() *Sender {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	token := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_FROM")
	to := os.Getenv("TWILIO_ALERT_TO")
	if sid == "" || token == "" || from == "" || to == "" {
		return nil
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: sid,
		Password: token,
	})
	return &Sender{client: client, from: from, to: to}
}

func (s *Sender) Send(text string) error {
	params := &api.CreateMessageParams{}
	params.SetTo(s.to)
	params.SetFrom(s.from)
	params.SetBody(text)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	return nil
}
