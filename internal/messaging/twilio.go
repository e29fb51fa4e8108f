package messaging

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Twilio sends WhatsApp messages through the Twilio Messages API.
type Twilio struct {
	api    messageCreator
	from   string
	logger *log.Logger
}

// NewTwilio builds a sender from account credentials. from is the
// WhatsApp-enabled sender number.
func NewTwilio(accountSID, authToken, from string, logger *log.Logger) *Twilio {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return newTwilio(client.Api, from, logger)
}

func newTwilio(api messageCreator, from string, logger *log.Logger) *Twilio {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Twilio{api: api, from: from, logger: logger}
}

func (t *Twilio) Send(ctx context.Context, phone, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to, err := NormalizePhone(phone)
	if err != nil {
		return err
	}
	from, err := NormalizePhone(t.from)
	if err != nil {
		return fmt.Errorf("twilio: sender number: %w", err)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:" + to)
	params.SetFrom("whatsapp:" + from)
	params.SetBody(body)

	msg, err := t.api.CreateMessage(params)
	if err != nil {
		t.logger.Printf("twilio: send to=%s err=%v", to, err)
		return fmt.Errorf("twilio: create message: %w", err)
	}
	if msg != nil && msg.Sid != nil {
		t.logger.Printf("twilio: queued sid=%s to=%s", *msg.Sid, to)
	}
	return nil
}
