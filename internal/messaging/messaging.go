// Package messaging delivers WhatsApp text messages to customers.
package messaging

import (
	"context"
	"errors"
	"strings"
)

// ErrNoPhone is returned when a recipient has no usable number.
var ErrNoPhone = errors.New("recipient has no phone number")

// Sender delivers a single text message. A nil error means the gateway
// accepted the message; delivery is not confirmed and nothing is retried.
type Sender interface {
	Send(ctx context.Context, phone, body string) error
}

// NormalizePhone strips formatting from a phone number and guarantees a
// leading "+". Ten-digit numbers are assumed to be Indian mobiles.
func NormalizePhone(phone string) (string, error) {
	phone = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(phone), "whatsapp:"))
	var b strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.TrimPrefix(digits, "+") == "" {
		return "", ErrNoPhone
	}
	if strings.HasPrefix(digits, "+") {
		return digits, nil
	}
	if len(digits) == 10 {
		return "+91" + digits, nil
	}
	return "+" + digits, nil
}
