package messaging

import (
	"context"
	"io"
	"log"
	"sync"
)

// Simulated logs messages instead of sending them. Sent messages are kept
// so callers can inspect what would have gone out.
type Simulated struct {
	logger *log.Logger

	mu   sync.Mutex
	sent []Message
}

// Message is a message captured by Simulated.
type Message struct {
	To   string
	Body string
}

// NewSimulated returns a Simulated sender.
func NewSimulated(logger *log.Logger) *Simulated {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Simulated{logger: logger}
}

func (s *Simulated) Send(_ context.Context, phone, body string) error {
	to, err := NormalizePhone(phone)
	if err != nil {
		return err
	}
	s.logger.Printf("messaging: (simulated) whatsapp to=%s body=%q", to, body)
	s.mu.Lock()
	s.sent = append(s.sent, Message{To: to, Body: body})
	s.mu.Unlock()
	return nil
}

// Sent returns a copy of the captured messages.
func (s *Simulated) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}
