// Package chatbot answers agent FAQ messages.
package chatbot

import (
	"context"
	"fmt"
	"strings"

	"turtlemint-b2b/internal/llm"
)

// Message is an incoming chat line.
type Message struct {
	Text   string
	UserID string
}

// ReplyGenerator produces the bot's answer to a message.
type ReplyGenerator interface {
	Reply(ctx context.Context, msg Message) (string, error)
}

const (
	ModeRules = "rules"
	ModeLLM   = "llm"
)

// New returns the generator for mode. Unknown modes fall back to rules.
func New(mode string, completer llm.Completer) ReplyGenerator {
	if strings.EqualFold(strings.TrimSpace(mode), ModeLLM) && completer != nil {
		return NewLLM(completer)
	}
	return Rules{}
}

const (
	replyRenew    = "To renew, open the policy, click 'Make Payment', choose method and complete. Receipts are generated automatically."
	replyDocument = "Common documents: Aadhaar/PAN, last policy copy, address proof. Upload via AI Scan to autofill."
	replyReceipt  = "After a successful payment, a digital receipt is downloadable and sent via SMS/Email/WhatsApp."
	// FallbackReply is given when no rule matches.
	FallbackReply = "I can help with renewals, payments, receipts, and documents."
)

// Rules answers by keyword. The first matching keyword wins.
type Rules struct{}

func (Rules) Reply(_ context.Context, msg Message) (string, error) {
	text := strings.ToLower(msg.Text)
	switch {
	case strings.Contains(text, "renew"):
		return replyRenew, nil
	case strings.Contains(text, "document"):
		return replyDocument, nil
	case strings.Contains(text, "receipt"):
		return replyReceipt, nil
	default:
		return FallbackReply, nil
	}
}

// LLM answers through the completion service, with the keyword rules as
// the fallback for empty answers.
type LLM struct {
	completer llm.Completer
	rules     Rules
}

// NewLLM returns an LLM-backed generator.
func NewLLM(completer llm.Completer) *LLM {
	return &LLM{completer: completer}
}

func (l *LLM) Reply(ctx context.Context, msg Message) (string, error) {
	reply, err := l.completer.Complete(ctx, buildPrompt(msg))
	if err != nil {
		return "", fmt.Errorf("chatbot: complete: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return l.rules.Reply(ctx, msg)
	}
	return reply, nil
}

func buildPrompt(msg Message) string {
	return fmt.Sprintf(`You are a helpful assistant for insurance agents using the Turtlemint B2B dashboard.
Answer briefly (at most three sentences) and only about policies, renewals, payments, receipts and documents.
Agent question: """%s"""`, strings.TrimSpace(msg.Text))
}
