package llm

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Gemini is a Completer backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	logger *log.Logger
}

// NewGemini creates a Gemini completer.
func NewGemini(ctx context.Context, apiKey, model string, logger *log.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{client: client, model: model, logger: logger}, nil
}

// Complete sends prompt to the model and returns its trimmed text answer,
// which is empty when the model produced none.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		g.logger.Printf("gemini: generate model=%s err=%v", g.model, err)
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	text := replyText(resp)
	if text == "" {
		g.logger.Printf("gemini: empty answer model=%s", g.model)
	}
	return text, nil
}

// replyText is the trimmed text of the first candidate. An answer with no
// text comes back empty so each caller applies its own fallback.
func replyText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return strings.TrimSpace(resp.Text())
}
