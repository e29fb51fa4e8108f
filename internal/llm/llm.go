// Package llm talks to the text completion service and turns its free-form
// answers into typed results.
package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no completion backend is available.
var ErrNotConfigured = errors.New("completion service is not configured")

// Completer returns the model's text answer for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Disabled is a Completer for deployments without a completion backend.
type Disabled struct{}

func (Disabled) Complete(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// Markers the prompt builders embed so the simulated backend can answer in
// the expected shape.
const (
	MarkerAnalysis   = "Analyze the following policy document text"
	MarkerExtraction = "insurance data extraction expert"
	MarkerRewrite    = "writing assistant"
)
