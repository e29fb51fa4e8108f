package llm

import (
	"context"
	"io"
	"log"
	"strings"
)

// Simulated answers prompts with canned responses so the product can be
// demoed without credentials.
type Simulated struct {
	logger *log.Logger
}

// NewSimulated returns a Simulated completer.
func NewSimulated(logger *log.Logger) *Simulated {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Simulated{logger: logger}
}

const (
	simulatedAnalysis = `{
  "name": "Simulated SecureLife",
  "summary": "This is a simulated summary for the uploaded policy, as the AI service is not yet configured. To get real analysis, please set up your API key.",
  "pros": ["Simulated Benefit 1", "Simulated Benefit 2", "Simulated Benefit 3"],
  "cons": ["Simulated Limitation 1", "Simulated Limitation 2"]
}`
	simulatedExtraction = `{
  "policy_number": "SIM-000001",
  "insurer": "Simulated Insurance Co.",
  "type": "Health",
  "premium_amount": 12000,
  "coverage_amount": 500000,
  "start_date": null,
  "end_date": null
}`
	// SimulatedSuggestion is the rewrite returned without a backend.
	SimulatedSuggestion = "Consider this improved version: Exciting new offers and benefits are now available exclusively for you!"
	// SimulatedReply is the generic answer returned without a backend.
	SimulatedReply = "This is a simulated response from the LLM. Please configure your API keys to get a live answer."
)

func (s *Simulated) Complete(_ context.Context, prompt string) (string, error) {
	s.logger.Printf("llm: simulated completion prompt_len=%d", len(prompt))
	switch {
	case strings.Contains(prompt, MarkerAnalysis):
		return simulatedAnalysis, nil
	case strings.Contains(prompt, MarkerExtraction):
		return simulatedExtraction, nil
	case strings.Contains(prompt, MarkerRewrite):
		return SimulatedSuggestion, nil
	default:
		return SimulatedReply, nil
	}
}
