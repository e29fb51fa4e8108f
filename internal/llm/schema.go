package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PolicyAnalysis is the model's plain-language read of a policy document.
type PolicyAnalysis struct {
	Name    string   `json:"name"`
	Summary string   `json:"summary"`
	Pros    []string `json:"pros"`
	Cons    []string `json:"cons"`
}

func (a *PolicyAnalysis) MissingField() string {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return "name"
	case strings.TrimSpace(a.Summary) == "":
		return "summary"
	case len(a.Pros) == 0:
		return "pros"
	case len(a.Cons) == 0:
		return "cons"
	}
	return ""
}

// ExtractedPolicy holds fields pulled out of an uploaded policy document.
// Absent values come back as null.
type ExtractedPolicy struct {
	PolicyNumber   *string `json:"policy_number"`
	Insurer        *string `json:"insurer"`
	Type           *string `json:"type"`
	PremiumAmount  *Amount `json:"premium_amount"`
	CoverageAmount *Amount `json:"coverage_amount"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
}

func (e *ExtractedPolicy) MissingField() string {
	switch {
	case e.Insurer == nil || strings.TrimSpace(*e.Insurer) == "":
		return "insurer"
	case e.Type == nil || strings.TrimSpace(*e.Type) == "":
		return "type"
	}
	return ""
}

// Amount is a currency value the model may render as a number or as text
// such as "₹ 14,500".
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*a = Amount(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	// "Rs. 14,500" leaves a stray leading dot
	cleaned = strings.TrimLeft(cleaned, ".")
	if cleaned == "" {
		return nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return fmt.Errorf("amount %q: %w", s, err)
	}
	*a = Amount(f)
	return nil
}

// Float returns the amount as a pointer, nil when a is nil.
func (a *Amount) Float() *float64 {
	if a == nil {
		return nil
	}
	f := float64(*a)
	return &f
}
