package llm

import (
	"encoding/json"
	"strings"
)

// ParseErrorKind classifies why a completion could not be used.
type ParseErrorKind string

const (
	KindInvalidFormat ParseErrorKind = "invalid_format"
	KindMissingField  ParseErrorKind = "missing_field"
)

// ParseError reports a completion that did not match the expected schema.
type ParseError struct {
	Kind  ParseErrorKind
	Field string
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Kind == KindMissingField {
		return "The AI response was missing required fields."
	}
	return "The AI returned an invalid or incomplete format. Please try analyzing again."
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Schema is implemented by the typed results decoded from completions.
// MissingField names the first required field that is absent, or "".
type Schema interface {
	MissingField() string
}

// Parse decodes the JSON object embedded in raw into dst and checks its
// required fields. Models like to wrap JSON in prose or markdown fences, so
// only the outermost brace-delimited span is decoded.
func Parse(raw string, dst Schema) error {
	if err := json.Unmarshal([]byte(extractObject(raw)), dst); err != nil {
		return &ParseError{Kind: KindInvalidFormat, Raw: raw, Err: err}
	}
	if field := dst.MissingField(); field != "" {
		return &ParseError{Kind: KindMissingField, Field: field, Raw: raw}
	}
	return nil
}

func extractObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return raw
	}
	return raw[start : end+1]
}
