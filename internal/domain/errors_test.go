package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	wrapped := fmt.Errorf("assign: %w", ErrPolicyNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatalf("expected wrapped policy error to match ErrNotFound")
	}
	var nf *NotFoundError
	if !errors.As(wrapped, &nf) || nf.Message != "Policy not found." {
		t.Fatalf("unexpected not found error %+v", nf)
	}
	if !errors.Is(ErrDuplicateEmail, ErrAlreadyExists) || errors.Is(ErrDuplicateEmail, ErrNotFound) {
		t.Fatalf("conflict error matched the wrong sentinel")
	}
	if !IsValidation(fmt.Errorf("x: %w", Invalid("Message is required."))) {
		t.Fatalf("expected wrapped validation error")
	}
}

func TestParsePolicyTypeAndStatus(t *testing.T) {
	if got, ok := ParsePolicyType("motor insurance"); !ok || got != PolicyTypeMotor {
		t.Fatalf("expected Motor, got %q %v", got, ok)
	}
	if _, ok := ParsePolicyType("pet"); ok {
		t.Fatalf("expected unknown type")
	}
	if got, ok := ParsePolicyStatus("renewal_due"); !ok || got != StatusRenewalDue {
		t.Fatalf("expected Renewal Due, got %q %v", got, ok)
	}
	if _, ok := ParsePolicyStatus("cancelled"); ok {
		t.Fatalf("expected unknown status")
	}
}
