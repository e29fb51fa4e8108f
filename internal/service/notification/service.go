// Package notification sends one-off WhatsApp messages about a policy.
package notification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strings"
	"time"

	"turtlemint-b2b/internal/domain"
	"turtlemint-b2b/internal/messaging"
	"turtlemint-b2b/internal/metrics"
	custrepo "turtlemint-b2b/internal/repository/customer"
	policyrepo "turtlemint-b2b/internal/repository/policy"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Service sends reminders and plan recommendations.
type Service struct {
	policies  policyrepo.Repository
	customers custrepo.Repository
	sender    messaging.Sender
	clock     func() time.Time
	logger    *log.Logger
}

// New creates a Service.
func New(policies policyrepo.Repository, customers custrepo.Repository, sender messaging.Sender, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		policies:  policies,
		customers: customers,
		sender:    sender,
		clock:     time.Now,
		logger:    logger,
	}
}

// Reminder sends a renewal reminder to the holder of policyID and records
// the contact time.
func (s *Service) Reminder(ctx context.Context, policyID string) error {
	policyID = strings.TrimSpace(policyID)
	if policyID == "" {
		return domain.Invalid("Policy ID is required.")
	}
	v, err := s.policies.GetView(ctx, policyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrPolicyNotFound
		}
		return fmt.Errorf("reminder: %w", err)
	}
	if v.CustomerID == "" {
		return domain.Invalid("Policy is not assigned to a customer.")
	}
	if !v.HasPhone() {
		return domain.Invalid("Customer has no phone number on file.")
	}

	err = s.sender.Send(ctx, v.Phone, ReminderText(*v))
	metrics.MessagesSentTotal.WithLabelValues("reminder", metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("reminder for %s: %w", v.ID, err)
	}
	s.touch(ctx, v.ID)
	return nil
}

// ReminderText renders the renewal reminder for v.
func ReminderText(v domain.PolicyView) string {
	due := "soon"
	if v.DueDate != "" && v.DueDate != domain.NoDueDate {
		due = "on " + v.DueDate
	}
	return fmt.Sprintf("Hi %s, a friendly reminder that your %s policy %s with %s is due for renewal %s. Please renew on time to keep your coverage active.",
		v.Customer, v.Type, v.ID, v.Insurer, due)
}

// RecommendInput describes a plan pitched to a customer. Phone may be
// empty when PolicyID or the customer name identifies a known customer.
type RecommendInput struct {
	CustomerName string  `json:"customerName"`
	Phone        string  `json:"phone"`
	PolicyID     string  `json:"policyId"`
	PolicyName   string  `json:"policyName"`
	Premium      float64 `json:"premium"`
	Coverage     float64 `json:"coverage"`
}

// Recommend sends a plan recommendation.
func (s *Service) Recommend(ctx context.Context, in RecommendInput) error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.PolicyName = strings.TrimSpace(in.PolicyName)
	if in.CustomerName == "" {
		return domain.Invalid("Customer name is required.")
	}
	if in.PolicyName == "" {
		return domain.Invalid("Plan name is required.")
	}

	phone, err := s.resolvePhone(ctx, in)
	if err != nil {
		return err
	}

	err = s.sender.Send(ctx, phone, RecommendationText(in.CustomerName, in.PolicyName, in.Premium, in.Coverage))
	metrics.MessagesSentTotal.WithLabelValues("recommendation", metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("recommendation for %s: %w", in.CustomerName, err)
	}
	if id := strings.TrimSpace(in.PolicyID); id != "" {
		s.touch(ctx, id)
	}
	return nil
}

func (s *Service) resolvePhone(ctx context.Context, in RecommendInput) (string, error) {
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		return phone, nil
	}
	if id := strings.TrimSpace(in.PolicyID); id != "" {
		v, err := s.policies.GetView(ctx, id)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("recommendation: %w", err)
		}
		if err == nil && v.HasPhone() {
			return v.Phone, nil
		}
	}
	c, err := s.customers.FindByName(ctx, in.CustomerName)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("recommendation: %w", err)
	}
	if err == nil && strings.TrimSpace(c.Phone) != "" {
		return c.Phone, nil
	}
	return "", domain.Invalid("No phone number found for this customer.")
}

func (s *Service) touch(ctx context.Context, policyID string) {
	if err := s.policies.TouchContacted(ctx, policyID, s.clock()); err != nil {
		s.logger.Printf("notification: touch policy=%s err=%v", policyID, err)
	}
}

// RecommendationText renders the plan recommendation message.
func RecommendationText(name, plan string, premium, coverage float64) string {
	return fmt.Sprintf("Hi %s, based on your needs, I recommend the %s plan with ₹%s coverage for a premium of just ₹%s. Let me know if you're interested!",
		name, plan, FormatINR(coverage), FormatINR(premium))
}

// FormatINR groups digits the Indian way (5,00,000) and keeps at most two
// decimals.
func FormatINR(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	s := message.NewPrinter(language.MustParse("en-IN")).Sprintf("%.2f", v)
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}
