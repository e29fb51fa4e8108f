package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"turtlemint-b2b/internal/domain"
	"turtlemint-b2b/internal/messaging"
	custrepo "turtlemint-b2b/internal/repository/customer"
	policyrepo "turtlemint-b2b/internal/repository/policy"
)

type errSender struct{}

func (errSender) Send(context.Context, string, string) error {
	return errors.New("gateway down")
}

func ptr[T any](v T) *T { return &v }

var now = time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	sender   *messaging.Simulated
	policies policyrepo.Repository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	customers := custrepo.NewMemory()
	policies := policyrepo.NewMemory(customers)

	pooja, _ := customers.Create(ctx, domain.Customer{Name: "Pooja Verma", Phone: "+919876543213"})
	silent, _ := customers.Create(ctx, domain.Customer{Name: "Silent Sam"})
	for _, p := range []domain.Policy{
		{ID: "PL-1004", CustomerID: &pooja.ID, Type: domain.PolicyTypeHealth, Insurer: "Star Health", Status: domain.StatusRenewalDue, DueDate: ptr(time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC))},
		{ID: "PL-2000", CustomerID: &silent.ID, Type: domain.PolicyTypeLife, Insurer: "LIC", Status: domain.StatusActive},
		{ID: "POL-X", Type: domain.PolicyTypeMotor, Status: domain.StatusLapsed},
	} {
		if _, err := policies.Upsert(ctx, p); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	sender := messaging.NewSimulated(nil)
	svc := New(policies, customers, sender, nil)
	svc.clock = func() time.Time { return now }
	return fixture{svc: svc, sender: sender, policies: policies}
}

func TestReminder_SendsAndTouches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.Reminder(ctx, "PL-1004"); err != nil {
		t.Fatalf("reminder: %v", err)
	}
	sent := f.sender.Sent()
	want := "Hi Pooja Verma, a friendly reminder that your Health policy PL-1004 with Star Health is due for renewal on 2025-09-15. Please renew on time to keep your coverage active."
	if len(sent) != 1 || sent[0].Body != want || sent[0].To != "+919876543213" {
		t.Fatalf("unexpected message %+v", sent)
	}
	p, _ := f.policies.GetByID(ctx, "PL-1004")
	if p.LastContacted == nil || !p.LastContacted.Equal(now) {
		t.Fatalf("expected last contacted %v, got %v", now, p.LastContacted)
	}
}

func TestReminder_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.Reminder(ctx, ""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := f.svc.Reminder(ctx, "PL-404"); !errors.Is(err, domain.ErrPolicyNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := f.svc.Reminder(ctx, "POL-X"); !domain.IsValidation(err) {
		t.Fatalf("expected unassigned validation error, got %v", err)
	}
	if err := f.svc.Reminder(ctx, "PL-2000"); !domain.IsValidation(err) {
		t.Fatalf("expected missing phone validation error, got %v", err)
	}

	f.svc.sender = errSender{}
	err := f.svc.Reminder(ctx, "PL-1004")
	if err == nil || domain.IsValidation(err) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	p, _ := f.policies.GetByID(ctx, "PL-1004")
	if p.LastContacted != nil {
		t.Fatalf("failed send must not touch the policy")
	}
}

func TestRecommend_ResolvesPhone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := RecommendInput{CustomerName: "pooja verma", PolicyName: "Super Top-up", Premium: 5000, Coverage: 2000000}
	if err := f.svc.Recommend(ctx, in); err != nil {
		t.Fatalf("recommend: %v", err)
	}
	sent := f.sender.Sent()
	want := "Hi pooja verma, based on your needs, I recommend the Super Top-up plan with ₹20,00,000 coverage for a premium of just ₹5,000. Let me know if you're interested!"
	if len(sent) != 1 || sent[0].Body != want || sent[0].To != "+919876543213" {
		t.Fatalf("unexpected message %+v", sent)
	}

	in = RecommendInput{CustomerName: "Someone", PolicyID: "PL-1004", PolicyName: "Health Plus", Premium: 18000, Coverage: 500000}
	if err := f.svc.Recommend(ctx, in); err != nil {
		t.Fatalf("recommend by policy: %v", err)
	}
	in = RecommendInput{CustomerName: "Walk In", Phone: "98765 43299", PolicyName: "Max Term"}
	if err := f.svc.Recommend(ctx, in); err != nil {
		t.Fatalf("recommend by phone: %v", err)
	}
	if got := f.sender.Sent()[2].To; got != "+919876543299" {
		t.Fatalf("expected normalized phone, got %s", got)
	}
}

func TestRecommend_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := []RecommendInput{
		{PolicyName: "Max Term"},
		{CustomerName: "Pooja Verma"},
		{CustomerName: "Unknown Person", PolicyName: "Max Term"},
		{CustomerName: "Silent Sam", PolicyName: "Max Term"},
	}
	for _, in := range cases {
		if err := f.svc.Recommend(ctx, in); !domain.IsValidation(err) {
			t.Fatalf("%+v: expected validation error, got %v", in, err)
		}
	}
}

func TestFormatINR(t *testing.T) {
	cases := map[float64]string{
		0:          "0",
		999:        "999",
		5000:       "5,000",
		14500:      "14,500",
		500000:     "5,00,000",
		2000000:    "20,00,000",
		12345678.5: "1,23,45,678.5",
		-1500:      "-1,500",
		99.999:     "100",
		14500.5:    "14,500.5",
		2500000:    "25,00,000",
	}
	for in, want := range cases {
		if got := FormatINR(in); got != want {
			t.Fatalf("FormatINR(%v): expected %s, got %s", in, want, got)
		}
	}
}
