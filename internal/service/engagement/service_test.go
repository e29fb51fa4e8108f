package engagement

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"turtlemint-b2b/internal/domain"
	"turtlemint-b2b/internal/llm"
	"turtlemint-b2b/internal/messaging"
	custrepo "turtlemint-b2b/internal/repository/customer"
	policyrepo "turtlemint-b2b/internal/repository/policy"
)

type failingSender struct {
	fail  map[string]bool
	calls []string
}

func (f *failingSender) Send(ctx context.Context, phone, body string) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected a per-send deadline")
	}
	f.calls = append(f.calls, phone)
	if f.fail[phone] {
		return errors.New("gateway rejected")
	}
	return nil
}

type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Complete(context.Context, string) (string, error) {
	return s.reply, s.err
}

func ptr[T any](v T) *T { return &v }

func seed(t *testing.T) policyrepo.Repository {
	t.Helper()
	ctx := context.Background()
	customers := custrepo.NewMemory()
	repo := policyrepo.NewMemory(customers)

	ravi, _ := customers.Create(ctx, domain.Customer{Name: "Ravi Kumar", Phone: "+919876543210"})
	anita, _ := customers.Create(ctx, domain.Customer{Name: "Anita Sharma", Phone: "+919876543211"})
	silent, _ := customers.Create(ctx, domain.Customer{Name: "No Phone"})

	policies := []domain.Policy{
		{ID: "PL-1001", CustomerID: &ravi.ID, Type: domain.PolicyTypeHealth, Status: domain.StatusActive, Premium: ptr(14500.0)},
		{ID: "PL-1002", CustomerID: &anita.ID, Type: domain.PolicyTypeLife, Status: domain.StatusRenewalDue, Premium: ptr(22000.0)},
		{ID: "PL-1006", CustomerID: &anita.ID, Type: domain.PolicyTypeLife, Status: domain.StatusActive, Premium: ptr(30000.0)},
		{ID: "PL-1007", CustomerID: &silent.ID, Type: domain.PolicyTypeMotor, Status: domain.StatusLapsed},
		{ID: "POL-X", Type: domain.PolicyTypeTravel, Status: domain.StatusLapsed},
	}
	for _, p := range policies {
		if _, err := repo.Upsert(ctx, p); err != nil {
			t.Fatalf("upsert %s: %v", p.ID, err)
		}
	}
	return repo
}

func TestRecipients_Segments(t *testing.T) {
	svc := New(seed(t), messaging.NewSimulated(nil), nil, Options{}, nil)
	ctx := context.Background()

	cases := map[Segment]int{
		SegmentAll:          2,
		SegmentRenewalDue:   1,
		SegmentLapsed:       0,
		SegmentHighValue:    1,
		SegmentActiveHealth: 1,
		SegmentActiveLife:   1,
	}
	for seg, want := range cases {
		got, err := svc.Recipients(ctx, seg)
		if err != nil {
			t.Fatalf("%s: %v", seg, err)
		}
		if len(got) != want {
			t.Fatalf("%s: expected %d recipients, got %+v", seg, want, got)
		}
	}
}

func TestSend_PersonalizesAndCounts(t *testing.T) {
	sender := messaging.NewSimulated(nil)
	svc := New(seed(t), sender, nil, Options{SendTimeout: time.Second}, nil)

	res, err := svc.Send(context.Background(), "ALL", "Hi [Customer Name], happy Diwali!")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res.SentCount != 2 || res.FailedCount != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	sent := sender.Sent()
	if len(sent) != 2 || sent[0].Body != "Hi Ravi Kumar, happy Diwali!" {
		t.Fatalf("unexpected messages %+v", sent)
	}
}

func TestSend_EmptySegmentIsNotAnError(t *testing.T) {
	svc := New(seed(t), messaging.NewSimulated(nil), nil, Options{}, nil)
	res, err := svc.Send(context.Background(), "lapsed", "Your policy has lapsed.")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res.SentCount != 0 || res.FailedCount != 0 {
		t.Fatalf("expected nothing sent, got %+v", res)
	}
}

func TestSend_ContinuesAfterFailure(t *testing.T) {
	sender := &failingSender{fail: map[string]bool{"+919876543210": true}}
	svc := New(seed(t), sender, nil, Options{}, nil)

	res, err := svc.Send(context.Background(), "all", "Hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if res.SentCount != 1 || res.FailedCount != 1 || len(sender.calls) != 2 {
		t.Fatalf("unexpected result %+v calls=%v", res, sender.calls)
	}
}

func TestSend_Validation(t *testing.T) {
	svc := New(seed(t), messaging.NewSimulated(nil), nil, Options{}, nil)
	if _, err := svc.Send(context.Background(), "all", "   "); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Send(context.Background(), "vip", "Hello"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSuggest(t *testing.T) {
	svc := New(seed(t), nil, stubCompleter{reply: "  \"Warm wishes from us!\" "}, Options{}, nil)
	ctx := context.Background()

	if _, err := svc.Suggest(ctx, "  too short    "); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	got, err := svc.Suggest(ctx, "Happy Diwali to all of you")
	if err != nil || got != "Warm wishes from us!" {
		t.Fatalf("unexpected suggestion %q (%v)", got, err)
	}

	svc = New(seed(t), nil, llm.NewSimulated(nil), Options{}, nil)
	got, _ = svc.Suggest(ctx, "Happy Diwali to all of you")
	if got != llm.SimulatedSuggestion {
		t.Fatalf("expected simulated suggestion, got %q", got)
	}

	svc = New(seed(t), nil, nil, Options{}, nil)
	if _, err := svc.Suggest(ctx, "Happy Diwali to all of you"); !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestTemplatesAndSegments(t *testing.T) {
	if len(Templates()) != 3 || !strings.Contains(Templates()[1].Body, NamePlaceholder) {
		t.Fatalf("unexpected templates %+v", Templates())
	}
	list := Segments()
	list[0].Label = "changed"
	if Segments()[0].Label == "changed" {
		t.Fatalf("Segments returned shared state")
	}
}
