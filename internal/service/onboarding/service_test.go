package onboarding

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"turtlemint-b2b/internal/document"
	"turtlemint-b2b/internal/domain"
	"turtlemint-b2b/internal/llm"
	custrepo "turtlemint-b2b/internal/repository/customer"
	policyrepo "turtlemint-b2b/internal/repository/policy"
)

type stubCompleter struct {
	replies []string
	err     error
	calls   int
}

func (s *stubCompleter) Complete(context.Context, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	reply := s.replies[s.calls%len(s.replies)]
	s.calls++
	return reply, nil
}

type stubArchive struct {
	stored []string
	err    error
}

func (s *stubArchive) Store(_ context.Context, u document.Upload) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.stored = append(s.stored, u.Name)
	return "documents/x/" + u.Name, nil
}

func textUpload(name string, chars int) document.Upload {
	return document.Upload{Name: name, ContentType: "text/plain", Data: []byte(strings.Repeat("a", chars))}
}

type fixture struct {
	svc       *Service
	policies  policyrepo.Repository
	customers custrepo.Repository
}

func newFixture(completer llm.Completer, archive document.Archive) fixture {
	customers := custrepo.NewMemory()
	policies := policyrepo.NewMemory(customers)
	svc := New(policies, customers, completer, archive, nil)
	n := 0
	svc.newID = func() string {
		n++
		return "POL-TEST-" + string(rune('0'+n))
	}
	return fixture{svc: svc, policies: policies, customers: customers}
}

const extracted = `Sure! {"policy_number":"HX-99","insurer":"HDFC ERGO","type":"health insurance","premium_amount":"₹ 14,500","coverage_amount":500000,"start_date":"2025-01-01","end_date":"not a date"}`

func TestExtract_PerFileResults(t *testing.T) {
	archive := &stubArchive{}
	f := newFixture(&stubCompleter{replies: []string{extracted}}, archive)

	results, err := f.svc.Extract(context.Background(), []document.Upload{
		textUpload("good.txt", 150),
		textUpload("short.txt", 99),
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	ok := results[0]
	if ok.Status != StatusSuccess || ok.Policy == nil || ok.Reason != "" {
		t.Fatalf("unexpected success result %+v", ok)
	}
	p := ok.Policy
	if p.ID != "POL-TEST-1" || p.Type != domain.PolicyTypeHealth || p.Status != domain.StatusLapsed || p.Assigned() {
		t.Fatalf("unexpected policy %+v", p)
	}
	if p.Premium == nil || *p.Premium != 14500 || p.StartDate == nil || p.DueDate != nil {
		t.Fatalf("unexpected amounts/dates %+v", p)
	}

	bad := results[1]
	if bad.Status != StatusFailed || bad.Reason != "Document content is too short or unreadable." {
		t.Fatalf("unexpected failed result %+v", bad)
	}
	if len(archive.stored) != 1 {
		t.Fatalf("expected one archived document, got %v", archive.stored)
	}

	unassigned, _ := f.svc.Unassigned(context.Background())
	if len(unassigned) != 1 {
		t.Fatalf("expected 1 unassigned policy, got %d", len(unassigned))
	}
}

func TestExtract_MalformedPDFFailsOnlyItsFile(t *testing.T) {
	f := newFixture(&stubCompleter{replies: []string{extracted}}, nil)
	broken := document.Upload{
		Name:        "scan.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4\n" + strings.Repeat("% padding line\n", 20) + "trailer\n<< /Size 1 ] >>\nstartxref\n9\n%%EOF\n"),
	}

	results, err := f.svc.Extract(context.Background(), []document.Upload{broken, textUpload("good.txt", 150)})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusFailed || results[0].Reason != "Document content is too short or unreadable." {
		t.Fatalf("unexpected result for broken pdf %+v", results[0])
	}
	if results[1].Status != StatusSuccess || results[1].Policy == nil {
		t.Fatalf("unexpected result for good file %+v", results[1])
	}
}

func TestExtract_CompletionFailures(t *testing.T) {
	ctx := context.Background()
	docs := []document.Upload{textUpload("a.txt", 200)}

	f := newFixture(llm.Disabled{}, nil)
	results, _ := f.svc.Extract(ctx, docs)
	if results[0].Reason != "AI service is not configured." {
		t.Fatalf("unexpected reason %q", results[0].Reason)
	}

	f = newFixture(&stubCompleter{replies: []string{`{"insurer":"LIC"}`}}, nil)
	results, _ = f.svc.Extract(ctx, docs)
	if results[0].Reason != "The AI response was missing required fields." {
		t.Fatalf("unexpected reason %q", results[0].Reason)
	}

	f = newFixture(&stubCompleter{replies: []string{`{"insurer":"LIC","type":"Pet"}`}}, nil)
	results, _ = f.svc.Extract(ctx, docs)
	if results[0].Status != StatusFailed || !strings.Contains(results[0].Reason, "Pet") {
		t.Fatalf("unexpected result %+v", results[0])
	}

	// archive failures do not fail the document
	f = newFixture(&stubCompleter{replies: []string{extracted}}, &stubArchive{err: errors.New("s3 down")})
	results, _ = f.svc.Extract(ctx, docs)
	if results[0].Status != StatusSuccess {
		t.Fatalf("expected success despite archive error, got %+v", results[0])
	}
}

func TestExtract_Limits(t *testing.T) {
	f := newFixture(&stubCompleter{replies: []string{extracted}}, nil)
	if _, err := f.svc.Extract(context.Background(), nil); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	many := make([]document.Upload, MaxDocuments+1)
	if _, err := f.svc.Extract(context.Background(), many); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewPolicyID_Format(t *testing.T) {
	re := regexp.MustCompile(`^POL-\d{13}-[0-9A-Z]{5}$`)
	for i := 0; i < 20; i++ {
		if id := NewPolicyID(); !re.MatchString(id) {
			t.Fatalf("unexpected id %q", id)
		}
	}
}

func TestAssign(t *testing.T) {
	ctx := context.Background()
	f := newFixture(&stubCompleter{replies: []string{extracted}}, nil)
	c, err := f.customers.Create(ctx, domain.Customer{Name: "Arjun Mehta", Email: "arjun@example.com"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if _, err := f.policies.CreateUnassigned(ctx, domain.Policy{ID: "POL-1", Type: domain.PolicyTypeTravel}); err != nil {
		t.Fatalf("create policy: %v", err)
	}

	if _, err := f.svc.Assign(ctx, " ", c.ID); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.svc.Assign(ctx, "POL-1", "nobody"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected customer not found, got %v", err)
	}
	if _, err := f.svc.Assign(ctx, "POL-404", c.ID); !errors.Is(err, domain.ErrPolicyNotFound) {
		t.Fatalf("expected policy not found, got %v", err)
	}
	p, err := f.svc.Assign(ctx, "POL-1", c.ID)
	if err != nil || *p.CustomerID != c.ID {
		t.Fatalf("assign: %+v %v", p, err)
	}
}

func TestImports(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil, nil)

	n, err := f.svc.ImportCustomers(ctx, strings.NewReader("name,phone,email\nRavi Kumar,+919876543210,ravi@example.com\n"))
	if err != nil || n != 1 {
		t.Fatalf("import customers: %d %v", n, err)
	}
	n, err = f.svc.ImportPolicies(ctx, strings.NewReader("id,customer_email,type,insurer,status\nPL-1001,ravi@example.com,Health,HDFC ERGO,Active\n"))
	if err != nil || n != 1 {
		t.Fatalf("import policies: %d %v", n, err)
	}
	v, err := f.policies.GetView(ctx, "PL-1001")
	if err != nil || v.Customer != "Ravi Kumar" {
		t.Fatalf("unexpected view %+v %v", v, err)
	}
	if _, err := f.svc.ImportPolicies(ctx, strings.NewReader("id,type\nPL-1,Pet\n")); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
