// Package onboarding turns uploaded policy documents into unassigned
// policies and links them to customers.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"turtlemint-b2b/internal/document"
	"turtlemint-b2b/internal/domain"
	"turtlemint-b2b/internal/importer"
	"turtlemint-b2b/internal/llm"
	"turtlemint-b2b/internal/metrics"
	custrepo "turtlemint-b2b/internal/repository/customer"
	policyrepo "turtlemint-b2b/internal/repository/policy"

	"github.com/oklog/ulid/v2"
)

const (
	// MaxDocuments caps how many files one extraction request may carry.
	MaxDocuments = 10
	// minExtractChars is the shortest document text worth extracting from.
	minExtractChars = 100

	StatusSuccess = "success"
	StatusFailed  = "failed"
)

const (
	reasonUnreadable    = "Document content is too short or unreadable."
	reasonNotConfigured = "AI service is not configured."
	reasonUpstream      = "The AI service could not process this document."
	reasonSave          = "Could not save the extracted policy."
)

// Service runs the onboarding flows.
type Service struct {
	policies  policyrepo.Repository
	customers custrepo.Repository
	completer llm.Completer
	archive   document.Archive
	logger    *log.Logger
	newID     func() string
}

// New creates a Service. A nil archive keeps no copies of uploads.
func New(policies policyrepo.Repository, customers custrepo.Repository, completer llm.Completer, archive document.Archive, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if completer == nil {
		completer = llm.Disabled{}
	}
	if archive == nil {
		archive = document.Discard{}
	}
	return &Service{
		policies:  policies,
		customers: customers,
		completer: completer,
		archive:   archive,
		logger:    logger,
		newID:     NewPolicyID,
	}
}

// NewPolicyID returns POL-<unix ms>-<5 random upper-case characters>.
func NewPolicyID() string {
	id := ulid.Make().String()
	return fmt.Sprintf("POL-%d-%s", time.Now().UnixMilli(), id[len(id)-5:])
}

// FileResult reports what happened to one uploaded document.
type FileResult struct {
	FileName string         `json:"fileName"`
	Status   string         `json:"status"`
	Policy   *domain.Policy `json:"policy,omitempty"`
	Reason   string         `json:"reason,omitempty"`
}

// Extract creates one unassigned policy per readable document. A failing
// document is reported in its result and never fails the batch.
func (s *Service) Extract(ctx context.Context, uploads []document.Upload) ([]FileResult, error) {
	if len(uploads) == 0 {
		return nil, domain.Invalid("No policy documents uploaded.")
	}
	if len(uploads) > MaxDocuments {
		return nil, domain.Invalid(fmt.Sprintf("At most %d documents can be processed at once.", MaxDocuments))
	}

	results := make([]FileResult, 0, len(uploads))
	for _, u := range uploads {
		p, reason := s.extractOne(ctx, u)
		if reason != "" {
			results = append(results, FileResult{FileName: u.Name, Status: StatusFailed, Reason: reason})
			continue
		}
		results = append(results, FileResult{FileName: u.Name, Status: StatusSuccess, Policy: p})
	}
	return results, nil
}

func (s *Service) extractOne(ctx context.Context, u document.Upload) (*domain.Policy, string) {
	text, err := document.Text(u)
	if err != nil {
		s.logger.Printf("onboarding: read file=%q err=%v", u.Name, err)
		return nil, reasonUnreadable
	}
	if document.CharCount(text) < minExtractChars {
		return nil, reasonUnreadable
	}

	raw, err := s.completer.Complete(ctx, extractionPrompt(document.Excerpt(text)))
	metrics.CompletionsTotal.WithLabelValues("extract", metrics.Result(err)).Inc()
	if err != nil {
		s.logger.Printf("onboarding: complete file=%q err=%v", u.Name, err)
		if errors.Is(err, llm.ErrNotConfigured) {
			return nil, reasonNotConfigured
		}
		return nil, reasonUpstream
	}

	var extracted llm.ExtractedPolicy
	if err := llm.Parse(raw, &extracted); err != nil {
		s.logger.Printf("onboarding: parse file=%q err=%v", u.Name, err)
		return nil, err.Error()
	}
	typ, ok := domain.ParsePolicyType(*extracted.Type)
	if !ok {
		return nil, fmt.Sprintf("Unsupported policy type %q.", *extracted.Type)
	}

	p := domain.Policy{
		ID:        s.newID(),
		Type:      typ,
		Insurer:   strings.TrimSpace(*extracted.Insurer),
		Status:    domain.StatusLapsed,
		StartDate: parseDate(extracted.StartDate),
		DueDate:   parseDate(extracted.EndDate),
		Premium:   extracted.PremiumAmount.Float(),
		Coverage:  extracted.CoverageAmount.Float(),
	}
	if extracted.PolicyNumber != nil {
		p.PolicyNumber = strings.TrimSpace(*extracted.PolicyNumber)
	}

	if key, err := s.archive.Store(ctx, u); err != nil {
		s.logger.Printf("onboarding: archive file=%q err=%v", u.Name, err)
	} else if key != "" {
		s.logger.Printf("onboarding: archived file=%q key=%s policy=%s", u.Name, key, p.ID)
	}

	created, err := s.policies.CreateUnassigned(ctx, p)
	if err != nil {
		s.logger.Printf("onboarding: save policy=%s err=%v", p.ID, err)
		return nil, reasonSave
	}
	return created, ""
}

// Unassigned lists policies waiting for a customer, newest first.
func (s *Service) Unassigned(ctx context.Context) ([]domain.Policy, error) {
	list, err := s.policies.ListUnassigned(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unassigned policies: %w", err)
	}
	if list == nil {
		list = []domain.Policy{}
	}
	return list, nil
}

// Assign links a policy to a customer.
func (s *Service) Assign(ctx context.Context, policyID, customerID string) (*domain.Policy, error) {
	policyID, customerID = strings.TrimSpace(policyID), strings.TrimSpace(customerID)
	if policyID == "" || customerID == "" {
		return nil, domain.Invalid("Policy ID and Customer ID are required.")
	}
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("assign policy: %w", err)
	}
	p, err := s.policies.Assign(ctx, policyID, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("assign policy: %w", err)
	}
	s.logger.Printf("onboarding: assigned policy=%s customer=%s", p.ID, customerID)
	return p, nil
}

// ImportCustomers bulk loads customers from CSV.
func (s *Service) ImportCustomers(ctx context.Context, r io.Reader) (int, error) {
	n, err := importer.NewCustomerImporter(r, s.customers).Run(ctx)
	if err != nil {
		return n, domain.Invalid(fmt.Sprintf("Import stopped after %d customers: %v", n, err))
	}
	return n, nil
}

// ImportPolicies bulk loads policies from CSV.
func (s *Service) ImportPolicies(ctx context.Context, r io.Reader) (int, error) {
	n, err := importer.NewPolicyImporter(r, s.policies, s.customers).Run(ctx)
	if err != nil {
		return n, domain.Invalid(fmt.Sprintf("Import stopped after %d policies: %v", n, err))
	}
	return n, nil
}

func parseDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &t
}

func extractionPrompt(text string) string {
	return `You are an ` + llm.MarkerExtraction + `. From the following policy document text, extract these exact details:
- policy_number: the unique policy number.
- insurer: the name of the insurance company.
- type: the type of policy (Health, Life, Motor, Travel or Pension).
- premium_amount: the numerical value of the premium.
- coverage_amount: the numerical value of the coverage or sum assured.
- start_date: the policy start date in YYYY-MM-DD format.
- end_date: the policy end date in YYYY-MM-DD format.
Reply with a single JSON object with these exact keys. Use null for values that are not found.
Do not include any text or formatting outside of the JSON object.
Document Text: """` + text + `"""`
}
