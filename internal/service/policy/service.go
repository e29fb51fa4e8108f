package policy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"turtlemint-b2b/internal/dashboard"
	"turtlemint-b2b/internal/document"
	"turtlemint-b2b/internal/domain"
	"turtlemint-b2b/internal/llm"
	"turtlemint-b2b/internal/metrics"
	"turtlemint-b2b/internal/recommend"
	policyrepo "turtlemint-b2b/internal/repository/policy"
)

// minAnalysisChars is the shortest document text worth sending for analysis.
const minAnalysisChars = 50

// Service serves the policy table, the dashboard and document analysis.
type Service struct {
	repo      policyrepo.Repository
	completer llm.Completer
	catalog   []domain.CandidatePlan
	clock     func() time.Time
	logger    *log.Logger
}

// New creates a Service over the built-in plan catalog.
func New(repo policyrepo.Repository, completer llm.Completer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if completer == nil {
		completer = llm.Disabled{}
	}
	return &Service{
		repo:      repo,
		completer: completer,
		catalog:   domain.DefaultCatalog(),
		clock:     time.Now,
		logger:    logger,
	}
}

// Filter narrows the policy list. Empty fields and "all" match everything.
type Filter struct {
	Type    string `form:"type"`
	Insurer string `form:"insurer"`
	Status  string `form:"status"`
	Search  string `form:"search"`
}

func (f Filter) matches(v domain.PolicyView, status domain.PolicyStatus) bool {
	if !isAll(f.Type) && !strings.EqualFold(string(v.Type), strings.TrimSpace(f.Type)) {
		return false
	}
	if !isAll(f.Insurer) && !strings.EqualFold(v.Insurer, strings.TrimSpace(f.Insurer)) {
		return false
	}
	if status != "" && v.Status != status {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(v.Customer), q) && !strings.Contains(strings.ToLower(v.ID), q) {
			return false
		}
	}
	return true
}

func isAll(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "all")
}

// List returns the policy table rows matching f.
func (s *Service) List(ctx context.Context, f Filter) ([]domain.PolicyView, error) {
	var status domain.PolicyStatus
	if !isAll(f.Status) {
		st, ok := domain.ParsePolicyStatus(f.Status)
		if !ok {
			return nil, domain.Invalid("Unknown policy status.")
		}
		status = st
	}

	views, err := s.repo.ListViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	out := make([]domain.PolicyView, 0, len(views))
	for _, v := range views {
		if f.matches(v, status) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Get returns a single table row.
func (s *Service) Get(ctx context.Context, id string) (*domain.PolicyView, error) {
	v, err := s.repo.GetView(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

// Dashboard computes the headline counters over every policy.
func (s *Service) Dashboard(ctx context.Context) (dashboard.Summary, error) {
	views, err := s.repo.ListViews(ctx)
	if err != nil {
		return dashboard.Summary{}, fmt.Errorf("dashboard: %w", err)
	}
	return dashboard.Summarize(views, s.clock()), nil
}

// NextBestAction always returns an action, falling back from urgent
// renewals to lapsed follow-ups to a general engagement nudge.
func (s *Service) NextBestAction(ctx context.Context) (dashboard.Action, error) {
	views, err := s.repo.ListViews(ctx)
	if err != nil {
		return dashboard.Action{}, fmt.Errorf("next best action: %w", err)
	}
	return dashboard.Suggest(dashboard.Summarize(views, s.clock()), views), nil
}

// Recommendations splits the ranked plans into the best pick and the rest.
type Recommendations struct {
	Best         *recommend.Ranked  `json:"best"`
	Alternatives []recommend.Ranked `json:"alternatives"`
}

// Recommend ranks catalog plans for the holder of policyID. An empty
// policyID ranks the whole catalog without a reference.
func (s *Service) Recommend(ctx context.Context, policyID string) (Recommendations, error) {
	var ref *recommend.Reference
	if id := strings.TrimSpace(policyID); id != "" {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return Recommendations{}, notFound(err)
		}
		ref = &recommend.Reference{ID: p.ID, Type: p.Type}
	}

	ranked := recommend.Select(ref, s.catalog)
	out := Recommendations{Alternatives: []recommend.Ranked{}}
	if len(ranked) > 0 {
		out.Best = &ranked[0]
		out.Alternatives = ranked[1:]
	}
	return out, nil
}

// Analyze asks the model for a plain-language summary of a policy document.
func (s *Service) Analyze(ctx context.Context, text string) (*llm.PolicyAnalysis, error) {
	if document.CharCount(text) < minAnalysisChars {
		return nil, domain.Invalid("Document content is too short or could not be read.")
	}

	raw, err := s.completer.Complete(ctx, analysisPrompt(document.Excerpt(text)))
	metrics.CompletionsTotal.WithLabelValues("analyze", metrics.Result(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("analyze policy: %w", err)
	}

	var analysis llm.PolicyAnalysis
	if err := llm.Parse(raw, &analysis); err != nil {
		var pe *llm.ParseError
		if errors.As(err, &pe) {
			s.logger.Printf("policy analysis: unusable completion kind=%s field=%s raw=%q", pe.Kind, pe.Field, pe.Raw)
		}
		return nil, err
	}
	return &analysis, nil
}

// UpdateStatus moves a policy to status. source labels the change for
// metrics, e.g. "manual" or "payment".
func (s *Service) UpdateStatus(ctx context.Context, id, status, source string) (*domain.Policy, error) {
	st, ok := domain.ParsePolicyStatus(status)
	if !ok {
		return nil, domain.Invalid("Invalid policy status.")
	}
	p, err := s.repo.UpdateStatus(ctx, strings.TrimSpace(id), st)
	if err != nil {
		return nil, notFound(err)
	}
	metrics.PolicyStatusChangesTotal.WithLabelValues(string(st), source).Inc()
	s.logger.Printf("policy %s: status=%q source=%s", p.ID, st, source)
	return p, nil
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrPolicyNotFound
	}
	return err
}

func analysisPrompt(text string) string {
	return `You are an expert insurance policy analyst. ` + llm.MarkerAnalysis + `.
Give a concise one-sentence summary, exactly 3 positive features (pros) and 2 limitations (cons).
Reply with a single JSON object with the keys "name", "summary", "pros" and "cons":
- "name": a short, catchy name for the policy, like "SecureLife Plus".
- "summary": the one-sentence summary.
- "pros": an array of 3 strings.
- "cons": an array of 2 strings.
Do not include any text or formatting outside of the JSON object.
Document Text: """` + text + `"""`
}
