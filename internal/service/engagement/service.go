// Package engagement sends bulk WhatsApp messages to customer segments.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"turtlemint-b2b/internal/domain"
	"turtlemint-b2b/internal/llm"
	"turtlemint-b2b/internal/messaging"
	"turtlemint-b2b/internal/metrics"
	policyrepo "turtlemint-b2b/internal/repository/policy"
)

// Segment names a group of customers selected through their policies.
type Segment string

const (
	SegmentAll          Segment = "all"
	SegmentRenewalDue   Segment = "renewal_due"
	SegmentLapsed       Segment = "lapsed"
	SegmentHighValue    Segment = "high_value"
	SegmentActiveHealth Segment = "active_health"
	SegmentActiveLife   Segment = "active_life"
)

// SegmentInfo describes a segment for pickers.
type SegmentInfo struct {
	ID    Segment `json:"id"`
	Label string  `json:"label"`
}

var segments = []SegmentInfo{
	{ID: SegmentAll, Label: "All customers"},
	{ID: SegmentRenewalDue, Label: "Renewal due"},
	{ID: SegmentLapsed, Label: "Lapsed policies"},
	{ID: SegmentHighValue, Label: "High-value customers"},
	{ID: SegmentActiveHealth, Label: "Active health policies"},
	{ID: SegmentActiveLife, Label: "Active life policies"},
}

// Segments lists the supported segments.
func Segments() []SegmentInfo {
	return append([]SegmentInfo(nil), segments...)
}

// ParseSegment matches s against the known segment ids.
func ParseSegment(s string) (Segment, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, info := range segments {
		if string(info.ID) == s {
			return info.ID, true
		}
	}
	return "", false
}

// Template is a ready-made engagement message.
type Template struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NamePlaceholder is replaced with each recipient's name.
const NamePlaceholder = "[Customer Name]"

// Templates returns the built-in message templates.
func Templates() []Template {
	return []Template{
		{Title: "Festival Greeting (Diwali)", Body: "Wishing you and your family a very Happy Diwali! May the festival of lights bring joy and prosperity to your home."},
		{Title: "Renewal Reminder", Body: "Hi " + NamePlaceholder + ", a friendly reminder that your policy is due for renewal soon. Please ensure timely payment to keep your coverage active."},
		{Title: "New Product Launch", Body: "Exciting news! We've just launched a new [Product Type] plan with enhanced benefits. Would you be interested in learning more?"},
	}
}

// minSuggestionChars is the shortest draft worth rewriting.
const minSuggestionChars = 15

// Service sends engagement messages.
type Service struct {
	policies       policyrepo.Repository
	sender         messaging.Sender
	completer      llm.Completer
	highValue      float64
	perSendTimeout time.Duration
	logger         *log.Logger
}

// Options tune segment selection and sending.
type Options struct {
	HighValuePremium float64
	SendTimeout      time.Duration
}

// New creates a Service.
func New(policies policyrepo.Repository, sender messaging.Sender, completer llm.Completer, opts Options, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if completer == nil {
		completer = llm.Disabled{}
	}
	if opts.HighValuePremium <= 0 {
		opts.HighValuePremium = 20000
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 10 * time.Second
	}
	return &Service{
		policies:       policies,
		sender:         sender,
		completer:      completer,
		highValue:      opts.HighValuePremium,
		perSendTimeout: opts.SendTimeout,
		logger:         logger,
	}
}

// Result counts the outcome of a bulk send.
type Result struct {
	SentCount   int `json:"sentCount"`
	FailedCount int `json:"failedCount"`
}

// Recipient is a customer reached by a segment.
type Recipient struct {
	CustomerID string
	Name       string
	Phone      string
}

// Recipients resolves segment to distinct customers with a phone number.
// Unassigned policies never match.
func (s *Service) Recipients(ctx context.Context, segment Segment) ([]Recipient, error) {
	views, err := s.policies.ListViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve segment %s: %w", segment, err)
	}
	seen := make(map[string]bool)
	var out []Recipient
	for _, v := range views {
		if v.CustomerID == "" || !v.HasPhone() || seen[v.CustomerID] || !s.matches(segment, v) {
			continue
		}
		seen[v.CustomerID] = true
		out = append(out, Recipient{CustomerID: v.CustomerID, Name: v.Customer, Phone: v.Phone})
	}
	return out, nil
}

func (s *Service) matches(segment Segment, v domain.PolicyView) bool {
	switch segment {
	case SegmentAll:
		return true
	case SegmentRenewalDue:
		return v.Status == domain.StatusRenewalDue
	case SegmentLapsed:
		return v.Status == domain.StatusLapsed
	case SegmentHighValue:
		return v.Amount != nil && *v.Amount >= s.highValue
	case SegmentActiveHealth:
		return v.Status == domain.StatusActive && v.Type == domain.PolicyTypeHealth
	case SegmentActiveLife:
		return v.Status == domain.StatusActive && v.Type == domain.PolicyTypeLife
	}
	return false
}

// Send delivers message to every recipient of segment, one at a time.
// A failed recipient is counted and the loop moves on.
func (s *Service) Send(ctx context.Context, segment, message string) (Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Result{}, domain.Invalid("Message is required.")
	}
	seg, ok := ParseSegment(segment)
	if !ok {
		return Result{}, domain.Invalid("Unknown customer segment.")
	}

	recipients, err := s.Recipients(ctx, seg)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, r := range recipients {
		if err := ctx.Err(); err != nil {
			res.FailedCount += len(recipients) - res.SentCount - res.FailedCount
			break
		}
		sendCtx, cancel := context.WithTimeout(ctx, s.perSendTimeout)
		err := s.sender.Send(sendCtx, r.Phone, personalize(message, r.Name))
		cancel()
		metrics.MessagesSentTotal.WithLabelValues("engagement", metrics.Result(err)).Inc()
		if err != nil {
			s.logger.Printf("engagement: send customer=%s err=%v", r.CustomerID, err)
			res.FailedCount++
			continue
		}
		res.SentCount++
	}
	s.logger.Printf("engagement: segment=%s sent=%d failed=%d", seg, res.SentCount, res.FailedCount)
	return res, nil
}

func personalize(message, name string) string {
	return strings.ReplaceAll(message, NamePlaceholder, name)
}

// Suggest asks the model to polish a draft message.
func (s *Service) Suggest(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < minSuggestionChars {
		return "", domain.Invalid("Please write a longer message to get a suggestion.")
	}
	reply, err := s.completer.Complete(ctx, suggestionPrompt(text))
	metrics.CompletionsTotal.WithLabelValues("suggest", metrics.Result(err)).Inc()
	if err != nil {
		return "", fmt.Errorf("suggest message: %w", err)
	}
	reply = strings.Trim(strings.TrimSpace(reply), `"`)
	if reply == "" {
		return "", errors.New("suggest message: empty completion")
	}
	return reply, nil
}

func suggestionPrompt(text string) string {
	return `You are a friendly ` + llm.MarkerRewrite + ` for an insurance agent in India.
Rewrite the following WhatsApp message so it is warm, clear and under 60 words.
Keep any placeholder in square brackets unchanged. Reply with the rewritten message only.
Message: """` + text + `"""`
}
