// Package dashboard aggregates the policy table into headline numbers and a
// single suggested next action.
package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"turtlemint-b2b/internal/domain"
)

// ActionType names the kind of follow-up suggested to the agent.
type ActionType string

const (
	ActionUrgentRenewal  ActionType = "URGENT_RENEWAL"
	ActionFollowUpLapsed ActionType = "FOLLOW_UP_LAPSED"
	ActionEngage         ActionType = "ENGAGE"
)

// Action is a suggested follow-up.
type Action struct {
	Action      ActionType `json:"action"`
	PolicyID    string     `json:"policyId,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DaysLeft    *int       `json:"daysLeft,omitempty"`
}

// Summary holds the dashboard counters.
type Summary struct {
	Total        int     `json:"total"`
	Active       int     `json:"active"`
	RenewalDue   int     `json:"renewalDue"`
	Lapsed       int     `json:"lapsed"`
	TotalPremium float64 `json:"totalPremium"`
	NextAction   *Action `json:"nextAction"`
}

// Summarize computes counters over views and picks the renewal due soonest.
// NextAction is nil when no renewal is pending with a future due date.
func Summarize(views []domain.PolicyView, now time.Time) Summary {
	s := Summary{Total: len(views)}
	for _, v := range views {
		switch v.Status {
		case domain.StatusActive:
			s.Active++
		case domain.StatusRenewalDue:
			s.RenewalDue++
		case domain.StatusLapsed:
			s.Lapsed++
		}
		if v.Amount != nil {
			s.TotalPremium += *v.Amount
		}
	}
	s.NextAction = nextRenewal(views, now)
	return s
}

// Suggest returns the action the agent should take next, falling back to a
// lapsed-policy follow-up and finally a generic engagement nudge.
func Suggest(s Summary, views []domain.PolicyView) Action {
	if s.NextAction != nil {
		return *s.NextAction
	}
	for _, v := range views {
		if v.Status == domain.StatusLapsed {
			return Action{
				Action:      ActionFollowUpLapsed,
				PolicyID:    v.ID,
				Title:       fmt.Sprintf("Follow up: %s", v.Customer),
				Description: fmt.Sprintf("%s policy %s with %s has lapsed. Send a reminder to revive it.", v.Type, v.ID, v.Insurer),
			}
		}
	}
	return Action{
		Action:      ActionEngage,
		Title:       "Engage your customers",
		Description: "No urgent renewals. A good time to send an engagement message to your customers.",
	}
}

type candidate struct {
	view domain.PolicyView
	days int
}

func nextRenewal(views []domain.PolicyView, now time.Time) *Action {
	today := truncateDay(now)
	var candidates []candidate
	for _, v := range views {
		if v.Status != domain.StatusRenewalDue {
			continue
		}
		due, ok := ParseDueDate(v.DueDate)
		if !ok {
			continue
		}
		days := int(truncateDay(due).Sub(today).Hours() / 24)
		if days < 0 {
			continue
		}
		candidates = append(candidates, candidate{view: v, days: days})
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].days < candidates[j].days
	})

	c := candidates[0]
	days := c.days
	return &Action{
		Action:      ActionUrgentRenewal,
		PolicyID:    c.view.ID,
		Title:       fmt.Sprintf("Urgent renewal: %s", c.view.Customer),
		Description: fmt.Sprintf("%s policy %s with %s is due %s.", c.view.Type, c.view.ID, c.view.Insurer, dueIn(days)),
		DaysLeft:    &days,
	}
}

func dueIn(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

var dueLayouts = []string{domain.DateLayout, time.RFC3339, time.RFC3339Nano}

// ParseDueDate parses a view due date. The "—" sentinel, blanks and
// anything unparseable report false.
func ParseDueDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == domain.NoDueDate {
		return time.Time{}, false
	}
	for _, layout := range dueLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
