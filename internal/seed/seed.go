package seed

import (
	"context"
	"fmt"
	"time"

	"turtlemint-b2b/internal/domain"
)

// CustomerWriter stores seed customers keyed by email.
type CustomerWriter interface {
	UpsertByEmail(ctx context.Context, c domain.Customer) (*domain.Customer, error)
}

// PolicyWriter stores seed policies keyed by id.
type PolicyWriter interface {
	Upsert(ctx context.Context, p domain.Policy) (*domain.Policy, error)
}

type policySeed struct {
	ID       string
	Number   string
	Customer domain.Customer
	Type     domain.PolicyType
	Insurer  string
	Status   domain.PolicyStatus
	DueIn    *int
	Premium  float64
	Coverage float64
}

func days(n int) *int { return &n }

var demo = []policySeed{
	{
		ID: "PL-1001", Number: "HX-77120391",
		Customer: domain.Customer{Name: "Ravi Kumar", Phone: "+919876543210", Email: "ravi.kumar@example.com", Address: "Andheri West, Mumbai"},
		Type:     domain.PolicyTypeHealth, Insurer: "HDFC ERGO", Status: domain.StatusActive,
		Premium: 14500, Coverage: 500000,
	},
	{
		ID: "PL-1002", Number: "LC-55218804",
		Customer: domain.Customer{Name: "Anita Sharma", Phone: "+919876543211", Email: "anita.sharma@example.com", Address: "Kothrud, Pune"},
		Type:     domain.PolicyTypeLife, Insurer: "LIC", Status: domain.StatusRenewalDue, DueIn: days(25),
		Premium: 22000, Coverage: 2500000,
	},
	{
		ID: "PL-1003", Number: "IL-30017762",
		Customer: domain.Customer{Name: "Sanjay Patel", Phone: "+919876543212", Email: "sanjay.patel@example.com", Address: "Navrangpura, Ahmedabad"},
		Type:     domain.PolicyTypeMotor, Insurer: "ICICI Lombard", Status: domain.StatusLapsed, DueIn: days(-40),
		Premium: 7800, Coverage: 450000,
	},
	{
		ID: "PL-1004", Number: "SH-90412237",
		Customer: domain.Customer{Name: "Pooja Verma", Phone: "+919876543213", Email: "pooja.verma@example.com", Address: "Indiranagar, Bengaluru"},
		Type:     domain.PolicyTypeHealth, Insurer: "Star Health", Status: domain.StatusRenewalDue, DueIn: days(5),
		Premium: 16800, Coverage: 700000,
	},
	{
		ID: "PL-1005", Number: "TA-12873350",
		Customer: domain.Customer{Name: "Arjun Mehta", Phone: "+919876543214", Email: "arjun.mehta@example.com", Address: "Saket, New Delhi"},
		Type:     domain.PolicyTypeTravel, Insurer: "Tata AIG", Status: domain.StatusActive,
		Premium: 5200, Coverage: 100000,
	},
}

// Apply inserts the demo book of customers and policies. Due dates are
// relative to now. It is idempotent: customers are matched by email and
// policies by id.
func Apply(ctx context.Context, customers CustomerWriter, policies PolicyWriter, now time.Time) error {
	today := now.UTC().Truncate(24 * time.Hour)
	for _, s := range demo {
		c, err := customers.UpsertByEmail(ctx, s.Customer)
		if err != nil {
			return fmt.Errorf("upsert customer %s: %w", s.Customer.Name, err)
		}

		premium, coverage := s.Premium, s.Coverage
		p := domain.Policy{
			ID:           s.ID,
			PolicyNumber: s.Number,
			CustomerID:   &c.ID,
			Type:         s.Type,
			Insurer:      s.Insurer,
			Status:       s.Status,
			Premium:      &premium,
			Coverage:     &coverage,
		}
		if s.DueIn != nil {
			due := today.AddDate(0, 0, *s.DueIn)
			start := due.AddDate(-1, 0, 0)
			p.DueDate, p.StartDate = &due, &start
		}
		if _, err := policies.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert policy %s: %w", s.ID, err)
		}
	}
	return nil
}
