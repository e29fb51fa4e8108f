package seed

import (
	"context"
	"testing"
	"time"

	"turtlemint-b2b/internal/dashboard"
	custrepo "turtlemint-b2b/internal/repository/customer"
	policyrepo "turtlemint-b2b/internal/repository/policy"
)

func TestApply_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	customers := custrepo.NewMemory()
	policies := policyrepo.NewMemory(customers)
	now := time.Date(2025, 9, 10, 15, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		if err := Apply(ctx, customers, policies, now); err != nil {
			t.Fatalf("apply #%d: %v", i+1, err)
		}
	}

	allCustomers, _ := customers.List(ctx)
	if len(allCustomers) != 5 {
		t.Fatalf("expected 5 customers, got %d", len(allCustomers))
	}
	views, err := policies.ListViews(ctx)
	if err != nil {
		t.Fatalf("list views: %v", err)
	}
	if len(views) != 5 {
		t.Fatalf("expected 5 policies, got %d", len(views))
	}

	s := dashboard.Summarize(views, now)
	if s.Active != 2 || s.RenewalDue != 2 || s.Lapsed != 1 || s.TotalPremium != 66300 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.NextAction == nil || s.NextAction.PolicyID != "PL-1004" || *s.NextAction.DaysLeft != 5 {
		t.Fatalf("expected PL-1004 in 5 days, got %+v", s.NextAction)
	}
}
