package policy

import (
	"context"
	"time"

	"turtlemint-b2b/internal/domain"
)

// Repository persists and fetches policies.
type Repository interface {
	List(ctx context.Context) ([]domain.Policy, error)
	ListViews(ctx context.Context) ([]domain.PolicyView, error)
	ListUnassigned(ctx context.Context) ([]domain.Policy, error)
	GetByID(ctx context.Context, id string) (*domain.Policy, error)
	GetView(ctx context.Context, id string) (*domain.PolicyView, error)
	CreateUnassigned(ctx context.Context, p domain.Policy) (*domain.Policy, error)
	Upsert(ctx context.Context, p domain.Policy) (*domain.Policy, error)
	Assign(ctx context.Context, policyID, customerID string) (*domain.Policy, error)
	UpdateStatus(ctx context.Context, id string, status domain.PolicyStatus) (*domain.Policy, error)
	TouchContacted(ctx context.Context, id string, at time.Time) error
}

// CustomerLookup resolves the customer a policy points at.
type CustomerLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}
