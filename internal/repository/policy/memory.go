package policy

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"turtlemint-b2b/internal/domain"
)

type memoryRepo struct {
	customers CustomerLookup

	mu    sync.RWMutex
	byID  map[string]domain.Policy
	clock func() time.Time
}

// NewMemory returns an in-process Repository. customers resolves names and
// phones for views and validates assignments.
func NewMemory(customers CustomerLookup) Repository {
	return &memoryRepo{
		customers: customers,
		byID:      make(map[string]domain.Policy),
		clock:     time.Now,
	}
}

func (r *memoryRepo) List(_ context.Context) ([]domain.Policy, error) {
	return r.sorted(func(domain.Policy) bool { return true }), nil
}

func (r *memoryRepo) ListUnassigned(_ context.Context) ([]domain.Policy, error) {
	out := r.sorted(func(p domain.Policy) bool { return !p.Assigned() })
	// newest first, matching the Postgres ordering
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *memoryRepo) ListViews(ctx context.Context) ([]domain.PolicyView, error) {
	policies := r.sorted(func(domain.Policy) bool { return true })
	out := make([]domain.PolicyView, 0, len(policies))
	for _, p := range policies {
		v, err := r.view(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clonePolicy(p), nil
}

func (r *memoryRepo) GetView(ctx context.Context, id string) (*domain.PolicyView, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := r.view(ctx, *p)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *memoryRepo) CreateUnassigned(_ context.Context, p domain.Policy) (*domain.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[p.ID]; exists {
		return nil, domain.ErrAlreadyExists
	}
	p.CustomerID = nil
	if p.Status == "" {
		p.Status = domain.StatusLapsed
	}
	p.CreatedAt = r.clock().UTC()
	r.byID[p.ID] = *clonePolicy(p)
	return clonePolicy(p), nil
}

func (r *memoryRepo) Upsert(ctx context.Context, p domain.Policy) (*domain.Policy, error) {
	if p.Assigned() {
		if err := r.checkCustomer(ctx, *p.CustomerID); err != nil {
			return nil, err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byID[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
		if p.LastContacted == nil {
			p.LastContacted = existing.LastContacted
		}
	} else {
		p.CreatedAt = r.clock().UTC()
	}
	r.byID[p.ID] = *clonePolicy(p)
	return clonePolicy(p), nil
}

func (r *memoryRepo) Assign(ctx context.Context, policyID, customerID string) (*domain.Policy, error) {
	if err := r.checkCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return r.update(policyID, func(p *domain.Policy) {
		id := customerID
		p.CustomerID = &id
	})
}

func (r *memoryRepo) UpdateStatus(_ context.Context, id string, status domain.PolicyStatus) (*domain.Policy, error) {
	return r.update(id, func(p *domain.Policy) { p.Status = status })
}

func (r *memoryRepo) TouchContacted(_ context.Context, id string, at time.Time) error {
	_, err := r.update(id, func(p *domain.Policy) {
		t := at.UTC()
		p.LastContacted = &t
	})
	return err
}

func (r *memoryRepo) update(id string, fn func(*domain.Policy)) (*domain.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	fn(&p)
	r.byID[id] = p
	return clonePolicy(p), nil
}

func (r *memoryRepo) checkCustomer(ctx context.Context, id string) error {
	if r.customers == nil {
		return nil
	}
	_, err := r.customers.GetByID(ctx, id)
	return err
}

func (r *memoryRepo) view(ctx context.Context, p domain.Policy) (domain.PolicyView, error) {
	var c *domain.Customer
	if p.Assigned() && r.customers != nil {
		found, err := r.customers.GetByID(ctx, *p.CustomerID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.PolicyView{}, err
		}
		c = found
	}
	return domain.NewPolicyView(p, c), nil
}

func (r *memoryRepo) sorted(keep func(domain.Policy) bool) []domain.Policy {
	r.mu.RLock()
	out := make([]domain.Policy, 0, len(r.byID))
	for _, p := range r.byID {
		if keep(p) {
			out = append(out, *clonePolicy(p))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func clonePolicy(p domain.Policy) *domain.Policy {
	clone := p
	if p.CustomerID != nil {
		v := *p.CustomerID
		clone.CustomerID = &v
	}
	clone.StartDate = cloneTime(p.StartDate)
	clone.DueDate = cloneTime(p.DueDate)
	clone.LastContacted = cloneTime(p.LastContacted)
	clone.Premium = cloneFloat(p.Premium)
	clone.Coverage = cloneFloat(p.Coverage)
	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
