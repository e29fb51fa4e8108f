package customer

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"turtlemint-b2b/internal/domain"

	"github.com/google/uuid"
)

type memoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.Customer
	byEmail map[string]string
}

// NewMemory returns an in-process Repository.
func NewMemory() Repository {
	return &memoryRepo{
		byID:    make(map[string]domain.Customer),
		byEmail: make(map[string]string),
	}
}

func (r *memoryRepo) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(c)
}

func (r *memoryRepo) insert(c domain.Customer) (*domain.Customer, error) {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Email != "" {
		if _, exists := r.byEmail[c.Email]; exists {
			return nil, domain.ErrAlreadyExists
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	r.byID[c.ID] = c
	if c.Email != "" {
		r.byEmail[c.Email] = c.ID
	}
	clone := c
	return &clone, nil
}

func (r *memoryRepo) UpsertByEmail(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(c.Email))
	id, ok := r.byEmail[email]
	if email == "" || !ok {
		return r.insert(c)
	}
	existing := r.byID[id]
	existing.Name = c.Name
	if c.Phone != "" {
		existing.Phone = c.Phone
	}
	if c.Address != "" {
		existing.Address = c.Address
	}
	r.byID[id] = existing
	clone := existing
	return &clone, nil
}

func (r *memoryRepo) List(_ context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	out := make([]domain.Customer, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := c
	return &clone, nil
}

func (r *memoryRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	r.mu.RLock()
	id, ok := r.byEmail[strings.ToLower(strings.TrimSpace(email))]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *memoryRepo) FindByName(ctx context.Context, name string) (*domain.Customer, error) {
	name = strings.TrimSpace(name)
	all, _ := r.List(ctx)
	var match *domain.Customer
	for i := range all {
		if !strings.EqualFold(all[i].Name, name) {
			continue
		}
		if match == nil || all[i].CreatedAt.Before(match.CreatedAt) {
			match = &all[i]
		}
	}
	if match == nil {
		return nil, domain.ErrNotFound
	}
	return match, nil
}
