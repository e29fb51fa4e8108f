package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"turtlemint-b2b/internal/domain"
	custrepo "turtlemint-b2b/internal/repository/customer"

	"github.com/go-playground/validator/v10"
)

// Service manages the agent's customer book.
type Service struct {
	repo     custrepo.Repository
	validate *validator.Validate
}

// New creates a Service.
func New(repo custrepo.Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// CreateInput mirrors the add-customer payload.
type CreateInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Create stores a new customer. Names are required, emails are optional
// but unique.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Customer, error) {
	c, err := s.normalize(in)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return created, nil
}

func (s *Service) normalize(in CreateInput) (domain.Customer, error) {
	c := domain.Customer{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Address: strings.TrimSpace(in.Address),
	}
	if c.Name == "" {
		return c, domain.Invalid("Customer name is required.")
	}
	if c.Email != "" {
		if err := s.validate.Var(c.Email, "email"); err != nil {
			return c, domain.Invalid("Email address is not valid.")
		}
	}
	return c, nil
}

// List returns every customer ordered by name.
func (s *Service) List(ctx context.Context) ([]domain.Customer, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	if list == nil {
		list = []domain.Customer{}
	}
	return list, nil
}

// Summaries returns the picker shape of every customer.
func (s *Service) Summaries(ctx context.Context) ([]domain.CustomerSummary, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CustomerSummary, 0, len(list))
	for _, c := range list {
		out = append(out, c.Summary())
	}
	return out, nil
}

// Get returns a customer by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Customer, error) {
	c, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	return c, nil
}
