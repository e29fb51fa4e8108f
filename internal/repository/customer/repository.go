package customer

import (
	"context"

	"turtlemint-b2b/internal/domain"
)

// Repository persists and fetches customers. Emails are unique
// case-insensitively; an empty email is never a conflict.
type Repository interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	UpsertByEmail(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	FindByName(ctx context.Context, name string) (*domain.Customer, error)
}
