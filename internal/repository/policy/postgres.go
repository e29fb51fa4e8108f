package policy

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"turtlemint-b2b/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const policyColumns = `
    p.id, p.policy_number, p.customer_id::text, p.type, p.insurer, p.status,
    p.start_date, p.end_date, p.premium_amount::float8, p.coverage_amount::float8,
    p.last_contacted_date, p.created_at`

const returningColumns = `
RETURNING id, policy_number, customer_id::text, type, insurer, status,
          start_date, end_date, premium_amount::float8, coverage_amount::float8,
          last_contacted_date, created_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Policy, error) {
	q := `SELECT` + policyColumns + `
FROM policies p
ORDER BY p.created_at, p.id`
	return r.queryPolicies(ctx, q)
}

func (r *postgresRepo) ListUnassigned(ctx context.Context) ([]domain.Policy, error) {
	q := `SELECT` + policyColumns + `
FROM policies p
WHERE p.customer_id IS NULL
ORDER BY p.created_at DESC, p.id`
	return r.queryPolicies(ctx, q)
}

func (r *postgresRepo) ListViews(ctx context.Context) ([]domain.PolicyView, error) {
	q := `SELECT` + policyColumns + `, c.name, c.phone
FROM policies p
LEFT JOIN customers c ON c.id = p.customer_id
ORDER BY p.created_at, p.id`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PolicyView
	for rows.Next() {
		v, err := r.scanView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Policy, error) {
	q := `SELECT` + policyColumns + `
FROM policies p
WHERE p.id = $1`
	return r.scanPolicy(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetView(ctx context.Context, id string) (*domain.PolicyView, error) {
	q := `SELECT` + policyColumns + `, c.name, c.phone
FROM policies p
LEFT JOIN customers c ON c.id = p.customer_id
WHERE p.id = $1`
	return r.scanView(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) CreateUnassigned(ctx context.Context, p domain.Policy) (*domain.Policy, error) {
	if p.Status == "" {
		p.Status = domain.StatusLapsed
	}
	q := `
INSERT INTO policies (
    id, policy_number, customer_id, type, insurer, status,
    start_date, end_date, premium_amount, coverage_amount
) VALUES ($1, $2, NULL, $3, $4, $5, $6, $7, $8, $9)` + returningColumns
	return r.scanPolicy(r.pool.QueryRow(ctx, q,
		p.ID, p.PolicyNumber, p.Type, p.Insurer, p.Status,
		p.StartDate, p.DueDate, p.Premium, p.Coverage,
	))
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Policy) (*domain.Policy, error) {
	q := `
INSERT INTO policies (
    id, policy_number, customer_id, type, insurer, status,
    start_date, end_date, premium_amount, coverage_amount, last_contacted_date
) VALUES ($1, $2, $3::uuid, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE
SET policy_number = EXCLUDED.policy_number,
    customer_id = EXCLUDED.customer_id,
    type = EXCLUDED.type,
    insurer = EXCLUDED.insurer,
    status = EXCLUDED.status,
    start_date = EXCLUDED.start_date,
    end_date = EXCLUDED.end_date,
    premium_amount = EXCLUDED.premium_amount,
    coverage_amount = EXCLUDED.coverage_amount,
    last_contacted_date = COALESCE(EXCLUDED.last_contacted_date, policies.last_contacted_date)` + returningColumns
	return r.scanPolicy(r.pool.QueryRow(ctx, q,
		p.ID, p.PolicyNumber, p.CustomerID, p.Type, p.Insurer, p.Status,
		p.StartDate, p.DueDate, p.Premium, p.Coverage, p.LastContacted,
	))
}

func (r *postgresRepo) Assign(ctx context.Context, policyID, customerID string) (*domain.Policy, error) {
	q := `
UPDATE policies
SET customer_id = $2::uuid
WHERE id = $1` + returningColumns
	return r.scanPolicy(r.pool.QueryRow(ctx, q, policyID, customerID))
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.PolicyStatus) (*domain.Policy, error) {
	q := `
UPDATE policies
SET status = $2
WHERE id = $1` + returningColumns
	return r.scanPolicy(r.pool.QueryRow(ctx, q, id, status))
}

func (r *postgresRepo) TouchContacted(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE policies SET last_contacted_date = $2 WHERE id = $1`, id, at.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) queryPolicies(ctx context.Context, q string, args ...any) ([]domain.Policy, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Policy
	for rows.Next() {
		p, err := r.scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func policyDest(p *domain.Policy, typ, status *string) []any {
	return []any{
		&p.ID,
		&p.PolicyNumber,
		&p.CustomerID,
		typ,
		&p.Insurer,
		status,
		&p.StartDate,
		&p.DueDate,
		&p.Premium,
		&p.Coverage,
		&p.LastContacted,
		&p.CreatedAt,
	}
}

func (r *postgresRepo) scanPolicy(row pgx.Row) (*domain.Policy, error) {
	var (
		p           domain.Policy
		typ, status string
	)
	if err := row.Scan(policyDest(&p, &typ, &status)...); err != nil {
		return nil, r.mapErr(err)
	}
	p.Type = domain.PolicyType(typ)
	p.Status = domain.PolicyStatus(status)
	return &p, nil
}

func (r *postgresRepo) scanView(row pgx.Row) (*domain.PolicyView, error) {
	var (
		p           domain.Policy
		typ, status string
		name, phone *string
	)
	dest := append(policyDest(&p, &typ, &status), &name, &phone)
	if err := row.Scan(dest...); err != nil {
		return nil, r.mapErr(err)
	}
	p.Type = domain.PolicyType(typ)
	p.Status = domain.PolicyStatus(status)

	var c *domain.Customer
	if name != nil {
		c = &domain.Customer{Name: *name}
		if phone != nil {
			c.Phone = *phone
		}
	}
	v := domain.NewPolicyView(p, c)
	return &v, nil
}

func (r *postgresRepo) mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return domain.ErrAlreadyExists
		case "23503", "22P02":
			// unknown customer, or an id that is not a uuid
			return domain.ErrNotFound
		}
	}
	r.logger.Printf("policy repo: scan error=%v", err)
	return err
}
