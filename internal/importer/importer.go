package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"turtlemint-b2b/internal/domain"
)

// CustomerWriter stores imported customers keyed by email.
type CustomerWriter interface {
	UpsertByEmail(ctx context.Context, c domain.Customer) (*domain.Customer, error)
}

// CustomerFinder resolves the customer_email column of policy rows.
type CustomerFinder interface {
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

// PolicyWriter stores imported policies keyed by id.
type PolicyWriter interface {
	Upsert(ctx context.Context, p domain.Policy) (*domain.Policy, error)
}

// CustomerImporter reads name,phone,email,address rows.
type CustomerImporter struct {
	reader *csv.Reader
	repo   CustomerWriter
}

func NewCustomerImporter(r io.Reader, repo CustomerWriter) *CustomerImporter {
	return &CustomerImporter{reader: newReader(r), repo: repo}
}

// Run upserts every row and returns how many were stored. The first bad
// row stops the import.
func (i *CustomerImporter) Run(ctx context.Context) (int, error) {
	return run(i.reader, func(line int, record []string, index map[string]int) error {
		c := domain.Customer{
			Name:    pick(record, index, "name"),
			Phone:   pick(record, index, "phone"),
			Email:   strings.ToLower(pick(record, index, "email")),
			Address: pick(record, index, "address"),
		}
		if c.Name == "" {
			return fmt.Errorf("line %d: customer name is required", line)
		}
		if _, err := i.repo.UpsertByEmail(ctx, c); err != nil {
			return fmt.Errorf("line %d: upsert customer %q: %w", line, c.Name, err)
		}
		return nil
	})
}

// PolicyImporter reads policy rows, linking them to customers by email.
type PolicyImporter struct {
	reader    *csv.Reader
	policies  PolicyWriter
	customers CustomerFinder
}

func NewPolicyImporter(r io.Reader, policies PolicyWriter, customers CustomerFinder) *PolicyImporter {
	return &PolicyImporter{reader: newReader(r), policies: policies, customers: customers}
}

// Run upserts every row and returns how many were stored. Rows without a
// customer_email are stored unassigned.
func (i *PolicyImporter) Run(ctx context.Context) (int, error) {
	return run(i.reader, func(line int, record []string, index map[string]int) error {
		p, err := parsePolicy(record, index)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if email := pick(record, index, "customer_email"); email != "" {
			c, err := i.customers.GetByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("line %d: customer %q: %w", line, email, err)
			}
			p.CustomerID = &c.ID
		}
		if _, err := i.policies.Upsert(ctx, p); err != nil {
			return fmt.Errorf("line %d: upsert policy %q: %w", line, p.ID, err)
		}
		return nil
	})
}

func parsePolicy(record []string, index map[string]int) (domain.Policy, error) {
	p := domain.Policy{
		ID:           pick(record, index, "id"),
		PolicyNumber: pick(record, index, "policy_number"),
		Insurer:      pick(record, index, "insurer"),
		Status:       domain.StatusLapsed,
	}
	if p.ID == "" {
		return p, errors.New("policy id is required")
	}

	typ, ok := domain.ParsePolicyType(pick(record, index, "type"))
	if !ok {
		return p, fmt.Errorf("policy %q: unknown type %q", p.ID, pick(record, index, "type"))
	}
	p.Type = typ

	if raw := pick(record, index, "status"); raw != "" {
		st, ok := domain.ParsePolicyStatus(raw)
		if !ok {
			return p, fmt.Errorf("policy %q: unknown status %q", p.ID, raw)
		}
		p.Status = st
	}

	var err error
	if p.StartDate, err = parseDate(pick(record, index, "start_date")); err != nil {
		return p, fmt.Errorf("policy %q: start_date: %w", p.ID, err)
	}
	if p.DueDate, err = parseDate(pick(record, index, "end_date")); err != nil {
		return p, fmt.Errorf("policy %q: end_date: %w", p.ID, err)
	}
	if p.LastContacted, err = parseDate(pick(record, index, "last_contacted_date")); err != nil {
		return p, fmt.Errorf("policy %q: last_contacted_date: %w", p.ID, err)
	}
	if p.Premium, err = parseAmount(pick(record, index, "premium_amount")); err != nil {
		return p, fmt.Errorf("policy %q: premium_amount: %w", p.ID, err)
	}
	if p.Coverage, err = parseAmount(pick(record, index, "coverage_amount")); err != nil {
		return p, fmt.Errorf("policy %q: coverage_amount: %w", p.ID, err)
	}
	return p, nil
}

func newReader(r io.Reader) *csv.Reader {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return csvr
}

func run(reader *csv.Reader, save func(line int, record []string, index map[string]int) error) (int, error) {
	headers, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		if blank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		if err := save(line, record, index); err != nil {
			return imported, err
		}
		imported++
	}
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		idx[h] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{domain.DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", s)
}

func parseAmount(s string) (*float64, error) {
	s = strings.NewReplacer(",", "", "₹", "", " ", "").Replace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return &f, nil
}
