// Package payment records renewal payments and issues receipts.
package payment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"turtlemint-b2b/internal/domain"
	"turtlemint-b2b/internal/metrics"
	policyrepo "turtlemint-b2b/internal/repository/policy"

	"github.com/oklog/ulid/v2"
)

const (
	// MethodCash is the method recorded for kiosk cash deposits.
	MethodCash = "CASH-QR"
	// DefaultMethod is used when an online payment names no method.
	DefaultMethod = "UPI"

	OrderStatusCreated = "created"
)

// Receipt is the proof of payment handed to the customer.
type Receipt struct {
	TxnID     string    `json:"txnId"`
	PolicyID  string    `json:"policyId"`
	Customer  string    `json:"customer"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Timestamp time.Time `json:"timestamp"`
}

// Confirmation is returned once a payment activated a policy.
type Confirmation struct {
	Message string         `json:"message"`
	Policy  *domain.Policy `json:"policy"`
	Receipt Receipt        `json:"receipt"`
}

// Order is a pending online payment.
type Order struct {
	OrderID  string  `json:"orderId"`
	PolicyID string  `json:"policyId"`
	Amount   float64 `json:"amount"`
	Method   string  `json:"method"`
	Status   string  `json:"status"`
}

// Service confirms payments. Confirming always moves the policy to Active.
type Service struct {
	policies policyrepo.Repository
	clock    func() time.Time
	newID    func() string
	logger   *log.Logger
}

// New creates a Service.
func New(policies policyrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		policies: policies,
		clock:    time.Now,
		newID:    func() string { return ulid.Make().String() },
		logger:   logger,
	}
}

// CreateOrderInput mirrors the create-order payload.
type CreateOrderInput struct {
	PolicyID string   `json:"policyId"`
	Amount   *float64 `json:"amount"`
	Customer string   `json:"customer"`
	Method   string   `json:"method"`
}

// CreateOrder opens an order for the policy premium, or for Amount when
// given.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	v, err := s.view(ctx, in.PolicyID)
	if err != nil {
		return nil, err
	}
	amount := amountOr(in.Amount, v.Amount)
	if amount <= 0 {
		return nil, domain.Invalid("Amount must be greater than zero.")
	}
	o := &Order{
		OrderID:  "ORD-" + s.newID(),
		PolicyID: v.ID,
		Amount:   amount,
		Method:   method(in.Method),
		Status:   OrderStatusCreated,
	}
	s.logger.Printf("payment: order=%s policy=%s amount=%.2f method=%s", o.OrderID, o.PolicyID, o.Amount, o.Method)
	return o, nil
}

// ConfirmInput mirrors the online confirmation payload.
type ConfirmInput struct {
	PolicyID string   `json:"policyId"`
	Method   string   `json:"method"`
	Amount   *float64 `json:"amount"`
}

// Confirm records a successful online payment.
func (s *Service) Confirm(ctx context.Context, in ConfirmInput) (*Confirmation, error) {
	v, err := s.view(ctx, in.PolicyID)
	if err != nil {
		return nil, err
	}
	return s.activate(ctx, v, Receipt{
		TxnID:  "TXN-" + s.newID(),
		Amount: amountOr(in.Amount, v.Amount),
		Method: method(in.Method),
	}, "Payment confirmed. Policy is now active.")
}

// ConfirmCashInput mirrors the kiosk confirmation payload.
type ConfirmCashInput struct {
	PolicyID  string `json:"policyId"`
	RequestID string `json:"requestId"`
}

// ConfirmCash records a cash deposit accepted at a kiosk.
func (s *Service) ConfirmCash(ctx context.Context, in ConfirmCashInput) (*Confirmation, error) {
	v, err := s.view(ctx, in.PolicyID)
	if err != nil {
		return nil, err
	}
	requestID := strings.TrimSpace(in.RequestID)
	if requestID == "" {
		requestID = "REQ-" + s.newID()
	}
	return s.activate(ctx, v, Receipt{
		TxnID:  "KIOSK-" + requestID,
		Amount: amountOr(nil, v.Amount),
		Method: MethodCash,
	}, "Cash deposit confirmed. Policy is now active.")
}

func (s *Service) view(ctx context.Context, policyID string) (*domain.PolicyView, error) {
	policyID = strings.TrimSpace(policyID)
	if policyID == "" {
		return nil, domain.Invalid("Policy ID is required.")
	}
	v, err := s.policies.GetView(ctx, policyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("load policy %s: %w", policyID, err)
	}
	return v, nil
}

func (s *Service) activate(ctx context.Context, v *domain.PolicyView, r Receipt, message string) (*Confirmation, error) {
	p, err := s.policies.UpdateStatus(ctx, v.ID, domain.StatusActive)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("activate policy %s: %w", v.ID, err)
	}
	metrics.PolicyStatusChangesTotal.WithLabelValues(string(domain.StatusActive), "payment").Inc()

	r.PolicyID = v.ID
	r.Customer = v.Customer
	r.Timestamp = s.clock().UTC()
	s.logger.Printf("payment: txn=%s policy=%s amount=%.2f method=%s", r.TxnID, r.PolicyID, r.Amount, r.Method)
	return &Confirmation{Message: message, Policy: p, Receipt: r}, nil
}

func amountOr(given, fallback *float64) float64 {
	if given != nil {
		return *given
	}
	if fallback != nil {
		return *fallback
	}
	return 0
}

func method(m string) string {
	m = strings.ToUpper(strings.TrimSpace(m))
	if m == "" {
		return DefaultMethod
	}
	return m
}
