package httpserver

import (
	"context"
	"errors"
	"io"

	"turtlemint-b2b/internal/chatbot"
	"turtlemint-b2b/internal/dashboard"
	"turtlemint-b2b/internal/document"
	"turtlemint-b2b/internal/domain"
	"turtlemint-b2b/internal/llm"
	customersvc "turtlemint-b2b/internal/service/customer"
	"turtlemint-b2b/internal/service/engagement"
	"turtlemint-b2b/internal/service/notification"
	"turtlemint-b2b/internal/service/onboarding"
	"turtlemint-b2b/internal/service/payment"
	policysvc "turtlemint-b2b/internal/service/policy"

	"github.com/gin-gonic/gin"
)

type PolicyService interface {
	List(ctx context.Context, f policysvc.Filter) ([]domain.PolicyView, error)
	Get(ctx context.Context, id string) (*domain.PolicyView, error)
	Dashboard(ctx context.Context) (dashboard.Summary, error)
	NextBestAction(ctx context.Context) (dashboard.Action, error)
	Recommend(ctx context.Context, policyID string) (policysvc.Recommendations, error)
	Analyze(ctx context.Context, text string) (*llm.PolicyAnalysis, error)
	UpdateStatus(ctx context.Context, id, status, source string) (*domain.Policy, error)
}

type CustomerService interface {
	Create(ctx context.Context, in customersvc.CreateInput) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Summaries(ctx context.Context) ([]domain.CustomerSummary, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
}

type OnboardingService interface {
	Extract(ctx context.Context, uploads []document.Upload) ([]onboarding.FileResult, error)
	Unassigned(ctx context.Context) ([]domain.Policy, error)
	Assign(ctx context.Context, policyID, customerID string) (*domain.Policy, error)
	ImportCustomers(ctx context.Context, r io.Reader) (int, error)
	ImportPolicies(ctx context.Context, r io.Reader) (int, error)
}

type EngagementService interface {
	Send(ctx context.Context, segment, message string) (engagement.Result, error)
	Suggest(ctx context.Context, text string) (string, error)
}

type NotificationService interface {
	Reminder(ctx context.Context, policyID string) error
	Recommend(ctx context.Context, in notification.RecommendInput) error
}

type PaymentService interface {
	CreateOrder(ctx context.Context, in payment.CreateOrderInput) (*payment.Order, error)
	Confirm(ctx context.Context, in payment.ConfirmInput) (*payment.Confirmation, error)
	ConfirmCash(ctx context.Context, in payment.ConfirmCashInput) (*payment.Confirmation, error)
}

// Deps carries the services behind the API.
type Deps struct {
	Policies      PolicyService
	Customers     CustomerService
	Onboarding    OnboardingService
	Engagement    EngagementService
	Notifications NotificationService
	Payments      PaymentService
	Chatbot       chatbot.ReplyGenerator

	// RateLimit guards the outbound messaging routes when set.
	RateLimit gin.HandlerFunc
	// AllowedOrigins lists CORS origins; empty allows any origin.
	AllowedOrigins []string
	// MaxUploadBytes bounds multipart bodies held in memory.
	MaxUploadBytes int64
}

func (d Deps) validate() error {
	switch {
	case d.Policies == nil:
		return errors.New("httpserver: policy service is required")
	case d.Customers == nil:
		return errors.New("httpserver: customer service is required")
	case d.Onboarding == nil:
		return errors.New("httpserver: onboarding service is required")
	case d.Engagement == nil:
		return errors.New("httpserver: engagement service is required")
	case d.Notifications == nil:
		return errors.New("httpserver: notification service is required")
	case d.Payments == nil:
		return errors.New("httpserver: payment service is required")
	case d.Chatbot == nil:
		return errors.New("httpserver: chatbot is required")
	}
	return nil
}
