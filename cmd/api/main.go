package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"turtlemint-b2b/internal/chatbot"
	"turtlemint-b2b/internal/config"
	"turtlemint-b2b/internal/db"
	"turtlemint-b2b/internal/document"
	"turtlemint-b2b/internal/httpserver"
	"turtlemint-b2b/internal/llm"
	"turtlemint-b2b/internal/messaging"
	"turtlemint-b2b/internal/ratelimit"
	customerrepo "turtlemint-b2b/internal/repository/customer"
	policyrepo "turtlemint-b2b/internal/repository/policy"
	"turtlemint-b2b/internal/seed"
	customersvc "turtlemint-b2b/internal/service/customer"
	"turtlemint-b2b/internal/service/engagement"
	"turtlemint-b2b/internal/service/notification"
	"turtlemint-b2b/internal/service/onboarding"
	"turtlemint-b2b/internal/service/payment"
	policysvc "turtlemint-b2b/internal/service/policy"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	var (
		dbpool    *pgxpool.Pool
		customers customerrepo.Repository
		policies  policyrepo.Repository
	)
	if cfg.DBConnString == "" {
		logger.Printf("DB_DSN not set, using in-memory store with demo data")
		customers = customerrepo.NewMemory()
		policies = policyrepo.NewMemory(customers)
		if err := seed.Apply(ctx, customers, policies, time.Now()); err != nil {
			logger.Fatalf("seed memory store: %v", err)
		}
	} else {
		dbpool, err = db.Connect(ctx, cfg.DBConnString, cfg.DBOptions())
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer dbpool.Close()
		customers = customerrepo.NewPostgres(dbpool, logger)
		policies = policyrepo.NewPostgres(dbpool, logger)
	}

	completer := newCompleter(ctx, cfg, logger)
	sender := newSender(cfg, logger)
	archive := newArchive(ctx, cfg, logger)
	limiter, closeLimiter := newRateLimit(ctx, cfg, logger)
	defer closeLimiter()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Policies:   policysvc.New(policies, completer, logger),
		Customers:  customersvc.New(customers),
		Onboarding: onboarding.New(policies, customers, completer, archive, logger),
		Engagement: engagement.New(policies, sender, completer, engagement.Options{
			HighValuePremium: cfg.HighValuePremium,
			SendTimeout:      cfg.EngagementSendTimeout,
		}, logger),
		Notifications:  notification.New(policies, customers, sender, logger),
		Payments:       payment.New(policies, logger),
		Chatbot:        chatbot.New(cfg.ChatbotMode, completer),
		RateLimit:      limiter,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// newCompleter prefers the live model, then the canned simulator, and
// finally a backend that reports itself unconfigured.
func newCompleter(ctx context.Context, cfg config.Config, logger *log.Logger) llm.Completer {
	if cfg.LLMAPIKey != "" {
		g, err := llm.NewGemini(ctx, cfg.LLMAPIKey, cfg.LLMModel, logger)
		if err == nil {
			logger.Printf("llm: using model %s", cfg.LLMModel)
			return g
		}
		logger.Printf("llm: init failed, falling back: %v", err)
	}
	if cfg.LLMSimulate {
		logger.Printf("llm: no API key, using simulated responses")
		return llm.NewSimulated(logger)
	}
	logger.Printf("llm: disabled")
	return llm.Disabled{}
}

func newSender(cfg config.Config, logger *log.Logger) messaging.Sender {
	if cfg.TwilioConfigured() {
		return messaging.NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom, logger)
	}
	logger.Printf("messaging: twilio not configured, messages are only logged")
	return messaging.NewSimulated(logger)
}

func newArchive(ctx context.Context, cfg config.Config, logger *log.Logger) document.Archive {
	if cfg.DocumentBucket == "" {
		return document.Discard{}
	}
	a, err := document.NewS3Archive(ctx, cfg.AWSRegion, cfg.DocumentBucket, cfg.S3Endpoint, logger)
	if err != nil {
		logger.Printf("documents: s3 archive disabled: %v", err)
		return document.Discard{}
	}
	logger.Printf("documents: archiving uploads to s3://%s", cfg.DocumentBucket)
	return a
}

func newRateLimit(ctx context.Context, cfg config.Config, logger *log.Logger) (gin.HandlerFunc, func()) {
	if cfg.RedisAddr == "" {
		return nil, func() {}
	}
	counter, err := ratelimit.NewRedisCounter(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Printf("ratelimit: redis unavailable, limiter disabled: %v", err)
		return nil, func() {}
	}
	logger.Printf("ratelimit: %d requests/minute via %s", cfg.RateLimitPerMinute, cfg.RedisAddr)
	return ratelimit.Middleware(counter, cfg.RateLimitPerMinute, logger), func() {
		if err := counter.Close(); err != nil {
			logger.Printf("ratelimit: close: %v", err)
		}
	}
}
