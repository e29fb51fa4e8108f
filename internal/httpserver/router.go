package httpserver

import (
	"log"
	"time"

	"turtlemint-b2b/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if err := registerValidators(); err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))
	router.Use(metrics.Middleware())
	if deps.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = deps.MaxUploadBytes
	}
	upload := limitUpload(deps.MaxUploadBytes)

	router.GET("/healthz", healthHandler)
	var store pinger
	if db != nil {
		store = db
	}
	router.GET("/readyz", readyHandler(store))
	router.GET("/metrics", metrics.Handler())

	limit := deps.RateLimit
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}

	api := router.Group("/api")

	api.GET("/policies", listPoliciesHandler(logger, deps.Policies))
	api.GET("/policies/:id", getPolicyHandler(logger, deps.Policies))
	api.PATCH("/policies/:id/status", updatePolicyStatusHandler(logger, deps.Policies))
	api.GET("/policies/:id/recommendations", recommendationsHandler(logger, deps.Policies))
	api.GET("/recommendations", recommendationsHandler(logger, deps.Policies))
	api.POST("/policies/analyze", upload, analyzePolicyHandler(logger, deps.Policies))
	api.POST("/policies/bulk", upload, bulkPoliciesHandler(logger, deps.Onboarding))
	api.GET("/dashboard", dashboardHandler(logger, deps.Policies))
	api.GET("/next-best-action", nextBestActionHandler(logger, deps.Policies))

	api.POST("/customers", createCustomerHandler(logger, deps.Customers))
	api.GET("/customers", listCustomersHandler(logger, deps.Customers))
	api.GET("/customers/:id", getCustomerHandler(logger, deps.Customers))
	api.POST("/customers/bulk", upload, bulkCustomersHandler(logger, deps.Onboarding))

	onboarding := api.Group("/onboarding")
	onboarding.POST("/extract-policies", upload, extractPoliciesHandler(logger, deps.Onboarding))
	onboarding.GET("/unassigned-policies", unassignedPoliciesHandler(logger, deps.Onboarding))
	onboarding.GET("/customers", onboardingCustomersHandler(logger, deps.Customers))
	onboarding.POST("/assign-policy", assignPolicyHandler(logger, deps.Onboarding))

	api.POST("/chatbot", chatbotHandler(logger, deps.Chatbot))

	engagement := api.Group("/engagement")
	engagement.GET("/templates", templatesHandler)
	engagement.GET("/segments", segmentsHandler)
	engagement.POST("/send", limit, sendEngagementHandler(logger, deps.Engagement))
	engagement.POST("/get-suggestion", suggestionHandler(logger, deps.Engagement))

	notifications := api.Group("/notifications", limit)
	notifications.POST("/reminder", reminderHandler(logger, deps.Notifications))
	notifications.POST("/recommend", recommendNotificationHandler(logger, deps.Notifications))

	payments := api.Group("/payments")
	payments.POST("/create", createOrderHandler(logger, deps.Payments))
	payments.POST("/confirm", confirmPaymentHandler(logger, deps.Payments))
	payments.POST("/confirm-cash", confirmCashHandler(logger, deps.Payments))

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
