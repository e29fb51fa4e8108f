package httpserver

import (
	"log"
	"net/http"

	"turtlemint-b2b/internal/document"
	policysvc "turtlemint-b2b/internal/service/policy"

	"github.com/gin-gonic/gin"
)

func listPoliciesHandler(logger *log.Logger, svc PolicyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f policysvc.Filter
		if err := c.ShouldBindQuery(&f); err != nil {
			badRequest(c, msgInvalidBody)
			return
		}
		views, err := svc.List(c.Request.Context(), f)
		if err != nil {
			writeError(c, logger, err, "Failed to fetch policies.")
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func getPolicyHandler(logger *log.Logger, svc PolicyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, logger, err, "Failed to fetch policy.")
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"policy_status"`
}

func updatePolicyStatusHandler(logger *log.Logger, svc PolicyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, bindMessage(err))
			return
		}
		p, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, "manual")
		if err != nil {
			writeError(c, logger, err, "Failed to update policy status.")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// recommendationsHandler serves both the per-policy and the catalog-wide
// routes; the latter has no id param.
func recommendationsHandler(logger *log.Logger, svc PolicyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		recs, err := svc.Recommend(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, logger, err, "Failed to build recommendations.")
			return
		}
		c.JSON(http.StatusOK, recs)
	}
}

func analyzePolicyHandler(logger *log.Logger, svc PolicyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("policyDocument")
		if err != nil {
			badRequest(c, "No policy document uploaded.")
			return
		}
		upload, err := document.ReadUpload(fh)
		if err != nil {
			logger.Printf("analyze: %v", err)
			badRequest(c, "Document content is too short or could not be read.")
			return
		}
		text, err := document.Text(upload)
		if err != nil {
			logger.Printf("analyze: %v", err)
			badRequest(c, "Document content is too short or could not be read.")
			return
		}
		analysis, err := svc.Analyze(c.Request.Context(), text)
		if err != nil {
			writeError(c, logger, err, "Failed to analyze policy document.")
			return
		}
		c.JSON(http.StatusOK, analysis)
	}
}

func dashboardHandler(logger *log.Logger, svc PolicyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := svc.Dashboard(c.Request.Context())
		if err != nil {
			writeError(c, logger, err, "Failed to load dashboard.")
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func nextBestActionHandler(logger *log.Logger, svc PolicyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		action, err := svc.NextBestAction(c.Request.Context())
		if err != nil {
			writeError(c, logger, err, "Failed to compute next action.")
			return
		}
		c.JSON(http.StatusOK, action)
	}
}
