package httpserver

import (
	"log"
	"net/http"

	"turtlemint-b2b/internal/document"

	"github.com/gin-gonic/gin"
)

func extractPoliciesHandler(logger *log.Logger, svc OnboardingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil || len(form.File["policyDocuments"]) == 0 {
			badRequest(c, "No policy documents uploaded.")
			return
		}
		files := form.File["policyDocuments"]
		uploads := make([]document.Upload, 0, len(files))
		for _, fh := range files {
			u, err := document.ReadUpload(fh)
			if err != nil {
				// An unreadable file is reported per file by the service.
				logger.Printf("extract: %v", err)
				u = document.Upload{Name: fh.Filename}
			}
			uploads = append(uploads, u)
		}

		results, err := svc.Extract(c.Request.Context(), uploads)
		if err != nil {
			writeError(c, logger, err, "Failed to process policy documents.")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Processing complete.", "results": results})
	}
}

func unassignedPoliciesHandler(logger *log.Logger, svc OnboardingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.Unassigned(c.Request.Context())
		if err != nil {
			writeError(c, logger, err, "Failed to fetch unassigned policies.")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func onboardingCustomersHandler(logger *log.Logger, svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.Summaries(c.Request.Context())
		if err != nil {
			writeError(c, logger, err, "Failed to fetch customers.")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

type assignRequest struct {
	PolicyID   string `json:"policyId"`
	CustomerID string `json:"customerId"`
}

func assignPolicyHandler(logger *log.Logger, svc OnboardingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req assignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, bindMessage(err))
			return
		}
		p, err := svc.Assign(c.Request.Context(), req.PolicyID, req.CustomerID)
		if err != nil {
			writeError(c, logger, err, "Failed to assign policy.")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Policy assigned successfully.", "policy": p})
	}
}
