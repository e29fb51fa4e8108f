package httpserver

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	customersvc "turtlemint-b2b/internal/service/customer"

	"github.com/gin-gonic/gin"
)

func createCustomerHandler(logger *log.Logger, svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in customersvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, bindMessage(err))
			return
		}
		cust, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, logger, err, "Failed to create customer.")
			return
		}
		c.JSON(http.StatusCreated, cust)
	}
}

func listCustomersHandler(logger *log.Logger, svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, logger, err, "Failed to fetch customers.")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func getCustomerHandler(logger *log.Logger, svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cust, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, logger, err, "Failed to fetch customer.")
			return
		}
		c.JSON(http.StatusOK, cust)
	}
}

func bulkCustomersHandler(logger *log.Logger, svc OnboardingService) gin.HandlerFunc {
	return bulkImportHandler(logger, "customers", svc.ImportCustomers)
}

func bulkPoliciesHandler(logger *log.Logger, svc OnboardingService) gin.HandlerFunc {
	return bulkImportHandler(logger, "policies", svc.ImportPolicies)
}

type importFunc func(ctx context.Context, r io.Reader) (int, error)

func bulkImportHandler(logger *log.Logger, what string, run importFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			badRequest(c, "No CSV file uploaded.")
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeError(c, logger, fmt.Errorf("open %s csv: %w", what, err), "Failed to read uploaded file.")
			return
		}
		defer f.Close()

		n, err := run(c.Request.Context(), f)
		if err != nil {
			writeError(c, logger, err, fmt.Sprintf("Failed to import %s.", what))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  fmt.Sprintf("Imported %d %s.", n, what),
			"imported": n,
		})
	}
}
