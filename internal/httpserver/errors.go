package httpserver

import (
	"errors"
	"log"
	"net/http"

	"turtlemint-b2b/internal/domain"
	"turtlemint-b2b/internal/llm"

	"github.com/gin-gonic/gin"
)

const msgLLMNotConfigured = "AI service is not configured."

// writeError maps service errors onto status codes. Anything unrecognised
// is logged and answered with fallback.
func writeError(c *gin.Context, logger *log.Logger, err error, fallback string) {
	var (
		validation *domain.ValidationError
		notFound   *domain.NotFoundError
		conflict   *domain.ConflictError
		parseErr   *llm.ParseError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Message})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Message})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists."})
	case errors.Is(err, llm.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgLLMNotConfigured, "code": "llm_not_configured"})
	case errors.As(err, &parseErr):
		logger.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": parseErr.Error()})
	default:
		logger.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
