package httpserver

import (
	"fmt"
	"log"
	"net/http"

	"turtlemint-b2b/internal/service/engagement"

	"github.com/gin-gonic/gin"
)

func templatesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, engagement.Templates())
}

func segmentsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, engagement.Segments())
}

type sendEngagementRequest struct {
	CustomerSegment string `json:"customerSegment" binding:"omitempty,segment"`
	Message         string `json:"message"`
}

func sendEngagementHandler(logger *log.Logger, svc EngagementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendEngagementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, bindMessage(err))
			return
		}
		res, err := svc.Send(c.Request.Context(), req.CustomerSegment, req.Message)
		if err != nil {
			writeError(c, logger, err, "Failed to send engagement message.")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":     fmt.Sprintf("Engagement message sent to %d customers.", res.SentCount),
			"sentCount":   res.SentCount,
			"failedCount": res.FailedCount,
		})
	}
}

type suggestionRequest struct {
	Text string `json:"text"`
}

func suggestionHandler(logger *log.Logger, svc EngagementService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req suggestionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, bindMessage(err))
			return
		}
		suggestion, err := svc.Suggest(c.Request.Context(), req.Text)
		if err != nil {
			writeError(c, logger, err, "Failed to get a suggestion.")
			return
		}
		c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
	}
}
