package httpserver

import (
	"log"
	"net/http"

	"turtlemint-b2b/internal/service/notification"

	"github.com/gin-gonic/gin"
)

type reminderRequest struct {
	PolicyID string `json:"policyId"`
}

func reminderHandler(logger *log.Logger, svc NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reminderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, bindMessage(err))
			return
		}
		if err := svc.Reminder(c.Request.Context(), req.PolicyID); err != nil {
			writeError(c, logger, err, "Failed to send reminder.")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Reminder sent successfully."})
	}
}

func recommendNotificationHandler(logger *log.Logger, svc NotificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in notification.RecommendInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, bindMessage(err))
			return
		}
		if err := svc.Recommend(c.Request.Context(), in); err != nil {
			writeError(c, logger, err, "Failed to send recommendation.")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Recommendation sent successfully."})
	}
}
