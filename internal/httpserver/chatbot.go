package httpserver

import (
	"log"
	"net/http"
	"strings"

	"turtlemint-b2b/internal/chatbot"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

func chatbotHandler(logger *log.Logger, bot chatbot.ReplyGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, bindMessage(err))
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			badRequest(c, "Message is required.")
			return
		}
		reply, err := bot.Reply(c.Request.Context(), chatbot.Message{Text: req.Message, UserID: req.UserID})
		if err != nil {
			writeError(c, logger, err, "Chatbot is currently unavailable.")
			return
		}
		c.JSON(http.StatusOK, gin.H{"reply": reply})
	}
}
