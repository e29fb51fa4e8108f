package httpserver

import (
	"log"
	"net/http"

	"turtlemint-b2b/internal/service/payment"

	"github.com/gin-gonic/gin"
)

func createOrderHandler(logger *log.Logger, svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in payment.CreateOrderInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, bindMessage(err))
			return
		}
		order, err := svc.CreateOrder(c.Request.Context(), in)
		if err != nil {
			writeError(c, logger, err, "Failed to create payment order.")
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func confirmPaymentHandler(logger *log.Logger, svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in payment.ConfirmInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, bindMessage(err))
			return
		}
		conf, err := svc.Confirm(c.Request.Context(), in)
		if err != nil {
			writeError(c, logger, err, "Failed to confirm payment.")
			return
		}
		c.JSON(http.StatusOK, conf)
	}
}

func confirmCashHandler(logger *log.Logger, svc PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in payment.ConfirmCashInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, bindMessage(err))
			return
		}
		conf, err := svc.ConfirmCash(c.Request.Context(), in)
		if err != nil {
			writeError(c, logger, err, "Failed to confirm cash payment.")
			return
		}
		c.JSON(http.StatusOK, conf)
	}
}
