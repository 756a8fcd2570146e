package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrCartEmpty     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
	ErrPaymentFailed = errors.New("payment failed")
	ErrUpstream      = errors.New("upstream service failure")
)

// errorResponse converte erros de negócio no envelope padrão
// {status, message, detail, correlation_id}.
func errorResponse(c *gin.Context, err error) {
	correlationID := CorrelationID(c)

	status := http.StatusInternalServerError
	message := "Internal Server Error"

	switch {
	case errors.Is(err, ErrCartEmpty):
		status, message = http.StatusBadRequest, "Cart is empty"
	case errors.Is(err, ErrOrderNotFound):
		status, message = http.StatusNotFound, "Order not found"
	case errors.Is(err, ErrPaymentFailed):
		status, message = http.StatusBadRequest, "Payment failed"
	case errors.Is(err, ErrUpstream):
		status, message = http.StatusBadGateway, "Upstream service failure"
	}

	if status >= 500 {
		log.Printf("❌ [%s] unhandled error: %v", correlationID, err)
		c.JSON(status, gin.H{
			"status":         "error",
			"message":        message,
			"detail":         err.Error(),
			"correlation_id": correlationID,
		})
		return
	}

	c.JSON(status, gin.H{
		"status":         "fail",
		"message":        message,
		"correlation_id": correlationID,
	})
}
