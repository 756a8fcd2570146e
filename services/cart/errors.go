package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrNotEnoughStock   = errors.New("not enough stock")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartConflict     = errors.New("cart item changed concurrently")
	ErrForbidden        = errors.New("forbidden")
	ErrUpstream         = errors.New("upstream service failure")
)

// errorResponse converte erros de negócio no envelope padrão
// {status, message, detail, correlation_id}.
func errorResponse(c *gin.Context, err error) {
	correlationID := CorrelationID(c)

	status := http.StatusInternalServerError
	message := "Internal Server Error"

	switch {
	case errors.Is(err, ErrProductNotFound):
		status, message = http.StatusNotFound, "Product not found"
	case errors.Is(err, ErrCartItemNotFound):
		status, message = http.StatusNotFound, "Cart item not found"
	case errors.Is(err, ErrNotEnoughStock):
		status, message = http.StatusBadRequest, "Not enough stock"
	case errors.Is(err, ErrCartConflict):
		status, message = http.StatusConflict, "Cart item changed concurrently, retry"
	case errors.Is(err, ErrForbidden):
		status, message = http.StatusForbidden, "Forbidden"
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
