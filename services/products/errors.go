package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNothingToUpdate   = errors.New("nothing to update")
)

// errorResponse converte erros de negócio no envelope padrão
// {status, message, detail, correlation_id} com o HTTP status da taxonomia.
func errorResponse(c *gin.Context, err error) {
	correlationID := CorrelationID(c)

	status := http.StatusInternalServerError
	message := "Internal Server Error"

	switch {
	case errors.Is(err, ErrProductNotFound):
		status, message = http.StatusNotFound, "Product not found"
	case errors.Is(err, ErrInsufficientStock):
		status, message = http.StatusBadRequest, "Insufficient stock"
	case errors.Is(err, ErrNothingToUpdate):
		status, message = http.StatusBadRequest, "Nothing to update"
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
