package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrUpstream       = errors.New("upstream service failure")
	ErrUnknownEntity  = errors.New("unknown entity")
	ErrEntityNotFound = errors.New("entity not found")
)

// errorResponse converte erros de negócio no envelope padrão
// {status, message, detail, correlation_id} com o HTTP status da taxonomia.
func errorResponse(c *gin.Context, err error) {
	correlationID := CorrelationID(c)

	status := http.StatusInternalServerError
	message := "Internal Server Error"

	switch {
	case errors.Is(err, ErrUnknownEntity):
		status, message = http.StatusBadRequest, "Unknown entity type"
	case errors.Is(err, ErrEntityNotFound):
		status, message = http.StatusNotFound, "Entity not found"
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
