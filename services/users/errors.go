package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidCredentials cobre usuário inexistente, senha errada e conta
	// inativa: o login nunca revela qual dos três falhou.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// errorResponse converte erros de negócio no envelope padrão
// {status, message, detail, correlation_id} com o HTTP status da taxonomia.
func errorResponse(c *gin.Context, err error) {
	correlationID := CorrelationID(c)

	status := http.StatusInternalServerError
	message := "Internal Server Error"

	switch {
	case errors.Is(err, ErrUserAlreadyExists):
		status, message = http.StatusConflict, "Username or email already registered"
	case errors.Is(err, ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid username or password"
	case errors.Is(err, ErrUserNotFound):
		status, message = http.StatusNotFound, "User not found"
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
