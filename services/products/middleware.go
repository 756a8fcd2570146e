package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	contextKeyCorrelationID = "correlation_id"
	contextKeyUserID        = "user_id"
	contextKeyUserRole      = "user_role"
	contextKeyRawToken      = "raw_token"
)

// CorrelationMiddleware propaga (ou gera) o correlation id da requisição
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader("X-Correlation-Id")
		if correlationID == "" {
			correlationID = uuid.New().String()
		}
		c.Set(contextKeyCorrelationID, correlationID)
		c.Header("X-Correlation-Id", correlationID)
		c.Next()
	}
}

// CorrelationID retorna o correlation id da requisição atual
func CorrelationID(c *gin.Context) string {
	return c.GetString(contextKeyCorrelationID)
}

// AuthRequired valida o bearer token JWT (HS256) e popula sub/role no contexto
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":         "fail",
				"message":        "Missing or invalid authorization header",
				"correlation_id": CorrelationID(c),
			})
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":         "fail",
				"message":        "Invalid or expired token",
				"correlation_id": CorrelationID(c),
			})
			return
		}

		sub, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		c.Set(contextKeyUserID, sub)
		c.Set(contextKeyUserRole, role)
		c.Set(contextKeyRawToken, rawToken)
		c.Next()
	}
}

// AdminOnly exige a role admin (depois de AuthRequired)
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(contextKeyUserRole) != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":         "fail",
				"message":        "Admin role required",
				"correlation_id": CorrelationID(c),
			})
			return
		}
		c.Next()
	}
}
