package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// UserUseCaseInterface define a interface para o use case
type UserUseCaseInterface interface {
	Register(ctx context.Context, username, email, password string) (*User, string, error)
	Login(ctx context.Context, login, password string) (*User, string, error)
	Profile(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID, username, email string) (*User, error)
}

// UserHandler contém os handlers HTTP
type UserHandler struct {
	useCase UserUseCaseInterface
	tracer  trace.Tracer
}

// NewUserHandler cria uma nova instância de UserHandler
func NewUserHandler(useCase UserUseCaseInterface, tracer trace.Tracer) *UserHandler {
	return &UserHandler{
		useCase: useCase,
		tracer:  tracer,
	}
}

// RegisterRequest representa a requisição de registro
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest representa a requisição de login
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest representa a atualização parcial do perfil
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// Register cria uma nova conta e devolve o token
func (h *UserHandler) Register(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "register")
	defer span.End()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.useCase.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":         user,
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Login autentica e devolve o token
func (h *UserHandler) Login(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "login")
	defer span.End()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.useCase.Login(ctx, req.Login, req.Password)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me retorna o perfil do usuário do token
func (h *UserHandler) Me(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "get_profile")
	defer span.End()

	user, err := h.useCase.Profile(ctx, c.GetString(contextKeyUserID))
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe atualiza username/email do usuário do token
func (h *UserHandler) UpdateMe(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "update_profile")
	defer span.End()

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.useCase.UpdateProfile(ctx, c.GetString(contextKeyUserID), req.Username, req.Email)
	if err != nil {
		span.RecordError(err)
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// HealthCheck verifica a saúde do serviço
func (h *UserHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "users-service",
	})
}
