package main

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User representa uma conta de usuário. O hash de senha nunca sai no JSON.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser cria uma nova instância de User com a role padrão customer
func NewUser(id, username, email, passwordHash string) *User {
	return &User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleCustomer,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
}
