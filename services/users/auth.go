package main

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL é a validade do token emitido no register/login
const tokenTTL = 24 * time.Hour

// MintToken emite um JWT HS256 com {sub, role, exp} para o usuário
func MintToken(secret string, user *User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
