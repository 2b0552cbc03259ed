package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPayload captures the data available when minting a JWT.
type TokenPayload struct {
	UserID     uuid.UUID
	IsAdmin    bool
	IsBusiness bool
}

// TokenClaims represents the typed JWT issued to clients.
type TokenClaims struct {
	UserID     uuid.UUID `json:"user_id"`
	IsAdmin    bool      `json:"is_admin"`
	IsBusiness bool      `json:"is_business"`
	jwt.RegisteredClaims
}
