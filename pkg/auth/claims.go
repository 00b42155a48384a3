package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// OperatorClaims is the JWT payload issued to the store operator account.
type OperatorClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenPayload carries the fields stamped into a freshly minted token.
type TokenPayload struct {
	Email string
	JTI   string
}
