package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	pkgauth "github.com/rg-retail/packsplit-backend/pkg/auth"
	"github.com/rg-retail/packsplit-backend/pkg/config"
	pkgerrors "github.com/rg-retail/packsplit-backend/pkg/errors"
	"github.com/rg-retail/packsplit-backend/pkg/security"
)

// LoginResult carries the freshly minted operator token.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service authenticates the single operator account configured via env.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type service struct {
	jwt      config.JWTConfig
	operator config.OperatorConfig
	now      func() time.Time
}

// NewService wires the auth service from configuration.
func NewService(jwt config.JWTConfig, operator config.OperatorConfig) (Service, error) {
	if operator.Email == "" || operator.PasswordHash == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "operator credentials not configured")
	}
	return &service{jwt: jwt, operator: operator, now: time.Now}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	expected := strings.ToLower(strings.TrimSpace(s.operator.Email))
	emailMatches := subtle.ConstantTimeCompare([]byte(email), []byte(expected)) == 1

	// Always run the hash comparison so a wrong email costs the same time as
	// a wrong password.
	passwordMatches, err := security.VerifyPassword(password, s.operator.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !emailMatches || !passwordMatches {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	now := s.now().UTC()
	token, err := pkgauth.MintAccessToken(s.jwt, now, pkgauth.TokenPayload{Email: email})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.jwt.TokenTTL()),
	}, nil
}
