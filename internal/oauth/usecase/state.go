package usecase

import (
	"time"

	oauthdomain "automail-backend/internal/oauth/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// stateTokenTTL bounds how long an authorization round-trip may take.
const stateTokenTTL = 10 * time.Minute

// IssueState signs a short-lived state token binding the callback to the
// provider the flow started with.
func (m *TokenManager) IssueState(provider string) (string, error) {
	claims := jwt.MapClaims{
		"provider": provider,
		"token_id": uuid.New().String(),
		"exp":      time.Now().Add(stateTokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.JWTSecret))
}

// VerifyState checks the callback's state token and returns the provider it
// was issued for.
func (m *TokenManager) VerifyState(state string) (string, error) {
	token, err := jwt.Parse(state, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", &oauthdomain.InvalidStateError{Reason: "signature or expiry check failed"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", &oauthdomain.InvalidStateError{Reason: "unexpected claims"}
	}

	provider, ok := claims["provider"].(string)
	if !ok || provider == "" {
		return "", &oauthdomain.InvalidStateError{Reason: "missing provider claim"}
	}
	return provider, nil
}
