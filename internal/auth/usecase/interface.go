package usecase

import (
	authdomain "automail-backend/internal/auth/domain"
	authdto "automail-backend/internal/auth/dto"
)

// AuthUsecase defines the interface for auth use cases
type AuthUsecase interface {
	// NeedsSetup reports whether the single user has been registered yet.
	NeedsSetup() (bool, error)
	// Register creates the single user. Further registrations are rejected.
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	ValidateToken(tokenString string) (*authdomain.User, error)
}
