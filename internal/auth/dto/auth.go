package dto

import authdomain "automail-backend/internal/auth/domain"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string           `json:"access_token"`
	User        *authdomain.User `json:"user"`
}

type SetupStatusResponse struct {
	NeedsSetup bool `json:"needs_setup"`
}
