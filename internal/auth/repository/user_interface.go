package repository

import (
	authdomain "automail-backend/internal/auth/domain"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)
	Count() (int64, error)
}
