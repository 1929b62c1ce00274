package dto

import "time"

type CreateMailAccountRequest struct {
	Name         string     `json:"name" binding:"required"`
	Type         string     `json:"type" binding:"required,oneof=imap oauth2"`
	Provider     string     `json:"provider"`
	Email        string     `json:"email" binding:"required,email"`
	IMAPHost     string     `json:"imap_host"`
	IMAPPort     int        `json:"imap_port"`
	Password     string     `json:"password"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	TokenExpiry  *time.Time `json:"token_expiry"`
}

type UpdateMailAccountRequest struct {
	Name string `json:"name"`
	// Type switches the account kind; the other kind's secrets are
	// cleared. Empty keeps the current kind.
	Type     string `json:"type" binding:"omitempty,oneof=imap oauth2"`
	Provider string `json:"provider"`
	Email    string `json:"email"`
	IMAPHost string `json:"imap_host"`
	IMAPPort int    `json:"imap_port"`
	// Empty password means keep the stored one.
	Password     string     `json:"password"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	TokenExpiry  *time.Time `json:"token_expiry"`
}
