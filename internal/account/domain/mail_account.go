package domain

import (
	"errors"
	"time"
)

const (
	AccountTypeIMAP  = "imap"
	AccountTypeOAuth = "oauth2"
)

var (
	ErrAccountNotFound    = errors.New("mail account not found")
	ErrInvalidAccountType = errors.New("account type does not support this operation")
	ErrMissingCredentials = errors.New("account has no usable credentials")
	ErrMissingTokens      = errors.New("account has no refresh token")
)

// MailAccount holds everything needed to open an IMAP session against one
// mailbox. Password and tokens are stored encrypted; the usecase layer
// decrypts them on the way out.
type MailAccount struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`     // "imap" or "oauth2"
	Provider     string     `json:"provider"` // e.g. "microsoft", empty for plain imap
	Email        string     `json:"email"`
	IMAPHost     string     `json:"imap_host"`
	IMAPPort     int        `json:"imap_port"`
	Password     string     `json:"password,omitempty"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	TokenExpiry  *time.Time `json:"token_expiry,omitempty"`
	Scope        string     `json:"scope,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
