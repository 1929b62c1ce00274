package repository

import (
	"time"

	accountdomain "automail-backend/internal/account/domain"
)

// MailAccountRepository defines the interface for mail account persistence
type MailAccountRepository interface {
	Create(account *accountdomain.MailAccount) error
	FindAll() ([]*accountdomain.MailAccount, error)
	FindByID(id string) (*accountdomain.MailAccount, error)
	FindByEmailAndType(email, accountType string) (*accountdomain.MailAccount, error)
	Update(account *accountdomain.MailAccount) error
	Delete(id string) error
	// UpdateTokens persists a refreshed token set without touching the
	// rest of the account row.
	UpdateTokens(id, accessToken, refreshToken string, expiry *time.Time) error
}
