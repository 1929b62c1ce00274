package usecase

import (
	accountdomain "automail-backend/internal/account/domain"
	accountdto "automail-backend/internal/account/dto"
	"automail-backend/pkg/imapx"
)

// AccountUsecase defines the interface for mail account use cases
type AccountUsecase interface {
	ListAccounts() ([]*accountdomain.MailAccount, error)
	GetAccount(id string) (*accountdomain.MailAccount, error)
	CreateAccount(req *accountdto.CreateMailAccountRequest) (*accountdomain.MailAccount, error)
	UpdateAccount(id string, req *accountdto.UpdateMailAccountRequest) (*accountdomain.MailAccount, error)
	DeleteAccount(id string) error
	// ResolveCredentials turns a stored account into live IMAP credentials,
	// refreshing OAuth tokens when needed.
	ResolveCredentials(account *accountdomain.MailAccount) (imapx.Credentials, error)
	// CredentialsFor loads the account and resolves its credentials.
	CredentialsFor(id string) (imapx.Credentials, error)
	ListMailboxes(id string) ([]imapx.Folder, error)
}

// AccessTokenProvider supplies a valid (non-expired) access token for an
// oauth2 account. Implemented by the oauth token manager.
type AccessTokenProvider interface {
	ValidAccessToken(accountID string) (string, error)
}
