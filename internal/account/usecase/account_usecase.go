package usecase

import (
	"errors"
	"fmt"
	"log"

	accountdomain "automail-backend/internal/account/domain"
	accountdto "automail-backend/internal/account/dto"
	"automail-backend/internal/account/repository"
	"automail-backend/pkg/crypto"
	"automail-backend/pkg/imapx"
)

// accountUsecase implements AccountUsecase interface
type accountUsecase struct {
	accountRepo   repository.MailAccountRepository
	cipher        *crypto.Cipher
	tokenProvider AccessTokenProvider
	dial          imapx.DialFunc
}

// NewAccountUsecase creates a new instance of accountUsecase
func NewAccountUsecase(accountRepo repository.MailAccountRepository, cipher *crypto.Cipher, tokenProvider AccessTokenProvider, dial imapx.DialFunc) AccountUsecase {
	return &accountUsecase{
		accountRepo:   accountRepo,
		cipher:        cipher,
		tokenProvider: tokenProvider,
		dial:          dial,
	}
}

func (u *accountUsecase) ListAccounts() ([]*accountdomain.MailAccount, error) {
	accounts, err := u.accountRepo.FindAll()
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		u.revealPassword(account)
	}
	return accounts, nil
}

func (u *accountUsecase) GetAccount(id string) (*accountdomain.MailAccount, error) {
	account, err := u.accountRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, accountdomain.ErrAccountNotFound
	}
	u.revealPassword(account)
	return account, nil
}

func (u *accountUsecase) CreateAccount(req *accountdto.CreateMailAccountRequest) (*accountdomain.MailAccount, error) {
	account := &accountdomain.MailAccount{
		Name:     req.Name,
		Type:     req.Type,
		Provider: req.Provider,
		Email:    req.Email,
		IMAPHost: req.IMAPHost,
		IMAPPort: req.IMAPPort,
	}

	switch req.Type {
	case accountdomain.AccountTypeIMAP:
		if req.IMAPHost == "" || req.Password == "" {
			return nil, errors.New("imap accounts require imap_host and password")
		}
		if account.IMAPPort == 0 {
			account.IMAPPort = 993
		}
		encrypted, err := u.cipher.Encrypt(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt password: %w", err)
		}
		account.Password = encrypted
	case accountdomain.AccountTypeOAuth:
		if req.AccessToken == "" || req.RefreshToken == "" {
			return nil, errors.New("oauth2 accounts require access_token and refresh_token")
		}
		if account.Provider == "" {
			account.Provider = "microsoft"
		}
		access, err := u.cipher.Encrypt(req.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt access token: %w", err)
		}
		refresh, err := u.cipher.Encrypt(req.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt refresh token: %w", err)
		}
		account.AccessToken = access
		account.RefreshToken = refresh
		account.TokenExpiry = req.TokenExpiry
	default:
		return nil, fmt.Errorf("unsupported account type: %s", req.Type)
	}

	if err := u.accountRepo.Create(account); err != nil {
		return nil, err
	}

	log.Printf("[Account] created %s account %s (%s)", account.Type, account.Name, account.Email)
	u.revealPassword(account)
	return account, nil
}

func (u *accountUsecase) UpdateAccount(id string, req *accountdto.UpdateMailAccountRequest) (*accountdomain.MailAccount, error) {
	account, err := u.accountRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, accountdomain.ErrAccountNotFound
	}

	if req.Type != "" {
		account.Type = req.Type
	}
	if req.Name != "" {
		account.Name = req.Name
	}
	if req.Provider != "" {
		account.Provider = req.Provider
	}
	if req.Email != "" {
		account.Email = req.Email
	}
	if req.IMAPHost != "" {
		account.IMAPHost = req.IMAPHost
	}
	if req.IMAPPort != 0 {
		account.IMAPPort = req.IMAPPort
	}

	// The secrets of whichever kind the account ends up as are applied;
	// the other kind's fields are cleared.
	switch account.Type {
	case accountdomain.AccountTypeIMAP:
		if req.Password != "" {
			encrypted, err := u.cipher.Encrypt(req.Password)
			if err != nil {
				return nil, fmt.Errorf("failed to encrypt password: %w", err)
			}
			account.Password = encrypted
		}
		if account.Password == "" {
			return nil, accountdomain.ErrMissingCredentials
		}
		account.AccessToken = ""
		account.RefreshToken = ""
		account.TokenExpiry = nil
		account.Scope = ""
	case accountdomain.AccountTypeOAuth:
		if req.AccessToken != "" {
			access, err := u.cipher.Encrypt(req.AccessToken)
			if err != nil {
				return nil, fmt.Errorf("failed to encrypt access token: %w", err)
			}
			account.AccessToken = access
		}
		if req.RefreshToken != "" {
			refresh, err := u.cipher.Encrypt(req.RefreshToken)
			if err != nil {
				return nil, fmt.Errorf("failed to encrypt refresh token: %w", err)
			}
			account.RefreshToken = refresh
		}
		if req.TokenExpiry != nil {
			account.TokenExpiry = req.TokenExpiry
		}
		if account.AccessToken == "" || account.RefreshToken == "" {
			return nil, accountdomain.ErrMissingTokens
		}
		account.Password = ""
	default:
		return nil, accountdomain.ErrInvalidAccountType
	}

	if err := u.accountRepo.Update(account); err != nil {
		return nil, err
	}
	u.revealPassword(account)
	return account, nil
}

func (u *accountUsecase) DeleteAccount(id string) error {
	account, err := u.accountRepo.FindByID(id)
	if err != nil {
		return err
	}
	if account == nil {
		return accountdomain.ErrAccountNotFound
	}
	return u.accountRepo.Delete(id)
}

func (u *accountUsecase) ResolveCredentials(account *accountdomain.MailAccount) (imapx.Credentials, error) {
	switch account.Type {
	case accountdomain.AccountTypeIMAP:
		if account.Password == "" {
			return imapx.Credentials{}, accountdomain.ErrMissingCredentials
		}
		password, err := u.cipher.Decrypt(account.Password)
		if err != nil {
			return imapx.Credentials{}, fmt.Errorf("failed to decrypt password: %w", err)
		}
		return imapx.PasswordCredentials(account.IMAPHost, account.IMAPPort, account.Email, password), nil
	case accountdomain.AccountTypeOAuth:
		if account.RefreshToken == "" {
			return imapx.Credentials{}, accountdomain.ErrMissingCredentials
		}
		token, err := u.tokenProvider.ValidAccessToken(account.ID)
		if err != nil {
			return imapx.Credentials{}, err
		}
		return imapx.BearerCredentials(account.IMAPHost, account.IMAPPort, account.Email, token), nil
	default:
		return imapx.Credentials{}, accountdomain.ErrInvalidAccountType
	}
}

func (u *accountUsecase) CredentialsFor(id string) (imapx.Credentials, error) {
	account, err := u.accountRepo.FindByID(id)
	if err != nil {
		return imapx.Credentials{}, err
	}
	if account == nil {
		return imapx.Credentials{}, accountdomain.ErrAccountNotFound
	}
	return u.ResolveCredentials(account)
}

func (u *accountUsecase) ListMailboxes(id string) ([]imapx.Folder, error) {
	creds, err := u.CredentialsFor(id)
	if err != nil {
		return nil, err
	}

	var folders []imapx.Folder
	err = imapx.WithSession(u.dial, creds, func(c imapx.Client) error {
		var listErr error
		folders, listErr = c.ListFolders()
		return listErr
	})
	if err != nil {
		return nil, err
	}
	return folders, nil
}

// revealPassword swaps the stored ciphertext for the clear password so API
// responses show what the user originally entered. Tokens stay hidden.
func (u *accountUsecase) revealPassword(account *accountdomain.MailAccount) {
	if account.Type != accountdomain.AccountTypeIMAP || account.Password == "" {
		return
	}
	password, err := u.cipher.Decrypt(account.Password)
	if err != nil {
		log.Printf("[Account] failed to decrypt password for account %s: %v", account.ID, err)
		account.Password = ""
		return
	}
	account.Password = password
}
