package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	accountdomain "automail-backend/internal/account/domain"
	"automail-backend/internal/account/repository"
	oauthdomain "automail-backend/internal/oauth/domain"
	"automail-backend/pkg/config"
	"automail-backend/pkg/crypto"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// expiryBuffer forces a refresh shortly before the provider-reported expiry
// so a token never dies mid-session.
const expiryBuffer = 5 * time.Minute

// IsTokenExpired reports whether a stored token needs refreshing. A missing
// expiry counts as expired.
func IsTokenExpired(expiry *time.Time) bool {
	if expiry == nil {
		return true
	}
	return time.Now().After(expiry.Add(-expiryBuffer))
}

// TokenManager owns the OAuth token lifecycle: authorization URLs, code
// exchange, refresh, and encrypted persistence of the resulting tokens.
type TokenManager struct {
	accountRepo repository.MailAccountRepository
	cipher      *crypto.Cipher
	config      *config.Config
	group       singleflight.Group

	// Overridden in tests to hit a local token endpoint.
	endpoint   *oauth2.Endpoint
	httpClient *http.Client
}

// NewTokenManager creates a new TokenManager
func NewTokenManager(accountRepo repository.MailAccountRepository, cipher *crypto.Cipher, cfg *config.Config) *TokenManager {
	return &TokenManager{
		accountRepo: accountRepo,
		cipher:      cipher,
		config:      cfg,
	}
}

// IdentityClaims are the fields read off a provider id_token payload.
type IdentityClaims struct {
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	Name              string `json:"name"`
}

// TokenStatus is the refresh-state summary exposed over the API.
type TokenStatus struct {
	Provider    string     `json:"provider"`
	TokenExpiry *time.Time `json:"token_expiry"`
	Expired     bool       `json:"expired"`
	Scope       string     `json:"scope,omitempty"`
}

// ValidAccessToken returns a cleartext access token that is guaranteed not
// to expire within the refresh buffer, refreshing and persisting a new token
// set when needed. Concurrent callers for the same account share one refresh.
func (m *TokenManager) ValidAccessToken(accountID string) (string, error) {
	account, err := m.accountRepo.FindByID(accountID)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", accountdomain.ErrAccountNotFound
	}
	if account.Type != accountdomain.AccountTypeOAuth {
		return "", accountdomain.ErrInvalidAccountType
	}
	if account.AccessToken == "" || account.RefreshToken == "" {
		return "", accountdomain.ErrMissingTokens
	}

	if !IsTokenExpired(account.TokenExpiry) {
		return m.cipher.Decrypt(account.AccessToken)
	}

	token, err, _ := m.group.Do(account.ID, func() (interface{}, error) {
		return m.refresh(account)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

// RefreshAccount forces a refresh regardless of the stored expiry.
func (m *TokenManager) RefreshAccount(accountID string) error {
	account, err := m.accountRepo.FindByID(accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return accountdomain.ErrAccountNotFound
	}
	if account.Type != accountdomain.AccountTypeOAuth {
		return accountdomain.ErrInvalidAccountType
	}

	_, err, _ = m.group.Do(account.ID, func() (interface{}, error) {
		return m.refresh(account)
	})
	return err
}

// Status reports the stored expiry state of an oauth2 account.
func (m *TokenManager) Status(accountID string) (*TokenStatus, error) {
	account, err := m.accountRepo.FindByID(accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, accountdomain.ErrAccountNotFound
	}
	if account.Type != accountdomain.AccountTypeOAuth {
		return nil, accountdomain.ErrInvalidAccountType
	}

	return &TokenStatus{
		Provider:    account.Provider,
		TokenExpiry: account.TokenExpiry,
		Expired:     IsTokenExpired(account.TokenExpiry),
		Scope:       account.Scope,
	}, nil
}

// AuthorizationURL builds the provider authorize URL with a signed state
// token bound to the provider.
func (m *TokenManager) AuthorizationURL(providerName string) (string, error) {
	provider, err := oauthdomain.ProviderByName(providerName)
	if err != nil {
		return "", err
	}

	state, err := m.IssueState(providerName)
	if err != nil {
		return "", err
	}

	conf := m.oauthConfig(provider)
	return conf.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "consent")), nil
}

// ExchangeCode trades an authorization code for a token set and decodes the
// identity carried in the id_token, when present.
func (m *TokenManager) ExchangeCode(providerName, code string) (*oauth2.Token, *IdentityClaims, error) {
	provider, err := oauthdomain.ProviderByName(providerName)
	if err != nil {
		return nil, nil, err
	}

	conf := m.oauthConfig(provider)
	token, err := conf.Exchange(m.httpContext(), code)
	if err != nil {
		return nil, nil, asExchangeError(err)
	}

	identity := &IdentityClaims{}
	if idToken, ok := token.Extra("id_token").(string); ok && idToken != "" {
		if claims, err := decodeIdentity(idToken); err == nil {
			identity = claims
		} else {
			log.Printf("[OAuth] failed to decode id_token: %v", err)
		}
	}
	if identity.Email == "" {
		identity.Email = identity.PreferredUsername
	}
	return token, identity, nil
}

// CompleteCallback verifies the callback state, exchanges the code, checks
// that the grant actually covers IMAP access, and persists the account.
func (m *TokenManager) CompleteCallback(state, code string) (*accountdomain.MailAccount, error) {
	providerName, err := m.VerifyState(state)
	if err != nil {
		return nil, err
	}
	provider, err := oauthdomain.ProviderByName(providerName)
	if err != nil {
		return nil, err
	}

	token, identity, err := m.ExchangeCode(providerName, code)
	if err != nil {
		return nil, err
	}

	grantedScope, _ := token.Extra("scope").(string)
	if !strings.Contains(grantedScope, provider.IMAPScope) {
		return nil, fmt.Errorf("granted scopes do not include IMAP access: %q", grantedScope)
	}
	if identity.Email == "" {
		return nil, errors.New("provider response carried no account email")
	}

	access, err := m.cipher.Encrypt(token.AccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := m.cipher.Encrypt(token.RefreshToken)
	if err != nil {
		return nil, err
	}
	expiry := token.Expiry

	existing, err := m.accountRepo.FindByEmailAndType(identity.Email, accountdomain.AccountTypeOAuth)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.AccessToken = access
		existing.RefreshToken = refresh
		existing.TokenExpiry = &expiry
		existing.Scope = grantedScope
		if err := m.accountRepo.Update(existing); err != nil {
			return nil, err
		}
		log.Printf("[OAuth] reconnected %s account %s", providerName, identity.Email)
		return existing, nil
	}

	name := identity.Name
	if name == "" {
		name = identity.Email
	}
	account := &accountdomain.MailAccount{
		Name:         name,
		Type:         accountdomain.AccountTypeOAuth,
		Provider:     providerName,
		Email:        identity.Email,
		IMAPHost:     provider.IMAPHost,
		IMAPPort:     provider.IMAPPort,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenExpiry:  &expiry,
		Scope:        grantedScope,
	}
	if err := m.accountRepo.Create(account); err != nil {
		return nil, err
	}
	log.Printf("[OAuth] connected %s account %s", providerName, identity.Email)
	return account, nil
}

// refresh trades the stored refresh token for a fresh access token and
// persists the result. Providers that omit a new refresh token keep the
// prior one.
func (m *TokenManager) refresh(account *accountdomain.MailAccount) (string, error) {
	provider, err := oauthdomain.ProviderByName(account.Provider)
	if err != nil {
		return "", err
	}
	refreshToken, err := m.cipher.Decrypt(account.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt refresh token: %w", err)
	}

	conf := m.oauthConfig(provider)
	token, err := conf.TokenSource(m.httpContext(), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return "", asExchangeError(err)
	}

	newRefresh := token.RefreshToken
	if newRefresh == "" {
		newRefresh = refreshToken
	}

	encryptedAccess, err := m.cipher.Encrypt(token.AccessToken)
	if err != nil {
		return "", err
	}
	encryptedRefresh, err := m.cipher.Encrypt(newRefresh)
	if err != nil {
		return "", err
	}
	expiry := token.Expiry
	if err := m.accountRepo.UpdateTokens(account.ID, encryptedAccess, encryptedRefresh, &expiry); err != nil {
		return "", fmt.Errorf("failed to persist refreshed tokens: %w", err)
	}

	log.Printf("[OAuth] refreshed access token for account %s (expires %s)", account.ID, expiry.Format(time.RFC3339))
	return token.AccessToken, nil
}

func (m *TokenManager) oauthConfig(provider *oauthdomain.Provider) *oauth2.Config {
	endpoint := provider.Endpoint
	if m.endpoint != nil {
		endpoint = *m.endpoint
	}
	clientID, clientSecret := m.clientCredentials(provider.Name)
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     endpoint,
		RedirectURL:  fmt.Sprintf("%s/api/oauth/%s/callback", m.config.BackendURL, provider.Name),
		Scopes:       provider.Scopes,
	}
}

func (m *TokenManager) clientCredentials(providerName string) (string, string) {
	switch providerName {
	case "microsoft":
		return m.config.MicrosoftClientID, m.config.MicrosoftClientSecret
	default:
		return "", ""
	}
}

func (m *TokenManager) httpContext() context.Context {
	ctx := context.Background()
	if m.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	}
	return ctx
}

// decodeIdentity reads the claims out of a JWT payload segment without
// verifying the signature; the token arrived over the provider's TLS channel.
func decodeIdentity(idToken string) (*IdentityClaims, error) {
	parts := strings.Split(idToken, ".")
	if len(parts) != 3 {
		return nil, errors.New("id_token is not a three-segment JWT")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode id_token payload: %w", err)
	}
	var claims IdentityClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse id_token payload: %w", err)
	}
	return &claims, nil
}

func asExchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return &oauthdomain.TokenExchangeError{
			StatusCode: status,
			Body:       string(retrieveErr.Body),
		}
	}
	return err
}
