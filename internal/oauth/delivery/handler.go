package delivery

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	accountdomain "automail-backend/internal/account/domain"
	oauthdomain "automail-backend/internal/oauth/domain"
	"automail-backend/internal/oauth/usecase"
	"automail-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

// OAuthHandler handles the provider authorization round-trip and token
// maintenance endpoints
type OAuthHandler struct {
	tokenManager *usecase.TokenManager
	config       *config.Config
}

// NewOAuthHandler creates a new OAuthHandler
func NewOAuthHandler(tokenManager *usecase.TokenManager, cfg *config.Config) *OAuthHandler {
	return &OAuthHandler{
		tokenManager: tokenManager,
		config:       cfg,
	}
}

// GetProviders lists the supported OAuth mail providers
// GET /api/oauth/providers
func (h *OAuthHandler) GetProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": oauthdomain.Providers()})
}

// Authorize starts the authorization flow by redirecting to the provider
// GET /api/oauth/:provider/authorize
func (h *OAuthHandler) Authorize(c *gin.Context) {
	authURL, err := h.tokenManager.AuthorizationURL(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// Callback receives the provider redirect, finishes the exchange, and sends
// the browser back to the frontend with the outcome in the query string
// GET /api/oauth/:provider/callback
func (h *OAuthHandler) Callback(c *gin.Context) {
	if provErr := c.Query("error"); provErr != "" {
		description := c.Query("error_description")
		h.redirectWithError(c, fmt.Sprintf("%s: %s", provErr, description))
		return
	}

	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		h.redirectWithError(c, "missing state or code")
		return
	}

	account, err := h.tokenManager.CompleteCallback(state, code)
	if err != nil {
		h.redirectWithError(c, err.Error())
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s/accounts?status=connected&email=%s",
		h.config.FrontendURL, url.QueryEscape(account.Email)))
}

// RefreshToken forces a token refresh for an account
// POST /api/oauth/:provider/refresh/:accountId
func (h *OAuthHandler) RefreshToken(c *gin.Context) {
	err := h.tokenManager.RefreshAccount(c.Param("accountId"))
	if err != nil {
		h.writeTokenError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token refreshed"})
}

// GetStatus reports the token expiry state of an account
// GET /api/oauth/status/:accountId
func (h *OAuthHandler) GetStatus(c *gin.Context) {
	status, err := h.tokenManager.Status(c.Param("accountId"))
	if err != nil {
		h.writeTokenError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *OAuthHandler) redirectWithError(c *gin.Context, message string) {
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/accounts?status=error&message=%s",
		h.config.FrontendURL, url.QueryEscape(message)))
}

func (h *OAuthHandler) writeTokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, accountdomain.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, accountdomain.ErrInvalidAccountType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Account is not an oauth2 account"})
	default:
		var exchangeErr *oauthdomain.TokenExchangeError
		if errors.As(err, &exchangeErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": exchangeErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
