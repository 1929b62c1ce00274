package delivery

import (
	"errors"
	"net/http"

	accountdomain "automail-backend/internal/account/domain"
	accountdto "automail-backend/internal/account/dto"
	"automail-backend/internal/account/usecase"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles mail account HTTP requests
type AccountHandler struct {
	accountUsecase usecase.AccountUsecase
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountUsecase usecase.AccountUsecase) *AccountHandler {
	return &AccountHandler{
		accountUsecase: accountUsecase,
	}
}

// GetAccounts returns all configured mail accounts
// GET /api/accounts
func (h *AccountHandler) GetAccounts(c *gin.Context) {
	accounts, err := h.accountUsecase.ListAccounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// GetAccountByID returns a specific mail account
// GET /api/accounts/:id
func (h *AccountHandler) GetAccountByID(c *gin.Context) {
	account, err := h.accountUsecase.GetAccount(c.Param("id"))
	if err != nil {
		if errors.Is(err, accountdomain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, account)
}

// CreateAccount registers a new mail account
// POST /api/accounts
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req accountdto.CreateMailAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accountUsecase.CreateAccount(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, account)
}

// UpdateAccount changes account settings
// PUT /api/accounts/:id
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var req accountdto.UpdateMailAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accountUsecase.UpdateAccount(c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, accountdomain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, account)
}

// DeleteAccount removes a mail account and everything referencing it
// DELETE /api/accounts/:id
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	if err := h.accountUsecase.DeleteAccount(c.Param("id")); err != nil {
		if errors.Is(err, accountdomain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

// GetMailboxes lists the folder tree of the account's mailbox
// GET /api/accounts/:id/mailboxes
func (h *AccountHandler) GetMailboxes(c *gin.Context) {
	folders, err := h.accountUsecase.ListMailboxes(c.Param("id"))
	if err != nil {
		if errors.Is(err, accountdomain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mailboxes": folders})
}
