package delivery

import (
	"errors"
	"net/http"

	authdomain "automail-backend/internal/auth/domain"
	authdto "automail-backend/internal/auth/dto"
	"automail-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

// GetSetupStatus reports whether first-run registration is still open
// GET /api/auth/setup-status
func (h *AuthHandler) GetSetupStatus(c *gin.Context) {
	needsSetup, err := h.authUsecase.NeedsSetup()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, authdto.SetupStatusResponse{NeedsSetup: needsSetup})
}

// Register creates the single user account
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authUsecase.Register(&req)
	if err != nil {
		if errors.Is(err, usecase.ErrSetupComplete) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login authenticates the user and issues a JWT
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authUsecase.Login(&req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	user, ok := value.(*authdomain.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user in context"})
		return
	}
	c.JSON(http.StatusOK, user)
}
