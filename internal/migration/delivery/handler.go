package delivery

import (
	"errors"
	"net/http"

	accountdomain "automail-backend/internal/account/domain"
	"automail-backend/internal/migration/usecase"
	"automail-backend/pkg/imapx"

	"github.com/gin-gonic/gin"
)

// MigrationHandler handles mailbox migration HTTP requests
type MigrationHandler struct {
	migrationUsecase usecase.MigrationUsecase
}

// NewMigrationHandler creates a new MigrationHandler
func NewMigrationHandler(migrationUsecase usecase.MigrationUsecase) *MigrationHandler {
	return &MigrationHandler{
		migrationUsecase: migrationUsecase,
	}
}

type PreviewRequest struct {
	SourceAccountID string   `json:"source_account_id" binding:"required"`
	ExcludedFolders []string `json:"excluded_folders"`
}

type ExecuteRequest struct {
	SourceAccountID string   `json:"source_account_id" binding:"required"`
	TargetAccountID string   `json:"target_account_id" binding:"required"`
	ExcludedFolders []string `json:"excluded_folders"`
}

// Preview shows what a migration would transfer
// POST /api/migration/preview
func (h *MigrationHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preview, err := h.migrationUsecase.Preview(req.SourceAccountID, req.ExcludedFolders)
	if err != nil {
		h.writeMigrationError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// Execute runs a full mailbox migration
// POST /api/migration/execute
func (h *MigrationHandler) Execute(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SourceAccountID == req.TargetAccountID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source and target accounts must differ"})
		return
	}

	result, err := h.migrationUsecase.Execute(req.SourceAccountID, req.TargetAccountID, req.ExcludedFolders)
	if err != nil {
		h.writeMigrationError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDefaultExcludedFolders returns the built-in exclusion list
// GET /api/migration/default-excluded-folders
func (h *MigrationHandler) GetDefaultExcludedFolders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"folders": imapx.DefaultExcludedFolders})
}

func (h *MigrationHandler) writeMigrationError(c *gin.Context, err error) {
	var connErr *imapx.ConnectionError
	switch {
	case errors.Is(err, accountdomain.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.As(err, &connErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
