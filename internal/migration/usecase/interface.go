package usecase

// FolderInfo is one source folder as shown in a migration preview.
type FolderInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	SpecialUse   string `json:"special_use,omitempty"`
	MessageCount int    `json:"message_count"`
}

// MigrationPreview summarises what Execute would transfer, echoing the
// exclusion list it was computed with.
type MigrationPreview struct {
	Folders         []FolderInfo `json:"folders"`
	TotalMessages   int          `json:"total_messages"`
	ExcludedFolders []string     `json:"excluded_folders"`
}

// FolderCopy records how many messages landed in one target folder.
type FolderCopy struct {
	Path         string `json:"path"`
	MessageCount int    `json:"message_count"`
}

// MigrationError is one failed folder. Failures that sink the whole
// migration before any folder is reached use the folder name "general".
type MigrationError struct {
	Folder string `json:"folder"`
	Error  string `json:"error"`
}

// MigrationResult reports a finished migration, including per-folder errors.
type MigrationResult struct {
	Success             bool             `json:"success"`
	FoldersCreated      []string         `json:"folders_created"`
	FoldersCopied       []FolderCopy     `json:"folders_copied"`
	TotalMessagesCopied int              `json:"total_messages_copied"`
	Errors              []MigrationError `json:"errors"`
}

// MigrationUsecase defines the interface for mailbox migrations
type MigrationUsecase interface {
	// Preview lists what would be migrated. Read-only: running it twice
	// against an unchanged mailbox gives the same answer.
	Preview(sourceAccountID string, excludedFolders []string) (*MigrationPreview, error)
	// Execute replicates the source folder tree and message bodies onto
	// the target account. A failing folder is recorded and skipped.
	Execute(sourceAccountID, targetAccountID string, excludedFolders []string) (*MigrationResult, error)
}
