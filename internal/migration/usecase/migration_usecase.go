package usecase

import (
	"errors"
	"log"

	accountusecase "automail-backend/internal/account/usecase"
	"automail-backend/internal/transfer"
	"automail-backend/pkg/imapx"
)

// migrationUsecase implements MigrationUsecase interface
type migrationUsecase struct {
	accountUsecase accountusecase.AccountUsecase
	mover          *transfer.Mover
	dial           imapx.DialFunc
}

// NewMigrationUsecase creates a new instance of migrationUsecase
func NewMigrationUsecase(accountUsecase accountusecase.AccountUsecase, mover *transfer.Mover, dial imapx.DialFunc) MigrationUsecase {
	return &migrationUsecase{
		accountUsecase: accountUsecase,
		mover:          mover,
		dial:           dial,
	}
}

func (u *migrationUsecase) Preview(sourceAccountID string, excludedFolders []string) (*MigrationPreview, error) {
	creds, err := u.accountUsecase.CredentialsFor(sourceAccountID)
	if err != nil {
		return nil, err
	}

	excluded := effectiveExclusions(excludedFolders)
	preview := &MigrationPreview{ExcludedFolders: excluded}
	err = imapx.WithSession(u.dial, creds, func(c imapx.Client) error {
		folders, total, err := collectFolders(c, excluded)
		if err != nil {
			return err
		}
		preview.Folders = folders
		preview.TotalMessages = total
		return nil
	})
	if err != nil {
		return nil, err
	}
	return preview, nil
}

func (u *migrationUsecase) Execute(sourceAccountID, targetAccountID string, excludedFolders []string) (*MigrationResult, error) {
	if sourceAccountID == targetAccountID {
		return nil, errors.New("source and target accounts must differ")
	}

	result := &MigrationResult{
		Success:        true,
		FoldersCreated: []string{},
		FoldersCopied:  []FolderCopy{},
		Errors:         []MigrationError{},
	}

	sourceCreds, err := u.accountUsecase.CredentialsFor(sourceAccountID)
	if err != nil {
		return failResult(result, err), nil
	}
	targetCreds, err := u.accountUsecase.CredentialsFor(targetAccountID)
	if err != nil {
		return failResult(result, err), nil
	}

	excluded := effectiveExclusions(excludedFolders)

	var folders []FolderInfo
	err = imapx.WithSession(u.dial, sourceCreds, func(c imapx.Client) error {
		var listErr error
		folders, _, listErr = collectFolders(c, excluded)
		return listErr
	})
	if err != nil {
		return failResult(result, err), nil
	}

	// Replicate the folder tree on the target before any copying starts.
	skipped := make(map[string]bool)
	err = imapx.WithSession(u.dial, targetCreds, func(c imapx.Client) error {
		existing, err := c.ListFolders()
		if err != nil {
			return err
		}
		present := make(map[string]bool, len(existing))
		for _, f := range existing {
			present[f.Path] = true
		}
		for _, folder := range folders {
			if present[folder.Path] {
				continue
			}
			if err := c.CreateFolder(folder.Path); err != nil {
				result.Success = false
				result.Errors = append(result.Errors, MigrationError{Folder: folder.Path, Error: err.Error()})
				skipped[folder.Path] = true
				continue
			}
			result.FoldersCreated = append(result.FoldersCreated, folder.Path)
		}
		return nil
	})
	if err != nil {
		return failResult(result, err), nil
	}

	for _, folder := range folders {
		if skipped[folder.Path] || folder.MessageCount == 0 {
			continue
		}
		copied, err := u.mover.CopyAllMessages(sourceCreds, targetCreds, folder.Path, folder.Path)
		if err != nil {
			result.Success = false
			result.Errors = append(result.Errors, MigrationError{Folder: folder.Path, Error: err.Error()})
			continue
		}
		result.FoldersCopied = append(result.FoldersCopied, FolderCopy{Path: folder.Path, MessageCount: copied})
		result.TotalMessagesCopied += copied
	}

	log.Printf("[Migration] %s -> %s: %d folders copied, %d messages, %d errors",
		sourceAccountID, targetAccountID, len(result.FoldersCopied), result.TotalMessagesCopied, len(result.Errors))
	return result, nil
}

// failResult stamps a failure that sank the migration before (or between)
// folders, so callers always get a structured result rather than a bare error.
func failResult(result *MigrationResult, err error) *MigrationResult {
	result.Success = false
	result.Errors = append(result.Errors, MigrationError{Folder: "general", Error: err.Error()})
	return result
}

// collectFolders lists the selectable, non-excluded folders with their
// message counts. A folder whose STATUS fails is logged and left out rather
// than failing the whole listing.
func collectFolders(c imapx.Client, excluded []string) ([]FolderInfo, int, error) {
	folders, err := c.ListFolders()
	if err != nil {
		return nil, 0, err
	}

	var infos []FolderInfo
	total := 0
	for _, f := range folders {
		if !f.Selectable {
			continue
		}
		if imapx.ShouldExclude(f, excluded) {
			continue
		}
		count, err := c.Status(f.Path)
		if err != nil {
			log.Printf("[Migration] STATUS %s failed, skipping folder: %v", f.Path, err)
			continue
		}
		infos = append(infos, FolderInfo{
			Path:         f.Path,
			Name:         f.Name,
			SpecialUse:   f.SpecialUse,
			MessageCount: count,
		})
		total += count
	}
	return infos, total, nil
}

func effectiveExclusions(excludedFolders []string) []string {
	if excludedFolders == nil {
		return imapx.DefaultExcludedFolders
	}
	return excludedFolders
}
