// Package transfer moves messages between mailboxes, either inside one
// account or across two accounts on different servers.
package transfer

import (
	"fmt"
	"log"

	"automail-backend/pkg/imapx"
)

// Mover runs message transfers over fresh IMAP sessions.
type Mover struct {
	dial imapx.DialFunc
}

// NewMover creates a new Mover
func NewMover(dial imapx.DialFunc) *Mover {
	return &Mover{dial: dial}
}

// MoveResult reports how a transfer went, message by message.
type MoveResult struct {
	SuccessCount int      `json:"success_count"`
	FailedUIDs   []uint32 `json:"failed_uids,omitempty"`
}

// MoveWithinAccount moves messages with a single native UID MOVE inside one
// session. The server applies the move atomically, so a failure fails the
// whole batch rather than individual messages.
func (m *Mover) MoveWithinAccount(creds imapx.Credentials, uids []uint32, sourceRef, targetRef string) (*MoveResult, error) {
	if len(uids) == 0 {
		return &MoveResult{}, nil
	}

	result := &MoveResult{}
	err := imapx.WithSession(m.dial, creds, func(c imapx.Client) error {
		sourcePath, err := resolveRequired(c, sourceRef)
		if err != nil {
			return err
		}
		targetPath, err := resolveRequired(c, targetRef)
		if err != nil {
			return err
		}
		if err := c.OpenFolder(sourcePath); err != nil {
			return err
		}

		if err := c.Move(uids, targetPath); err != nil {
			log.Printf("[Transfer] move of %d messages from %s to %s failed: %v", len(uids), sourcePath, targetPath, err)
			result.FailedUIDs = uids
			return nil
		}
		result.SuccessCount = len(uids)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MoveCrossAccount copies messages to another account and deletes the copied
// originals. Fetch and append failures are per-message: a bad message is
// recorded and skipped, never fatal for the batch. Only messages that
// actually landed on the target are deleted from the source.
func (m *Mover) MoveCrossAccount(sourceCreds, targetCreds imapx.Credentials, uids []uint32, sourceRef, targetRef string) (*MoveResult, error) {
	if len(uids) == 0 {
		return &MoveResult{}, nil
	}

	result := &MoveResult{}

	var sourcePath string
	var fetched []*imapx.Message
	err := imapx.WithSession(m.dial, sourceCreds, func(c imapx.Client) error {
		var err error
		sourcePath, err = resolveRequired(c, sourceRef)
		if err != nil {
			return err
		}
		if err := c.OpenFolder(sourcePath); err != nil {
			return err
		}
		for _, uid := range uids {
			msg, err := c.FetchMessage(uid)
			if err != nil {
				log.Printf("[Transfer] fetch of uid %d from %s failed: %v", uid, sourcePath, err)
				result.FailedUIDs = append(result.FailedUIDs, uid)
				continue
			}
			fetched = append(fetched, msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var appended []uint32
	err = imapx.WithSession(m.dial, targetCreds, func(c imapx.Client) error {
		targetPath, err := resolveRequired(c, targetRef)
		if err != nil {
			return err
		}
		for _, msg := range fetched {
			if err := c.Append(targetPath, msg); err != nil {
				log.Printf("[Transfer] append of uid %d to %s failed: %v", msg.UID, targetPath, err)
				result.FailedUIDs = append(result.FailedUIDs, msg.UID)
				continue
			}
			appended = append(appended, msg.UID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(appended) == 0 {
		return result, nil
	}

	err = imapx.WithSession(m.dial, sourceCreds, func(c imapx.Client) error {
		if err := c.OpenFolder(sourcePath); err != nil {
			return err
		}
		return c.Delete(appended)
	})
	if err != nil {
		return nil, fmt.Errorf("copied %d messages but failed to delete originals: %w", len(appended), err)
	}

	result.SuccessCount = len(appended)
	return result, nil
}

// CopyAllMessages copies every message in sourceFolder to targetFolder on
// another account, leaving the source untouched. Folder names are literal
// paths, already resolved by the caller.
func (m *Mover) CopyAllMessages(sourceCreds, targetCreds imapx.Credentials, sourceFolder, targetFolder string) (int, error) {
	var messages []*imapx.Message
	err := imapx.WithSession(m.dial, sourceCreds, func(c imapx.Client) error {
		if err := c.OpenFolder(sourceFolder); err != nil {
			return err
		}
		uids, err := c.SearchAll()
		if err != nil {
			return err
		}
		for _, uid := range uids {
			msg, err := c.FetchMessage(uid)
			if err != nil {
				log.Printf("[Transfer] fetch of uid %d from %s failed, skipping: %v", uid, sourceFolder, err)
				continue
			}
			messages = append(messages, msg)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}

	copied := 0
	err = imapx.WithSession(m.dial, targetCreds, func(c imapx.Client) error {
		for _, msg := range messages {
			if err := c.Append(targetFolder, msg); err != nil {
				log.Printf("[Transfer] append of uid %d to %s failed, skipping: %v", msg.UID, targetFolder, err)
				continue
			}
			copied++
		}
		return nil
	})
	if err != nil {
		return copied, err
	}
	return copied, nil
}

func resolveRequired(c imapx.Client, ref string) (string, error) {
	path, ok, err := imapx.ResolvePath(c, ref)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &imapx.MailboxNotFoundError{Mailbox: ref}
	}
	return path, nil
}
