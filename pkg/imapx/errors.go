package imapx

import "fmt"

// ConnectionError is a transport-level failure connecting or authenticating.
type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("imap connection to %s failed: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// OperationError is a protocol command failure inside an established session.
type OperationError struct {
	Op      string
	Mailbox string
	Err     error
}

func (e *OperationError) Error() string {
	if e.Mailbox != "" {
		return fmt.Sprintf("imap %s on %q failed: %v", e.Op, e.Mailbox, e.Err)
	}
	return fmt.Sprintf("imap %s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// MailboxNotFoundError reports a special-use or literal reference that did
// not resolve to an existing folder.
type MailboxNotFoundError struct {
	Mailbox string
}

func (e *MailboxNotFoundError) Error() string {
	return fmt.Sprintf("mailbox not found: %s", e.Mailbox)
}
