package imapx

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/charset"
)

func init() {
	// Some servers still emit headers and mailbox names in legacy charsets.
	imap.CharsetReader = charset.Reader
}

// Session is the production Client backed by one IMAP connection.
type Session struct {
	c    *client.Client
	host string
}

// Dial connects over TLS and authenticates with a password login or an
// XOAUTH2 bearer token, depending on the credential kind.
func Dial(creds Credentials) (Client, error) {
	addr := fmt.Sprintf("%s:%d", creds.Host, creds.Port)
	c, err := client.DialTLS(addr, &tls.Config{ServerName: creds.Host})
	if err != nil {
		return nil, &ConnectionError{Host: creds.Host, Err: err}
	}

	switch creds.Kind {
	case CredentialKindPassword:
		if err := c.Login(creds.User, creds.Password); err != nil {
			_ = c.Logout()
			return nil, &ConnectionError{Host: creds.Host, Err: err}
		}
	case CredentialKindBearer:
		auth := newXOAuth2Client(creds.User, creds.AccessToken)
		if err := c.Authenticate(auth); err != nil {
			_ = c.Logout()
			return nil, &ConnectionError{Host: creds.Host, Err: err}
		}
	default:
		_ = c.Logout()
		return nil, &ConnectionError{Host: creds.Host, Err: fmt.Errorf("unknown credential kind %q", creds.Kind)}
	}

	return &Session{c: c, host: creds.Host}, nil
}

func (s *Session) ListFolders() ([]Folder, error) {
	ch := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- s.c.List("", "*", ch)
	}()

	var folders []Folder
	for m := range ch {
		folders = append(folders, Folder{
			Path:       m.Name,
			Name:       leafName(m.Name, m.Delimiter),
			Delimiter:  m.Delimiter,
			SpecialUse: specialUseAttr(m.Attributes),
			Selectable: isSelectable(m.Attributes),
		})
	}
	if err := <-done; err != nil {
		return nil, &OperationError{Op: "list", Err: err}
	}
	return folders, nil
}

func (s *Session) CreateFolder(path string) error {
	if err := s.c.Create(path); err != nil {
		return &OperationError{Op: "create", Mailbox: path, Err: err}
	}
	return nil
}

func (s *Session) OpenFolder(path string) error {
	if _, err := s.c.Select(path, false); err != nil {
		return &OperationError{Op: "select", Mailbox: path, Err: err}
	}
	return nil
}

// SearchAll returns the UIDs of every message in the opened folder.
func (s *Session) SearchAll() ([]uint32, error) {
	uids, err := s.c.UidSearch(imap.NewSearchCriteria())
	if err != nil {
		return nil, &OperationError{Op: "search", Err: err}
	}
	return uids, nil
}

func (s *Session) FetchMessage(uid uint32) (*Message, error) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(uid)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchUid, imap.FetchFlags, imap.FetchInternalDate, section.FetchItem()}

	ch := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.c.UidFetch(seqset, items, ch)
	}()

	var fetched *imap.Message
	for msg := range ch {
		if fetched == nil {
			fetched = msg
		}
	}
	if err := <-done; err != nil {
		return nil, &OperationError{Op: "fetch", Err: err}
	}
	if fetched == nil {
		return nil, &OperationError{Op: "fetch", Err: fmt.Errorf("message %d not found", uid)}
	}

	body := fetched.GetBody(section)
	if body == nil {
		return nil, &OperationError{Op: "fetch", Err: fmt.Errorf("message %d has no body", uid)}
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, &OperationError{Op: "fetch", Err: err}
	}

	return &Message{
		UID:   uid,
		Flags: appendableFlags(fetched.Flags),
		Date:  fetched.InternalDate,
		Raw:   raw,
	}, nil
}

func (s *Session) Append(path string, msg *Message) error {
	date := msg.Date
	if date.IsZero() {
		date = time.Now()
	}
	if err := s.c.Append(path, msg.Flags, date, bytes.NewBuffer(msg.Raw)); err != nil {
		return &OperationError{Op: "append", Mailbox: path, Err: err}
	}
	return nil
}

// Move issues a single native UID MOVE for the whole identifier set.
func (s *Session) Move(uids []uint32, targetPath string) error {
	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)
	if err := s.c.UidMove(seqset, targetPath); err != nil {
		return &OperationError{Op: "move", Mailbox: targetPath, Err: err}
	}
	return nil
}

// Delete flags the messages deleted and expunges the opened folder.
func (s *Session) Delete(uids []uint32) error {
	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.DeletedFlag}
	if err := s.c.UidStore(seqset, item, flags, nil); err != nil {
		return &OperationError{Op: "store", Err: err}
	}
	if err := s.c.Expunge(nil); err != nil {
		return &OperationError{Op: "expunge", Err: err}
	}
	return nil
}

func (s *Session) Status(path string) (int, error) {
	status, err := s.c.Status(path, []imap.StatusItem{imap.StatusMessages})
	if err != nil {
		return 0, &OperationError{Op: "status", Mailbox: path, Err: err}
	}
	return int(status.Messages), nil
}

func (s *Session) Logout() error {
	return s.c.Logout()
}

var specialUseAttrs = []string{
	imap.AllAttr,
	imap.ArchiveAttr,
	imap.DraftsAttr,
	imap.FlaggedAttr,
	imap.JunkAttr,
	imap.SentAttr,
	imap.TrashAttr,
}

func specialUseAttr(attributes []string) string {
	for _, attr := range attributes {
		for _, known := range specialUseAttrs {
			if attr == known {
				return attr
			}
		}
	}
	return ""
}

func isSelectable(attributes []string) bool {
	for _, attr := range attributes {
		if attr == imap.NoSelectAttr || attr == "\\NonExistent" {
			return false
		}
	}
	return true
}

func appendableFlags(flags []string) []string {
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		// \Recent is session state; servers reject it in APPEND.
		if f == imap.RecentFlag {
			continue
		}
		out = append(out, f)
	}
	return out
}
