// Package imapx wraps the IMAP protocol primitive behind a small session
// interface shared by automation flows and migrations.
package imapx

import (
	"time"
)

// CredentialKind selects the authentication mechanism for a session.
type CredentialKind string

const (
	CredentialKindPassword CredentialKind = "password"
	CredentialKindBearer   CredentialKind = "bearer"
)

// Credentials are produced fresh for each mailbox operation and never cached.
type Credentials struct {
	Kind        CredentialKind
	Host        string
	Port        int
	User        string
	Password    string
	AccessToken string
}

func PasswordCredentials(host string, port int, user, password string) Credentials {
	return Credentials{
		Kind:     CredentialKindPassword,
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}
}

func BearerCredentials(host string, port int, user, accessToken string) Credentials {
	return Credentials{
		Kind:        CredentialKindBearer,
		Host:        host,
		Port:        port,
		User:        user,
		AccessToken: accessToken,
	}
}

// Folder describes one mailbox from a LIST response.
type Folder struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	Delimiter  string `json:"-"`
	SpecialUse string `json:"specialUse,omitempty"`
	Selectable bool   `json:"-"`
}

// Message is a fetched message with everything needed to append it elsewhere.
type Message struct {
	UID   uint32
	Flags []string
	Date  time.Time
	Raw   []byte
}

// Client is the set of operations available inside a mailbox session.
type Client interface {
	ListFolders() ([]Folder, error)
	CreateFolder(path string) error
	OpenFolder(path string) error
	SearchAll() ([]uint32, error)
	FetchMessage(uid uint32) (*Message, error)
	Append(path string, msg *Message) error
	Move(uids []uint32, targetPath string) error
	Delete(uids []uint32) error
	Status(path string) (int, error)
	Logout() error
}

// DialFunc connects and authenticates a session. Tests substitute fakes.
type DialFunc func(Credentials) (Client, error)

// WithSession runs fn inside a connected session and guarantees logout on
// every exit path.
func WithSession(dial DialFunc, creds Credentials, fn func(Client) error) error {
	c, err := dial(creds)
	if err != nil {
		return err
	}
	defer c.Logout()
	return fn(c)
}
