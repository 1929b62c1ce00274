package imapx

import "github.com/emersion/go-sasl"

// xoauth2Client implements the XOAUTH2 SASL mechanism used by Microsoft and
// Google IMAP servers for bearer-token authentication.
type xoauth2Client struct {
	username string
	token    string
}

func newXOAuth2Client(username, token string) sasl.Client {
	return &xoauth2Client{username: username, token: token}
}

func (c *xoauth2Client) Start() (string, []byte, error) {
	// Initial response format: "user=<user>\x01auth=Bearer <token>\x01\x01"
	ir := []byte("user=" + c.username + "\x01auth=Bearer " + c.token + "\x01\x01")
	return "XOAUTH2", ir, nil
}

func (c *xoauth2Client) Next(challenge []byte) ([]byte, error) {
	// XOAUTH2 has no challenge-response round; servers send an error blob
	// before failing the command, which we acknowledge with an empty reply.
	return nil, nil
}
