package imapx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listOnlyClient implements Client for resolver tests; only ListFolders is
// expected to be called.
type listOnlyClient struct {
	Client
	folders []Folder
	listErr error
	lists   int
}

func (c *listOnlyClient) ListFolders() ([]Folder, error) {
	c.lists++
	return c.folders, c.listErr
}

func TestResolvePathLiteralPassesThrough(t *testing.T) {
	c := &listOnlyClient{}

	path, ok, err := ResolvePath(c, "INBOX/Receipts")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "INBOX/Receipts", path)
	// No existence check for literals, so no LIST round trip.
	assert.Zero(t, c.lists)
}

func TestResolvePathSpecialUse(t *testing.T) {
	c := &listOnlyClient{folders: []Folder{
		{Path: "INBOX"},
		{Path: "Deleted Items", SpecialUse: "\\Trash"},
		{Path: "Sent Items", SpecialUse: "\\Sent"},
	}}

	path, ok, err := ResolvePath(c, "\\Trash")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Deleted Items", path)
}

func TestResolvePathSpecialUseNotFound(t *testing.T) {
	c := &listOnlyClient{folders: []Folder{
		{Path: "INBOX"},
		{Path: "Drafts", SpecialUse: "\\Drafts"},
	}}

	_, ok, err := ResolvePath(c, "\\Sent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolvePathListFailure(t *testing.T) {
	c := &listOnlyClient{listErr: errors.New("list refused")}

	_, _, err := ResolvePath(c, "\\Trash")
	assert.Error(t, err)
}
