package usecase

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	accountdomain "automail-backend/internal/account/domain"
	accountdto "automail-backend/internal/account/dto"
	"automail-backend/internal/transfer"
	"automail-backend/pkg/imapx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mailboxFake is an in-memory mailbox with per-folder messages.
type mailboxFake struct {
	folders    []imapx.Folder
	messages   map[string]map[uint32]*imapx.Message
	statusErrs map[string]error
	createErrs map[string]error

	current  string
	created  []string
	appended map[string]int
}

func newMailboxFake(folders ...imapx.Folder) *mailboxFake {
	return &mailboxFake{
		folders:    folders,
		messages:   make(map[string]map[uint32]*imapx.Message),
		statusErrs: make(map[string]error),
		createErrs: make(map[string]error),
		appended:   make(map[string]int),
	}
}

func (f *mailboxFake) seed(folder string, uids ...uint32) {
	if f.messages[folder] == nil {
		f.messages[folder] = make(map[uint32]*imapx.Message)
	}
	for _, uid := range uids {
		f.messages[folder][uid] = &imapx.Message{UID: uid, Raw: []byte("Subject: x\r\n\r\nbody")}
	}
}

func (f *mailboxFake) ListFolders() ([]imapx.Folder, error) { return f.folders, nil }

func (f *mailboxFake) CreateFolder(path string) error {
	if err := f.createErrs[path]; err != nil {
		return err
	}
	f.created = append(f.created, path)
	f.folders = append(f.folders, imapx.Folder{Path: path, Name: path, Selectable: true})
	return nil
}

func (f *mailboxFake) OpenFolder(path string) error {
	f.current = path
	return nil
}

func (f *mailboxFake) SearchAll() ([]uint32, error) {
	var uids []uint32
	for uid := range f.messages[f.current] {
		uids = append(uids, uid)
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })
	return uids, nil
}

func (f *mailboxFake) FetchMessage(uid uint32) (*imapx.Message, error) {
	msg, ok := f.messages[f.current][uid]
	if !ok {
		return nil, fmt.Errorf("no message with uid %d", uid)
	}
	return msg, nil
}

func (f *mailboxFake) Append(path string, msg *imapx.Message) error {
	f.appended[path]++
	return nil
}

func (f *mailboxFake) Move(uids []uint32, targetPath string) error { return nil }
func (f *mailboxFake) Delete(uids []uint32) error                  { return nil }

func (f *mailboxFake) Status(path string) (int, error) {
	if err := f.statusErrs[path]; err != nil {
		return 0, err
	}
	return len(f.messages[path]), nil
}

func (f *mailboxFake) Logout() error { return nil }

// fakeAccounts resolves account ids straight to fixed credentials.
type fakeAccounts struct {
	creds map[string]imapx.Credentials
}

func (f *fakeAccounts) CredentialsFor(id string) (imapx.Credentials, error) {
	creds, ok := f.creds[id]
	if !ok {
		return imapx.Credentials{}, accountdomain.ErrAccountNotFound
	}
	return creds, nil
}

func (f *fakeAccounts) ResolveCredentials(*accountdomain.MailAccount) (imapx.Credentials, error) {
	return imapx.Credentials{}, nil
}
func (f *fakeAccounts) ListAccounts() ([]*accountdomain.MailAccount, error)      { return nil, nil }
func (f *fakeAccounts) GetAccount(string) (*accountdomain.MailAccount, error)    { return nil, nil }
func (f *fakeAccounts) DeleteAccount(string) error                               { return nil }
func (f *fakeAccounts) ListMailboxes(string) ([]imapx.Folder, error)             { return nil, nil }
func (f *fakeAccounts) CreateAccount(*accountdto.CreateMailAccountRequest) (*accountdomain.MailAccount, error) {
	return nil, nil
}
func (f *fakeAccounts) UpdateAccount(string, *accountdto.UpdateMailAccountRequest) (*accountdomain.MailAccount, error) {
	return nil, nil
}

func testSetup(source, target *mailboxFake) MigrationUsecase {
	dial := func(creds imapx.Credentials) (imapx.Client, error) {
		switch creds.User {
		case "source@example.com":
			return source, nil
		case "target@example.com":
			return target, nil
		}
		return nil, fmt.Errorf("no fake for %s", creds.User)
	}
	accounts := &fakeAccounts{creds: map[string]imapx.Credentials{
		"src-1": imapx.PasswordCredentials("src.example.com", 993, "source@example.com", "pw"),
		"tgt-1": imapx.PasswordCredentials("tgt.example.com", 993, "target@example.com", "pw"),
	}}
	return NewMigrationUsecase(accounts, transfer.NewMover(dial), dial)
}

func sourceFolders() []imapx.Folder {
	return []imapx.Folder{
		{Path: "INBOX", Name: "INBOX", Delimiter: "/", Selectable: true},
		{Path: "Work", Name: "Work", Delimiter: "/", Selectable: true},
		{Path: "Junk", Name: "Junk", Delimiter: "/", SpecialUse: "\\Junk", Selectable: true},
		{Path: "[Gmail]", Name: "[Gmail]", Delimiter: "/", Selectable: false},
	}
}

func TestPreviewFiltersAndCounts(t *testing.T) {
	source := newMailboxFake(sourceFolders()...)
	source.seed("INBOX", 1, 2, 3)
	source.seed("Work", 4)
	source.seed("Junk", 5, 6)
	u := testSetup(source, newMailboxFake())

	preview, err := u.Preview("src-1", nil)
	require.NoError(t, err)

	require.Len(t, preview.Folders, 2, "junk and non-selectable folders stay out")
	assert.Equal(t, "INBOX", preview.Folders[0].Path)
	assert.Equal(t, 3, preview.Folders[0].MessageCount)
	assert.Equal(t, "Work", preview.Folders[1].Path)
	assert.Equal(t, 4, preview.TotalMessages)
	assert.Equal(t, imapx.DefaultExcludedFolders, preview.ExcludedFolders,
		"the preview reports the exclusion list it was computed with")
}

func TestPreviewEchoesCallerExclusions(t *testing.T) {
	source := newMailboxFake(sourceFolders()...)
	source.seed("INBOX", 1)
	u := testSetup(source, newMailboxFake())

	preview, err := u.Preview("src-1", []string{"Work"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Work"}, preview.ExcludedFolders)
	require.Len(t, preview.Folders, 2, "junk survives a caller list that does not name it")
}

func TestPreviewIsReadOnlyAndRepeatable(t *testing.T) {
	source := newMailboxFake(sourceFolders()...)
	source.seed("INBOX", 1, 2)
	target := newMailboxFake()
	u := testSetup(source, target)

	first, err := u.Preview("src-1", nil)
	require.NoError(t, err)
	second, err := u.Preview("src-1", nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Empty(t, source.created)
	assert.Empty(t, source.appended)
	assert.Empty(t, target.created)
	assert.Empty(t, target.appended)
}

func TestPreviewSkipsFolderWhenStatusFails(t *testing.T) {
	source := newMailboxFake(sourceFolders()...)
	source.seed("INBOX", 1)
	source.seed("Work", 2, 3)
	source.statusErrs["Work"] = errors.New("NO status unavailable")
	u := testSetup(source, newMailboxFake())

	preview, err := u.Preview("src-1", nil)
	require.NoError(t, err)

	require.Len(t, preview.Folders, 1)
	assert.Equal(t, "INBOX", preview.Folders[0].Path)
	assert.Equal(t, 1, preview.TotalMessages)
}

func TestPreviewUnknownAccount(t *testing.T) {
	u := testSetup(newMailboxFake(), newMailboxFake())

	_, err := u.Preview("nope", nil)
	assert.ErrorIs(t, err, accountdomain.ErrAccountNotFound)
}

func TestExecuteCreatesMissingFoldersAndCopies(t *testing.T) {
	source := newMailboxFake(sourceFolders()...)
	source.seed("INBOX", 1, 2)
	source.seed("Work", 3)
	target := newMailboxFake(imapx.Folder{Path: "INBOX", Name: "INBOX", Selectable: true})
	u := testSetup(source, target)

	result, err := u.Execute("src-1", "tgt-1", nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"Work"}, result.FoldersCreated)
	assert.Equal(t, []FolderCopy{
		{Path: "INBOX", MessageCount: 2},
		{Path: "Work", MessageCount: 1},
	}, result.FoldersCopied)
	assert.Equal(t, 3, result.TotalMessagesCopied)
	assert.Equal(t, 2, target.appended["INBOX"])
	assert.Equal(t, 1, target.appended["Work"])
	assert.Empty(t, result.Errors)
}

func TestExecuteFolderFailureDoesNotStopTheRest(t *testing.T) {
	source := newMailboxFake(sourceFolders()...)
	source.seed("INBOX", 1)
	source.seed("Work", 2, 3)
	target := newMailboxFake(imapx.Folder{Path: "INBOX", Name: "INBOX", Selectable: true})
	target.createErrs["Work"] = errors.New("NO cannot create")
	u := testSetup(source, target)

	result, err := u.Execute("src-1", "tgt-1", nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Work", result.Errors[0].Folder)
	assert.NotEmpty(t, result.Errors[0].Error)
	assert.Equal(t, []FolderCopy{{Path: "INBOX", MessageCount: 1}}, result.FoldersCopied)
	assert.Equal(t, 1, result.TotalMessagesCopied)
	assert.Equal(t, 1, target.appended["INBOX"])
	assert.Zero(t, target.appended["Work"], "a folder that failed to create is not copied into")
}

func TestExecuteUnknownAccountReportsGeneralFailure(t *testing.T) {
	u := testSetup(newMailboxFake(), newMailboxFake())

	result, err := u.Execute("src-1", "nope", nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "general", result.Errors[0].Folder)
	assert.Contains(t, result.Errors[0].Error, "not found")
	assert.Empty(t, result.FoldersCreated)
	assert.Empty(t, result.FoldersCopied)
}

func TestExecuteRejectsSameAccount(t *testing.T) {
	u := testSetup(newMailboxFake(), newMailboxFake())

	_, err := u.Execute("src-1", "src-1", nil)
	assert.Error(t, err)
}
