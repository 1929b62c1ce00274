package usecase

import (
	"fmt"
	"sort"
	"testing"
	"time"

	accountdomain "automail-backend/internal/account/domain"
	accountdto "automail-backend/internal/account/dto"
	automationdomain "automail-backend/internal/automation/domain"
	automationdto "automail-backend/internal/automation/dto"
	"automail-backend/internal/transfer"
	"automail-backend/pkg/imapx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFlowRepo struct {
	flows map[string]*automationdomain.AutomationFlow
}

func newMemFlowRepo() *memFlowRepo {
	return &memFlowRepo{flows: make(map[string]*automationdomain.AutomationFlow)}
}

func (r *memFlowRepo) Create(flow *automationdomain.AutomationFlow) error {
	if flow.ID == "" {
		flow.ID = fmt.Sprintf("flow-%d", len(r.flows)+1)
	}
	r.flows[flow.ID] = flow
	return nil
}

func (r *memFlowRepo) FindAll() ([]*automationdomain.AutomationFlow, error) {
	var out []*automationdomain.AutomationFlow
	for _, f := range r.flows {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memFlowRepo) FindByID(id string) (*automationdomain.AutomationFlow, error) {
	flow, ok := r.flows[id]
	if !ok {
		return nil, nil
	}
	copied := *flow
	return &copied, nil
}

func (r *memFlowRepo) Update(flow *automationdomain.AutomationFlow) error {
	r.flows[flow.ID] = flow
	return nil
}

func (r *memFlowRepo) Delete(id string) error {
	delete(r.flows, id)
	return nil
}

func (r *memFlowRepo) FindDue(now time.Time) ([]*automationdomain.AutomationFlow, error) {
	var due []*automationdomain.AutomationFlow
	for _, f := range r.flows {
		if !f.Enabled {
			continue
		}
		if f.NextRun == nil || !f.NextRun.After(now) {
			due = append(due, f)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	return due, nil
}

func (r *memFlowRepo) UpdateRunTimes(id string, lastRun, nextRun *time.Time) error {
	flow, ok := r.flows[id]
	if !ok {
		return fmt.Errorf("flow %s not found", id)
	}
	flow.LastRun = lastRun
	flow.NextRun = nextRun
	return nil
}

type memExecutionRepo struct {
	executions []*automationdomain.AutomationExecution
}

func (r *memExecutionRepo) Create(execution *automationdomain.AutomationExecution) error {
	execution.ID = fmt.Sprintf("exec-%d", len(r.executions)+1)
	r.executions = append(r.executions, execution)
	return nil
}

func (r *memExecutionRepo) Finalize(id, status string, movedCount int, errorMessage string) error {
	for _, e := range r.executions {
		if e.ID == id {
			now := time.Now()
			e.Status = status
			e.MovedCount = movedCount
			e.ErrorMessage = errorMessage
			e.CompletedAt = &now
			return nil
		}
	}
	return fmt.Errorf("execution %s not found", id)
}

func (r *memExecutionRepo) FindByFlowID(flowID string, limit int) ([]*automationdomain.AutomationExecution, error) {
	var out []*automationdomain.AutomationExecution
	for _, e := range r.executions {
		if e.FlowID == flowID {
			out = append(out, e)
		}
	}
	return out, nil
}

// stubAccounts resolves account ids straight to fixed credentials.
type stubAccounts struct {
	creds map[string]imapx.Credentials
}

func (f *stubAccounts) CredentialsFor(id string) (imapx.Credentials, error) {
	creds, ok := f.creds[id]
	if !ok {
		return imapx.Credentials{}, accountdomain.ErrAccountNotFound
	}
	return creds, nil
}

func (f *stubAccounts) GetAccount(id string) (*accountdomain.MailAccount, error) {
	if _, ok := f.creds[id]; !ok {
		return nil, accountdomain.ErrAccountNotFound
	}
	return &accountdomain.MailAccount{ID: id}, nil
}

func (f *stubAccounts) ResolveCredentials(*accountdomain.MailAccount) (imapx.Credentials, error) {
	return imapx.Credentials{}, nil
}
func (f *stubAccounts) ListAccounts() ([]*accountdomain.MailAccount, error) { return nil, nil }
func (f *stubAccounts) DeleteAccount(string) error                          { return nil }
func (f *stubAccounts) ListMailboxes(string) ([]imapx.Folder, error)        { return nil, nil }
func (f *stubAccounts) CreateAccount(*accountdto.CreateMailAccountRequest) (*accountdomain.MailAccount, error) {
	return nil, nil
}
func (f *stubAccounts) UpdateAccount(string, *accountdto.UpdateMailAccountRequest) (*accountdomain.MailAccount, error) {
	return nil, nil
}

// stubMailbox is a minimal in-memory mailbox client.
type stubMailbox struct {
	folders  []imapx.Folder
	messages map[string][]uint32

	current  string
	appended map[string]int
	deleted  []uint32
	moved    []uint32
}

func newStubMailbox(folders ...imapx.Folder) *stubMailbox {
	return &stubMailbox{
		folders:  folders,
		messages: make(map[string][]uint32),
		appended: make(map[string]int),
	}
}

func (s *stubMailbox) ListFolders() ([]imapx.Folder, error) { return s.folders, nil }
func (s *stubMailbox) CreateFolder(path string) error       { return nil }

func (s *stubMailbox) OpenFolder(path string) error {
	s.current = path
	return nil
}

func (s *stubMailbox) SearchAll() ([]uint32, error) {
	return s.messages[s.current], nil
}

func (s *stubMailbox) FetchMessage(uid uint32) (*imapx.Message, error) {
	for _, u := range s.messages[s.current] {
		if u == uid {
			return &imapx.Message{UID: uid, Raw: []byte("Subject: x\r\n\r\nbody")}, nil
		}
	}
	return nil, fmt.Errorf("no message with uid %d", uid)
}

func (s *stubMailbox) Append(path string, msg *imapx.Message) error {
	s.appended[path]++
	return nil
}

func (s *stubMailbox) Move(uids []uint32, targetPath string) error {
	s.moved = append(s.moved, uids...)
	return nil
}

func (s *stubMailbox) Delete(uids []uint32) error {
	s.deleted = append(s.deleted, uids...)
	return nil
}

func (s *stubMailbox) Status(path string) (int, error) { return len(s.messages[path]), nil }
func (s *stubMailbox) Logout() error                   { return nil }

type runnerFixture struct {
	flowRepo *memFlowRepo
	execRepo *memExecutionRepo
	usecase  FlowUsecase
	dials    map[string]int
	source   *stubMailbox
	target   *stubMailbox
}

func newRunnerFixture(t *testing.T) *runnerFixture {
	t.Helper()
	f := &runnerFixture{
		flowRepo: newMemFlowRepo(),
		execRepo: &memExecutionRepo{},
		dials:    make(map[string]int),
		source: newStubMailbox(
			imapx.Folder{Path: "INBOX", Name: "INBOX", Delimiter: "/", Selectable: true},
			imapx.Folder{Path: "Archive", Name: "Archive", Delimiter: "/", SpecialUse: "\\Archive", Selectable: true},
		),
		target: newStubMailbox(
			imapx.Folder{Path: "INBOX", Name: "INBOX", Delimiter: "/", Selectable: true},
		),
	}
	dial := func(creds imapx.Credentials) (imapx.Client, error) {
		f.dials[creds.User]++
		switch creds.User {
		case "source@example.com":
			return f.source, nil
		case "target@example.com":
			return f.target, nil
		}
		return nil, fmt.Errorf("no stub for %s", creds.User)
	}
	accounts := &stubAccounts{creds: map[string]imapx.Credentials{
		"src-1": imapx.PasswordCredentials("src.example.com", 993, "source@example.com", "pw"),
		"tgt-1": imapx.PasswordCredentials("tgt.example.com", 993, "target@example.com", "pw"),
	}}
	f.usecase = NewFlowUsecase(f.flowRepo, f.execRepo, accounts, transfer.NewMover(dial), dial)
	return f
}

func (f *runnerFixture) addFlow(t *testing.T, sourceAccount, targetAccount, sourceMailbox, targetMailbox string) *automationdomain.AutomationFlow {
	t.Helper()
	flow := &automationdomain.AutomationFlow{
		Name:            "test flow",
		SourceAccountID: sourceAccount,
		TargetAccountID: targetAccount,
		SourceMailbox:   sourceMailbox,
		TargetMailbox:   targetMailbox,
		Enabled:         true,
		IntervalMinutes: 15,
	}
	require.NoError(t, f.flowRepo.Create(flow))
	return flow
}

func TestRunFlowEmptySourceNeverTouchesTarget(t *testing.T) {
	f := newRunnerFixture(t)
	flow := f.addFlow(t, "src-1", "tgt-1", "INBOX", "INBOX")

	execution, err := f.usecase.RunFlow(flow.ID)
	require.NoError(t, err)

	assert.Equal(t, automationdomain.ExecutionStatusSuccess, execution.Status)
	assert.Zero(t, execution.MovedCount)
	assert.Zero(t, f.dials["target@example.com"], "empty source must not dial the target")

	stored, err := f.flowRepo.FindByID(flow.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastRun, "an empty run still counts as a run")
	require.NotNil(t, stored.NextRun)
	assert.WithinDuration(t, stored.LastRun.Add(15*time.Minute), *stored.NextRun, time.Second)
}

func TestRunFlowBrokenTargetFailsBeforeSourceIsOpened(t *testing.T) {
	f := newRunnerFixture(t)
	flow := f.addFlow(t, "src-1", "gone", "INBOX", "INBOX")

	execution, err := f.usecase.RunFlow(flow.ID)
	require.Error(t, err)

	assert.ErrorIs(t, err, accountdomain.ErrAccountNotFound)
	require.NotNil(t, execution)
	assert.Equal(t, automationdomain.ExecutionStatusError, execution.Status)
	assert.Zero(t, f.dials["source@example.com"], "both credential sets resolve before any session opens")

	stored, findErr := f.flowRepo.FindByID(flow.ID)
	require.NoError(t, findErr)
	assert.Nil(t, stored.LastRun)
	assert.Nil(t, stored.NextRun)
}

func TestRunFlowMovesCrossAccount(t *testing.T) {
	f := newRunnerFixture(t)
	f.source.messages["INBOX"] = []uint32{7, 8}
	flow := f.addFlow(t, "src-1", "tgt-1", "INBOX", "INBOX")

	execution, err := f.usecase.RunFlow(flow.ID)
	require.NoError(t, err)

	assert.Equal(t, automationdomain.ExecutionStatusSuccess, execution.Status)
	assert.Equal(t, 2, execution.MovedCount)
	assert.Equal(t, 2, f.target.appended["INBOX"])
	assert.Equal(t, []uint32{7, 8}, f.source.deleted)
}

func TestRunFlowSameAccountUsesNativeMove(t *testing.T) {
	f := newRunnerFixture(t)
	f.source.messages["INBOX"] = []uint32{1, 2, 3}
	flow := f.addFlow(t, "src-1", "src-1", "INBOX", "\\Archive")

	execution, err := f.usecase.RunFlow(flow.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, execution.MovedCount)
	assert.Equal(t, []uint32{1, 2, 3}, f.source.moved)
	assert.Empty(t, f.source.appended, "same-account flows never copy message bodies")
	assert.Zero(t, f.dials["target@example.com"])
}

func TestRunFlowFailureLeavesScheduleUntouched(t *testing.T) {
	f := newRunnerFixture(t)
	f.source.messages["INBOX"] = []uint32{1}
	flow := f.addFlow(t, "src-1", "tgt-1", "\\Junk", "INBOX")

	execution, err := f.usecase.RunFlow(flow.ID)
	require.Error(t, err)

	var notFound *imapx.MailboxNotFoundError
	assert.ErrorAs(t, err, &notFound)
	require.NotNil(t, execution)
	assert.Equal(t, automationdomain.ExecutionStatusError, execution.Status)
	assert.NotEmpty(t, execution.ErrorMessage)

	stored, findErr := f.flowRepo.FindByID(flow.ID)
	require.NoError(t, findErr)
	assert.Nil(t, stored.LastRun, "failed runs must not advance the schedule")
	assert.Nil(t, stored.NextRun)
}

func TestRunFlowBusy(t *testing.T) {
	f := newRunnerFixture(t)
	flow := f.addFlow(t, "src-1", "tgt-1", "INBOX", "INBOX")

	inner, ok := f.usecase.(*flowUsecase)
	require.True(t, ok)
	require.True(t, inner.tryAcquire(flow.ID))
	defer inner.release(flow.ID)

	_, err := f.usecase.RunFlow(flow.ID)
	assert.ErrorIs(t, err, automationdomain.ErrFlowBusy)
	assert.Empty(t, f.execRepo.executions, "a rejected run leaves no audit record")
}

func TestRunFlowUnknownFlow(t *testing.T) {
	f := newRunnerFixture(t)

	_, err := f.usecase.RunFlow("missing")
	assert.ErrorIs(t, err, automationdomain.ErrFlowNotFound)
}

func TestRunDueFlowsKeepsGoingAfterFailure(t *testing.T) {
	f := newRunnerFixture(t)
	f.source.messages["INBOX"] = []uint32{1}
	bad := f.addFlow(t, "src-1", "tgt-1", "\\Junk", "INBOX")
	good := f.addFlow(t, "src-1", "tgt-1", "INBOX", "INBOX")

	f.usecase.RunDueFlows()

	badExecs, err := f.execRepo.FindByFlowID(bad.ID, 0)
	require.NoError(t, err)
	require.Len(t, badExecs, 1)
	assert.Equal(t, automationdomain.ExecutionStatusError, badExecs[0].Status)

	goodExecs, err := f.execRepo.FindByFlowID(good.ID, 0)
	require.NoError(t, err)
	require.Len(t, goodExecs, 1)
	assert.Equal(t, automationdomain.ExecutionStatusSuccess, goodExecs[0].Status)
}

func TestCreateFlowDefaultsAndValidation(t *testing.T) {
	f := newRunnerFixture(t)

	flow, err := f.usecase.CreateFlow(&automationdto.CreateFlowRequest{
		Name:            "archive inbox",
		SourceAccountID: "src-1",
		TargetAccountID: "tgt-1",
		SourceMailbox:   "INBOX",
		TargetMailbox:   "\\Archive",
	})
	require.NoError(t, err)
	assert.Equal(t, 60, flow.IntervalMinutes)
	assert.True(t, flow.Enabled)
	assert.NotNil(t, flow.NextRun, "new flows are primed for the next tick")

	_, err = f.usecase.CreateFlow(&automationdto.CreateFlowRequest{
		Name:            "bad interval",
		SourceAccountID: "src-1",
		TargetAccountID: "tgt-1",
		SourceMailbox:   "INBOX",
		TargetMailbox:   "\\Archive",
		IntervalMinutes: -5,
	})
	assert.Error(t, err)

	_, err = f.usecase.CreateFlow(&automationdto.CreateFlowRequest{
		Name:            "unknown account",
		SourceAccountID: "nope",
		TargetAccountID: "tgt-1",
		SourceMailbox:   "INBOX",
		TargetMailbox:   "\\Archive",
	})
	assert.ErrorIs(t, err, accountdomain.ErrAccountNotFound)
}
