package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/aura-server/internal/domain/profile"
	"github.com/janhq/aura-server/internal/utils/idgen"
	"github.com/janhq/aura-server/internal/utils/platformerrors"
)

type memoryChatStore struct {
	sessions []Session
	saves    int
	saveErr  error
}

func (s *memoryChatStore) Load(context.Context) ([]Session, error) {
	return cloneSessions(s.sessions), nil
}

func (s *memoryChatStore) Save(_ context.Context, sessions []Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sessions = cloneSessions(sessions)
	s.saves++
	return nil
}

type fakeOwner struct {
	user   *profile.User
	saves  int
	active bool
}

func (o *fakeOwner) CurrentProfile(ctx context.Context) (*profile.User, error) {
	if !o.active {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "session is not active", nil, "")
	}
	return o.user.Clone(), nil
}

func (o *fakeOwner) MutateProfile(ctx context.Context, fn func(*profile.User) error) (*profile.User, error) {
	if _, err := o.CurrentProfile(ctx); err != nil {
		return nil, err
	}
	updated := o.user.Clone()
	if err := fn(updated); err != nil {
		return nil, err
	}
	o.user = updated
	o.saves++
	return updated.Clone(), nil
}

type countingLocker struct {
	mu    sync.Mutex
	locks int
}

func (l *countingLocker) Lock(context.Context) (func(), error) {
	l.mu.Lock()
	l.locks++
	return l.mu.Unlock, nil
}

type recordingAuditor struct {
	texts []string
}

func (a *recordingAuditor) Submit(_ string, text string) {
	a.texts = append(a.texts, text)
}

var fixedNow = time.UnixMilli(1_700_000_000_000)

type fixture struct {
	store   *memoryChatStore
	owner   *fakeOwner
	locker  *countingLocker
	auditor *recordingAuditor
	svc     Service
}

func newFixture() *fixture {
	f := &fixture{
		store: &memoryChatStore{sessions: []Session{
			{
				ID:           "c1",
				Partner:      &profile.User{ID: "1", Username: "trushar.dev", DisplayName: "Trushar", IsPrivate: true},
				UnreadCount:  1,
				WorkspaceIDs: []string{"ws_home", "ws_work"},
			},
			{
				ID:            "g1",
				IsGroup:       true,
				GroupMetadata: &GroupMetadata{ID: "g1", Name: "Aura Protocol Core", MemberCount: 12, Color: "#8b5cf6"},
				WorkspaceIDs:  []string{"ws_work"},
			},
		}},
		owner: &fakeOwner{
			active: true,
			user: &profile.User{
				ID:       "u1",
				Username: "newcomer",
				Workspaces: []profile.Workspace{
					{ID: "ws_home", Name: "Home"},
					{ID: "ws_work", Name: "Work"},
					{ID: "ws_friends", Name: "Friends"},
				},
			},
		},
		locker:  &countingLocker{},
		auditor: &recordingAuditor{},
	}
	f.svc = NewService(f.store, f.owner, f.locker, f.auditor, idgen.NewSequence(),
		func() time.Time { return fixedNow }, zerolog.Nop())
	return f
}

func ids(sessions []Session) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}

func TestListChatsFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	tests := map[string][]string{
		"":           {"c1", "g1"},
		FilterAll:    {"c1", "g1"},
		"ws_home":    {"c1"},
		"ws_work":    {"c1", "g1"},
		"ws_friends": {},
		"ws_missing": {},
	}

	for filter, want := range tests {
		got, err := f.svc.ListChats(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, want, ids(got), "filter %q", filter)
	}
}

func TestListChatsRequiresActiveSession(t *testing.T) {
	f := newFixture()
	f.owner.active = false

	_, err := f.svc.ListChats(context.Background(), FilterAll)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
}

func TestToggleTagTwiceRestores(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	updated, err := f.svc.ToggleTag(ctx, "g1", "ws_friends")
	require.NoError(t, err)
	assert.Equal(t, []string{"ws_work", "ws_friends"}, updated.WorkspaceIDs)

	updated, err = f.svc.ToggleTag(ctx, "g1", "ws_friends")
	require.NoError(t, err)
	assert.Equal(t, []string{"ws_work"}, updated.WorkspaceIDs)
	assert.Equal(t, []string{"ws_work"}, f.store.sessions[1].WorkspaceIDs)
	assert.Equal(t, 2, f.store.saves)
}

func TestToggleTagUnknownIsNoop(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	updated, err := f.svc.ToggleTag(ctx, "nope", "ws_home")
	require.NoError(t, err)
	assert.Nil(t, updated)

	updated, err = f.svc.ToggleTag(ctx, "c1", "ws_unknown")
	require.NoError(t, err)
	assert.Nil(t, updated)

	assert.Zero(t, f.store.saves)
}

func TestCreateWorkspaceDefaults(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	ws, err := f.svc.CreateWorkspace(ctx, profile.Workspace{Name: "  Side  "})
	require.NoError(t, err)

	assert.Equal(t, "ws_1", ws.ID)
	assert.Equal(t, "Side", ws.Name)
	assert.Equal(t, profile.DefaultWorkspaceIcon, ws.Icon)
	assert.Equal(t, "#3b82f6", ws.Color)
	assert.Len(t, f.owner.user.Workspaces, 4)

	dup, err := f.svc.CreateWorkspace(ctx, profile.Workspace{Name: "Side"})
	require.NoError(t, err)
	assert.NotEqual(t, ws.ID, dup.ID)
	assert.Len(t, f.owner.user.Workspaces, 5)

	_, err = f.svc.CreateWorkspace(ctx, profile.Workspace{Name: " "})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestUpdateWorkspaceUpserts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.UpdateWorkspace(ctx, profile.Workspace{ID: "ws_work", Name: "Office", Color: "#f43f5e"})
	require.NoError(t, err)
	assert.Equal(t, "Office", f.owner.user.Workspaces[1].Name)
	assert.Len(t, f.owner.user.Workspaces, 3)

	_, err = f.svc.UpdateWorkspace(ctx, profile.Workspace{ID: "ws_new", Name: "New"})
	require.NoError(t, err)
	assert.Len(t, f.owner.user.Workspaces, 4)
}

func TestDeleteWorkspaceCascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.DeleteWorkspace(ctx, "ws_work"))

	assert.False(t, f.owner.user.HasWorkspace("ws_work"))
	assert.Len(t, f.owner.user.Workspaces, 2)
	assert.Equal(t, []string{"ws_home"}, f.store.sessions[0].WorkspaceIDs)
	assert.Empty(t, f.store.sessions[1].WorkspaceIDs)
	assert.Equal(t, 1, f.owner.saves)
	assert.Equal(t, 1, f.store.saves)
	assert.Equal(t, 1, f.locker.locks)

	chats, err := f.svc.ListChats(ctx, "ws_work")
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestDeleteWorkspaceKeepsTagsOnWriteFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.saveErr = errors.New("disk full")

	require.Error(t, f.svc.DeleteWorkspace(ctx, "ws_work"))
	assert.Equal(t, []string{"ws_home", "ws_work"}, f.store.sessions[0].WorkspaceIDs)

	f.store.saveErr = nil
	chats, err := f.svc.ListChats(ctx, FilterAll)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, []string{"ws_home", "ws_work"}, chats[0].WorkspaceIDs)
	assert.Equal(t, []string{"ws_work"}, chats[1].WorkspaceIDs)
}

func TestCreateGroupScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	group, err := f.svc.CreateGroup(ctx, CreateGroupRequest{Name: "Core Team", Color: "#6366f1", ActiveFilter: "ws_work"})
	require.NoError(t, err)

	assert.True(t, group.IsGroup)
	assert.True(t, group.Valid())
	assert.Equal(t, "group_1", group.ID)
	assert.Equal(t, "Core Team", group.GroupMetadata.Name)
	assert.Equal(t, 1, group.GroupMetadata.MemberCount)
	assert.Equal(t, GroupDescription, group.GroupMetadata.Description)
	assert.Zero(t, group.UnreadCount)
	assert.Equal(t, []string{"ws_work"}, group.WorkspaceIDs)
	require.NotNil(t, group.LastMessage)
	assert.Equal(t, GroupEstablishedText, group.LastMessage.Text)
	assert.Equal(t, SelfID, group.LastMessage.SenderID)
	assert.Equal(t, group.ID, group.LastMessage.ReceiverID)
	assert.Equal(t, StatusSent, group.LastMessage.Status)
	assert.Equal(t, fixedNow.UnixMilli(), group.LastMessage.Timestamp)

	chats, err := f.svc.ListChats(ctx, "ws_work")
	require.NoError(t, err)
	assert.Equal(t, []string{"group_1", "c1", "g1"}, ids(chats))
	assert.Equal(t, "group_1", f.store.sessions[0].ID)
}

func TestCreateGroupUnderAllIsUntagged(t *testing.T) {
	f := newFixture()

	group, err := f.svc.CreateGroup(context.Background(), CreateGroupRequest{Name: "Loose", ActiveFilter: FilterAll})
	require.NoError(t, err)
	assert.Empty(t, group.WorkspaceIDs)
	assert.NotNil(t, group.WorkspaceIDs)
}

func TestCreateGroupRollsBackOnWriteFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.saveErr = errors.New("disk full")

	_, err := f.svc.CreateGroup(ctx, CreateGroupRequest{Name: "Core Team"})
	require.Error(t, err)

	f.store.saveErr = nil
	chats, err := f.svc.ListChats(ctx, FilterAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "g1"}, ids(chats))
}

func TestOpenChatAndSendMessage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	thread, err := f.svc.OpenChat(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, thread.Messages, 1)
	assert.Equal(t, ThreadSeedText, thread.Messages[0].Text)
	assert.Equal(t, ThreadSeedSender, thread.Messages[0].SenderName)
	assert.Equal(t, fixedNow.Add(-time.Hour).UnixMilli(), thread.Messages[0].Timestamp)

	msg, err := f.svc.SendMessage(ctx, "c1", "check http://aura.test")
	require.NoError(t, err)
	assert.Equal(t, SenderMe, msg.Sender)
	assert.Equal(t, []string{"check http://aura.test"}, f.auditor.texts)

	thread, err = f.svc.OpenChat(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, thread.Messages, 2)

	_, err = f.svc.SendMessage(ctx, "c1", "   ")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = f.svc.OpenChat(ctx, "missing")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}
