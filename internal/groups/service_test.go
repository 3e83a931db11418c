package groups

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"chattr/server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// --- Test doubles ---

// memStore is an in-memory Store for exercising the service without
// Postgres.
type memStore struct {
	groups    map[string]*models.Group
	createErr error
}

func newMemStore() *memStore {
	return &memStore{groups: make(map[string]*models.Group)}
}

func cloneGroup(g *models.Group) *models.Group {
	c := *g
	c.Members = append([]models.GroupMember(nil), g.Members...)
	return &c
}

func (m *memStore) Create(ctx context.Context, g *models.Group) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.groups[g.ID] = cloneGroup(g)
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*models.Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneGroup(g), nil
}

func (m *memStore) GetByChannelID(ctx context.Context, channelID string) (*models.Group, error) {
	for _, g := range m.groups {
		if g.ChannelID == channelID {
			return cloneGroup(g), nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) ListForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	var out []*models.Group
	for _, g := range m.groups {
		if g.Member(userID) != nil {
			out = append(out, cloneGroup(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out, nil
}

func (m *memStore) AddMembers(ctx context.Context, groupID string, members []models.GroupMember, activity time.Time) error {
	g, ok := m.groups[groupID]
	if !ok {
		return ErrNotFound
	}
	for _, member := range members {
		if g.Member(member.UserID) == nil {
			g.Members = append(g.Members, member)
		}
	}
	g.LastActivity = activity
	g.UpdatedAt = activity
	return nil
}

func (m *memStore) RemoveMember(ctx context.Context, groupID, userID string, activity time.Time) error {
	g, ok := m.groups[groupID]
	if !ok {
		return ErrNotFound
	}
	if g.Member(userID) == nil {
		return ErrNotFound
	}
	var kept []models.GroupMember
	for _, member := range g.Members {
		if member.UserID != userID {
			kept = append(kept, member)
		}
	}
	g.Members = kept
	g.LastActivity = activity
	g.UpdatedAt = activity
	return nil
}

func (m *memStore) Update(ctx context.Context, g *models.Group) error {
	if _, ok := m.groups[g.ID]; !ok {
		return ErrNotFound
	}
	m.groups[g.ID] = cloneGroup(g)
	return nil
}

func (m *memStore) TransferAdmin(ctx context.Context, groupID, oldAdminID, newAdminID string, activity time.Time) error {
	g, ok := m.groups[groupID]
	if !ok {
		return ErrNotFound
	}
	if old := g.Member(oldAdminID); old != nil {
		old.Role = models.RoleMember
	}
	target := g.Member(newAdminID)
	if target == nil {
		return ErrNotFound
	}
	target.Role = models.RoleAdmin
	g.AdminID = newAdminID
	g.LastActivity = activity
	g.UpdatedAt = activity
	return nil
}

func (m *memStore) Delete(ctx context.Context, groupID string) error {
	if _, ok := m.groups[groupID]; !ok {
		return ErrNotFound
	}
	delete(m.groups, groupID)
	return nil
}

func (m *memStore) MemberProfiles(ctx context.Context, groupID string) ([]models.MemberProfile, error) {
	g, ok := m.groups[groupID]
	if !ok {
		return nil, ErrNotFound
	}
	profiles := make([]models.MemberProfile, 0, len(g.Members))
	for _, member := range g.Members {
		profiles = append(profiles, models.MemberProfile{
			UserResponse: models.UserResponse{ID: member.UserID, Name: "User " + member.UserID},
			Role:         member.Role,
			JoinedAt:     member.JoinedAt,
		})
	}
	return profiles, nil
}

// fakeProvider records channel sync calls and fails on demand.
type fakeProvider struct {
	createErr error
	addErr    error
	removeErr error
	renameErr error
	deleteErr error

	created map[string][]string
	added   map[string][]string
	removed map[string][]string
	renamed map[string]string
	deleted []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		created: make(map[string][]string),
		added:   make(map[string][]string),
		removed: make(map[string][]string),
		renamed: make(map[string]string),
	}
}

func (p *fakeProvider) CreateChannel(ctx context.Context, channelID, ownerID, name string, memberIDs []string) error {
	if p.createErr != nil {
		return p.createErr
	}
	p.created[channelID] = memberIDs
	return nil
}

func (p *fakeProvider) AddMembers(ctx context.Context, channelID string, memberIDs []string) error {
	if p.addErr != nil {
		return p.addErr
	}
	p.added[channelID] = append(p.added[channelID], memberIDs...)
	return nil
}

func (p *fakeProvider) RemoveMembers(ctx context.Context, channelID string, memberIDs []string) error {
	if p.removeErr != nil {
		return p.removeErr
	}
	p.removed[channelID] = append(p.removed[channelID], memberIDs...)
	return nil
}

func (p *fakeProvider) RenameChannel(ctx context.Context, channelID, name string) error {
	if p.renameErr != nil {
		return p.renameErr
	}
	p.renamed[channelID] = name
	return nil
}

func (p *fakeProvider) DeleteChannel(ctx context.Context, channelID string) error {
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deleted = append(p.deleted, channelID)
	return nil
}

// --- Test setup ---

func newTestService(t *testing.T) (*Service, *memStore, *fakeProvider) {
	t.Helper()
	store := newMemStore()
	prov := newFakeProvider()
	return NewService(store, prov, zap.NewNop()), store, prov
}

func mustCreate(t *testing.T, svc *Service, creatorID, name string, memberIDs []string) *models.GroupWithMembers {
	t.Helper()
	g, err := svc.Create(context.Background(), creatorID, CreateParams{
		Name:      name,
		MemberIDs: memberIDs,
	})
	require.NoError(t, err)
	return g
}

// requireAdminInvariant checks that the group's admin appears in the roster
// with role admin, and every other member is a plain member.
func requireAdminInvariant(t *testing.T, store *memStore, groupID string) {
	t.Helper()
	g, ok := store.groups[groupID]
	require.True(t, ok, "group must exist")
	admin := g.Member(g.AdminID)
	require.NotNil(t, admin, "admin must be in the roster")
	require.Equal(t, models.RoleAdmin, admin.Role)
	for _, m := range g.Members {
		if m.UserID != g.AdminID {
			require.Equal(t, models.RoleMember, m.Role)
		}
	}
}

// --- Create ---

func TestCreateGroup(t *testing.T) {
	svc, store, prov := newTestService(t)

	g, err := svc.Create(context.Background(), "u1", CreateParams{
		Name:      "Book Club",
		MemberIDs: []string{"u2", "u3"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Book Club", g.Name)
	assert.Equal(t, "u1", g.AdminID)
	assert.Equal(t, models.DefaultGroupPicture, g.GroupPicture)
	assert.False(t, g.Settings.IsPrivate)
	assert.False(t, g.Settings.OnlyAdminsCanMessage)
	assert.False(t, g.Settings.OnlyAdminsCanAddMembers)
	assert.True(t, strings.HasPrefix(g.ChannelID, ChannelIDPrefix))

	require.Len(t, g.Members, 3)
	roles := map[string]string{}
	for _, m := range g.Members {
		roles[m.ID] = m.Role
	}
	assert.Equal(t, map[string]string{
		"u1": models.RoleAdmin,
		"u2": models.RoleMember,
		"u3": models.RoleMember,
	}, roles)

	// Channel provisioned with the full roster before the record was saved.
	assert.ElementsMatch(t, []string{"u1", "u2", "u3"}, prov.created[g.ChannelID])
	requireAdminInvariant(t, store, g.ID)
}

func TestCreateGroupValidation(t *testing.T) {
	svc, store, prov := newTestService(t)

	_, err := svc.Create(context.Background(), "u1", CreateParams{Name: ""})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.Create(context.Background(), "u1", CreateParams{Name: strings.Repeat("x", 51)})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.Create(context.Background(), "u1", CreateParams{
		Name:        "ok",
		Description: strings.Repeat("x", 201),
	})
	assert.Equal(t, KindValidation, KindOf(err))

	// Limits count characters, not bytes.
	_, err = svc.Create(context.Background(), "u1", CreateParams{Name: strings.Repeat("あ", 51)})
	assert.Equal(t, KindValidation, KindOf(err))

	// Validation short-circuits before any side effect.
	assert.Empty(t, prov.created)
	assert.Empty(t, store.groups)

	// A multibyte name within the limit is accepted even though it exceeds
	// the limit in bytes.
	g, err := svc.Create(context.Background(), "u1", CreateParams{Name: strings.Repeat("あ", 50)})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("あ", 50), g.Name)
}

func TestCreateGroupProviderFailure(t *testing.T) {
	svc, _, prov := newTestService(t)
	prov.createErr = errors.New("stream unavailable")

	_, err := svc.Create(context.Background(), "u1", CreateParams{
		Name:      "Doomed",
		MemberIDs: []string{"u2"},
	})
	assert.Equal(t, KindProvider, KindOf(err))

	// No partial group: the creator sees nothing.
	list, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateGroupLocalSaveFailure(t *testing.T) {
	store := newMemStore()
	prov := newFakeProvider()
	core, logs := observer.New(zap.ErrorLevel)
	svc := NewService(store, prov, zap.New(core))
	store.createErr = errors.New("postgres down")

	_, err := svc.Create(context.Background(), "u1", CreateParams{
		Name:      "Orphan",
		MemberIDs: []string{"u2"},
	})
	require.Error(t, err)

	// The channel was provisioned before the save and stays behind; the
	// leak is logged with the orphaned channel id.
	require.Len(t, prov.created, 1)
	assert.Empty(t, store.groups)

	entries := logs.FilterMessage("group save failed after channel creation, channel leaked").All()
	require.Len(t, entries, 1)
	for channelID := range prov.created {
		assert.Equal(t, channelID, entries[0].ContextMap()["channelId"])
	}
}

func TestCreateGroupDedupesCreatorAndMembers(t *testing.T) {
	svc, store, _ := newTestService(t)

	g := mustCreate(t, svc, "u1", "Dupes", []string{"u1", "u2", "u2", ""})
	require.Len(t, g.Members, 2)
	requireAdminInvariant(t, store, g.ID)
}

func TestCreateGroupWithSettings(t *testing.T) {
	svc, _, _ := newTestService(t)

	g, err := svc.Create(context.Background(), "u1", CreateParams{
		Name:     "Private",
		Settings: &models.GroupSettings{IsPrivate: true, OnlyAdminsCanAddMembers: true},
	})
	require.NoError(t, err)
	assert.True(t, g.Settings.IsPrivate)
	assert.True(t, g.Settings.OnlyAdminsCanAddMembers)
	assert.False(t, g.Settings.OnlyAdminsCanMessage)
}

// --- Get / List ---

func TestGetGroupDetails(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, "u1", "Readers", []string{"u2"})

	g, err := svc.Get(context.Background(), created.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, g.ID)
	assert.Len(t, g.Members, 2)
}

func TestGetGroupDetailsNonMember(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, "u1", "Readers", []string{"u2"})

	g, err := svc.Get(context.Background(), created.ID, "uX")
	assert.Nil(t, g, "no data may leak to non-members")
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestGetGroupDetailsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "missing", "u1")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestListForUserOrdering(t *testing.T) {
	svc, _, _ := newTestService(t)

	// Substitute the clock so each operation lands on a distinct instant.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first := mustCreate(t, svc, "u1", "First", nil)
	second := mustCreate(t, svc, "u1", "Second", nil)

	// Touch the first group so it becomes the most recently active.
	_, err := svc.AddMembers(context.Background(), first.ID, "u1", []string{"u9"})
	require.NoError(t, err)

	list, err := svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

// --- AddMembers ---

func TestAddMembers(t *testing.T) {
	svc, store, prov := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", []string{"u2"})

	g, err := svc.AddMembers(context.Background(), created.ID, "u2", []string{"u4"})
	require.NoError(t, err)
	require.Len(t, g.Members, 3)

	added := g.Members[len(g.Members)-1]
	assert.Equal(t, "u4", added.ID)
	assert.Equal(t, models.RoleMember, added.Role)
	assert.Equal(t, []string{"u4"}, prov.added[created.ChannelID])
	requireAdminInvariant(t, store, created.ID)
}

func TestAddMembersIdempotent(t *testing.T) {
	svc, store, prov := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", []string{"u2"})

	_, err := svc.AddMembers(context.Background(), created.ID, "u1", []string{"u4", "u5"})
	require.NoError(t, err)
	activityAfterFirst := store.groups[created.ID].LastActivity

	// Overlapping set: only the genuinely new id is added.
	g, err := svc.AddMembers(context.Background(), created.ID, "u1", []string{"u4", "u5", "u6"})
	require.NoError(t, err)
	require.Len(t, g.Members, 5)
	assert.Equal(t, []string{"u4", "u5", "u6"}, prov.added[created.ChannelID])

	// All duplicates: successful no-op, no provider call, activity untouched.
	g, err = svc.AddMembers(context.Background(), created.ID, "u1", []string{"u4", "u5"})
	require.NoError(t, err)
	require.Len(t, g.Members, 5)
	assert.Equal(t, []string{"u4", "u5", "u6"}, prov.added[created.ChannelID])
	assert.NotEqual(t, activityAfterFirst, store.groups[created.ID].LastActivity)

	before := store.groups[created.ID].LastActivity
	_, err = svc.AddMembers(context.Background(), created.ID, "u1", []string{"u4"})
	require.NoError(t, err)
	assert.Equal(t, before, store.groups[created.ID].LastActivity)
}

func TestAddMembersPermissionGate(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", []string{"u2"})

	// Restrict adding to admins.
	restricted := true
	_, err := svc.Update(context.Background(), created.ID, "u1", UpdateParams{
		Settings: &SettingsPatch{OnlyAdminsCanAddMembers: &restricted},
	})
	require.NoError(t, err)

	_, err = svc.AddMembers(context.Background(), created.ID, "u2", []string{"u4"})
	assert.Equal(t, KindAuthorization, KindOf(err))

	g, err := svc.AddMembers(context.Background(), created.ID, "u1", []string{"u4"})
	require.NoError(t, err)
	assert.NotNil(t, findMember(g.Members, "u4"))

	// And back off again: any member may add.
	restricted = false
	_, err = svc.Update(context.Background(), created.ID, "u1", UpdateParams{
		Settings: &SettingsPatch{OnlyAdminsCanAddMembers: &restricted},
	})
	require.NoError(t, err)

	_, err = svc.AddMembers(context.Background(), created.ID, "u2", []string{"u5"})
	assert.NoError(t, err)
}

func TestAddMembersNonMember(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", nil)

	_, err := svc.AddMembers(context.Background(), created.ID, "uX", []string{"u4"})
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestAddMembersProviderFailure(t *testing.T) {
	svc, store, prov := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", nil)
	prov.addErr = errors.New("stream unavailable")

	_, err := svc.AddMembers(context.Background(), created.ID, "u1", []string{"u4"})
	assert.Equal(t, KindProvider, KindOf(err))
	// Local roster untouched when the mirror call failed.
	assert.Len(t, store.groups[created.ID].Members, 1)
}

// --- RemoveMember ---

func TestRemoveMember(t *testing.T) {
	svc, store, prov := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", []string{"u2", "u3"})

	g, err := svc.RemoveMember(context.Background(), created.ID, "u1", "u2")
	require.NoError(t, err)
	assert.Nil(t, findMember(g.Members, "u2"))
	assert.Equal(t, []string{"u2"}, prov.removed[created.ChannelID])
	requireAdminInvariant(t, store, created.ID)
}

func TestRemoveMemberCannotTargetAdmin(t *testing.T) {
	svc, store, _ := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", []string{"u2"})

	_, err := svc.RemoveMember(context.Background(), created.ID, "u1", "u1")
	assert.Equal(t, KindInvariant, KindOf(err))
	assert.Contains(t, Message(err), "admin")

	// Membership unchanged.
	assert.Len(t, store.groups[created.ID].Members, 2)
	requireAdminInvariant(t, store, created.ID)
}

func TestRemoveMemberRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", []string{"u2", "u3"})

	_, err := svc.RemoveMember(context.Background(), created.ID, "u2", "u3")
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestRemoveMemberNotInGroup(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", nil)

	_, err := svc.RemoveMember(context.Background(), created.ID, "u1", "uX")
	assert.Equal(t, KindNotFound, KindOf(err))
}

// --- Update ---

func TestUpdateGroupPartial(t *testing.T) {
	svc, _, prov := newTestService(t)
	created := mustCreate(t, svc, "u1", "Old Name", nil)

	name := "New Name"
	g, err := svc.Update(context.Background(), created.ID, "u1", UpdateParams{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", g.Name)
	assert.Equal(t, created.Description, g.Description)
	assert.Equal(t, created.GroupPicture, g.GroupPicture)
	// Name change mirrored to the channel.
	assert.Equal(t, "New Name", prov.renamed[created.ChannelID])

	desc := "A description"
	g, err = svc.Update(context.Background(), created.ID, "u1", UpdateParams{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "New Name", g.Name)
	assert.Equal(t, "A description", g.Description)
}

func TestUpdateGroupSettingsPatchMerges(t *testing.T) {
	svc, _, _ := newTestService(t)
	created, err := svc.Create(context.Background(), "u1", CreateParams{
		Name:     "Team",
		Settings: &models.GroupSettings{IsPrivate: true},
	})
	require.NoError(t, err)

	onlyAdmins := true
	g, err := svc.Update(context.Background(), created.ID, "u1", UpdateParams{
		Settings: &SettingsPatch{OnlyAdminsCanMessage: &onlyAdmins},
	})
	require.NoError(t, err)

	// Patched key applied, the others untouched.
	assert.True(t, g.Settings.OnlyAdminsCanMessage)
	assert.True(t, g.Settings.IsPrivate)
	assert.False(t, g.Settings.OnlyAdminsCanAddMembers)
}

func TestUpdateGroupRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", []string{"u2"})

	name := "Hijacked"
	_, err := svc.Update(context.Background(), created.ID, "u2", UpdateParams{Name: &name})
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestUpdateGroupValidation(t *testing.T) {
	svc, _, prov := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", nil)

	long := strings.Repeat("x", 51)
	_, err := svc.Update(context.Background(), created.ID, "u1", UpdateParams{Name: &long})
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Empty(t, prov.renamed)
}

// --- Leave ---

func TestLeaveGroup(t *testing.T) {
	svc, store, prov := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", []string{"u2"})

	err := svc.Leave(context.Background(), created.ID, "u2")
	require.NoError(t, err)
	assert.Nil(t, store.groups[created.ID].Member("u2"))
	assert.Equal(t, []string{"u2"}, prov.removed[created.ChannelID])
	requireAdminInvariant(t, store, created.ID)
}

func TestLeaveGroupAdminBlocked(t *testing.T) {
	svc, store, _ := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", []string{"u2"})

	err := svc.Leave(context.Background(), created.ID, "u1")
	assert.Equal(t, KindInvariant, KindOf(err))
	assert.Contains(t, Message(err), "Transfer ownership")
	require.NotNil(t, store.groups[created.ID].Member("u1"))
}

func TestLeaveGroupNonMember(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", nil)

	err := svc.Leave(context.Background(), created.ID, "uX")
	assert.Equal(t, KindAuthorization, KindOf(err))
}

// --- TransferAdmin ---

func TestTransferAdmin(t *testing.T) {
	svc, store, _ := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", []string{"u2"})

	g, err := svc.TransferAdmin(context.Background(), created.ID, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, "u2", g.AdminID)
	assert.Equal(t, models.RoleAdmin, findMember(g.Members, "u2").Role)
	assert.Equal(t, models.RoleMember, findMember(g.Members, "u1").Role)
	requireAdminInvariant(t, store, created.ID)

	// The transfer unblocks the old admin's exit.
	err = svc.Leave(context.Background(), created.ID, "u1")
	assert.NoError(t, err)
	requireAdminInvariant(t, store, created.ID)
}

func TestTransferAdminRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", []string{"u2", "u3"})

	_, err := svc.TransferAdmin(context.Background(), created.ID, "u2", "u3")
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestTransferAdminTargetMustBeMember(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", nil)

	_, err := svc.TransferAdmin(context.Background(), created.ID, "u1", "uX")
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.TransferAdmin(context.Background(), created.ID, "u1", "u1")
	assert.Equal(t, KindValidation, KindOf(err))
}

// --- Delete ---

func TestDeleteGroup(t *testing.T) {
	svc, store, prov := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", []string{"u2"})

	err := svc.Delete(context.Background(), created.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{created.ChannelID}, prov.deleted)
	assert.Empty(t, store.groups)
}

func TestDeleteGroupRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", []string{"u2"})

	err := svc.Delete(context.Background(), created.ID, "u2")
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestDeleteGroupProviderFailureKeepsRecord(t *testing.T) {
	svc, store, prov := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", nil)
	prov.deleteErr = errors.New("stream unavailable")

	err := svc.Delete(context.Background(), created.ID, "u1")
	assert.Equal(t, KindProvider, KindOf(err))
	// The channel could not be torn down, so the group stays reachable.
	_, ok := store.groups[created.ID]
	assert.True(t, ok)
}

// --- FindByChannelID ---

func TestFindByChannelID(t *testing.T) {
	svc, _, _ := newTestService(t)
	created := mustCreate(t, svc, "u1", "Team", nil)

	g, err := svc.FindByChannelID(context.Background(), created.ChannelID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, g.ID)

	_, err = svc.FindByChannelID(context.Background(), "group-unknown")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func findMember(members []models.MemberProfile, userID string) *models.MemberProfile {
	for i := range members {
		if members[i].ID == userID {
			return &members[i]
		}
	}
	return nil
}
