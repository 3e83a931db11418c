package groups

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"chattr/server/internal/models"
	"chattr/server/internal/provider"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxNameLen        = 50
	maxDescriptionLen = 200
)

// ChannelIDPrefix marks provider channels owned by this service. The webhook
// relay uses it to tell group channels apart from direct-message channels.
const ChannelIDPrefix = "group-"

// CreateParams is the input to Create.
type CreateParams struct {
	Name         string
	Description  string
	GroupPicture string
	MemberIDs    []string
	Settings     *models.GroupSettings
}

// SettingsPatch updates individual settings; nil fields are left unchanged.
// Unrecognized keys in the request body never reach this struct.
type SettingsPatch struct {
	IsPrivate               *bool `json:"isPrivate"`
	OnlyAdminsCanMessage    *bool `json:"onlyAdminsCanMessage"`
	OnlyAdminsCanAddMembers *bool `json:"onlyAdminsCanAddMembers"`
}

// UpdateParams carries a partial group update; nil fields are left unchanged.
type UpdateParams struct {
	Name         *string
	Description  *string
	GroupPicture *string
	Settings     *SettingsPatch
}

// Service owns group lifecycle and permission enforcement, and keeps the
// provider-side channel roster in step with the local record.
type Service struct {
	store    Store
	provider provider.ChannelProvider
	log      *zap.Logger
	now      func() time.Time
}

func NewService(store Store, p provider.ChannelProvider, log *zap.Logger) *Service {
	return &Service{store: store, provider: p, log: log, now: time.Now}
}

// Create provisions the provider channel first and only then saves the local
// record: a provider failure must never leave a group pointing at a channel
// that does not exist.
func (s *Service) Create(ctx context.Context, creatorID string, params CreateParams) (*models.GroupWithMembers, error) {
	name := strings.TrimSpace(params.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateDescription(params.Description); err != nil {
		return nil, err
	}

	memberIDs := dedupe(params.MemberIDs, creatorID)
	channelID := ChannelIDPrefix + uuid.NewString()

	roster := append([]string{creatorID}, memberIDs...)
	if err := s.provider.CreateChannel(ctx, channelID, creatorID, name, roster); err != nil {
		return nil, providerError("Failed to create group channel", err)
	}

	now := s.now()
	g := &models.Group{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  strings.TrimSpace(params.Description),
		GroupPicture: params.GroupPicture,
		AdminID:      creatorID,
		ChannelID:    channelID,
		LastActivity: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if g.GroupPicture == "" {
		g.GroupPicture = models.DefaultGroupPicture
	}
	if params.Settings != nil {
		g.Settings = *params.Settings
	}

	g.Members = append(g.Members, models.GroupMember{UserID: creatorID, Role: models.RoleAdmin, JoinedAt: now})
	for _, id := range memberIDs {
		g.Members = append(g.Members, models.GroupMember{UserID: id, Role: models.RoleMember, JoinedAt: now})
	}

	if err := s.store.Create(ctx, g); err != nil {
		// The channel outlives the failed save. Acceptable leak; it is
		// unreachable through the app and only costs provider quota.
		s.log.Error("group save failed after channel creation, channel leaked",
			zap.String("channelId", channelID), zap.Error(err))
		return nil, err
	}

	return s.withProfiles(ctx, g)
}

// ListForUser returns every group the user belongs to, most recently active
// first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListForUser(ctx, userID)
}

// Get returns the group with resolved member profiles. Non-members get an
// authorization error, not a filtered view.
func (s *Service) Get(ctx context.Context, groupID, requesterID string) (*models.GroupWithMembers, error) {
	g, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g.Member(requesterID) == nil {
		return nil, authorizationError("You are not a member of this group")
	}
	return s.withProfiles(ctx, g)
}

// AddMembers adds the candidates not already in the roster. Any member may
// add unless the group restricts adding to admins. All-duplicate input is a
// successful no-op.
func (s *Service) AddMembers(ctx context.Context, groupID, requesterID string, candidateIDs []string) (*models.GroupWithMembers, error) {
	g, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}

	requester := g.Member(requesterID)
	if requester == nil {
		return nil, authorizationError("You are not a member of this group")
	}
	if g.Settings.OnlyAdminsCanAddMembers && requester.Role != models.RoleAdmin {
		return nil, authorizationError("Only admins can add members")
	}

	var newIDs []string
	seen := make(map[string]bool)
	for _, id := range candidateIDs {
		if id == "" || seen[id] || g.Member(id) != nil {
			continue
		}
		seen[id] = true
		newIDs = append(newIDs, id)
	}
	if len(newIDs) == 0 {
		return s.withProfiles(ctx, g)
	}

	if err := s.provider.AddMembers(ctx, g.ChannelID, newIDs); err != nil {
		return nil, providerError("Failed to add members to group channel", err)
	}

	now := s.now()
	added := make([]models.GroupMember, 0, len(newIDs))
	for _, id := range newIDs {
		added = append(added, models.GroupMember{UserID: id, Role: models.RoleMember, JoinedAt: now})
	}
	if err := s.store.AddMembers(ctx, g.ID, added, now); err != nil {
		return nil, err
	}

	g.Members = append(g.Members, added...)
	g.LastActivity = now
	g.UpdatedAt = now
	return s.withProfiles(ctx, g)
}

// RemoveMember removes targetID from the group. Admin only; the admin
// themselves can never be removed this way.
func (s *Service) RemoveMember(ctx context.Context, groupID, requesterID, targetID string) (*models.GroupWithMembers, error) {
	g, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if g.AdminID != requesterID {
		return nil, authorizationError("Only admin can remove members")
	}
	if targetID == g.AdminID {
		return nil, invariantError("Cannot remove group admin")
	}
	if g.Member(targetID) == nil {
		return nil, notFoundError("Member not found in group")
	}

	if err := s.provider.RemoveMembers(ctx, g.ChannelID, []string{targetID}); err != nil {
		return nil, providerError("Failed to remove member from group channel", err)
	}

	now := s.now()
	if err := s.store.RemoveMember(ctx, g.ID, targetID, now); err != nil {
		return nil, err
	}

	g.Members = withoutMember(g.Members, targetID)
	g.LastActivity = now
	g.UpdatedAt = now
	return s.withProfiles(ctx, g)
}

// Update applies a partial update to name, description, picture and settings.
// Admin only. A name change is mirrored to the provider channel.
func (s *Service) Update(ctx context.Context, groupID, requesterID string, params UpdateParams) (*models.GroupWithMembers, error) {
	g, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g.AdminID != requesterID {
		return nil, authorizationError("Only admin can update group settings")
	}

	renamed := false
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		renamed = name != g.Name
		g.Name = name
	}
	if params.Description != nil {
		if err := validateDescription(*params.Description); err != nil {
			return nil, err
		}
		g.Description = strings.TrimSpace(*params.Description)
	}
	if params.GroupPicture != nil {
		g.GroupPicture = *params.GroupPicture
	}
	if params.Settings != nil {
		if params.Settings.IsPrivate != nil {
			g.Settings.IsPrivate = *params.Settings.IsPrivate
		}
		if params.Settings.OnlyAdminsCanMessage != nil {
			g.Settings.OnlyAdminsCanMessage = *params.Settings.OnlyAdminsCanMessage
		}
		if params.Settings.OnlyAdminsCanAddMembers != nil {
			g.Settings.OnlyAdminsCanAddMembers = *params.Settings.OnlyAdminsCanAddMembers
		}
	}

	if renamed {
		if err := s.provider.RenameChannel(ctx, g.ChannelID, g.Name); err != nil {
			return nil, providerError("Failed to update group channel", err)
		}
	}

	now := s.now()
	g.LastActivity = now
	g.UpdatedAt = now
	if err := s.store.Update(ctx, g); err != nil {
		return nil, err
	}

	return s.withProfiles(ctx, g)
}

// Leave removes the requester from the group. The admin is blocked until
// ownership has been transferred; auto-promoting someone would hand a member
// elevated rights they never asked for.
func (s *Service) Leave(ctx context.Context, groupID, requesterID string) error {
	g, err := s.load(ctx, groupID)
	if err != nil {
		return err
	}
	if g.Member(requesterID) == nil {
		return authorizationError("You are not a member of this group")
	}
	if requesterID == g.AdminID {
		return invariantError("Admin cannot leave group. Transfer ownership first.")
	}

	if err := s.provider.RemoveMembers(ctx, g.ChannelID, []string{requesterID}); err != nil {
		return providerError("Failed to leave group channel", err)
	}

	return s.store.RemoveMember(ctx, g.ID, requesterID, s.now())
}

// TransferAdmin reassigns group ownership to an existing member, demoting the
// current admin to a plain member. This is the door the Leave error points
// the admin at.
func (s *Service) TransferAdmin(ctx context.Context, groupID, requesterID, newAdminID string) (*models.GroupWithMembers, error) {
	g, err := s.load(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g.AdminID != requesterID {
		return nil, authorizationError("Only admin can transfer ownership")
	}
	if newAdminID == g.AdminID {
		return nil, validationError("User is already the group admin")
	}
	target := g.Member(newAdminID)
	if target == nil {
		return nil, notFoundError("Member not found in group")
	}

	now := s.now()
	if err := s.store.TransferAdmin(ctx, g.ID, g.AdminID, newAdminID, now); err != nil {
		return nil, err
	}

	if old := g.Member(g.AdminID); old != nil {
		old.Role = models.RoleMember
	}
	target.Role = models.RoleAdmin
	g.AdminID = newAdminID
	g.LastActivity = now
	g.UpdatedAt = now
	return s.withProfiles(ctx, g)
}

// Delete tears down the provider channel and then the local record, in that
// order: if channel deletion fails the group stays reachable through the app.
func (s *Service) Delete(ctx context.Context, groupID, requesterID string) error {
	g, err := s.load(ctx, groupID)
	if err != nil {
		return err
	}
	if g.AdminID != requesterID {
		return authorizationError("Only admin can delete group")
	}

	if err := s.provider.DeleteChannel(ctx, g.ChannelID); err != nil {
		return providerError("Failed to delete group channel", err)
	}

	return s.store.Delete(ctx, g.ID)
}

// FindByChannelID resolves a group from a provider channel id. Used by the
// webhook relay.
func (s *Service) FindByChannelID(ctx context.Context, channelID string) (*models.Group, error) {
	g, err := s.store.GetByChannelID(ctx, channelID)
	if errors.Is(err, ErrNotFound) {
		return nil, notFoundError("Group not found")
	}
	return g, err
}

func (s *Service) load(ctx context.Context, groupID string) (*models.Group, error) {
	g, err := s.store.GetByID(ctx, groupID)
	if errors.Is(err, ErrNotFound) {
		return nil, notFoundError("Group not found")
	}
	return g, err
}

func (s *Service) withProfiles(ctx context.Context, g *models.Group) (*models.GroupWithMembers, error) {
	profiles, err := s.store.MemberProfiles(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	return &models.GroupWithMembers{
		ID:           g.ID,
		Name:         g.Name,
		Description:  g.Description,
		GroupPicture: g.GroupPicture,
		AdminID:      g.AdminID,
		ChannelID:    g.ChannelID,
		Settings:     g.Settings,
		Members:      profiles,
		LastActivity: g.LastActivity,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}, nil
}

func validateName(name string) error {
	if name == "" {
		return validationError("Group name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return validationError("Group name must be at most %d characters", maxNameLen)
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return validationError("Group description must be at most %d characters", maxDescriptionLen)
	}
	return nil
}

// dedupe drops duplicates, empties and the creator from the initial member
// list; the creator joins as admin separately.
func dedupe(ids []string, exclude string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range ids {
		if id == "" || id == exclude || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func withoutMember(members []models.GroupMember, userID string) []models.GroupMember {
	out := members[:0]
	for _, m := range members {
		if m.UserID != userID {
			out = append(out, m)
		}
	}
	return out
}
