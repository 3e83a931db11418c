package groups

import (
	"context"
	"errors"
	"time"

	"chattr/server/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by the store when a group id or channel id does not
// resolve. The service maps it to a client-facing not-found error.
var ErrNotFound = errors.New("group not found")

// Store persists groups and their rosters. Member mutations are row-level so
// concurrent adds against the same group union instead of clobbering each
// other.
type Store interface {
	Create(ctx context.Context, g *models.Group) error
	GetByID(ctx context.Context, id string) (*models.Group, error)
	GetByChannelID(ctx context.Context, channelID string) (*models.Group, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Group, error)
	AddMembers(ctx context.Context, groupID string, members []models.GroupMember, activity time.Time) error
	RemoveMember(ctx context.Context, groupID, userID string, activity time.Time) error
	Update(ctx context.Context, g *models.Group) error
	TransferAdmin(ctx context.Context, groupID, oldAdminID, newAdminID string, activity time.Time) error
	Delete(ctx context.Context, groupID string) error
	MemberProfiles(ctx context.Context, groupID string) ([]models.MemberProfile, error)
}

// PGStore implements Store on top of PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Create(ctx context.Context, g *models.Group) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO groups (id, name, description, group_picture, admin_id, channel_id,
			is_private, only_admins_can_message, only_admins_can_add_members,
			last_activity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, g.ID, g.Name, g.Description, g.GroupPicture, g.AdminID, g.ChannelID,
		g.Settings.IsPrivate, g.Settings.OnlyAdminsCanMessage, g.Settings.OnlyAdminsCanAddMembers,
		g.LastActivity, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return err
	}

	for _, m := range g.Members {
		_, err = tx.Exec(ctx, `
			INSERT INTO group_members (group_id, user_id, role, joined_at)
			VALUES ($1, $2, $3, $4)
		`, g.ID, m.UserID, m.Role, m.JoinedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *PGStore) GetByID(ctx context.Context, id string) (*models.Group, error) {
	return s.getBy(ctx, "id", id)
}

func (s *PGStore) GetByChannelID(ctx context.Context, channelID string) (*models.Group, error) {
	return s.getBy(ctx, "channel_id", channelID)
}

func (s *PGStore) getBy(ctx context.Context, column, value string) (*models.Group, error) {
	var g models.Group
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, description, group_picture, admin_id, channel_id,
			is_private, only_admins_can_message, only_admins_can_add_members,
			last_activity, created_at, updated_at
		FROM groups WHERE `+column+` = $1
	`, value).Scan(&g.ID, &g.Name, &g.Description, &g.GroupPicture, &g.AdminID, &g.ChannelID,
		&g.Settings.IsPrivate, &g.Settings.OnlyAdminsCanMessage, &g.Settings.OnlyAdminsCanAddMembers,
		&g.LastActivity, &g.CreatedAt, &g.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	g.Members, err = s.members(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *PGStore) members(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, role, joined_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY joined_at ASC
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.GroupMember
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *PGStore) ListForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT g.id, g.name, g.description, g.group_picture, g.admin_id, g.channel_id,
			g.is_private, g.only_admins_can_message, g.only_admins_can_add_members,
			g.last_activity, g.created_at, g.updated_at
		FROM groups g
		INNER JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
		ORDER BY g.last_activity DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		var g models.Group
		err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.GroupPicture, &g.AdminID, &g.ChannelID,
			&g.Settings.IsPrivate, &g.Settings.OnlyAdminsCanMessage, &g.Settings.OnlyAdminsCanAddMembers,
			&g.LastActivity, &g.CreatedAt, &g.UpdatedAt)
		if err != nil {
			return nil, err
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, g := range groups {
		g.Members, err = s.members(ctx, g.ID)
		if err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (s *PGStore) AddMembers(ctx context.Context, groupID string, members []models.GroupMember, activity time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, m := range members {
		_, err = tx.Exec(ctx, `
			INSERT INTO group_members (group_id, user_id, role, joined_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (group_id, user_id) DO NOTHING
		`, groupID, m.UserID, m.Role, m.JoinedAt)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE groups SET last_activity = $1, updated_at = $1 WHERE id = $2
	`, activity, groupID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PGStore) RemoveMember(ctx context.Context, groupID, userID string, activity time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		DELETE FROM group_members WHERE group_id = $1 AND user_id = $2
	`, groupID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE groups SET last_activity = $1, updated_at = $1 WHERE id = $2
	`, activity, groupID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PGStore) Update(ctx context.Context, g *models.Group) error {
	result, err := s.pool.Exec(ctx, `
		UPDATE groups
		SET name = $1, description = $2, group_picture = $3,
			is_private = $4, only_admins_can_message = $5, only_admins_can_add_members = $6,
			last_activity = $7, updated_at = $8
		WHERE id = $9
	`, g.Name, g.Description, g.GroupPicture,
		g.Settings.IsPrivate, g.Settings.OnlyAdminsCanMessage, g.Settings.OnlyAdminsCanAddMembers,
		g.LastActivity, g.UpdatedAt, g.ID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) TransferAdmin(ctx context.Context, groupID, oldAdminID, newAdminID string, activity time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE group_members SET role = $1 WHERE group_id = $2 AND user_id = $3
	`, models.RoleMember, groupID, oldAdminID)
	if err != nil {
		return err
	}

	result, err := tx.Exec(ctx, `
		UPDATE group_members SET role = $1 WHERE group_id = $2 AND user_id = $3
	`, models.RoleAdmin, groupID, newAdminID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE groups SET admin_id = $1, last_activity = $2, updated_at = $2 WHERE id = $3
	`, newAdminID, activity, groupID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PGStore) Delete(ctx context.Context, groupID string) error {
	// group_members rows go with the group via ON DELETE CASCADE.
	result, err := s.pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, groupID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) MemberProfiles(ctx context.Context, groupID string) ([]models.MemberProfile, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT gm.user_id, gm.role, gm.joined_at,
			u.email, u.name, u.avatar, u.is_online
		FROM group_members gm
		LEFT JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at ASC
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.MemberProfile
	for rows.Next() {
		var p models.MemberProfile
		var email, name *string
		var isOnline *bool
		err := rows.Scan(&p.UserResponse.ID, &p.Role, &p.JoinedAt,
			&email, &name, &p.Avatar, &isOnline)
		if err != nil {
			return nil, err
		}
		// Members without a local profile row still appear, id only.
		if email != nil {
			p.Email = *email
		}
		if name != nil {
			p.Name = *name
		}
		if isOnline != nil {
			p.IsOnline = *isOnline
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
