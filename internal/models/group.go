package models

import "time"

// Member roles. The model keeps exactly one admin per group; everyone else
// is a plain member.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// DefaultGroupPicture is used when no picture is supplied at creation.
const DefaultGroupPicture = "https://via.placeholder.com/150?text=Group"

// GroupSettings gates who can message and who can grow the roster.
type GroupSettings struct {
	IsPrivate               bool `json:"isPrivate"`
	OnlyAdminsCanMessage    bool `json:"onlyAdminsCanMessage"`
	OnlyAdminsCanAddMembers bool `json:"onlyAdminsCanAddMembers"`
}

// Group represents a chat group and its roster. ChannelID correlates the
// group to its channel on the chat provider; it is set at creation and never
// changes.
type Group struct {
	ID           string        `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	Description  string        `json:"description,omitempty" db:"description"`
	GroupPicture string        `json:"groupPicture" db:"group_picture"`
	AdminID      string        `json:"adminId" db:"admin_id"`
	ChannelID    string        `json:"channelId" db:"channel_id"`
	Settings     GroupSettings `json:"settings"`
	Members      []GroupMember `json:"members"`
	LastActivity time.Time     `json:"lastActivity" db:"last_activity"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" db:"updated_at"`
}

// GroupMember represents a user's membership in a group.
type GroupMember struct {
	UserID   string    `json:"userId" db:"user_id"`
	Role     string    `json:"role" db:"role"`
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`
}

// Member returns the membership entry for userID, or nil if the user is not
// in the roster.
func (g *Group) Member(userID string) *GroupMember {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i]
		}
	}
	return nil
}

// MemberIDs returns the roster as a list of user ids.
func (g *Group) MemberIDs() []string {
	ids := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		ids = append(ids, m.UserID)
	}
	return ids
}

// MemberProfile is a roster entry with the user's profile resolved.
type MemberProfile struct {
	UserResponse
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// GroupWithMembers is the client-facing view of a group, members resolved to
// full profiles.
type GroupWithMembers struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	GroupPicture string          `json:"groupPicture"`
	AdminID      string          `json:"adminId"`
	ChannelID    string          `json:"channelId"`
	Settings     GroupSettings   `json:"settings"`
	Members      []MemberProfile `json:"members"`
	LastActivity time.Time       `json:"lastActivity"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
