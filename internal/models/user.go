package models

import "time"

// User mirrors the identity subsystem's user record. This service only reads
// it to resolve member profiles; account management lives elsewhere.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Avatar    *string   `json:"avatar,omitempty" db:"avatar"`
	IsOnline  bool      `json:"isOnline" db:"is_online"`
	LastSeen  time.Time `json:"lastSeen" db:"last_seen"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// UserResponse is what we send to clients.
type UserResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	Avatar   *string `json:"avatar,omitempty"`
	IsOnline bool    `json:"isOnline"`
}

// ToResponse converts User to UserResponse.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Avatar:   u.Avatar,
		IsOnline: u.IsOnline,
	}
}
