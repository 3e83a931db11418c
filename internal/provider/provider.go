package provider

import (
	"context"
	"fmt"
)

// ChannelProvider is the slice of the external chat platform this service
// depends on: channel lifecycle and roster sync. Message transport, presence
// and history stay entirely on the provider's side.
//
// Calls are synchronous; a failed call fails the group operation that issued
// it. There is no retry here.
type ChannelProvider interface {
	CreateChannel(ctx context.Context, channelID, ownerID, name string, memberIDs []string) error
	AddMembers(ctx context.Context, channelID string, memberIDs []string) error
	RemoveMembers(ctx context.Context, channelID string, memberIDs []string) error
	RenameChannel(ctx context.Context, channelID, name string) error
	DeleteChannel(ctx context.Context, channelID string) error
}

// Error wraps a failed provider call with the call name for logging.
type Error struct {
	Call string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Call, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
