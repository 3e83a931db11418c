package provider

import (
	"context"
	"fmt"

	stream "github.com/GetStream/stream-chat-go/v5"
)

// Group channels live on Stream's built-in messaging channel type.
const channelType = "messaging"

// StreamProvider implements ChannelProvider against Stream Chat.
type StreamProvider struct {
	client *stream.Client
}

// NewStreamProvider builds a provider from server-side API credentials.
func NewStreamProvider(apiKey, apiSecret string) (*StreamProvider, error) {
	client, err := stream.NewClient(apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream client: %w", err)
	}
	return &StreamProvider{client: client}, nil
}

func (p *StreamProvider) CreateChannel(ctx context.Context, channelID, ownerID, name string, memberIDs []string) error {
	_, err := p.client.CreateChannel(ctx, channelType, channelID, ownerID, &stream.ChannelRequest{
		Members:   memberIDs,
		ExtraData: map[string]interface{}{"name": name},
	})
	if err != nil {
		return &Error{Call: "createChannel", Err: err}
	}
	return nil
}

func (p *StreamProvider) AddMembers(ctx context.Context, channelID string, memberIDs []string) error {
	ch := p.client.Channel(channelType, channelID)
	if _, err := ch.AddMembers(ctx, memberIDs); err != nil {
		return &Error{Call: "addMembers", Err: err}
	}
	return nil
}

func (p *StreamProvider) RemoveMembers(ctx context.Context, channelID string, memberIDs []string) error {
	ch := p.client.Channel(channelType, channelID)
	if _, err := ch.RemoveMembers(ctx, memberIDs, nil); err != nil {
		return &Error{Call: "removeMembers", Err: err}
	}
	return nil
}

func (p *StreamProvider) RenameChannel(ctx context.Context, channelID, name string) error {
	ch := p.client.Channel(channelType, channelID)
	if _, err := ch.Update(ctx, map[string]interface{}{"name": name}, nil); err != nil {
		return &Error{Call: "renameChannel", Err: err}
	}
	return nil
}

func (p *StreamProvider) DeleteChannel(ctx context.Context, channelID string) error {
	ch := p.client.Channel(channelType, channelID)
	if _, err := ch.Delete(ctx); err != nil {
		return &Error{Call: "deleteChannel", Err: err}
	}
	return nil
}
