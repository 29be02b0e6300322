package repositories

import "context"

// Room is a provisioned WebRTC room a client and the voice bot can join.
type Room struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RoomProvisioner abstracts the WebRTC infrastructure provider. Rooms and
// meeting tokens are created through the provider's HTTP API; the media
// transport itself never touches this server.
type RoomProvisioner interface {
	CreateRoom(ctx context.Context) (*Room, error)
	// CreateToken mints a meeting token for the named room. Owner tokens are
	// issued to the bot, non-owner tokens to clients.
	CreateToken(ctx context.Context, roomName string, isOwner bool) (string, error)
	DeleteRoom(ctx context.Context, roomName string) error
}
