//go:generate go run go.uber.org/mock/mockgen -source=interface.go -destination=../mocks/mock_store.go -package=mocks

// Package storage declares the persistence collaborators of the chat relay:
// the friend graph, single-use invite tokens, the append-only message log and
// uploaded media blobs.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidInvite is returned when a friend invite token is unknown or malformed.
	ErrInvalidInvite = errors.New("storage: invalid invite")
)

// FriendStore is the friend graph. Edges are directed: IsFriend(a, b) checks
// the edge a -> b only.
type FriendStore interface {
	IsFriend(ctx context.Context, owner, friend string) (bool, error)
	ListFriends(ctx context.Context, owner string) ([]string, error)
	CreateFriendInvite(ctx context.Context, owner, target string) (string, error)
	// AcceptFriendInvite consumes the token and creates the edge in both directions.
	AcceptFriendInvite(ctx context.Context, token string) error
}

// InviteStore holds single-use authentication invites.
type InviteStore interface {
	CreateInvite(ctx context.Context, token string) error
	// ConsumeInvite reports whether token existed, deleting it when it did.
	ConsumeInvite(ctx context.Context, token string) (bool, error)
}

// MessageStore is the write-mostly chat log.
type MessageStore interface {
	SaveMessage(ctx context.Context, msg Message) error
	RecentMessages(ctx context.Context, room string, limit int) ([]Message, error)
}

// MediaStore keeps uploaded attachments.
type MediaStore interface {
	SaveMedia(ctx context.Context, m *Media) error
	GetMedia(ctx context.Context, id string) (*Media, error)
}

// Store is the full persistence surface used by the server.
type Store interface {
	FriendStore
	InviteStore
	MessageStore
	MediaStore
	Close() error
}
