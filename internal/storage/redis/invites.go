// Package redis keeps single-use authentication invites in Redis so they
// expire on their own.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Tyrowin/relaychat/internal/storage"
)

const (
	// DefaultInviteTTL applies when NewInviteStore is given a non-positive ttl.
	DefaultInviteTTL = 24 * time.Hour

	invitePrefix = "invite:" // invite:{token} -> creation unix time
)

// InviteStore implements storage.InviteStore on Redis keys with a TTL.
type InviteStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ storage.InviteStore = (*InviteStore)(nil)

func NewInviteStore(rdb *redis.Client, ttl time.Duration) *InviteStore {
	if ttl <= 0 {
		ttl = DefaultInviteTTL
	}
	return &InviteStore{rdb: rdb, ttl: ttl}
}

// Connect parses a redis URL (or bare host:port) and pings the server.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func (s *InviteStore) CreateInvite(ctx context.Context, token string) error {
	if err := s.rdb.Set(ctx, invitePrefix+token, time.Now().Unix(), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store invite: %w", err)
	}
	return nil
}

// ConsumeInvite uses GETDEL so concurrent redemptions of one token cannot
// both succeed.
func (s *InviteStore) ConsumeInvite(ctx context.Context, token string) (bool, error) {
	err := s.rdb.GetDel(ctx, invitePrefix+token).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to consume invite: %w", err)
	}
	return true, nil
}
