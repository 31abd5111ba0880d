// Package memory is an in-process implementation of storage.Store used for
// development runs without a database and for tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Tyrowin/relaychat/internal/storage"
)

type edge struct {
	owner, friend string
}

// Store keeps every collection in maps guarded by a single mutex.
type Store struct {
	mu            sync.RWMutex
	friends       map[edge]struct{}
	friendInvites map[string]struct{}
	invites       map[string]time.Time
	inviteTTL     time.Duration
	messages      []storage.Message
	media         map[string]*storage.Media
	nextMessageID int64
}

var _ storage.Store = (*Store)(nil)

// DefaultInviteTTL applies unless WithInviteTTL sets a positive value.
const DefaultInviteTTL = 24 * time.Hour

// Option configures a Store built by NewStore.
type Option func(*Store)

// WithInviteTTL sets how long an authentication invite stays redeemable.
func WithInviteTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.inviteTTL = ttl
		}
	}
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		friends:       make(map[edge]struct{}),
		friendInvites: make(map[string]struct{}),
		invites:       make(map[string]time.Time),
		inviteTTL:     DefaultInviteTTL,
		media:         make(map[string]*storage.Media),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddFriend inserts the directed edge owner -> friend.
func (s *Store) AddFriend(owner, friend string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friends[edge{owner, friend}] = struct{}{}
}

func (s *Store) IsFriend(_ context.Context, owner, friend string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.friends[edge{owner, friend}]
	return ok, nil
}

func (s *Store) ListFriends(_ context.Context, owner string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mine := lo.Filter(lo.Keys(s.friends), func(e edge, _ int) bool { return e.owner == owner })
	names := lo.Map(mine, func(e edge, _ int) string { return e.friend })
	sort.Strings(names)
	return names, nil
}

func (s *Store) CreateFriendInvite(_ context.Context, owner, target string) (string, error) {
	token := storage.NewFriendInviteToken(owner, target)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friendInvites[token] = struct{}{}
	return token, nil
}

func (s *Store) AcceptFriendInvite(_ context.Context, token string) error {
	owner, target, err := storage.ParseFriendInviteToken(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.friendInvites[token]; !ok {
		return storage.ErrInvalidInvite
	}
	delete(s.friendInvites, token)
	s.friends[edge{owner, target}] = struct{}{}
	s.friends[edge{target, owner}] = struct{}{}
	return nil
}

func (s *Store) CreateInvite(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invites[token] = time.Now()
	return nil
}

// ConsumeInvite deletes token and reports whether it was issued less than the
// invite TTL ago.
func (s *Store) ConsumeInvite(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created, ok := s.invites[token]
	if !ok {
		return false, nil
	}
	delete(s.invites, token)
	return time.Since(created) < s.inviteTTL, nil
}

func (s *Store) SaveMessage(_ context.Context, msg storage.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMessageID++
	msg.ID = s.nextMessageID
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	s.messages = append(s.messages, msg)
	return nil
}

// RecentMessages returns up to limit messages of room, oldest first.
func (s *Store) RecentMessages(_ context.Context, room string, limit int) ([]storage.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inRoom := lo.Filter(s.messages, func(m storage.Message, _ int) bool { return m.Room == room })
	if limit > 0 && len(inRoom) > limit {
		inRoom = inRoom[len(inRoom)-limit:]
	}
	return inRoom, nil
}

func (s *Store) SaveMedia(_ context.Context, m *storage.Media) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	cp := *m
	cp.Data = append([]byte(nil), m.Data...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.media[m.ID] = &cp
	return nil
}

func (s *Store) GetMedia(_ context.Context, id string) (*storage.Media, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.media[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *Store) Close() error { return nil }
