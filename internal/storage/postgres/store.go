// Package postgres implements storage.Store on PostgreSQL through database/sql
// and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/Tyrowin/relaychat/internal/storage"
)

// Store persists friends, invites, messages and media.
type Store struct {
	db        *sql.DB
	inviteTTL time.Duration
}

// DefaultInviteTTL applies unless WithInviteTTL sets a positive value.
const DefaultInviteTTL = 24 * time.Hour

type Option func(*Store)

// WithInviteTTL bounds how long an access invite stays redeemable.
func WithInviteTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.inviteTTL = ttl
		}
	}
}

var _ storage.Store = (*Store)(nil)

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewStore(db, opts...), nil
}

func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, inviteTTL: DefaultInviteTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) IsFriend(ctx context.Context, owner, friend string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM friends WHERE owner = $1 AND friend = $2)`,
		owner, friend).Scan(&exists)
	return exists, err
}

func (s *Store) ListFriends(ctx context.Context, owner string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT friend FROM friends WHERE owner = $1 ORDER BY friend`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		friends = append(friends, name)
	}
	return friends, rows.Err()
}

func (s *Store) CreateFriendInvite(ctx context.Context, owner, target string) (string, error) {
	token := storage.NewFriendInviteToken(owner, target)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO friend_invites (token, created_at) VALUES ($1, $2)`,
		token, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *Store) AcceptFriendInvite(ctx context.Context, token string) error {
	owner, target, err := storage.ParseFriendInviteToken(token)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM friend_invites WHERE token = $1`, token)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return storage.ErrInvalidInvite
	}

	for _, pair := range [][2]string{{owner, target}, {target, owner}} {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO friends (owner, friend) VALUES ($1, $2)
			ON CONFLICT (owner, friend) DO NOTHING`,
			pair[0], pair[1])
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) CreateInvite(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invites (token, created_at) VALUES ($1, $2)`,
		token, time.Now().UTC())
	return err
}

// ConsumeInvite deletes token and reports whether it was issued less than
// the invite TTL ago. Expired tokens are deleted too.
func (s *Store) ConsumeInvite(ctx context.Context, token string) (bool, error) {
	var createdAt time.Time
	err := s.db.QueryRowContext(ctx, `
		DELETE FROM invites WHERE token = $1 RETURNING created_at`, token).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return createdAt.After(time.Now().UTC().Add(-s.inviteTTL)), nil
}

func (s *Store) SaveMessage(ctx context.Context, msg storage.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (author, room, content, created_at)
		VALUES ($1, $2, $3, $4)`,
		msg.Author, msg.Room, msg.Content, msg.CreatedAt)
	return err
}

// RecentMessages returns up to limit messages of room, oldest first.
func (s *Store) RecentMessages(ctx context.Context, room string, limit int) ([]storage.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, author, room, content, created_at FROM (
			SELECT id, author, room, content, created_at FROM messages
			WHERE room = $1 ORDER BY id DESC LIMIT $2
		) recent ORDER BY id ASC`,
		room, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []storage.Message
	for rows.Next() {
		var m storage.Message
		if err := rows.Scan(&m.ID, &m.Author, &m.Room, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *Store) SaveMedia(ctx context.Context, m *storage.Media) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO media (id, filename, mimetype, size, data, created_by, kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.Filename, m.MimeType, m.Size, m.Data, m.CreatedBy, m.Kind, m.CreatedAt)
	return err
}

func (s *Store) GetMedia(ctx context.Context, id string) (*storage.Media, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, storage.ErrNotFound
	}
	var m storage.Media
	err := s.db.QueryRowContext(ctx, `
		SELECT id, filename, mimetype, size, data, created_by, kind, created_at
		FROM media WHERE id = $1`, id).Scan(
		&m.ID, &m.Filename, &m.MimeType, &m.Size, &m.Data, &m.CreatedBy, &m.Kind, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
