package postgres

import "fmt"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS friends (
		id SERIAL PRIMARY KEY,
		owner VARCHAR(32) NOT NULL,
		friend VARCHAR(32) NOT NULL,
		UNIQUE (owner, friend)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_friends_owner ON friends(owner)`,
	`CREATE TABLE IF NOT EXISTS friend_invites (
		token VARCHAR(128) PRIMARY KEY,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS invites (
		token VARCHAR(128) PRIMARY KEY,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS media (
		id UUID PRIMARY KEY,
		filename TEXT,
		mimetype TEXT,
		size BIGINT,
		data BYTEA,
		created_by VARCHAR(32),
		kind VARCHAR(16),
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
	// Databases created before filename and mimetype became unbounded.
	`ALTER TABLE media ALTER COLUMN filename TYPE TEXT`,
	`ALTER TABLE media ALTER COLUMN mimetype TYPE TEXT`,
	`CREATE INDEX IF NOT EXISTS idx_media_created_by ON media(created_by)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		author VARCHAR(32),
		room VARCHAR(80),
		content TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_room ON messages(room, created_at)`,
}

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate() error {
	for i, stmt := range migrations {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
