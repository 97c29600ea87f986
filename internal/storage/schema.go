package storage

import (
	"context"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		name TEXT NOT NULL,
		username TEXT NOT NULL CONSTRAINT users_username_key UNIQUE,
		email TEXT NOT NULL CONSTRAINT users_email_key UNIQUE,
		password_hash BYTEA NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id BIGSERIAL PRIMARY KEY,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		title TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		is_important BOOLEAN NOT NULL DEFAULT FALSE,
		user_id BIGINT NOT NULL REFERENCES users (id)
	)`,
	`CREATE INDEX IF NOT EXISTS tasks_user_id_created_at_idx ON tasks (user_id, created_at, id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TIMESTAMP NOT NULL,
		name TEXT NOT NULL,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash BLOB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TIMESTAMP NOT NULL,
		title TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		is_important BOOLEAN NOT NULL DEFAULT FALSE,
		user_id INTEGER NOT NULL REFERENCES users (id)
	)`,
	`CREATE INDEX IF NOT EXISTS tasks_user_id_created_at_idx ON tasks (user_id, created_at, id)`,
}

// Migrate creates the users and tasks tables if they do not exist yet.
func (s *Storage) Migrate(ctx context.Context) error {
	stmts := postgresSchema
	if s.driver == DriverSQLite {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		ctx, cancel := s.withTimeout(ctx)
		_, err := s.db.ExecContext(ctx, stmt)
		cancel()
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
