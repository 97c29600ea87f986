package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/harlequingg/tasktracker/internal/data"
)

const userColumns = `id, created_at, name, username, email, password_hash`

func scanUser(row *sql.Row) (*data.User, error) {
	var u data.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Name, &u.Username, &u.Email, &u.PasswordHash)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	return &u, nil
}

// GetUserByID returns nil when no user has the given id.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*data.User, error) {
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE id = $1`
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*data.User, error) {
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return scanUser(s.db.QueryRowContext(ctx, query, username))
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*data.User, error) {
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

// GetUserByLogin looks a user up by username or email.
func (s *Storage) GetUserByLogin(ctx context.Context, identifier string) (*data.User, error) {
	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1 OR email = $1
			  ORDER BY id
			  LIMIT 1`
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return scanUser(s.db.QueryRowContext(ctx, query, identifier))
}

// InsertUser stores u and fills in its id. A taken username or email is
// reported as data.ErrDuplicateUsername or data.ErrDuplicateEmail.
func (s *Storage) InsertUser(ctx context.Context, u *data.User) error {
	query := `INSERT INTO users (created_at, name, username, email, password_hash)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, query, u.CreatedAt, u.Name, u.Username, u.Email, u.PasswordHash)
	err := row.Scan(&u.ID)
	if err != nil {
		return uniqueViolation(err)
	}
	return nil
}
