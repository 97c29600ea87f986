// Package storage persists users and tasks in a relational database.
//
// Postgres is reached through lib/pq ("postgres") or pgx ("pgx"); SQLite
// ("sqlite3") is supported for local runs and tests. Every query is written
// with ordered $n placeholders, which all three drivers accept.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harlequingg/tasktracker/internal/data"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite3"
)

const defaultQueryTimeout = 5 * time.Second

type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type Storage struct {
	db      *sql.DB
	driver  string
	timeout time.Duration
}

// Open connects to the database described by cfg and verifies the
// connection with a ping.
func Open(ctx context.Context, cfg Config) (*Storage, error) {
	switch cfg.Driver {
	case DriverPostgres, DriverPgx, DriverSQLite:
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, errors.New("storage: empty dsn")
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == DriverSQLite {
		// a single writer avoids "database is locked"
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxIdleTime(cfg.MaxIdleTime)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return New(db, cfg.Driver), nil
}

// New wraps an already opened database handle.
func New(db *sql.DB, driver string) *Storage {
	return &Storage{
		db:      db,
		driver:  driver,
		timeout: defaultQueryTimeout,
	}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// uniqueViolation translates a unique constraint failure on the users table
// into the matching data error. Other errors are returned unchanged.
func uniqueViolation(err error) error {
	var constraint string

	var pqErr *pq.Error
	var pgErr *pgconn.PgError
	var liteErr sqlite3.Error
	switch {
	case errors.As(err, &pqErr) && pqErr.Code == "23505":
		constraint = pqErr.Constraint
	case errors.As(err, &pgErr) && pgErr.Code == "23505":
		constraint = pgErr.ConstraintName
	case errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique:
		// "UNIQUE constraint failed: users.username"
		constraint = liteErr.Error()
	default:
		return err
	}

	switch {
	case strings.Contains(constraint, "username"):
		return data.ErrDuplicateUsername
	case strings.Contains(constraint, "email"):
		return data.ErrDuplicateEmail
	}
	return err
}
