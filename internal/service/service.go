// Package service implements registration, login and the ownership-checked
// task operations on top of a Store.
package service

import (
	"context"
	"time"

	"github.com/harlequingg/tasktracker/internal/data"
)

// UserStore is the user side of the credential store. Lookups return a nil
// user and a nil error when nothing matches.
type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*data.User, error)
	GetUserByUsername(ctx context.Context, username string) (*data.User, error)
	GetUserByEmail(ctx context.Context, email string) (*data.User, error)
	GetUserByLogin(ctx context.Context, identifier string) (*data.User, error)
	InsertUser(ctx context.Context, u *data.User) error
}

// TaskStore is the task side of the credential store.
type TaskStore interface {
	GetUserByID(ctx context.Context, id int64) (*data.User, error)
	InsertTask(ctx context.Context, t *data.Task) error
	GetTasksByUserID(ctx context.Context, userID int64) ([]*data.Task, error)
	GetTaskByID(ctx context.Context, id int64) (*data.Task, error)
	UpdateTask(ctx context.Context, id int64, patch data.TaskPatch) (*data.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type Store interface {
	UserStore
	TaskStore
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
