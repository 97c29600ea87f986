// Package data holds the records persisted by the tracker and the errors the
// storage layer reports about them.
package data

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
)

type User struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"-"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
}

// PublicUser is the part of a user that may leave the server.
type PublicUser struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
	}
}

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Completed   bool      `json:"completed"`
	IsImportant bool      `json:"isImportant"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      int64     `json:"userId"`
}

// TaskPatch lists the task fields a partial update should write. A nil field
// is left untouched.
type TaskPatch struct {
	Title       *string
	Completed   *bool
	IsImportant *bool
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Completed == nil && p.IsImportant == nil
}

// Apply returns t with the fields of p written over it.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.IsImportant != nil {
		t.IsImportant = *p.IsImportant
	}
	return t
}
