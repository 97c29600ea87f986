// Package testutil provides an in-memory store for service and handler tests.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/harlequingg/tasktracker/internal/data"
)

// Store keeps users and tasks in maps. Setting Err makes every call fail
// with it.
type Store struct {
	mu     sync.Mutex
	users  map[int64]*data.User
	tasks  map[int64]*data.Task
	nextID int64

	Err error
}

func NewStore() *Store {
	return &Store{
		users: make(map[int64]*data.User),
		tasks: make(map[int64]*data.Task),
	}
}

func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func cloneUser(u *data.User) *data.User {
	c := *u
	return &c
}

func cloneTask(t *data.Task) *data.Task {
	c := *t
	return &c
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*data.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (s *Store) findUser(match func(*data.User) bool) *data.User {
	var found *data.User
	for _, u := range s.users {
		if match(u) && (found == nil || u.ID < found.ID) {
			found = u
		}
	}
	if found == nil {
		return nil
	}
	return cloneUser(found)
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*data.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.findUser(func(u *data.User) bool { return u.Username == username }), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*data.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.findUser(func(u *data.User) bool { return u.Email == email }), nil
}

func (s *Store) GetUserByLogin(_ context.Context, identifier string) (*data.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.findUser(func(u *data.User) bool { return u.Username == identifier || u.Email == identifier }), nil
}

func (s *Store) InsertUser(_ context.Context, u *data.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return data.ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return data.ErrDuplicateEmail
		}
	}
	u.ID = s.id()
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *Store) InsertTask(_ context.Context, t *data.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	t.ID = s.id()
	s.tasks[t.ID] = cloneTask(t)
	return nil
}

func (s *Store) GetTasksByUserID(_ context.Context, userID int64) ([]*data.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	tasks := []*data.Task{}
	for _, t := range s.tasks {
		if t.UserID == userID {
			tasks = append(tasks, cloneTask(t))
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

func (s *Store) GetTaskByID(_ context.Context, id int64) (*data.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	return cloneTask(t), nil
}

func (s *Store) UpdateTask(_ context.Context, id int64, patch data.TaskPatch) (*data.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	updated := patch.Apply(*t)
	s.tasks[id] = &updated
	return cloneTask(&updated), nil
}

func (s *Store) DeleteTask(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.tasks[id]; !ok {
		return data.ErrRecordNotFound
	}
	delete(s.tasks, id)
	return nil
}

// Task returns the stored copy of a task, or nil.
func (s *Store) Task(id int64) *data.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil
	}
	return cloneTask(t)
}
