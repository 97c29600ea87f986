package service

import (
	"context"
	"errors"
	"strings"

	"github.com/harlequingg/tasktracker/internal/data"
	"github.com/sirupsen/logrus"
)

type TaskService struct {
	store  TaskStore
	logger logrus.FieldLogger
}

func NewTaskService(store TaskStore, logger logrus.FieldLogger) *TaskService {
	return &TaskService{
		store:  store,
		logger: logger,
	}
}

// CreateTask adds a task for ownerID, who must exist. A nil id means the
// caller sent none that parses.
func (s *TaskService) CreateTask(ctx context.Context, title string, ownerID *int64) (*data.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validationError("Task title is required and must be a non-empty string.", map[string]string{"title": "must be provided"})
	}
	if ownerID == nil {
		return nil, validationError("User ID is required and must be a number.", map[string]string{"userId": "must be a number"})
	}

	owner, err := s.store.GetUserByID(ctx, *ownerID)
	if err != nil {
		return nil, internalError(err)
	}
	if owner == nil {
		return nil, notFoundError("User not found.")
	}

	t := &data.Task{
		Title:     title,
		CreatedAt: now(),
		UserID:    *ownerID,
	}
	err = s.store.InsertTask(ctx, t)
	if err != nil {
		return nil, internalError(err)
	}

	s.logger.WithFields(logrus.Fields{"task_id": t.ID, "user_id": t.UserID}).Debug("task created")
	return t, nil
}

// ListTasks returns the tasks of ownerID, oldest first. The owner is not
// looked up, so an unknown id yields an empty list.
func (s *TaskService) ListTasks(ctx context.Context, ownerID *int64) ([]*data.Task, error) {
	if ownerID == nil {
		return nil, validationError("User ID is required and must be a number.", map[string]string{"userId": "must be a number"})
	}
	tasks, err := s.store.GetTasksByUserID(ctx, *ownerID)
	if err != nil {
		return nil, internalError(err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID, requesterID *int64) (*data.Task, error) {
	return s.ownedTask(ctx, taskID, requesterID, "view")
}

// UpdateTask applies the set fields of patch. A blank title counts as
// absent. Ownership is checked before the patch is judged, so a request from
// another user is refused whatever it carries.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, requesterID *int64, patch data.TaskPatch) (*data.Task, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			patch.Title = nil
		} else {
			patch.Title = &title
		}
	}

	owned, err := s.ownedTask(ctx, taskID, requesterID, "update")
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, validationError("No valid fields provided for update.", nil)
	}

	t, err := s.store.UpdateTask(ctx, owned.ID, patch)
	if err != nil {
		return nil, internalError(err)
	}
	if t == nil {
		return nil, notFoundError("Task not found.")
	}

	s.logger.WithFields(logrus.Fields{"task_id": t.ID, "user_id": t.UserID}).Debug("task updated")
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, taskID, requesterID *int64) error {
	owned, err := s.ownedTask(ctx, taskID, requesterID, "delete")
	if err != nil {
		return err
	}

	err = s.store.DeleteTask(ctx, owned.ID)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return notFoundError("Task not found.")
		}
		return internalError(err)
	}

	s.logger.WithFields(logrus.Fields{"task_id": owned.ID, "user_id": owned.UserID}).Debug("task deleted")
	return nil
}

// ownedTask loads taskID and makes sure requesterID owns it. Any id that
// parsed is looked up as is, so zero or negative ids end in "Task not found."
// or an ownership failure.
func (s *TaskService) ownedTask(ctx context.Context, taskID, requesterID *int64, action string) (*data.Task, error) {
	if taskID == nil {
		return nil, validationError("Invalid task ID format.", nil)
	}
	if requesterID == nil {
		return nil, authenticationError("User ID is required for authorization.")
	}

	t, err := s.store.GetTaskByID(ctx, *taskID)
	if err != nil {
		return nil, internalError(err)
	}
	if t == nil {
		return nil, notFoundError("Task not found.")
	}
	if t.UserID != *requesterID {
		s.logger.WithFields(logrus.Fields{
			"task_id":      t.ID,
			"requester_id": *requesterID,
			"action":       action,
		}).Warn("task ownership mismatch")
		return nil, authorizationError("Unauthorized to " + action + " this task.")
	}
	return t, nil
}
