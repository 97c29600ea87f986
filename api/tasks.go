package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/harlequingg/tasktracker/internal/data"
)

func (app *application) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title  json.RawMessage `json:"title"`
		UserID json.RawMessage `json:"userId"`
	}
	err := readJSON(w, r, &input)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var title string
	if s := jsonString(input.Title); s != nil {
		title = *s
	}

	task, err := app.tasks.CreateTask(r.Context(), title, jsonID(input.UserID))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	w.Header().Set("Location", "/tasks/"+strconv.FormatInt(task.ID, 10))
	err = writeJSON(w, http.StatusCreated, task)
	if err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) getTasksHandler(w http.ResponseWriter, r *http.Request) {
	userID := paramID(r.URL.Query().Get("userId"))

	tasks, err := app.tasks.ListTasks(r.Context(), userID)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, tasks)
	if err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := paramID(r.PathValue("id"))
	userID := paramID(r.URL.Query().Get("userId"))

	task, err := app.tasks.GetTask(r.Context(), taskID, userID)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, task)
	if err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := paramID(r.PathValue("id"))

	var input struct {
		Completed   json.RawMessage `json:"completed"`
		Title       json.RawMessage `json:"title"`
		IsImportant json.RawMessage `json:"isImportant"`
		UserID      json.RawMessage `json:"userId"`
	}
	err := readJSON(w, r, &input)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	// fields of the wrong type are dropped, not rejected
	patch := data.TaskPatch{
		Title:       jsonString(input.Title),
		Completed:   jsonBool(input.Completed),
		IsImportant: jsonBool(input.IsImportant),
	}

	task, err := app.tasks.UpdateTask(r.Context(), taskID, jsonID(input.UserID), patch)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, task)
	if err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID := paramID(r.PathValue("id"))

	var input struct {
		UserID json.RawMessage `json:"userId"`
	}
	err := readJSON(w, r, &input)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	err = app.tasks.DeleteTask(r.Context(), taskID, jsonID(input.UserID))
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, envelope{"message": "Task deleted successfully."})
	if err != nil {
		app.serverError(w, r, err)
	}
}
