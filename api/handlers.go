package main

import (
	"net/http"

	"github.com/harlequingg/tasktracker/internal/data"
	"github.com/harlequingg/tasktracker/internal/service"
)

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	heathCheck := struct {
		Status      string `json:"status"`
		Environment string `json:"environment"`
		Version     string `json:"version"`
	}{
		Status:      "available",
		Environment: app.config.env,
		Version:     version,
	}
	err := writeJSON(w, http.StatusOK, heathCheck)
	if err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	err := readJSON(w, r, &input)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	user, err := app.auth.Register(r.Context(), input)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	if app.mailer != nil {
		app.sendWelcome(*user)
	}

	err = writeJSON(w, http.StatusCreated, envelope{"message": "Registration successful!", "user": user})
	if err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) sendWelcome(user data.PublicUser) {
	app.background(func() {
		err := app.mailer.send(user.Email, "welcome.tmpl", user)
		if err != nil {
			app.logger.WithError(err).WithField("user_id", user.ID).Error("failed to send welcome mail")
		}
	})
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	err := readJSON(w, r, &input)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	user, err := app.auth.Login(r.Context(), input.Identifier, input.Password)
	if err != nil {
		app.serviceError(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, envelope{"message": "Login successful!", "user": user})
	if err != nil {
		app.serverError(w, r, err)
	}
}
