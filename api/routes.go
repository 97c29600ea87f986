package main

import (
	"net/http"
)

func composeRoutes(app *application) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthcheck", app.healthCheckHandler)

	mux.HandleFunc("POST /register", app.registerUserHandler)
	mux.HandleFunc("POST /login", app.loginUserHandler)

	mux.HandleFunc("POST /tasks", app.createTaskHandler)
	mux.HandleFunc("GET /tasks", app.getTasksHandler)
	mux.HandleFunc("GET /tasks/{id}", app.getTaskHandler)
	mux.HandleFunc("PATCH /tasks/{id}", app.updateTaskHandler)
	mux.HandleFunc("DELETE /tasks/{id}", app.deleteTaskHandler)

	return app.middleware(mux)
}

// middleware wraps h in the chain every request goes through. requestID is
// outermost so panics are logged and reported with the request's id and hub.
func (app *application) middleware(h http.Handler) http.Handler {
	if app.config.limiter.enabled {
		h = app.rateLimit(h)
	}
	return app.requestID(app.logRequest(app.recoverPanic(app.enableCORS(h))))
}
