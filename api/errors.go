package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/harlequingg/tasktracker/internal/service"
	"github.com/sirupsen/logrus"
)

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindAuthentication:
		return http.StatusUnauthorized
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindConflict:
		return http.StatusConflict
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (app *application) requestLogger(r *http.Request) *logrus.Entry {
	return app.logger.WithFields(logrus.Fields{
		"request_id":     requestIDFrom(r.Context()),
		"request_method": r.Method,
		"request_uri":    r.URL.RequestURI(),
	})
}

func (app *application) writeError(w http.ResponseWriter, r *http.Request, status int, msg string, fields map[string]string) {
	body := envelope{"message": msg}
	if len(fields) > 0 {
		body["errors"] = fields
	}
	h := w.Header()
	h.Del("Content-Length")
	h.Set("X-Content-Type-Options", "nosniff")
	err := writeJSON(w, status, body)
	if err != nil {
		app.requestLogger(r).WithError(err).Error("failed to write error response")
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serverError logs err with its cause and reports it; the client only sees a
// generic message.
func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.requestLogger(r).WithError(err).Error("internal error")
	if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
	app.writeError(w, r, http.StatusInternalServerError, "Internal server error.", nil)
}

func (app *application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	app.requestLogger(r).WithError(err).Debug("bad request")
	app.writeError(w, r, http.StatusBadRequest, "Invalid request payload.", nil)
}

func (app *application) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	var e *service.Error
	if !errors.As(err, &e) || e.Kind == service.KindInternal {
		app.serverError(w, r, err)
		return
	}
	app.writeError(w, r, statusFor(e.Kind), e.Message, e.Fields)
}

func (app *application) rateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	app.writeError(w, r, http.StatusTooManyRequests, "Rate limit exceeded.", nil)
}

func panicError(v any) error {
	if err, ok := v.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", v)
}
