// Package http exposes the dashboard's REST surface.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/oncall-dispatch/internal/application"
)

var (
	errBadRequestBody    = errors.New("invalid request body")
	errMissingCookie     = errors.New("missing access token cookie")
	errInvalidSession    = errors.New("invalid or expired session")
	errPortalUnavailable = errors.New("identity portal unavailable")
	errMissingPathID     = errors.New("missing identifier in path")
	errInvalidDate       = errors.New("date must be formatted YYYY-MM-DD")
	errMissingQueryArg   = errors.New("missing required query parameter")
)

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		message = err.Error()
		if status >= http.StatusInternalServerError {
			r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
		}
	}
	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps application errors onto the HTTP status taxonomy:
// validation and not-linked to 400, ownership to 403, missing resources to
// 404, uniqueness violations to 409, everything else to 500.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var vErr *application.ValidationError
	switch {
	case errors.As(err, &vErr):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
			Message: "invalid input",
			Errors:  vErr.FieldErrors,
		})
	case errors.Is(err, application.ErrNotLinked):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Message: "link your phone number first"})
	case errors.Is(err, application.ErrForbidden):
		r.writeJSON(ctx, w, http.StatusForbidden, errorResponse{Message: "you do not own this resource"})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "resource not found"})
	case errors.Is(err, application.ErrConflict):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Message: "conflicts with an existing resource"})
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}
