package http

import (
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/oncall-dispatch/internal/auth"
	"github.com/example/oncall-dispatch/internal/metrics"
)

// SessionCookieName is the cookie holding the signed access token.
const SessionCookieName = "oncall_session"

// SessionVerifier checks a signed session cookie value and returns the access
// token it wraps.
type SessionVerifier interface {
	Verify(value string) (string, error)
}

// RequireSession rejects requests lacking a valid session cookie and stores
// the resolved user on the request context. The cookie wraps the portal
// access token; the token is re-exchanged on every request (the verifier
// caches successful exchanges) so revoked portal sessions stop working
// without waiting for the cookie to expire.
func RequireSession(cookies SessionVerifier, tokens TokenVerifier, logger *slog.Logger) mux.MiddlewareFunc {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errInvalidSession)
				return
			}
			token, err := cookies.Verify(cookie.Value)
			if err != nil {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errInvalidSession)
				return
			}
			uid, err := tokens.VerifyToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) {
					responder.writeError(r.Context(), w, http.StatusUnauthorized, errInvalidSession)
					return
				}
				responder.writeError(r.Context(), w, http.StatusBadGateway, errPortalUnavailable)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), uid)))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// RequestLogger attaches a request-scoped logger to the context, logs request
// start and completion, and reports the outcome to the metrics sink.
func RequestLogger(base *slog.Logger, sink metrics.Sink) mux.MiddlewareFunc {
	if base == nil {
		base = slog.Default()
	}
	if sink == nil {
		sink = metrics.NewNoopSink()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(rec, r.WithContext(ctx))
			duration := time.Since(start)
			logger.InfoContext(ctx, "request completed", "status", rec.status, "duration", duration)

			sink.RequestCompleted(r.Method, routeTemplate(r), rec.status, duration)
		})
	}
}

// routeTemplate returns the matched route pattern so metric labels stay low
// cardinality even for paths with identifiers in them.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			return template
		}
	}
	return "unmatched"
}
