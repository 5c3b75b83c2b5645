package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/oncall-dispatch/internal/auth"
)

// accessTokenCookieName is set by the identity portal before it redirects to
// the dashboard.
const accessTokenCookieName = "accessToken"

// TokenVerifier exchanges a portal access token for a user ID.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, accessToken string) (string, error)
}

// SessionSigner wraps a portal access token in a signed cookie value.
type SessionSigner interface {
	Sign(token string) string
}

// AuthHandler turns portal access tokens into dashboard sessions.
type AuthHandler struct {
	verifier  TokenVerifier
	signer    SessionSigner
	responder responder
}

// NewAuthHandler wires the registration endpoint.
func NewAuthHandler(verifier TokenVerifier, signer SessionSigner, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{verifier: verifier, signer: signer, responder: newResponder(logger)}
}

// sessionLifetime bounds how long a signed cookie is accepted by browsers.
const sessionLifetime = 7 * 24 * time.Hour

// Register validates the portal's access token cookie and wraps the token in
// a signed session cookie.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(accessTokenCookieName)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingCookie)
		return
	}

	uid, err := h.verifier.VerifyToken(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			h.responder.writeError(r.Context(), w, http.StatusUnauthorized, err)
			return
		}
		h.responder.writeError(r.Context(), w, http.StatusBadGateway, errPortalUnavailable)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    h.signer.Sign(cookie.Value),
		Path:     "/",
		MaxAge:   int(sessionLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"uid": uid})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Session reports the authenticated user, for the UI to confirm login state.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	uid, ok := UserIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errInvalidSession)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"uid": uid})
}
