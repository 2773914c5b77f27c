package middleware

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"net/http"

	"github.com/haguru/wakenbake/internal/auth"
	"github.com/haguru/wakenbake/internal/interfaces"
	"github.com/haguru/wakenbake/internal/session"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session_token"

type contextKey string

const sessionContextKey contextKey = "session"

// SessionFromContext returns the session attached by SessionAuthMiddleware.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(*session.Session)
	return s, ok
}

// ContextWithSession attaches a session to a context. Exposed for handler tests.
func ContextWithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// SessionAuthMiddleware verifies the session cookie, resolves the
// server-side session and repairs the page-state invariant before handing
// the request on. Anything short of a live home-page session is 401: a
// request without a valid session has, by construction, no cart.
func SessionAuthMiddleware(store interfaces.SessionStore, publicKey *ecdsa.PublicKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				unauthorized(w, "Authentication required")
				return
			}

			claims, err := auth.VerifyToken(cookie.Value, publicKey)
			if err != nil {
				clearSessionCookie(w)
				unauthorized(w, "Invalid session token")
				return
			}

			sess, ok := store.Get(claims.SessionID)
			if !ok {
				clearSessionCookie(w)
				unauthorized(w, "Session expired, please log in again")
				return
			}

			if sess.Repair() {
				// Home without a user means the session is broken; treat it
				// like a logout rather than serving a half-authenticated page.
				store.Delete(sess.ID)
				clearSessionCookie(w)
				unauthorized(w, "Session expired, please log in again")
				return
			}

			if sess.Page != session.PageHome {
				unauthorized(w, "Not logged in")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sess)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
