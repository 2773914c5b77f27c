package middleware

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haguru/wakenbake/internal/auth"
	"github.com/haguru/wakenbake/internal/session"
)

func testKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate ECDSA key: %v", err)
	}
	return key
}

func okHandler() (http.Handler, *bool) {
	called := new(bool)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if _, ok := SessionFromContext(r.Context()); !ok {
			http.Error(w, "no session in context", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}), called
}

func TestSessionAuthMiddlewareValidSession(t *testing.T) {
	key := testKey(t)
	manager := session.NewManager(time.Hour)
	defer manager.Close()

	sess, err := manager.Create("alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := sess.Apply(session.ActionLoginSuccess); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	token, err := auth.CreateToken(sess.ID, "alice", time.Hour, key)
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}

	next, called := okHandler()
	handler := SessionAuthMiddleware(manager, &key.PublicKey)(next)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("got status %d, want %d", rr.Code, http.StatusOK)
	}
	if !*called {
		t.Error("next handler not called for a valid session")
	}
}

func TestSessionAuthMiddlewareRejections(t *testing.T) {
	key := testKey(t)
	otherKey := testKey(t)
	manager := session.NewManager(time.Hour)
	defer manager.Close()

	// A session that never left the login page.
	loginSess, err := manager.Create("alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	loginToken, err := auth.CreateToken(loginSess.ID, "alice", time.Hour, key)
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}

	// A token naming a session that no longer exists.
	goneToken, err := auth.CreateToken("no-such-session", "alice", time.Hour, key)
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}

	// A token signed by the wrong key.
	forgedToken, err := auth.CreateToken(loginSess.ID, "alice", time.Hour, otherKey)
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "no cookie", token: ""},
		{name: "garbage token", token: "not-a-jwt"},
		{name: "token signed by another key", token: forgedToken},
		{name: "session not found", token: goneToken},
		{name: "session not on home page", token: loginToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := okHandler()
			handler := SessionAuthMiddleware(manager, &key.PublicKey)(next)

			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.token})
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("got status %d, want %d", rr.Code, http.StatusUnauthorized)
			}
			if *called {
				t.Error("next handler called for a rejected request")
			}
		})
	}
}

func TestSessionAuthMiddlewareRepairsBrokenSession(t *testing.T) {
	key := testKey(t)
	manager := session.NewManager(time.Hour)
	defer manager.Close()

	sess, err := manager.Create("alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := sess.Apply(session.ActionLoginSuccess); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	// Break the invariant: home page with no user.
	sess.Username = ""

	token, err := auth.CreateToken(sess.ID, "alice", time.Hour, key)
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}

	next, called := okHandler()
	handler := SessionAuthMiddleware(manager, &key.PublicKey)(next)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if *called {
		t.Error("next handler called for a repaired session")
	}
	if _, ok := manager.Get(sess.ID); ok {
		t.Error("broken session not removed from the store")
	}
}
