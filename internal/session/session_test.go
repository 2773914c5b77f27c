package session

import (
	"errors"
	"testing"
	"time"

	"github.com/haguru/wakenbake/internal/models"
)

func homeSession(username string) *Session {
	now := time.Now()
	return &Session{
		ID:        "test-session",
		Username:  username,
		Page:      PageHome,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestSessionApply(t *testing.T) {
	s := &Session{Username: "alice", Page: PageLogin}

	if err := s.Apply(ActionLoginSuccess); err != nil {
		t.Fatalf("Apply(ActionLoginSuccess) error = %v", err)
	}
	if s.Page != PageHome {
		t.Fatalf("page after login = %s, want home", s.Page)
	}

	// A failed transition leaves the session untouched.
	if err := s.Apply(ActionGotoSignup); err == nil {
		t.Fatal("Apply(ActionGotoSignup) from home should fail")
	}
	if s.Page != PageHome || s.Username != "alice" {
		t.Error("failed transition mutated the session")
	}
}

func TestSessionApplyLogoutClearsState(t *testing.T) {
	s := homeSession("alice")
	if _, err := s.AddCartLine("Red velvet pastry", 2, 125); err != nil {
		t.Fatalf("AddCartLine() error = %v", err)
	}

	if err := s.Apply(ActionLogout); err != nil {
		t.Fatalf("Apply(ActionLogout) error = %v", err)
	}
	if s.Page != PageLogin {
		t.Errorf("page after logout = %s, want login", s.Page)
	}
	if s.Username != "" {
		t.Errorf("username after logout = %q, want empty", s.Username)
	}
	if len(s.CartLines()) != 0 {
		t.Error("cart not cleared on logout")
	}
}

func TestSessionRepair(t *testing.T) {
	tests := []struct {
		name         string
		session      *Session
		wantRepaired bool
		wantPage     Page
	}{
		{
			name:         "home without user is forced back to login",
			session:      &Session{Page: PageHome},
			wantRepaired: true,
			wantPage:     PageLogin,
		},
		{
			name:         "home with user is left alone",
			session:      homeSession("alice"),
			wantRepaired: false,
			wantPage:     PageHome,
		},
		{
			name:         "login without user is fine",
			session:      &Session{Page: PageLogin},
			wantRepaired: false,
			wantPage:     PageLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.Repair(); got != tt.wantRepaired {
				t.Errorf("Repair() = %v, want %v", got, tt.wantRepaired)
			}
			if tt.session.Page != tt.wantPage {
				t.Errorf("page after Repair() = %s, want %s", tt.session.Page, tt.wantPage)
			}
		})
	}
}

func TestSessionAddCartLineKeepsDuplicates(t *testing.T) {
	s := homeSession("alice")

	for i := 0; i < 2; i++ {
		if _, err := s.AddCartLine("Red velvet pastry", 1, 125); err != nil {
			t.Fatalf("AddCartLine() error = %v", err)
		}
	}

	lines := s.CartLines()
	if len(lines) != 2 {
		t.Fatalf("cart has %d lines, want 2 separate lines for the same item", len(lines))
	}
	if s.CartTotal() != 250 {
		t.Errorf("CartTotal() = %v, want 250", s.CartTotal())
	}
}

func TestSessionAddCartLineOffHomePage(t *testing.T) {
	s := &Session{Username: "alice", Page: PageLogin}

	_, err := s.AddCartLine("Red velvet pastry", 1, 125)
	if !errors.Is(err, ErrNotOnHomePage) {
		t.Errorf("AddCartLine() off home page error = %v, want ErrNotOnHomePage", err)
	}
}

func TestSessionCartTotal(t *testing.T) {
	s := homeSession("alice")

	adds := []struct {
		item     string
		quantity int
		price    float64
	}{
		{"Red velvet pastry", 2, 125},
		{"Hazelnut Ferrero Cake", 1, 400},
		{"Vanilla oreo shake", 3, 150},
	}
	for _, a := range adds {
		if _, err := s.AddCartLine(a.item, a.quantity, a.price); err != nil {
			t.Fatalf("AddCartLine(%s) error = %v", a.item, err)
		}
	}

	want := 2*125.0 + 400.0 + 3*150.0
	if got := s.CartTotal(); got != want {
		t.Errorf("CartTotal() = %v, want %v", got, want)
	}
}

func TestSessionDrain(t *testing.T) {
	s := homeSession("alice")
	if _, err := s.AddCartLine("Red velvet pastry", 2, 125); err != nil {
		t.Fatalf("AddCartLine() error = %v", err)
	}

	lines, err := s.Drain()
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("Drain() returned %d lines, want 1", len(lines))
	}
	if len(s.CartLines()) != 0 {
		t.Error("cart not empty after Drain()")
	}

	// Draining an empty cart is an error.
	if _, err := s.Drain(); !errors.Is(err, ErrEmptyCart) {
		t.Errorf("Drain() on empty cart error = %v, want ErrEmptyCart", err)
	}
}

func TestSessionRestorePrepends(t *testing.T) {
	s := homeSession("alice")
	if _, err := s.AddCartLine("Vanilla oreo shake", 1, 150); err != nil {
		t.Fatalf("AddCartLine() error = %v", err)
	}

	restored := []models.CartLine{
		{ItemName: "Red velvet pastry", Quantity: 2, UnitPrice: 125},
	}
	s.Restore(restored)

	lines := s.CartLines()
	if len(lines) != 2 {
		t.Fatalf("cart has %d lines after Restore(), want 2", len(lines))
	}
	if lines[0].ItemName != "Red velvet pastry" {
		t.Errorf("restored line not at front of cart, got %s first", lines[0].ItemName)
	}
}

func TestSessionExpired(t *testing.T) {
	s := homeSession("alice")
	if s.Expired(time.Now()) {
		t.Error("fresh session reported expired")
	}
	if !s.Expired(time.Now().Add(2 * time.Hour)) {
		t.Error("session past its TTL not reported expired")
	}
}
