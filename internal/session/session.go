package session

import (
	"errors"
	"sync"
	"time"

	"github.com/haguru/wakenbake/internal/models"
)

var (
	// ErrNotOnHomePage is returned for cart operations attempted off the home page.
	ErrNotOnHomePage = errors.New("cart operations are only valid on the home page")
	// ErrEmptyCart is returned by Drain when there is nothing to check out.
	ErrEmptyCart = errors.New("cart is empty")
)

// Session is the state scoped to one user's continuous interaction:
// authentication status, current page and pending cart lines. A session is
// only ever touched from its own request cycle, but the manager's sweep
// goroutine reads expiry concurrently, so all access goes through the mutex.
type Session struct {
	mu        sync.Mutex
	ID        string
	Username  string
	Page      Page
	cart      []models.CartLine
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Apply runs the page state machine on this session. A failed transition
// leaves the session untouched. Logging out clears the user and the cart.
func (s *Session) Apply(action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Next(s.Page, action)
	if err != nil {
		return err
	}

	s.Page = next
	if action == ActionLogout {
		s.Username = ""
		s.cart = nil
	}
	return nil
}

// Repair enforces the invariant that home is reachable only with a user set.
// A home page without a user is forced back to login with an empty cart.
// It reports whether a repair took place.
func (s *Session) Repair() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Page == PageHome && s.Username == "" {
		s.Page = PageLogin
		s.cart = nil
		return true
	}
	return false
}

// AddCartLine appends one pending line. Adding the same item twice yields
// two separate lines; they are never merged.
func (s *Session) AddCartLine(itemName string, quantity int, unitPrice float64) (models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Page != PageHome || s.Username == "" {
		return models.CartLine{}, ErrNotOnHomePage
	}

	line := models.CartLine{
		ItemName:  itemName,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	s.cart = append(s.cart, line)
	return line, nil
}

// CartLines returns a copy of the pending lines in insertion order.
func (s *Session) CartLines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]models.CartLine, len(s.cart))
	copy(lines, s.cart)
	return lines
}

// CartTotal sums every line independently.
func (s *Session) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, line := range s.cart {
		total += line.LineTotal()
	}
	return total
}

// Drain removes and returns all cart lines for checkout.
func (s *Session) Drain() ([]models.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Page != PageHome || s.Username == "" {
		return nil, ErrNotOnHomePage
	}
	if len(s.cart) == 0 {
		return nil, ErrEmptyCart
	}

	lines := s.cart
	s.cart = nil
	return lines, nil
}

// Restore puts lines back at the front of the cart. Checkout uses it when an
// order insert fails mid-loop so the unplaced lines survive for a retry.
func (s *Session) Restore(lines []models.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = append(lines, s.cart...)
}

// Expired reports whether the session TTL has passed at the given instant.
func (s *Session) Expired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.After(s.ExpiresAt)
}
