// Package session holds per-browser server-side state: the current page,
// the logged-in user and the pending cart. Each session is an explicit
// object passed through request context; there is no package-level state.
package session

import "fmt"

// Page is the screen the session is currently on.
type Page int

const (
	// PageLogin is the initial page of every session.
	PageLogin Page = iota
	PageSignup
	PageHome
)

func (p Page) String() string {
	switch p {
	case PageLogin:
		return "login"
	case PageSignup:
		return "signup"
	case PageHome:
		return "home"
	default:
		return fmt.Sprintf("Page(%d)", int(p))
	}
}

// Action is a user-driven event that may move the session to another page.
type Action int

const (
	// ActionLoginSuccess follows a successful credential check.
	ActionLoginSuccess Action = iota
	// ActionGotoSignup is the explicit "create an account" navigation.
	ActionGotoSignup
	// ActionSignupSuccess follows a successful registration.
	ActionSignupSuccess
	// ActionBackToLogin is the explicit back-navigation from signup.
	ActionBackToLogin
	// ActionLogout clears the user and returns to login.
	ActionLogout
)

func (a Action) String() string {
	switch a {
	case ActionLoginSuccess:
		return "login_success"
	case ActionGotoSignup:
		return "goto_signup"
	case ActionSignupSuccess:
		return "signup_success"
	case ActionBackToLogin:
		return "back_to_login"
	case ActionLogout:
		return "logout"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ErrInvalidTransition reports an action that is not legal from a page.
type ErrInvalidTransition struct {
	From   Page
	Action Action
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid transition: action %s from page %s", e.Action, e.From)
}

// Next is the pure transition function of the page state machine.
// It returns the new page or an ErrInvalidTransition; it never mutates
// anything, so failed actions leave the session state unchanged.
func Next(from Page, action Action) (Page, error) {
	switch from {
	case PageLogin:
		switch action {
		case ActionLoginSuccess:
			return PageHome, nil
		case ActionGotoSignup:
			return PageSignup, nil
		}
	case PageSignup:
		switch action {
		case ActionSignupSuccess, ActionBackToLogin:
			return PageLogin, nil
		}
	case PageHome:
		if action == ActionLogout {
			return PageLogin, nil
		}
	}
	return from, &ErrInvalidTransition{From: from, Action: action}
}
