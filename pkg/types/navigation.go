package types

import "errors"

// Well-known destinations the route guard redirects to.
const (
	RouteHome  = "home"
	RouteLogin = "login"
)

// NavigationTarget is a requested destination and its access-control flags.
// A valid target never sets both RequiresAuth and GuestOnly.
type NavigationTarget struct {
	Name         string
	Path         string
	RequiresAuth bool
	GuestOnly    bool
}

// Action is the route guard's decision for one navigation attempt.
type Action int

const (
	ActionAllow Action = iota
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of guarding a navigation. Destination is set only
// for redirects and names the route that replaces the requested one.
type Verdict struct {
	Action      Action
	Destination string
}

// Allow lets the navigation proceed unchanged.
func Allow() Verdict { return Verdict{Action: ActionAllow} }

// RedirectTo replaces the navigation with the named route.
func RedirectTo(name string) Verdict {
	return Verdict{Action: ActionRedirect, Destination: name}
}

// Allowed reports whether the navigation may proceed.
func (v Verdict) Allowed() bool { return v.Action == ActionAllow }

// Routing errors.
var (
	ErrRouteNotFound      = errors.New("route not found")
	ErrRouteFlagsConflict = errors.New("route cannot be both requires-auth and guest-only")
	ErrDuplicateRoute     = errors.New("duplicate route")
	ErrRedirectLoop       = errors.New("redirect target is itself redirected")
	ErrLoginRequired      = errors.New("login required")
	ErrAlreadyLoggedIn    = errors.New("already logged in")
)
