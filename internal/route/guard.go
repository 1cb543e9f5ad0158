package route

import (
	"context"

	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// AuthState reports whether a user is signed in.
type AuthState interface {
	IsAuthenticated(ctx context.Context) bool
}

// Guard decides whether a navigation may proceed.
type Guard struct {
	auth AuthState
}

// NewGuard returns a Guard reading auth on every evaluation.
func NewGuard(auth AuthState) *Guard {
	return &Guard{auth: auth}
}

// Evaluate returns the verdict for navigating to target. Signed-out users
// are sent to login from protected routes; signed-in users are sent home
// from guest-only routes. The first rule wins when both flags are set.
func (g *Guard) Evaluate(ctx context.Context, target types.NavigationTarget) types.Verdict {
	authenticated := g.auth.IsAuthenticated(ctx)
	switch {
	case target.RequiresAuth && !authenticated:
		return types.RedirectTo(types.RouteLogin)
	case target.GuestOnly && authenticated:
		return types.RedirectTo(types.RouteHome)
	default:
		return types.Allow()
	}
}
