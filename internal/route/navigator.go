package route

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/bazaar/internal/logging"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// Navigator moves between routes, consulting the guard on every move.
// Redirects replace the requested destination; nothing remembers it.
type Navigator struct {
	mu      sync.Mutex
	table   *Table
	guard   *Guard
	log     logrus.FieldLogger
	current types.NavigationTarget
}

// NewNavigator returns a Navigator that has not navigated anywhere yet.
func NewNavigator(table *Table, guard *Guard, log logrus.FieldLogger) *Navigator {
	if log == nil {
		log = logging.Discard()
	}
	return &Navigator{table: table, guard: guard, log: log}
}

// Navigate resolves dest (a route name or path), applies the guard, and
// returns where the navigation landed. A redirect is followed once; a
// redirect whose destination would itself redirect is ErrRedirectLoop.
func (n *Navigator) Navigate(ctx context.Context, dest string) (types.NavigationTarget, error) {
	target, err := n.table.Resolve(dest)
	if err != nil {
		return types.NavigationTarget{}, err
	}

	verdict := n.guard.Evaluate(ctx, target)
	if !verdict.Allowed() {
		n.log.WithFields(logrus.Fields{
			"requested": target.Name,
			"redirect":  verdict.Destination,
		}).Debug("navigation redirected")

		redirected, err := n.table.Lookup(verdict.Destination)
		if err != nil {
			return types.NavigationTarget{}, fmt.Errorf("redirect from %s: %w", target.Name, err)
		}
		if v := n.guard.Evaluate(ctx, redirected); !v.Allowed() {
			return types.NavigationTarget{}, fmt.Errorf("%w: %s -> %s -> %s",
				types.ErrRedirectLoop, target.Name, redirected.Name, v.Destination)
		}
		target = redirected
	}

	n.mu.Lock()
	n.current = target
	n.mu.Unlock()
	return target, nil
}

// Current returns the last destination reached, or the zero target.
func (n *Navigator) Current() types.NavigationTarget {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}
