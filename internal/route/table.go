// Package route guards navigation between client destinations.
//
// A Table lists the destinations and their access flags, a Guard decides
// whether one navigation may proceed, and a Navigator applies the decision,
// following at most one redirect.
package route

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// Route names beyond the two the guard redirects to.
const (
	User          = "user"
	Order         = "order"
	Favorite      = "favorite"
	CreateProduct = "create_product"
	Register      = "register"
	Product       = "product"
	Messages      = "messages"
)

// DefaultRoutes returns the marketplace destinations. Everything except
// login and register requires a signed-in user.
func DefaultRoutes() []types.NavigationTarget {
	return []types.NavigationTarget{
		{Name: types.RouteHome, Path: "/", RequiresAuth: true},
		{Name: User, Path: "/user", RequiresAuth: true},
		{Name: Order, Path: "/order", RequiresAuth: true},
		{Name: Favorite, Path: "/favorite", RequiresAuth: true},
		{Name: CreateProduct, Path: "/create_product", RequiresAuth: true},
		{Name: Product, Path: "/product/:id", RequiresAuth: true},
		{Name: Messages, Path: "/messages", RequiresAuth: true},
		{Name: types.RouteLogin, Path: "/login", GuestOnly: true},
		{Name: Register, Path: "/register", GuestOnly: true},
	}
}

// Table is an immutable set of routes.
type Table struct {
	routes []types.NavigationTarget
	byName map[string]int
}

// NewTable validates routes and indexes them by name.
func NewTable(routes ...types.NavigationTarget) (*Table, error) {
	t := &Table{byName: make(map[string]int, len(routes))}
	for _, r := range routes {
		if err := Validate(r); err != nil {
			return nil, err
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, fmt.Errorf("%w: %s", types.ErrDuplicateRoute, r.Name)
		}
		t.byName[r.Name] = len(t.routes)
		t.routes = append(t.routes, r)
	}
	return t, nil
}

// DefaultTable returns the table of DefaultRoutes.
func DefaultTable() *Table {
	t, err := NewTable(DefaultRoutes()...)
	if err != nil {
		panic(err)
	}
	return t
}

// Validate rejects a route with no name or with both access flags set.
func Validate(r types.NavigationTarget) error {
	if r.Name == "" {
		return fmt.Errorf("route %q: empty name", r.Path)
	}
	if r.RequiresAuth && r.GuestOnly {
		return fmt.Errorf("%w: %s", types.ErrRouteFlagsConflict, r.Name)
	}
	return nil
}

// Routes returns every route in declaration order.
func (t *Table) Routes() []types.NavigationTarget {
	out := make([]types.NavigationTarget, len(t.routes))
	copy(out, t.routes)
	return out
}

// Lookup returns the route registered under name.
func (t *Table) Lookup(name string) (types.NavigationTarget, error) {
	i, ok := t.byName[name]
	if !ok {
		return types.NavigationTarget{}, fmt.Errorf("%w: %s", types.ErrRouteNotFound, name)
	}
	return t.routes[i], nil
}

// Match returns the route whose pattern matches path. The returned
// target's Path is the concrete path, not the pattern.
func (t *Table) Match(path string) (types.NavigationTarget, error) {
	for _, r := range t.routes {
		if matchPath(r.Path, path) {
			r.Path = path
			return r, nil
		}
	}
	return types.NavigationTarget{}, fmt.Errorf("%w: %s", types.ErrRouteNotFound, path)
}

// Resolve accepts either a route name or a path starting with "/".
func (t *Table) Resolve(dest string) (types.NavigationTarget, error) {
	if strings.HasPrefix(dest, "/") {
		return t.Match(dest)
	}
	return t.Lookup(dest)
}

// matchPath compares slash-separated segments; ":name" segments match any
// non-empty segment.
func matchPath(pattern, path string) bool {
	ps := splitPath(pattern)
	xs := splitPath(path)
	if len(ps) != len(xs) {
		return false
	}
	for i, p := range ps {
		if strings.HasPrefix(p, ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if p != xs[i] {
			return false
		}
	}
	return true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
