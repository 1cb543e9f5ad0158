package route

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/bazaar/internal/session"
	"github.com/mesh-intelligence/bazaar/internal/storage"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

type authFlag bool

func (a authFlag) IsAuthenticated(context.Context) bool { return bool(a) }

func TestGuardEvaluate(t *testing.T) {
	tests := []struct {
		name          string
		requiresAuth  bool
		guestOnly     bool
		authenticated bool
		want          types.Verdict
	}{
		{name: "protected, signed out", requiresAuth: true, want: types.RedirectTo(types.RouteLogin)},
		{name: "protected, signed in", requiresAuth: true, authenticated: true, want: types.Allow()},
		{name: "guest-only, signed out", guestOnly: true, want: types.Allow()},
		{name: "guest-only, signed in", guestOnly: true, authenticated: true, want: types.RedirectTo(types.RouteHome)},
		{name: "public, signed out", want: types.Allow()},
		{name: "public, signed in", authenticated: true, want: types.Allow()},
		{name: "both flags, signed out", requiresAuth: true, guestOnly: true, want: types.RedirectTo(types.RouteLogin)},
		{name: "both flags, signed in", requiresAuth: true, guestOnly: true, authenticated: true, want: types.RedirectTo(types.RouteHome)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGuard(authFlag(tt.authenticated))
			got := g.Evaluate(context.Background(), types.NavigationTarget{
				Name:         "x",
				RequiresAuth: tt.requiresAuth,
				GuestOnly:    tt.guestOnly,
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTable(t *testing.T) {
	tests := []struct {
		name    string
		routes  []types.NavigationTarget
		wantErr error
	}{
		{name: "default", routes: DefaultRoutes()},
		{
			name:    "conflicting flags",
			routes:  []types.NavigationTarget{{Name: "odd", Path: "/odd", RequiresAuth: true, GuestOnly: true}},
			wantErr: types.ErrRouteFlagsConflict,
		},
		{
			name:    "duplicate",
			routes:  []types.NavigationTarget{{Name: "a", Path: "/a"}, {Name: "a", Path: "/b"}},
			wantErr: types.ErrDuplicateRoute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.routes...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTableResolve(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		dest     string
		wantName string
		wantPath string
		wantErr  error
	}{
		{dest: "home", wantName: types.RouteHome, wantPath: "/"},
		{dest: "/", wantName: types.RouteHome, wantPath: "/"},
		{dest: "/user", wantName: User, wantPath: "/user"},
		{dest: "/user/", wantName: User, wantPath: "/user/"},
		{dest: "/product/42", wantName: Product, wantPath: "/product/42"},
		{dest: "product", wantName: Product, wantPath: "/product/:id"},
		{dest: "/login", wantName: types.RouteLogin, wantPath: "/login"},
		{dest: "/product", wantErr: types.ErrRouteNotFound},
		{dest: "/product/1/extra", wantErr: types.ErrRouteNotFound},
		{dest: "nowhere", wantErr: types.ErrRouteNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			got, err := table.Resolve(tt.dest)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantPath, got.Path)
		})
	}
}

func TestDefaultRoutesAccess(t *testing.T) {
	for _, r := range DefaultRoutes() {
		guest := r.Name == types.RouteLogin || r.Name == Register
		assert.Equal(t, guest, r.GuestOnly, r.Name)
		assert.Equal(t, !guest, r.RequiresAuth, r.Name)
	}
}

// Scenario C: a signed-out user is sent to login, signs in, and is then
// kept away from login.
func TestNavigator_SignInFlow(t *testing.T) {
	ctx := context.Background()
	store := session.New(storage.NewMemory())
	nav := NewNavigator(DefaultTable(), NewGuard(store), nil)

	got, err := nav.Navigate(ctx, "/favorite")
	require.NoError(t, err)
	assert.Equal(t, types.RouteLogin, got.Name)
	assert.Equal(t, types.RouteLogin, nav.Current().Name)

	require.NoError(t, store.SetToken(ctx, "abc123"))

	got, err = nav.Navigate(ctx, "login")
	require.NoError(t, err)
	assert.Equal(t, types.RouteHome, got.Name, "signed-in users are sent home, not back to favorite")

	got, err = nav.Navigate(ctx, "/favorite")
	require.NoError(t, err)
	assert.Equal(t, Favorite, got.Name)

	require.NoError(t, store.Logout(ctx))
	got, err = nav.Navigate(ctx, "/product/9")
	require.NoError(t, err)
	assert.Equal(t, types.RouteLogin, got.Name)
}

func TestNavigator_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown destination", func(t *testing.T) {
		nav := NewNavigator(DefaultTable(), NewGuard(authFlag(false)), nil)
		_, err := nav.Navigate(ctx, "/nowhere")
		assert.ErrorIs(t, err, types.ErrRouteNotFound)
		assert.Empty(t, nav.Current().Name)
	})

	t.Run("missing login route", func(t *testing.T) {
		table, err := NewTable(types.NavigationTarget{Name: "secret", Path: "/secret", RequiresAuth: true})
		require.NoError(t, err)
		nav := NewNavigator(table, NewGuard(authFlag(false)), nil)
		_, err = nav.Navigate(ctx, "secret")
		assert.ErrorIs(t, err, types.ErrRouteNotFound)
	})

	t.Run("login itself protected", func(t *testing.T) {
		table, err := NewTable(
			types.NavigationTarget{Name: "secret", Path: "/secret", RequiresAuth: true},
			types.NavigationTarget{Name: types.RouteLogin, Path: "/login", RequiresAuth: true},
		)
		require.NoError(t, err)
		nav := NewNavigator(table, NewGuard(authFlag(false)), nil)
		_, err = nav.Navigate(ctx, "secret")
		assert.ErrorIs(t, err, types.ErrRedirectLoop)
	})
}
