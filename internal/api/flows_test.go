package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/bazaar/internal/notify"
	"github.com/mesh-intelligence/bazaar/internal/pipeline"
	"github.com/mesh-intelligence/bazaar/internal/session"
	"github.com/mesh-intelligence/bazaar/internal/storage"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// newScriptedClient points a client at handler with an empty token store.
func newScriptedClient(t *testing.T, handler http.Handler) (*Client, *session.Store, *notify.Recorder) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.New(storage.NewMemory())
	rec := &notify.Recorder{}
	cfg := pipeline.DefaultConfig()
	cfg.BaseAddress = srv.URL + "/api"
	p, err := pipeline.New(cfg, store, rec)
	require.NoError(t, err)
	return New(p, store), store, rec
}

func TestSignedOutSelfInfoSurfacesServerMessage(t *testing.T) {
	var credential []string
	r := mux.NewRouter()
	r.HandleFunc("/api/user", func(w http.ResponseWriter, req *http.Request) {
		credential = req.Header.Values("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"unauthorized"}`)
	}).Methods(http.MethodGet)

	c, store, rec := newScriptedClient(t, r)
	ctx := context.Background()
	require.False(t, store.IsAuthenticated(ctx))

	_, err := c.GetSelfInfo(ctx)

	var se *types.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Status)
	assert.Equal(t, "unauthorized", se.UserMessage())
	assert.Empty(t, credential)
	assert.Equal(t, []string{"unauthorized"}, rec.Messages())
	assert.Nil(t, store.UserInfo(ctx))
}

func TestSignedInOrdersCarryTokenVerbatim(t *testing.T) {
	var credential string
	r := mux.NewRouter()
	r.HandleFunc("/api/get_orders", func(w http.ResponseWriter, req *http.Request) {
		credential = req.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"orders":[]}`)
	}).Methods(http.MethodGet)

	c, store, rec := newScriptedClient(t, r)
	ctx := context.Background()
	require.NoError(t, store.SetToken(ctx, "abc123"))

	orders, err := c.GetOrders(ctx)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
	assert.Equal(t, "abc123", credential)
	assert.Empty(t, rec.Messages())
}
