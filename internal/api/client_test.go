package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/bazaar/internal/apitest"
	"github.com/mesh-intelligence/bazaar/internal/notify"
	"github.com/mesh-intelligence/bazaar/internal/pipeline"
	"github.com/mesh-intelligence/bazaar/internal/session"
	"github.com/mesh-intelligence/bazaar/internal/storage"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

type fixture struct {
	server   *apitest.Server
	client   *Client
	session  *session.Store
	notified *notify.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := apitest.New(t)
	store := session.New(storage.NewMemory())
	rec := &notify.Recorder{}

	cfg := pipeline.DefaultConfig()
	cfg.BaseAddress = srv.BaseAddress()
	p, err := pipeline.New(cfg, store, rec)
	require.NoError(t, err)

	return &fixture{server: srv, client: New(p, store), session: store, notified: rec}
}

// signIn registers name on the server and logs the client in.
func (f *fixture) signIn(t *testing.T, name string) {
	t.Helper()
	f.server.AddUser(name, "pw-"+name)
	_, err := f.client.Login(context.Background(), types.Credentials{Username: name, Password: "pw-" + name})
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores token and later calls carry it", func(t *testing.T) {
		f := newFixture(t)
		f.server.AddUser("ann", "secret")

		res, err := f.client.Login(ctx, types.Credentials{Username: "ann", Password: "secret"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, res.Token, f.session.Token(ctx))

		_, err = f.client.GetOrders(ctx)
		require.NoError(t, err)
		assert.Equal(t, res.Token, f.server.LastCall().Authorization)
		assert.Empty(t, f.notified.Messages())
	})

	t.Run("wrong password notifies and leaves session empty", func(t *testing.T) {
		f := newFixture(t)
		f.server.AddUser("ann", "secret")

		_, err := f.client.Login(ctx, types.Credentials{Username: "ann", Password: "nope"})
		require.Error(t, err)
		assert.True(t, types.IsStatus(err, http.StatusUnauthorized))
		assert.False(t, f.session.IsAuthenticated(ctx))
		assert.Equal(t, []string{apitest.MsgBadCredentials}, f.notified.Messages())
		assert.Empty(t, f.server.LastCall().Authorization)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ack, err := f.client.Register(ctx, types.Credentials{Username: "bob", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "registered", ack.Message)
	assert.False(t, f.session.IsAuthenticated(ctx))

	_, err = f.client.Register(ctx, types.Credentials{Username: "bob", Password: "pw"})
	assert.True(t, types.IsStatus(err, http.StatusConflict))
	assert.Equal(t, []string{apitest.MsgUserExists}, f.notified.Messages())
}

func TestSelfInfoAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t, "ann")

	_, err := f.client.UpdateUserInfo(ctx, types.UserUpdate{Nickname: "Annie"})
	require.NoError(t, err)

	info, err := f.client.GetSelfInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Annie", info.Name())
	assert.Equal(t, "Annie", f.session.UserInfo(ctx).Name())

	other, err := f.client.GetUserInfo(ctx, "ann")
	require.NoError(t, err)
	assert.Equal(t, "ann", other["user_name"])

	require.NoError(t, f.client.Logout(ctx))
	assert.False(t, f.session.IsAuthenticated(ctx))
	assert.Nil(t, f.session.UserInfo(ctx))
	assert.Equal(t, "/api/logout", f.server.LastCall().Path)
}

func TestLogoutClearsLocalStateWhenServerRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.session.SetToken(ctx, "stale-token"))

	require.NoError(t, f.client.Logout(ctx))
	assert.False(t, f.session.IsAuthenticated(ctx))
}

func TestUnauthenticatedCallHasNoCredential(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.client.GetOrders(ctx)
	require.Error(t, err)
	assert.True(t, types.IsStatus(err, http.StatusForbidden))
	assert.Empty(t, f.server.LastCall().Authorization)
	assert.Equal(t, []string{apitest.MsgNotLoggedIn}, f.notified.Messages())
}

func TestProductLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.server.AddUser("seller", "pw")
	f.signIn(t, "buyer")

	catID := f.server.AddCategory("bikes")
	productID := f.server.AddProduct("seller", "red bike", 120)

	cats, err := f.client.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, catID, cats[0].ID)

	created, err := f.client.CreateProduct(ctx, types.ProductInput{Name: "blue lamp", Price: 15, CategoryID: catID})
	require.NoError(t, err)
	require.NotEmpty(t, created.ProductID)

	products, err := f.client.GetProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	found, err := f.client.SearchProducts(ctx, "BIKE")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, productID, found[0].ID)

	_, err = f.client.ModifyProduct(ctx, types.ProductInput{ID: created.ProductID, Name: "green lamp", Price: 18})
	require.NoError(t, err)
	detail, err := f.client.GetProductDetail(ctx, created.ProductID.String())
	require.NoError(t, err)
	assert.Equal(t, "green lamp", detail.Name)
	assert.Equal(t, types.ID("buyer"), detail.SellerID)

	_, err = f.client.ModifyProduct(ctx, types.ProductInput{ID: productID, Name: "stolen"})
	assert.True(t, types.IsStatus(err, http.StatusForbidden))

	bought, err := f.client.BuyProduct(ctx, productID.String())
	require.NoError(t, err)
	assert.NotEmpty(t, bought.OrderID)

	_, err = f.client.BuyProduct(ctx, productID.String())
	assert.True(t, types.IsStatus(err, http.StatusConflict))

	orders, err := f.client.GetOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "red bike", orders[0].ProductTitle)
	assert.Equal(t, bought.OrderID, orders[0].ID)

	_, err = f.client.DeleteProduct(ctx, created.ProductID.String())
	require.NoError(t, err)
	_, err = f.client.GetProductDetail(ctx, created.ProductID.String())
	assert.True(t, types.IsStatus(err, http.StatusNotFound))
}

func TestModifyProductRequiresID(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.ModifyProduct(context.Background(), types.ProductInput{Name: "x"})
	assert.ErrorIs(t, err, ErrProductIDRequired)
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.signIn(t, "ann")
	productID := f.server.AddProduct("ann", "lamp", 10).String()

	created, err := f.client.CreateFavoriteFolder(ctx, "wishlist")
	require.NoError(t, err)
	folderID := created.ID.String()
	require.NotEmpty(t, folderID)

	_, err = f.client.ModifyFavoriteFolder(ctx, folderID, "gifts")
	require.NoError(t, err)

	folders, err := f.client.GetFavoriteFolders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "gifts", folders[0].Name)

	_, err = f.client.FavoriteProduct(ctx, folderID, productID)
	require.NoError(t, err)

	items, err := f.client.GetFavorites(ctx, folderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "lamp", items[0].Name)

	_, err = f.client.DeleteFavorite(ctx, folderID, productID)
	require.NoError(t, err)
	items, err = f.client.GetFavorites(ctx, folderID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = f.client.DeleteFavoriteFolder(ctx, folderID)
	require.NoError(t, err)
	_, err = f.client.GetFavorites(ctx, folderID)
	assert.True(t, types.IsStatus(err, http.StatusNotFound))
}

func TestCommentsAndMessages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.server.AddUser("bob", "pw")
	f.signIn(t, "ann")
	productID := f.server.AddProduct("bob", "lamp", 10)

	_, err := f.client.PublishComment(ctx, types.CommentInput{ProductID: productID, Content: "bright"})
	require.NoError(t, err)

	comments, err := f.client.GetComments(ctx, productID.String())
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, 5, comments[0].Rating)

	_, err = f.client.DeleteComment(ctx, comments[0].ID.String())
	require.NoError(t, err)

	_, err = f.client.SendMsg(ctx, types.MessageInput{ReceiverID: "bob", Content: "still available?"})
	require.NoError(t, err)

	msgs, err := f.client.GetMsgs(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsMe)
	assert.Equal(t, types.ID("bob"), msgs[0].ReceiverID)
}

func TestUploadFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	up, err := f.client.UploadFile(ctx, "photo.png", strings.NewReader("PNG"), "product")
	require.NoError(t, err)
	assert.Contains(t, up.URL, "/static/uploads/product/")
	assert.True(t, strings.HasSuffix(up.URL, ".png"))

	_, err = f.client.UploadFile(ctx, "notes.txt", strings.NewReader("x"), "")
	assert.True(t, types.IsStatus(err, http.StatusBadRequest))
	assert.Equal(t, []string{apitest.MsgUnsupportedImage}, f.notified.Messages())
}

func TestMissingPathParam(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.GetProductDetail(context.Background(), "")
	assert.ErrorIs(t, err, types.ErrMissingParam)
	assert.Empty(t, f.server.Calls(), "nothing is sent for an incomplete request")
}

func TestUnwrapList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "envelope", raw: `{"products":[{"id":"1"},{"id":2}],"message":"ok"}`, want: 2},
		{name: "bare array", raw: `[{"id":"1"}]`, want: 1},
		{name: "missing key", raw: `{"message":"ok"}`, want: 0},
		{name: "null list", raw: `{"products":null}`, want: 0},
		{name: "not json", raw: `oops`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := unwrapList[types.Product]([]byte(tt.raw), "products")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}
