// Package api exposes one typed method per marketplace endpoint.
//
// Every call goes through the request pipeline, so failures arrive as
// *types.TransportError or *types.ServerError and have already been shown
// to the user. Methods that change who is signed in also update the
// session store.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/bazaar/internal/catalog"
	"github.com/mesh-intelligence/bazaar/internal/logging"
	"github.com/mesh-intelligence/bazaar/internal/pipeline"
	"github.com/mesh-intelligence/bazaar/internal/session"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// ErrNoToken is returned when a login succeeds without issuing a token.
var ErrNoToken = errors.New("login response carried no token")

// Doer sends one request. *pipeline.Pipeline implements it.
type Doer interface {
	Do(ctx context.Context, r pipeline.Request) (json.RawMessage, error)
}

// Client calls the marketplace API.
type Client struct {
	doer    Doer
	catalog *catalog.Catalog
	session *session.Store
	log     logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithCatalog replaces the default endpoint catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(cl *Client) {
		cl.catalog = c
	}
}

// WithLogger sets the client logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(cl *Client) {
		cl.log = log
	}
}

// New returns a Client sending through doer and keeping sign-in state in
// store.
func New(doer Doer, store *session.Store, opts ...Option) *Client {
	c := &Client{
		doer:    doer,
		catalog: catalog.Default(),
		session: store,
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the store the client updates.
func (c *Client) Session() *session.Store {
	return c.session
}

// call builds and sends the named endpoint, decoding the payload into out
// when out is non-nil.
func (c *Client) call(ctx context.Context, name string, params catalog.Params, body, out any) error {
	req, err := c.catalog.Build(name, params, body)
	if err != nil {
		return err
	}
	raw, err := c.doer.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", name, err)
	}
	return nil
}

// callList sends the named endpoint and extracts the list stored under key.
// A bare JSON array is accepted too.
func callList[T any](ctx context.Context, c *Client, name string, params catalog.Params, key string) ([]T, error) {
	var raw json.RawMessage
	if err := c.call(ctx, name, params, nil, &raw); err != nil {
		return nil, err
	}
	list, err := unwrapList[T](raw, key)
	if err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", name, err)
	}
	return list, nil
}

func unwrapList[T any](raw json.RawMessage, key string) ([]T, error) {
	var list []T
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	inner, ok := envelope[key]
	if !ok || string(inner) == "null" {
		return []T{}, nil
	}
	if err := json.Unmarshal(inner, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func idParams(pairs ...string) catalog.Params {
	p := make(catalog.Params, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		p[pairs[i]] = pairs[i+1]
	}
	return p
}

// Login exchanges credentials for a token and stores it.
func (c *Client) Login(ctx context.Context, creds types.Credentials) (types.LoginResult, error) {
	var res types.LoginResult
	if err := c.call(ctx, catalog.Login, nil, creds, &res); err != nil {
		return types.LoginResult{}, err
	}
	if res.Token == "" {
		return types.LoginResult{}, ErrNoToken
	}
	if err := c.session.SetToken(ctx, res.Token); err != nil {
		return types.LoginResult{}, err
	}
	c.log.WithField("user", creds.Username).Info("signed in")
	return res, nil
}

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, creds types.Credentials) (types.Ack, error) {
	var ack types.Ack
	err := c.call(ctx, catalog.Register, nil, creds, &ack)
	return ack, err
}

// Logout tells the server to drop the token and then clears the local
// session. The local session is cleared even when the server call fails;
// only a local failure is returned.
func (c *Client) Logout(ctx context.Context) error {
	if c.session.IsAuthenticated(ctx) {
		if err := c.call(ctx, catalog.Logout, nil, nil, nil); err != nil {
			c.log.WithError(err).Debug("server logout failed; clearing local session anyway")
		}
	}
	return c.session.Logout(ctx)
}

// GetSelfInfo fetches the signed-in user's profile and stores it.
func (c *Client) GetSelfInfo(ctx context.Context) (types.UserInfo, error) {
	var info types.UserInfo
	if err := c.call(ctx, catalog.GetSelfInfo, nil, nil, &info); err != nil {
		return nil, err
	}
	if err := c.session.SetUserInfo(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

// GetUserInfo fetches another user's public profile.
func (c *Client) GetUserInfo(ctx context.Context, id string) (types.UserInfo, error) {
	var info types.UserInfo
	err := c.call(ctx, catalog.GetUserInfo, idParams("id", id), nil, &info)
	return info, err
}

// UpdateUserInfo overwrites the signed-in user's profile.
func (c *Client) UpdateUserInfo(ctx context.Context, update types.UserUpdate) (types.Ack, error) {
	var ack types.Ack
	err := c.call(ctx, catalog.UpdateUserInfo, nil, update, &ack)
	return ack, err
}

// UploadFile uploads an image and returns its public URL. kind is sent as
// the "type" form field; empty lets the server pick its default.
func (c *Client) UploadFile(ctx context.Context, fileName string, content io.Reader, kind string) (types.Upload, error) {
	form := &pipeline.MultipartForm{
		FieldName: "file",
		FileName:  fileName,
		Content:   content,
	}
	if kind != "" {
		form.Fields = map[string]string{"type": kind}
	}
	var up types.Upload
	err := c.call(ctx, catalog.UploadFile, nil, form, &up)
	return up, err
}
