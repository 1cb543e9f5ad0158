// Package bazaar wires a ready-to-use marketplace client: durable token
// storage, the session store, the request pipeline, typed endpoint methods,
// and route guarding.
package bazaar

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/mesh-intelligence/bazaar/internal/api"
	"github.com/mesh-intelligence/bazaar/internal/logging"
	"github.com/mesh-intelligence/bazaar/internal/notify"
	"github.com/mesh-intelligence/bazaar/internal/pipeline"
	"github.com/mesh-intelligence/bazaar/internal/route"
	"github.com/mesh-intelligence/bazaar/internal/session"
	"github.com/mesh-intelligence/bazaar/internal/storage"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// Version is the release version of the bazaar client.
const Version = "0.1.0"

// Options carries the optional collaborators of Open. Zero values select
// the defaults.
type Options struct {
	// Logger defaults to a discarding logger.
	Logger logrus.FieldLogger

	// Notifier receives the message of every failed call. Messages are
	// also logged at debug level. Defaults to a notifier that logs at
	// warn level.
	Notifier types.Notifier

	// Storage replaces the backend named in the config. Open does not
	// close a caller-provided storage.
	Storage types.Storage

	HTTPClient     *http.Client
	TracerProvider trace.TracerProvider
}

// Client is a wired marketplace client.
type Client struct {
	*api.Client

	Pipeline  *pipeline.Pipeline
	Session   *session.Store
	Guard     *route.Guard
	Navigator *route.Navigator

	storage     types.Storage
	ownsStorage bool
}

// Open validates cfg and builds a Client. The caller must Close it.
func Open(ctx context.Context, cfg types.Config, opts Options) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	var notifier types.Notifier = notify.NewLog(log)
	if opts.Notifier != nil {
		notifier = notify.Multi{opts.Notifier, notify.NewDebugLog(log)}
	}

	store := opts.Storage
	owns := false
	if store == nil {
		var err error
		store, err = storage.Open(ctx, cfg.Profile, cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		owns = true
	}

	sess := session.New(store, session.WithLogger(log))

	pipeOpts := []pipeline.Option{pipeline.WithLogger(log)}
	if opts.HTTPClient != nil {
		pipeOpts = append(pipeOpts, pipeline.WithHTTPClient(opts.HTTPClient))
	}
	if opts.TracerProvider != nil {
		pipeOpts = append(pipeOpts, pipeline.WithTracerProvider(opts.TracerProvider))
	}
	p, err := pipeline.New(pipeline.ConfigFrom(cfg), sess, notifier, pipeOpts...)
	if err != nil {
		if owns {
			err = errors.Join(err, store.Close())
		}
		return nil, err
	}

	guard := route.NewGuard(sess)
	return &Client{
		Client:      api.New(p, sess, api.WithLogger(log)),
		Pipeline:    p,
		Session:     sess,
		Guard:       guard,
		Navigator:   route.NewNavigator(route.DefaultTable(), guard, log),
		storage:     store,
		ownsStorage: owns,
	}, nil
}

// Close releases the storage opened by Open.
func (c *Client) Close() error {
	if !c.ownsStorage {
		return nil
	}
	return c.storage.Close()
}
