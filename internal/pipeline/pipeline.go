// Package pipeline dispatches marketplace API calls through ordered, named
// stages.
//
// Outbound stages shape the request: request id, credential, trace context.
// Inbound stages shape the outcome: unwrap-or-fail, then notify. Each call
// makes exactly one attempt.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/mesh-intelligence/bazaar/internal/logging"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

const tracerName = "github.com/mesh-intelligence/bazaar/internal/pipeline"

// Pipeline sends requests to the marketplace API.
type Pipeline struct {
	config   Config
	client   *http.Client
	outbound []OutboundStage
	inbound  []InboundStage
	log      logrus.FieldLogger
	tracer   trace.Tracer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHTTPClient replaces the HTTP client. Its Timeout is overwritten with
// the configured timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) {
		clone := *c
		p.client = &clone
	}
}

// WithLogger sets the logger for per-call debug lines.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithTracerProvider selects where call spans go. Defaults to the global
// provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Pipeline) {
		p.tracer = tp.Tracer(tracerName)
	}
}

// WithOutboundStages appends stages after the standard outbound stages.
func WithOutboundStages(stages ...OutboundStage) Option {
	return func(p *Pipeline) {
		p.outbound = append(p.outbound, stages...)
	}
}

// WithInboundStages appends stages after the standard inbound stages.
func WithInboundStages(stages ...InboundStage) Option {
	return func(p *Pipeline) {
		p.inbound = append(p.inbound, stages...)
	}
}

// New builds a pipeline with the standard stages. tokens is read at every
// dispatch; notifier receives the message of every failed call.
func New(cfg Config, tokens TokenSource, notifier types.Notifier, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	if tokens == nil {
		tokens = TokenFunc(func(context.Context) string { return "" })
	}

	p := &Pipeline{
		config: cfg,
		client: &http.Client{},
		outbound: []OutboundStage{
			RequestID(),
			Credential(tokens, cfg.CredentialHeaderName, cfg.CredentialScheme),
			TraceContext(nil),
		},
		inbound: []InboundStage{
			UnwrapOrFail(),
			Notify(notifier),
		},
		log:    logging.Discard(),
		tracer: otel.GetTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.client.Timeout = cfg.Timeout
	return p, nil
}

// Config returns the pipeline's settings.
func (p *Pipeline) Config() Config {
	return p.config
}

// OutboundStages returns the outbound stage names in order.
func (p *Pipeline) OutboundStages() []string {
	names := make([]string, len(p.outbound))
	for i, s := range p.outbound {
		names[i] = s.Name
	}
	return names
}

// InboundStages returns the inbound stage names in order.
func (p *Pipeline) InboundStages() []string {
	names := make([]string, len(p.inbound))
	for i, s := range p.inbound {
		names[i] = s.Name
	}
	return names
}

// Do sends r and returns the unwrapped payload of a 2xx response. Failures
// are *types.TransportError or *types.ServerError and have already been
// reported to the notifier.
func (p *Pipeline) Do(ctx context.Context, r Request) (json.RawMessage, error) {
	name := r.Endpoint
	if name == "" {
		name = r.Path
	}
	ctx, span := p.tracer.Start(ctx, fmt.Sprintf("bazaar %s %s", r.Method, name),
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := newHTTPRequest(ctx, p.config.BaseAddress, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	for _, stage := range p.outbound {
		req, err = stage.Apply(req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, stage.Name)
			return nil, fmt.Errorf("%s: stage %s: %w", name, stage.Name, err)
		}
	}
	span.SetAttributes(
		semconv.HTTPRequestMethodKey.String(req.Method),
		semconv.URLFull(req.URL.Redacted()),
		attribute.String("bazaar.endpoint", name),
	)

	start := time.Now()
	result := p.dispatch(req)
	elapsed := time.Since(start)

	for _, stage := range p.inbound {
		next, err := stage.Apply(result)
		if next != nil {
			result = next
		}
		result.Err = err
	}

	fields := logrus.Fields{
		"endpoint":   name,
		"method":     req.Method,
		"path":       req.URL.Path,
		"status":     result.Status,
		"duration":   elapsed,
		"request_id": req.Header.Get(RequestIDHeader),
	}
	if result.Status != 0 {
		span.SetAttributes(semconv.HTTPResponseStatusCode(result.Status))
	}
	if result.Err != nil {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, types.UserMessage(result.Err))
		p.log.WithFields(fields).WithError(result.Err).Debug("api call failed")
		return nil, result.Err
	}
	p.log.WithFields(fields).Debug("api call")
	return result.Payload, nil
}

// dispatch sends req once and reads the whole response body.
func (p *Pipeline) dispatch(req *http.Request) *Result {
	result := &Result{Request: req}

	resp, err := p.client.Do(req)
	if err != nil {
		result.Err = &types.TransportError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
		return result
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Err = &types.TransportError{Method: req.Method, URL: req.URL.Redacted(), Err: fmt.Errorf("read body: %w", err)}
		return result
	}
	result.Status = resp.StatusCode
	result.Header = resp.Header
	result.Body = body
	return result
}
