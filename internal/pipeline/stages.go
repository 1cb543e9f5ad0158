package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// Stage names.
const (
	StageRequestID    = "request-id"
	StageCredential   = "credential"
	StageTraceContext = "trace-context"
	StageUnwrapOrFail = "unwrap-or-fail"
	StageNotify       = "notify"
)

// RequestIDHeader carries the per-call identifier.
const RequestIDHeader = "X-Request-ID"

// OutboundStage transforms a request before dispatch. An error aborts the
// call before anything is sent.
type OutboundStage struct {
	Name  string
	Apply func(*http.Request) (*http.Request, error)
}

// InboundStage inspects the outcome of a dispatched call. The error it
// returns becomes the call's failure and is visible to later stages as
// Result.Err.
type InboundStage struct {
	Name  string
	Apply func(*Result) (*Result, error)
}

// Result is the outcome of one call as it moves through the inbound stages.
type Result struct {
	Request *http.Request
	// Status is zero when no response arrived.
	Status int
	Header http.Header
	Body   []byte
	// Payload is the unwrapped body of a successful call.
	Payload json.RawMessage
	// Err is the current failure. Before the first inbound stage it holds
	// the transport error, if any.
	Err error
}

// Context returns the context of the originating request.
func (r *Result) Context() context.Context {
	if r.Request == nil {
		return context.Background()
	}
	return r.Request.Context()
}

// TokenSource supplies the credential attached to each call.
type TokenSource interface {
	Token(ctx context.Context) string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) string

// Token calls f.
func (f TokenFunc) Token(ctx context.Context) string { return f(ctx) }

// RequestID tags each call with a fresh UUIDv7 unless the caller set one.
func RequestID() OutboundStage {
	return OutboundStage{
		Name: StageRequestID,
		Apply: func(req *http.Request) (*http.Request, error) {
			if req.Header.Get(RequestIDHeader) != "" {
				return req, nil
			}
			id, err := uuid.NewV7()
			if err != nil {
				return nil, fmt.Errorf("generate request id: %w", err)
			}
			req.Header.Set(RequestIDHeader, id.String())
			return req, nil
		},
	}
}

// Credential attaches the token read from tokens at dispatch time. The
// header value is scheme followed by the token. No header is set while the
// token is empty.
func Credential(tokens TokenSource, header, scheme string) OutboundStage {
	return OutboundStage{
		Name: StageCredential,
		Apply: func(req *http.Request) (*http.Request, error) {
			token := tokens.Token(req.Context())
			if token == "" {
				return req, nil
			}
			req.Header.Set(header, scheme+token)
			return req, nil
		},
	}
}

// TraceContext injects the span context of the request using the global
// propagator, or p when given.
func TraceContext(p propagation.TextMapPropagator) OutboundStage {
	return OutboundStage{
		Name: StageTraceContext,
		Apply: func(req *http.Request) (*http.Request, error) {
			prop := p
			if prop == nil {
				prop = otel.GetTextMapPropagator()
			}
			prop.Inject(req.Context(), propagation.HeaderCarrier(req.Header))
			return req, nil
		},
	}
}

// UnwrapOrFail turns a raw outcome into either a payload or a typed error.
// Transport failures become *types.TransportError and non-2xx responses
// become *types.ServerError carrying the body's "message" field.
func UnwrapOrFail() InboundStage {
	return InboundStage{
		Name: StageUnwrapOrFail,
		Apply: func(r *Result) (*Result, error) {
			if r.Err != nil {
				var te *types.TransportError
				if errors.As(r.Err, &te) {
					return r, r.Err
				}
				return r, &types.TransportError{Method: requestMethod(r), URL: requestURL(r), Err: r.Err}
			}

			if r.Status < 200 || r.Status > 299 {
				return r, &types.ServerError{
					Status:  r.Status,
					Message: messageOf(r.Body),
					Body:    r.Body,
				}
			}

			body := bytes.TrimSpace(r.Body)
			if len(body) == 0 {
				r.Payload = json.RawMessage("null")
				return r, nil
			}
			r.Payload = json.RawMessage(body)
			return r, nil
		},
	}
}

// Notify reports the user-facing message of a failed call to n and passes
// the failure on unchanged.
func Notify(n types.Notifier) InboundStage {
	return InboundStage{
		Name: StageNotify,
		Apply: func(r *Result) (*Result, error) {
			if r.Err != nil && n != nil {
				n.Notify(r.Context(), types.UserMessage(r.Err))
			}
			return r, r.Err
		},
	}
}

// messageOf returns the "message" string of a JSON error body, or empty.
func messageOf(body []byte) string {
	var envelope struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if s, ok := envelope.Message.(string); ok {
		return s
	}
	return ""
}

func requestMethod(r *Result) string {
	if r.Request == nil {
		return ""
	}
	return r.Request.Method
}

func requestURL(r *Result) string {
	if r.Request == nil || r.Request.URL == nil {
		return ""
	}
	return r.Request.URL.Redacted()
}
