package pipeline

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mesh-intelligence/bazaar/pkg/types"
)

func TestCredentialStage(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		scheme string
		want   string
	}{
		{name: "raw token", token: "abc123", want: "abc123"},
		{name: "bearer scheme", token: "abc123", scheme: "Bearer ", want: "Bearer abc123"},
		{name: "no token", token: "", scheme: "Bearer ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := Credential(TokenFunc(func(context.Context) string { return tt.token }), "Authorization", tt.scheme)
			req, err := http.NewRequest(http.MethodGet, "http://example.test/api/user", nil)
			require.NoError(t, err)

			out, err := stage.Apply(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Header.Get("Authorization"))
		})
	}
}

func TestRequestIDStageKeepsCallerValue(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.test/", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "mine")

	out, err := RequestID().Apply(req)
	require.NoError(t, err)
	assert.Equal(t, "mine", out.Header.Get(RequestIDHeader))
}

func TestTraceContextStage(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "parent")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.test/", nil)
	require.NoError(t, err)

	out, err := TraceContext(propagation.TraceContext{}).Apply(req)
	require.NoError(t, err)
	assert.Contains(t, out.Header.Get("traceparent"), span.SpanContext().TraceID().String())
}

func TestUnwrapOrFailStage(t *testing.T) {
	stage := UnwrapOrFail()

	t.Run("2xx payload", func(t *testing.T) {
		res, err := stage.Apply(&Result{Status: 201, Body: []byte(` {"id":"7"} `)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"7"}`, string(res.Payload))
	})

	t.Run("transport error wrapped once", func(t *testing.T) {
		cause := errors.New("dial tcp: refused")
		_, err := stage.Apply(&Result{Err: cause})
		var te *types.TransportError
		require.ErrorAs(t, err, &te)
		assert.ErrorIs(t, err, cause)

		_, again := stage.Apply(&Result{Err: te})
		assert.Same(t, te, again)
	})

	t.Run("non-2xx", func(t *testing.T) {
		_, err := stage.Apply(&Result{Status: 404, Body: []byte(`{"message":"product not found"}`)})
		var se *types.ServerError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "product not found", se.Message)
	})
}

func TestNotifyStage(t *testing.T) {
	t.Run("failure is reported and passed on", func(t *testing.T) {
		n := &mockNotifier{}
		n.On("Notify", mock.Anything, "nope").Once()
		cause := &types.ServerError{Status: 400, Message: "nope"}

		_, err := Notify(n).Apply(&Result{Err: cause})
		assert.Same(t, cause, err)
		n.AssertExpectations(t)
	})

	t.Run("success is silent", func(t *testing.T) {
		n := &mockNotifier{}
		_, err := Notify(n).Apply(&Result{Status: 200})
		assert.NoError(t, err)
		n.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("nil notifier", func(t *testing.T) {
		_, err := Notify(nil).Apply(&Result{Err: errors.New("x")})
		assert.Error(t, err)
	})
}
