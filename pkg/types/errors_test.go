package types

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "server error with message is verbatim",
			err:  &ServerError{Status: http.StatusUnauthorized, Message: "unauthorized"},
			want: "unauthorized",
		},
		{
			name: "server error without message falls back",
			err:  &ServerError{Status: http.StatusInternalServerError},
			want: DefaultFailureMessage,
		},
		{
			name: "transport error uses generic message",
			err:  &TransportError{Method: "GET", URL: "http://x/api/user", Err: context.DeadlineExceeded},
			want: DefaultFailureMessage,
		},
		{
			name: "wrapped server error is found",
			err:  fmt.Errorf("get orders: %w", &ServerError{Status: 409, Message: "sold out"}),
			want: "sold out",
		},
		{
			name: "plain error falls back",
			err:  errors.New("boom"),
			want: DefaultFailureMessage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportErrorTimeout(t *testing.T) {
	te := &TransportError{Method: "GET", URL: "u", Err: fmt.Errorf("do: %w", context.DeadlineExceeded)}
	if !te.Timeout() {
		t.Error("expected deadline exceeded to count as timeout")
	}
	if !errors.Is(te, context.DeadlineExceeded) {
		t.Error("expected Unwrap to expose the cause")
	}

	te = &TransportError{Method: "GET", URL: "u", Err: errors.New("connection refused")}
	if te.Timeout() {
		t.Error("connection refused is not a timeout")
	}
}

func TestIsStatus(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &ServerError{Status: http.StatusNotFound})
	if !IsStatus(err, http.StatusNotFound) {
		t.Error("expected 404 match")
	}
	if IsStatus(err, http.StatusConflict) {
		t.Error("unexpected 409 match")
	}
	if IsStatus(errors.New("x"), http.StatusNotFound) {
		t.Error("plain error must not match")
	}
}
