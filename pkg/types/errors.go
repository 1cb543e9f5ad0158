package types

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// DefaultFailureMessage is shown to the user when a failed call carries no
// message of its own.
const DefaultFailureMessage = "request failed"

// TransportError reports a call that never produced an HTTP response:
// the network was unreachable or the timeout elapsed.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the call failed because its deadline elapsed.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// UserMessage returns the text shown to the user for this failure.
func (e *TransportError) UserMessage() string { return DefaultFailureMessage }

// ServerError reports a response with a non-2xx status.
type ServerError struct {
	Status int
	// Message is the "message" field of the response body, empty when the
	// body carried none.
	Message string
	Body    []byte
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

// UserMessage returns the server's message verbatim, or the generic failure
// message when the server sent none.
func (e *ServerError) UserMessage() string {
	if e.Message == "" {
		return DefaultFailureMessage
	}
	return e.Message
}

// UserMessage extracts the user-facing text from err. Errors that do not
// carry one map to DefaultFailureMessage.
func UserMessage(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return DefaultFailureMessage
}

// IsStatus reports whether err is a ServerError with the given status.
func IsStatus(err error, status int) bool {
	var se *ServerError
	return errors.As(err, &se) && se.Status == status
}

// Endpoint catalog errors.
var (
	ErrUnknownEndpoint = errors.New("unknown endpoint")
	ErrMissingParam    = errors.New("missing path parameter")
)
