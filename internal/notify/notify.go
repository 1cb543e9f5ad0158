// Package notify provides the user-visible notification surface the request
// pipeline reports failures to.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/bazaar/pkg/types"
)

var (
	_ types.Notifier = (*Writer)(nil)
	_ types.Notifier = (*Log)(nil)
	_ types.Notifier = Multi(nil)
	_ types.Notifier = Discard{}
)

// Writer prints each message as one "error: <message>" line.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter returns a Writer printing to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Notify writes message. Write errors are dropped.
func (w *Writer) Notify(_ context.Context, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintf(w.out, "error: %s\n", message)
}

// Log records each message in the log.
type Log struct {
	log   logrus.FieldLogger
	debug bool
}

// NewLog returns a Log writing warnings to log.
func NewLog(log logrus.FieldLogger) *Log {
	return &Log{log: log}
}

// NewDebugLog returns a Log writing at debug level, for use next to a
// notifier that already shows the message to the user.
func NewDebugLog(log logrus.FieldLogger) *Log {
	return &Log{log: log, debug: true}
}

// Notify logs message.
func (l *Log) Notify(_ context.Context, message string) {
	entry := l.log.WithField("notification", message)
	if l.debug {
		entry.Debug("user notified")
		return
	}
	entry.Warn("user notified")
}

// Multi fans a message out to every notifier in order.
type Multi []types.Notifier

// Notify forwards message to each notifier.
func (m Multi) Notify(ctx context.Context, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, message)
		}
	}
}

// Discard drops every message.
type Discard struct{}

// Notify does nothing.
func (Discard) Notify(context.Context, string) {}

// Recorder keeps every message in memory. Useful in tests and for callers
// that render notifications themselves.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// Notify appends message.
func (r *Recorder) Notify(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}
