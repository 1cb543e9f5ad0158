package types

import "context"

// Notifier displays a transient user-visible message. Notify is fire and
// forget: it never fails and must not block the caller for long.
type Notifier interface {
	Notify(ctx context.Context, message string)
}
