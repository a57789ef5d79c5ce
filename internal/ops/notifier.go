// Package ops delivers operational notifications about pipeline runs.
package ops

import "context"

// Severity classifies a notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Notifier is the sink for operational notifications. Delivery is best
// effort: implementations never return errors and never block the pipeline
// beyond a short delivery timeout.
type Notifier interface {
	Notify(ctx context.Context, severity Severity, message string)
}

// NoopNotifier is a no-op implementation for testing and for deployments
// without a configured sink.
type NoopNotifier struct{}

// Notify implements Notifier.Notify as a no-op.
func (NoopNotifier) Notify(context.Context, Severity, string) {}

// NewNoopNotifier creates a new no-op notifier.
func NewNoopNotifier() Notifier {
	return NoopNotifier{}
}
