// Package notify provides desktop notification support for Clack.
package notify

import "fmt"

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// NotifyBatchDone sends a notification when a batch run completes.
	NotifyBatchDone(profile string, succeeded, failed int) error
}

// Option configures a Notifier.
type Option func(*notifier)

// WithBackend sets a custom notification backend (for testing).
func WithBackend(backend Backend) Option {
	return func(n *notifier) {
		n.backend = backend
	}
}

// notifier sends desktop notifications using the system notification service.
type notifier struct {
	enabled bool
	backend Backend
}

// NotifyBatchDone sends a notification about a completed batch run. Failed
// rows escalate to an alert so the user looks at the results.
func (n *notifier) NotifyBatchDone(profile string, succeeded, failed int) error {
	if !n.enabled {
		return nil
	}

	target := profile
	if target == "" {
		target = "ad-hoc settings"
	}

	if failed > 0 {
		title := "Clack: Batch Finished With Failures"
		message := fmt.Sprintf("Batch against %s: %d calls succeeded, %d failed.", target, succeeded, failed)
		return n.backend.Alert(title, message, "")
	}

	title := "Clack: Batch Finished"
	message := fmt.Sprintf("Batch against %s: all %d calls succeeded.", target, succeeded)
	return n.backend.Notify(title, message, "")
}

// New creates a new Notifier. When enabled is false every notification is
// a no-op.
func New(enabled bool, opts ...Option) Notifier {
	n := &notifier{
		enabled: enabled,
		backend: newDesktopBackend(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}
