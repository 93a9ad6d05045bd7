package audit

import (
	"context"
	"log/slog"
	"time"
)

// Writer appends a single audit entry.
type Writer interface {
	Insert(ctx context.Context, entry Entry) error
}

// Recorder detaches audit writes from the caller's critical path. Each write
// runs in its own goroutine with its own deadline, deliberately not derived
// from the request context: the primary operation finishes regardless of what
// happens to the audit row.
type Recorder struct {
	writer  Writer
	logger  *slog.Logger
	timeout time.Duration
	onDrop  func()
}

// NewRecorder constructs a Recorder. onDrop (optional) is invoked whenever a
// write is abandoned, typically to bump a metric.
func NewRecorder(writer Writer, logger *slog.Logger, timeout time.Duration, onDrop func()) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Recorder{writer: writer, logger: logger, timeout: timeout, onDrop: onDrop}
}

// Record appends the entry in the background and returns immediately.
// Failures are logged locally and counted, never surfaced to the caller.
func (r *Recorder) Record(entry Entry) {
	if r == nil || r.writer == nil {
		return
	}
	if entry.Status == "" {
		entry.Status = StatusSuccess
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.writer.Insert(ctx, entry); err != nil {
			r.logger.Warn("audit write dropped",
				slog.String("action", entry.Action),
				slog.String("resource", entry.Resource),
				slog.Any("error", err))
			if r.onDrop != nil {
				r.onDrop()
			}
		}
	}()
}

// Success is a convenience wrapper for successful actions.
func (r *Recorder) Success(username, roleName, action, resource, resourceID string) {
	r.Record(Entry{
		Username:   username,
		RoleName:   roleName,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Status:     StatusSuccess,
	})
}

// Failure is a convenience wrapper for denied or failed actions.
func (r *Recorder) Failure(username, roleName, action, resource, message string) {
	r.Record(Entry{
		Username:     username,
		RoleName:     roleName,
		Action:       action,
		Resource:     resource,
		Status:       StatusFailure,
		ErrorMessage: message,
	})
}
