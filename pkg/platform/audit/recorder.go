package audit

import (
	"context"
	"fmt"
	"log/slog"

	id "saasbase/pkg/domain"
	"saasbase/pkg/platform/tx"
	"saasbase/pkg/requestcontext"
)

const maxUserAgentLength = 255

// Recorder appends audit entries inside the caller's unit of work and, once
// that unit commits, logs them and hands them to the optional mirror.
type Recorder struct {
	store         Store
	mirror        Mirror
	logger        *slog.Logger
	onMirrorError func()
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithMirror forwards committed entries to m.
func WithMirror(m Mirror) Option {
	return func(r *Recorder) {
		r.mirror = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// WithMirrorErrorHook is invoked whenever a mirror publish fails.
func WithMirrorErrorHook(fn func()) Option {
	return func(r *Recorder) {
		r.onMirrorError = fn
	}
}

func NewRecorder(store Store, opts ...Option) *Recorder {
	r := &Recorder{store: store}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends entry. Missing ID, timestamp and client metadata are filled
// from the request context. An append failure must abort the caller's unit.
func (r *Recorder) Record(ctx context.Context, entry Entry) error {
	if entry.ID.IsNil() {
		entry.ID = id.NewAuditID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = requestcontext.Now(ctx)
	}
	if entry.IPAddress == "" {
		entry.IPAddress = requestcontext.ClientIP(ctx)
	}
	if entry.UserAgent == "" {
		entry.UserAgent = requestcontext.UserAgent(ctx)
	}
	if len(entry.UserAgent) > maxUserAgentLength {
		entry.UserAgent = entry.UserAgent[:maxUserAgentLength]
	}

	if err := r.store.Append(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	detached := context.WithoutCancel(ctx)
	tx.AfterCommit(ctx, func() {
		r.committed(detached, entry)
	})
	return nil
}

func (r *Recorder) committed(ctx context.Context, entry Entry) {
	if r.logger != nil {
		r.logger.InfoContext(ctx, string(entry.Action),
			"log_type", "audit",
			"tenant_id", entry.TenantID.String(),
			"user_id", entry.UserID.String(),
			"entity_type", string(entry.EntityType),
			"entity_id", entry.EntityID.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	if r.mirror == nil {
		return
	}
	if err := r.mirror.Publish(ctx, entry); err != nil {
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "failed to mirror audit entry",
				"error", err,
				"action", string(entry.Action),
				"audit_id", entry.ID.String(),
			)
		}
		if r.onMirrorError != nil {
			r.onMirrorError()
		}
	}
}
