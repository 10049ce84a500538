package kvauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/quellcrist/kvauth/internal/rate"
	"github.com/quellcrist/kvauth/kv"
	"github.com/quellcrist/kvauth/password"
	"github.com/quellcrist/kvauth/session"
	"github.com/quellcrist/kvauth/users"
)

// Engine is the credential, session, and authorization core. Build one with
// [Builder]; all methods are safe for concurrent use afterwards. The engine
// holds no in-process locks — the key-value store is the sole synchronization
// point.
type Engine struct {
	config   Config
	store    kv.Store
	hasher   *password.Hasher
	users    *users.Store
	sessions *session.Store
	limiter  *rate.Limiter
	audit    *auditDispatcher
	metrics  *Metrics
}

// Close stops the audit dispatcher after draining queued events.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Bootstrap seeds the configured default accounts when the credential store
// is empty. Idempotent; call once at process start.
func (e *Engine) Bootstrap(ctx context.Context) error {
	if e == nil {
		return ErrEngineNotReady
	}

	before, err := e.users.Count(ctx)
	if err != nil {
		return e.storageErr(err)
	}

	if err := e.users.Bootstrap(ctx, e.config.Bootstrap.Seeds); err != nil {
		return e.storageErr(err)
	}

	if before == 0 && len(e.config.Bootstrap.Seeds) > 0 {
		e.emit(AuditEvent{
			EventType: EventBootstrapSeeded,
			Success:   true,
			Metadata:  map[string]string{"seeds": fmt.Sprintf("%d", len(e.config.Bootstrap.Seeds))},
		})
	}
	return nil
}

// MetricsSnapshot returns a copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded due to a full
// buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) emit(event AuditEvent) {
	if e == nil {
		return
	}
	e.audit.emit(event)
}

// storageErr hides backend detail behind the generic sentinel; the wrapped
// cause stays available to local diagnostics via the audit/log path only.
func (e *Engine) storageErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, users.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, users.ErrExists):
		return ErrUserExists
	case errors.Is(err, users.ErrLastAdmin):
		return ErrLastAdmin
	case errors.Is(err, users.ErrInvalidInput):
		// Policy text only; carries no storage detail.
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case errors.Is(err, kv.ErrUnavailable),
		errors.Is(err, users.ErrUnavailable),
		errors.Is(err, session.ErrUnavailable),
		errors.Is(err, rate.ErrUnavailable):
		return ErrStorageUnavailable
	default:
		return ErrStorageUnavailable
	}
}
