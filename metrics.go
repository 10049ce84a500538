package kvauth

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint16

const (
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts logins rejected with invalid credentials.
	MetricLoginFailure
	// MetricLoginRateLimited counts logins rejected by the lockout counter.
	MetricLoginRateLimited
	// MetricSessionIssued counts issued session tokens.
	MetricSessionIssued
	// MetricSessionExpired counts sessions removed by lazy expiry.
	MetricSessionExpired
	// MetricLogout counts revocations via Logout.
	MetricLogout
	// MetricValidateSuccess counts session validations that passed.
	MetricValidateSuccess
	// MetricValidateFailure counts session validations that failed.
	MetricValidateFailure
	// MetricAdminDenied counts RequireAdmin refusals.
	MetricAdminDenied
	// MetricUserCreated counts created user records.
	MetricUserCreated
	// MetricUserDeleted counts deleted user records.
	MetricUserDeleted
	// MetricPasswordUpdated counts digest replacements.
	MetricPasswordUpdated
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is an in-process counter registry. All methods are safe for
// concurrent use; increments are lock-free atomics on padded slots.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics creates a [Metrics] registry.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether the registry records increments.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments the counter for id. Disabled registries ignore the call.
func (m *Metrics) Inc(id MetricID) {
	if !m.Enabled() || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Snapshot copies all counters. Non-zero values only.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64)}
	if !m.Enabled() {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		if v := atomic.LoadUint64(&m.counters[id].value); v > 0 {
			snap.Counters[id] = v
		}
	}
	return snap
}

// MetricName returns the stable exposition name for id.
func MetricName(id MetricID) string {
	switch id {
	case MetricLoginSuccess:
		return "login_success"
	case MetricLoginFailure:
		return "login_failure"
	case MetricLoginRateLimited:
		return "login_rate_limited"
	case MetricSessionIssued:
		return "session_issued"
	case MetricSessionExpired:
		return "session_expired"
	case MetricLogout:
		return "logout"
	case MetricValidateSuccess:
		return "validate_success"
	case MetricValidateFailure:
		return "validate_failure"
	case MetricAdminDenied:
		return "admin_denied"
	case MetricUserCreated:
		return "user_created"
	case MetricUserDeleted:
		return "user_deleted"
	case MetricPasswordUpdated:
		return "password_updated"
	default:
		return "unknown"
	}
}
