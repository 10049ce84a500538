// Package prometheus renders kvauth engine counters in Prometheus text
// exposition format without pulling in a client library.
package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	kvauth "github.com/quellcrist/kvauth"
)

type metricsSource interface {
	MetricsSnapshot() kvauth.MetricsSnapshot
	AuditDropped() uint64
}

type counterDef struct {
	id   kvauth.MetricID
	name string
	help string
}

var counterDefs = []counterDef{
	{kvauth.MetricLoginSuccess, "kvauth_login_success_total", "Successful login attempts."},
	{kvauth.MetricLoginFailure, "kvauth_login_failure_total", "Logins rejected with invalid credentials."},
	{kvauth.MetricLoginRateLimited, "kvauth_login_rate_limited_total", "Logins rejected by the lockout counter."},
	{kvauth.MetricSessionIssued, "kvauth_session_issued_total", "Issued session tokens."},
	{kvauth.MetricSessionExpired, "kvauth_session_expired_total", "Sessions removed by lazy expiry."},
	{kvauth.MetricLogout, "kvauth_logout_total", "Session revocations via logout."},
	{kvauth.MetricValidateSuccess, "kvauth_validate_success_total", "Session validations that passed."},
	{kvauth.MetricValidateFailure, "kvauth_validate_failure_total", "Session validations that failed."},
	{kvauth.MetricAdminDenied, "kvauth_admin_denied_total", "Admin-gate refusals."},
	{kvauth.MetricUserCreated, "kvauth_user_created_total", "Created user records."},
	{kvauth.MetricUserDeleted, "kvauth_user_deleted_total", "Deleted user records."},
	{kvauth.MetricPasswordUpdated, "kvauth_password_updated_total", "Password digest replacements."},
}

// Exporter renders engine metrics for scraping.
type Exporter struct {
	source metricsSource
}

// NewExporter creates an [Exporter] reading from the given engine.
func NewExporter(engine *kvauth.Engine) *Exporter {
	return &Exporter{source: engine}
}

// NewExporterFromSource creates an [Exporter] from a custom source.
func NewExporterFromSource(source metricsSource) *Exporter {
	return &Exporter{source: source}
}

// Handler returns an http.Handler that serves the rendered metrics.
func (e *Exporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(e.Render()))
	})
}

// Render writes the current counters in text exposition format.
func (e *Exporter) Render() string {
	if e == nil || e.source == nil {
		return ""
	}

	snapshot := e.source.MetricsSnapshot()

	var b strings.Builder
	b.Grow(4096)

	for _, def := range counterDefs {
		writeCounter(&b, def.name, def.help, snapshot.Counters[def.id])
	}

	writeCounter(&b, "kvauth_audit_dropped_total",
		"Dropped audit events due to dispatcher backpressure.", e.source.AuditDropped())

	return b.String()
}

func writeCounter(b *strings.Builder, name, help string, value uint64) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(help)
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteString(" counter\n")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte('\n')
}
