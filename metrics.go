package authcore

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint16

const (
	// MetricRegisterSuccess counts completed registrations.
	MetricRegisterSuccess MetricID = iota
	// MetricRegisterDuplicate counts registrations rejected for an existing email.
	MetricRegisterDuplicate
	// MetricRegisterWeakPassword counts registrations rejected by the password policy.
	MetricRegisterWeakPassword
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess
	// MetricLoginFailure counts credential failures (unknown email and wrong password alike).
	MetricLoginFailure
	// MetricRefreshSuccess counts successful access-token refreshes.
	MetricRefreshSuccess
	// MetricRefreshInvalid counts refreshes rejected at token verification.
	MetricRefreshInvalid
	// MetricRefreshNotFound counts refreshes whose record was missing, revoked, or expired.
	MetricRefreshNotFound
	// MetricLogout counts single-token logouts.
	MetricLogout
	// MetricLogoutNotFound counts logouts of unknown tokens.
	MetricLogoutNotFound
	// MetricLogoutAll counts logout-all calls.
	MetricLogoutAll
	// MetricValidateSuccess counts access-token validations that passed.
	MetricValidateSuccess
	// MetricValidateFailure counts access-token validations that failed.
	MetricValidateFailure
	// MetricResetRequested counts password-reset requests (existing users only).
	MetricResetRequested
	// MetricResetConfirmed counts completed password resets.
	MetricResetConfirmed
	// MetricResetConfirmFailure counts rejected password-reset confirmations.
	MetricResetConfirmFailure

	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed set of lock-free counters. A disabled Metrics costs one
// branch per operation.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics returns a Metrics honoring cfg.Enabled.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether counters are being recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc adds one to the counter. No-op when disabled or out of range.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads a single counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters. An empty map is returned when metrics are
// disabled.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}

	s := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, int(metricIDCount)),
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return s
}
