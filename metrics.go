package credguard

import "sync/atomic"

// MetricID identifies one counter in the in-process metrics system.
type MetricID uint8

const (
	// MetricLoginSuccess counts fully authenticated logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts credential rejections.
	MetricLoginFailure
	// MetricLoginMFARequired counts logins deferred to an MFA challenge.
	MetricLoginMFARequired
	// MetricRateLimited counts requests rejected by the rate limiter.
	MetricRateLimited
	// MetricMFASuccess counts accepted TOTP codes.
	MetricMFASuccess
	// MetricMFAFailure counts rejected TOTP codes.
	MetricMFAFailure
	// MetricRecoveryIssued counts recovery tokens handed out.
	MetricRecoveryIssued
	// MetricRecoveryConsumed counts successful password resets.
	MetricRecoveryConsumed
	// MetricRecoveryRejected counts reset attempts that failed any check.
	MetricRecoveryRejected
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters. When disabled every operation is a
// no-op, so call sites never need to branch.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// NewMetrics creates a [Metrics] instance.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc increments one counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot deep-copies the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return snap
}
