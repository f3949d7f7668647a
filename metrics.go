package redsession

import "sync/atomic"

// MetricID indexes one of the Store's counters.
type MetricID uint8

const (
	// MetricFind counts Find calls.
	MetricFind MetricID = iota
	// MetricFindHit counts Find calls that returned an existing record.
	MetricFindHit
	// MetricFindMiss counts Find calls for which no key held data.
	MetricFindMiss
	// MetricSessionCreated counts freshly generated identifiers.
	MetricSessionCreated
	// MetricWrite counts accepted writes.
	MetricWrite
	// MetricWriteRejected counts writes whose authoritative set was refused,
	// including set-if-absent collisions.
	MetricWriteRejected
	// MetricDelete counts Delete calls that had an identifier to act on.
	MetricDelete
	// MetricDecodeFailure counts corrupt records dropped by Find.
	MetricDecodeFailure
	// MetricStoreDown counts store interactions that failed open.
	MetricStoreDown
	metricIDCount
)

const cacheLineSize = 64

// paddedCounter keeps each counter on its own cache line so concurrent
// request handlers do not false-share.
type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// MetricsConfig toggles counter collection.
type MetricsConfig struct {
	Enabled bool
}

// Metrics is a fixed set of lock-free counters. All methods are safe for
// concurrent use.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// NewMetrics returns a Metrics sized for the Store's counter set.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

func (m *Metrics) inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Get returns the current value of one counter.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Finds           uint64
	FindHits        uint64
	FindMisses      uint64
	SessionsCreated uint64
	Writes          uint64
	WritesRejected  uint64
	Deletes         uint64
	DecodeFailures  uint64
	StoreDownEvents uint64
}

// Snapshot copies every counter. Counters are read individually; a snapshot
// taken under load is not a consistent cut, only monotone per counter.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Finds:           m.Get(MetricFind),
		FindHits:        m.Get(MetricFindHit),
		FindMisses:      m.Get(MetricFindMiss),
		SessionsCreated: m.Get(MetricSessionCreated),
		Writes:          m.Get(MetricWrite),
		WritesRejected:  m.Get(MetricWriteRejected),
		Deletes:         m.Get(MetricDelete),
		DecodeFailures:  m.Get(MetricDecodeFailure),
		StoreDownEvents: m.Get(MetricStoreDown),
	}
}
