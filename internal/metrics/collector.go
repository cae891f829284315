// Package metrics provides in-memory statistics for streaming sessions.
package metrics

import (
	"sync"
	"time"
)

// SessionStats aggregates counters across completed sessions.
type SessionStats struct {
	Sessions         int64
	Failed           int64
	FramesDecoded    int64
	MalformedDropped int64
	TokensReceived   int64
	TraceEvents      int64
}

// TimingStats aggregates a duration distribution.
type TimingStats struct {
	Count int64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

func (t *TimingStats) record(d time.Duration) {
	if t.Count == 0 || d < t.Min {
		t.Min = d
	}
	if d > t.Max {
		t.Max = d
	}
	t.Count++
	t.Total += d
}

// Avg returns the mean duration, zero when no samples exist.
func (t TimingStats) Avg() time.Duration {
	if t.Count == 0 {
		return 0
	}
	return t.Total / time.Duration(t.Count)
}

// Snapshot is a point-in-time copy of all collected statistics.
type Snapshot struct {
	UptimeSeconds float64
	Sessions      SessionStats
	FirstToken    TimingStats
	StreamTotal   TimingStats
	Reconcile     TimingStats
}

// Collector aggregates in-memory statistics for the session engine.
// All methods are safe for concurrent use.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time

	sessions    SessionStats
	firstToken  TimingStats
	streamTotal TimingStats
	reconcile   TimingStats
}

// NewCollector creates a new collector.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// RecordFrame counts one decoded frame; malformed marks a dropped payload.
func (c *Collector) RecordFrame(malformed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions.FramesDecoded++
	if malformed {
		c.sessions.MalformedDropped++
	}
}

// RecordToken counts one received token fragment.
func (c *Collector) RecordToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions.TokensReceived++
}

// RecordTraceEvent counts one trace entry.
func (c *Collector) RecordTraceEvent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions.TraceEvents++
}

// RecordFirstToken records the delay between submit and the first token.
func (c *Collector) RecordFirstToken(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.firstToken.record(d)
}

// RecordSession records a finished session and its total stream duration.
func (c *Collector) RecordSession(d time.Duration, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions.Sessions++
	if failed {
		c.sessions.Failed++
	}
	c.streamTotal.record(d)
}

// RecordReconcile records the duration of an authoritative reload.
func (c *Collector) RecordReconcile(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reconcile.record(d)
}

// Snapshot returns a point-in-time copy of all statistics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Sessions:      c.sessions,
		FirstToken:    c.firstToken,
		StreamTotal:   c.streamTotal,
		Reconcile:     c.reconcile,
	}
}
