package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorCounters(t *testing.T) {
	c := NewCollector()

	c.RecordFrame(false)
	c.RecordFrame(true)
	c.RecordToken()
	c.RecordToken()
	c.RecordToken()
	c.RecordTraceEvent()

	snap := c.Snapshot()
	assert.EqualValues(t, 2, snap.Sessions.FramesDecoded)
	assert.EqualValues(t, 1, snap.Sessions.MalformedDropped)
	assert.EqualValues(t, 3, snap.Sessions.TokensReceived)
	assert.EqualValues(t, 1, snap.Sessions.TraceEvents)
}

func TestCollectorTimings(t *testing.T) {
	c := NewCollector()

	c.RecordFirstToken(100 * time.Millisecond)
	c.RecordFirstToken(300 * time.Millisecond)
	c.RecordSession(time.Second, false)
	c.RecordSession(3*time.Second, true)
	c.RecordReconcile(50 * time.Millisecond)

	snap := c.Snapshot()
	assert.EqualValues(t, 2, snap.Sessions.Sessions)
	assert.EqualValues(t, 1, snap.Sessions.Failed)
	assert.Equal(t, 100*time.Millisecond, snap.FirstToken.Min)
	assert.Equal(t, 300*time.Millisecond, snap.FirstToken.Max)
	assert.Equal(t, 200*time.Millisecond, snap.FirstToken.Avg())
	assert.Equal(t, 2*time.Second, snap.StreamTotal.Avg())
	assert.EqualValues(t, 1, snap.Reconcile.Count)
}

func TestCollectorAvgEmpty(t *testing.T) {
	var ts TimingStats
	assert.Zero(t, ts.Avg())
}

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordToken()
				c.RecordFrame(j%10 == 0)
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.EqualValues(t, 800, snap.Sessions.TokensReceived)
	assert.EqualValues(t, 800, snap.Sessions.FramesDecoded)
	assert.EqualValues(t, 80, snap.Sessions.MalformedDropped)
}
