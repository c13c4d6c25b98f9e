package stats

import (
	"sync"
	"time"

	"BodyMeasure/internal/entity"
)

type IStats interface {
	Increment(success bool, duration time.Duration)
	Snapshot() entity.ProcessingStats
}

// Aggregator keeps running request counters and the mean processing time.
// Updates are serialized; snapshots are copies.
type Aggregator struct {
	mu        sync.RWMutex
	now       func() time.Time
	startedAt time.Time
	stats     entity.ProcessingStats
}

func New() *Aggregator {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Aggregator {
	return &Aggregator{
		now:       now,
		startedAt: now(),
	}
}

func (a *Aggregator) Increment(success bool, duration time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ts := a.now()
	a.stats.LastRequestTime = &ts
	a.stats.TotalRequests++
	if success {
		a.stats.SuccessfulRequests++
	} else {
		a.stats.FailedRequests++
	}

	previous := a.stats.AverageProcessingTime * float64(a.stats.TotalRequests-1)
	a.stats.AverageProcessingTime = (previous + duration.Seconds()) / float64(a.stats.TotalRequests)
}

func (a *Aggregator) Snapshot() entity.ProcessingStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snapshot := a.stats
	if a.stats.LastRequestTime != nil {
		ts := *a.stats.LastRequestTime
		snapshot.LastRequestTime = &ts
	}
	snapshot.Uptime = a.now().Sub(a.startedAt).Seconds()
	return snapshot
}
