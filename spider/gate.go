package spider

import (
	"context"
	"time"
)

const (
	DefaultPollInterval = time.Second
	DefaultCeiling      = 20 * time.Second
)

// Gate lets a caller wait for a Job by polling its completion flag at a
// fixed cadence, giving up once the ceiling is reached. Giving up only stops
// the waiting; the job keeps running.
type Gate struct {
	Interval time.Duration
	Ceiling  time.Duration
}

func NewGate(interval, ceiling time.Duration) Gate {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return Gate{Interval: interval, Ceiling: ceiling}
}

// Wait reports whether the job finished before the ceiling or ctx ended.
func (g Gate) Wait(ctx context.Context, job *Job) bool {
	if job.Done() {
		return true
	}
	g = NewGate(g.Interval, g.Ceiling)

	ticker := time.NewTicker(g.Interval)
	defer ticker.Stop()
	deadline := time.NewTimer(g.Ceiling)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return job.Done()
		case <-deadline.C:
			return job.Done()
		case <-ticker.C:
			if job.Done() {
				return true
			}
		}
	}
}
