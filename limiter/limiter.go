// Package limiter holds the two throttles of a search: the per-site
// check-and-record limiter that decides whether a search may hit a site at
// all, and rate.Limiter composition that paces the HTTP requests themselves.
package limiter

import (
	"context"
	"sort"
	"time"

	"golang.org/x/time/rate"
)

type RateLimiter interface {
	Wait(context.Context) error
	Limit() rate.Limit
}

func Per(eventCount int, duration time.Duration) rate.Limit {
	return rate.Every(duration / time.Duration(eventCount))
}

// Multi 多个限速器组合，最严格的排在最前
func Multi(limiters ...RateLimiter) *MultiLimiter {
	byLimit := func(i, j int) bool {
		return limiters[i].Limit() < limiters[j].Limit()
	}
	sort.Slice(limiters, byLimit)

	return &MultiLimiter{limiters: limiters}
}

type MultiLimiter struct {
	limiters []RateLimiter
}

func (l *MultiLimiter) Wait(ctx context.Context) error {
	for _, l := range l.limiters {
		if err := l.Wait(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (l *MultiLimiter) Limit() rate.Limit {
	if len(l.limiters) == 0 {
		return rate.Inf
	}
	return l.limiters[0].Limit()
}

// Window 一个 "count 次 / duration" 的限速窗口
type Window struct {
	Count    int
	Duration time.Duration
}

// FromWindows builds the fetch throttle from config windows; windows with a
// non-positive count or duration are ignored. nil means no throttle.
func FromWindows(ws ...Window) RateLimiter {
	var ls []RateLimiter
	for _, w := range ws {
		if w.Count <= 0 || w.Duration <= 0 {
			continue
		}
		ls = append(ls, rate.NewLimiter(Per(w.Count, w.Duration), 1))
	}
	if len(ls) == 0 {
		return nil
	}
	return Multi(ls...)
}
