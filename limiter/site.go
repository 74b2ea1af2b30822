package limiter

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrRateLimited = errors.New("rate limited")

// RejectedError is returned when a site refuses a visit. RetryAt is the
// earliest moment the same check could pass.
type RejectedError struct {
	Site    string
	Reason  string
	RetryAt time.Time
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Site, e.Reason)
}

func (e *RejectedError) Unwrap() error {
	return ErrRateLimited
}

// Rule 站点访问限制，0 表示不限制
type Rule struct {
	// 两次访问最小间隔
	MinSpacing time.Duration
	// 统计窗口与窗口内最大次数
	Window   time.Duration
	MaxCount int
}

func (r Rule) IsZero() bool {
	return r.MinSpacing <= 0 && (r.Window <= 0 || r.MaxCount <= 0)
}

const timeLayout = "2006-01-02 15:04:05"

// SiteLimiter serializes the check and the update of one site's visit state.
type SiteLimiter struct {
	site string
	rule Rule
	now  func() time.Time

	mu        sync.Mutex
	lastVisit time.Time
	count     int
}

type SiteOption func(*SiteLimiter)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) SiteOption {
	return func(l *SiteLimiter) {
		l.now = now
	}
}

func NewSiteLimiter(site string, rule Rule, opts ...SiteOption) *SiteLimiter {
	l := &SiteLimiter{
		site: site,
		rule: rule,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check records a visit and returns nil, or returns a *RejectedError and
// leaves the state untouched.
func (l *SiteLimiter) Check() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	elapsed := now.Sub(l.lastVisit)
	visited := !l.lastVisit.IsZero()

	if l.rule.MinSpacing > 0 && visited && elapsed < l.rule.MinSpacing {
		return &RejectedError{
			Site: l.site,
			Reason: fmt.Sprintf("限制访问间隔 %s，上次访问时间 %s",
				l.rule.MinSpacing, l.lastVisit.Format(timeLayout)),
			RetryAt: l.lastVisit.Add(l.rule.MinSpacing),
		}
	}

	if l.rule.Window > 0 && l.rule.MaxCount > 0 {
		if visited && elapsed > l.rule.Window {
			l.count = 0
		}
		if l.count >= l.rule.MaxCount {
			return &RejectedError{
				Site: l.site,
				Reason: fmt.Sprintf("%s 内限制访问 %d 次，已达上限",
					l.rule.Window, l.rule.MaxCount),
				RetryAt: l.lastVisit.Add(l.rule.Window),
			}
		}
	}

	l.count++
	l.lastVisit = now
	return nil
}

// CheckAndRecord is Check in (allowed, reason) form.
func (l *SiteLimiter) CheckAndRecord() (bool, string) {
	if err := l.Check(); err != nil {
		var rejected *RejectedError
		if errors.As(err, &rejected) {
			return false, rejected.Reason
		}
		return false, err.Error()
	}
	return true, ""
}

// Registry keeps one SiteLimiter per site id. Sites without a rule are never
// limited.
type Registry struct {
	mu    sync.Mutex
	opts  []SiteOption
	sites map[string]*SiteLimiter
}

func NewRegistry(opts ...SiteOption) *Registry {
	return &Registry{
		opts:  opts,
		sites: make(map[string]*SiteLimiter),
	}
}

// Set installs or replaces the rule of site, resetting its state.
func (r *Registry) Set(site string, rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rule.IsZero() {
		delete(r.sites, site)
		return
	}
	r.sites[site] = NewSiteLimiter(site, rule, r.opts...)
}

func (r *Registry) Check(site string) error {
	r.mu.Lock()
	l, ok := r.sites[site]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	return l.Check()
}
