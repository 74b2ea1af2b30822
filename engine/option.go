package engine

import (
	"time"

	"github.com/dreamerjackson/torrentspider/limiter"
	"github.com/dreamerjackson/torrentspider/spider"
	"go.uber.org/zap"
)

type Option func(opts *options)

type options struct {
	Logger       *zap.Logger
	Fetcher      spider.Fetcher
	Spider       *spider.Spider
	Limits       *limiter.Registry
	PollInterval time.Duration
	Ceiling      time.Duration
	MaxResults   int
	WorkCount    int
	Filter       ResultFilter
	Stats        StatsRecorder
}

var defaultOptions = options{
	Logger:       zap.NewNop(),
	PollInterval: spider.DefaultPollInterval,
	Ceiling:      spider.DefaultCeiling,
	MaxResults:   100,
	WorkCount:    8,
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.Logger = logger
	}
}

// WithFetcher 未指定 spider 时用于构造默认 spider
func WithFetcher(fetcher spider.Fetcher) Option {
	return func(opts *options) {
		opts.Fetcher = fetcher
	}
}

func WithSpider(s *spider.Spider) Option {
	return func(opts *options) {
		opts.Spider = s
	}
}

func WithLimits(r *limiter.Registry) Option {
	return func(opts *options) {
		opts.Limits = r
	}
}

// WithGate 轮询间隔与最长等待时间
func WithGate(interval, ceiling time.Duration) Option {
	return func(opts *options) {
		opts.PollInterval = interval
		opts.Ceiling = ceiling
	}
}

func WithMaxResults(n int) Option {
	return func(opts *options) {
		opts.MaxResults = n
	}
}

// WithWorkCount 多站点搜索时的并发数
func WithWorkCount(workCount int) Option {
	return func(opts *options) {
		opts.WorkCount = workCount
	}
}

func WithResultFilter(f ResultFilter) Option {
	return func(opts *options) {
		opts.Filter = f
	}
}

func WithStatsRecorder(s StatsRecorder) Option {
	return func(opts *options) {
		opts.Stats = s
	}
}
