// Package spider runs isolated fetch+parse jobs and lets callers wait for
// them with a bounded poll.
package spider

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dreamerjackson/torrentspider/record"
	"go.uber.org/zap"
)

// ParseFunc turns a fetched body into records, handing each to emit.
type ParseFunc func(body []byte, emit func(record.Torrent)) (int, error)

type Spider struct {
	options
}

func New(opts ...Option) (*Spider, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.fetcher == nil {
		options.fetcher = NewFetchService(WithFetchLogger(options.logger))
	}
	if options.idGen == nil {
		node, err := snowflake.NewNode(1)
		if err != nil {
			return nil, fmt.Errorf("create id generator: %w", err)
		}
		options.idGen = node
	}
	return &Spider{options: options}, nil
}

// Submit starts a job in its own goroutine. The job is detached from ctx's
// cancellation so a caller that stops waiting does not abort the fetch.
func (s *Spider) Submit(ctx context.Context, req *Request, parse ParseFunc) *Job {
	job := newJob(s.idGen.Generate(), req.Unique())
	ctx = context.WithoutCancel(ctx)

	go func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("job panic",
					zap.Int64("job", job.ID.Int64()),
					zap.Any("err", r),
					zap.String("stack", string(debug.Stack())))
				err = fmt.Errorf("job panic: %v", r)
			}
			job.finish(err)
		}()

		start := time.Now()
		body, ferr := s.fetcher.Get(ctx, req)
		if ferr != nil {
			err = fmt.Errorf("fetch %s: %w", req.URL, ferr)
			s.logger.Warn("fetch failed",
				zap.Int64("job", job.ID.Int64()),
				zap.String("request", job.Key),
				zap.String("url", req.URL),
				zap.Error(ferr))
			return
		}

		n, perr := parse(body, job.Publish)
		if perr != nil {
			err = fmt.Errorf("parse %s: %w", req.URL, perr)
		}
		s.logger.Debug("job done",
			zap.Int64("job", job.ID.Int64()),
			zap.String("url", req.URL),
			zap.Int("count", n),
			zap.Duration("elapsed", time.Since(start)))
	}()

	return job
}
