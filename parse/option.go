package parse

import (
	"go.uber.org/zap"
)

type options struct {
	logger     *zap.Logger
	maxResults int
}

var defaultOptions = options{
	logger:     zap.NewNop(),
	maxResults: 100,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithMaxResults caps the rows read from one page, 0 means no cap.
func WithMaxResults(n int) Option {
	return func(opts *options) {
		opts.maxResults = n
	}
}
