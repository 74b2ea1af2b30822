package spider

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

type options struct {
	logger  *zap.Logger
	fetcher Fetcher
	idGen   *snowflake.Node
}

var defaultOptions = options{
	logger: zap.NewNop(),
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithFetcher(f Fetcher) Option {
	return func(opts *options) {
		opts.fetcher = f
	}
}

func WithIDGen(node *snowflake.Node) Option {
	return func(opts *options) {
		opts.idGen = node
	}
}
