package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/dreamerjackson/torrentspider/definition"
	"github.com/dreamerjackson/torrentspider/engine"
	"github.com/dreamerjackson/torrentspider/generator"
	"github.com/dreamerjackson/torrentspider/limiter"
	"github.com/dreamerjackson/torrentspider/log"
	"github.com/dreamerjackson/torrentspider/proxy"
	"github.com/dreamerjackson/torrentspider/spider"
	"github.com/dreamerjackson/torrentspider/storage/sqlstorage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var SearchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "search torrents on configured sites.",
	Long:  "search torrents on configured sites and print one JSON record per line.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.Context(), strings.Join(args, " "), cmd.OutOrStdout())
	},
}

var (
	configPath string
	siteNames  []string
	mediaType  string
	page       int
)

func init() {
	SearchCmd.Flags().StringVar(
		&configPath, "config", "config.toml", "set config file")

	SearchCmd.Flags().StringSliceVar(
		&siteNames, "site", nil, "only search these sites")

	SearchCmd.Flags().StringVar(
		&mediaType, "type", "", "media type: movie, tv or anime")

	SearchCmd.Flags().IntVar(
		&page, "page", 0, "result page")
}

func Run(ctx context.Context, keyword string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	// log
	logger, closer := log.New(cfg.LogLevel, cfg.LogFile)
	defer closer.Close()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	catalog, err := definition.LoadDir(cfg.Definitions, logger.Named("definition"))
	if err != nil {
		return err
	}
	logger.Info("definitions loaded", zap.Int("count", catalog.Len()))

	// fetcher
	p, err := proxy.FromConfig(cfg.Proxy...)
	if err != nil {
		logger.Error("RoundRobinProxySwitcher failed", zap.Error(err))
	}
	f := spider.NewFetchService(
		spider.WithTimeout(cfg.Timeout),
		spider.WithProxy(p),
		spider.WithLimit(limiter.FromWindows(cfg.Limits...)),
		spider.WithFetchLogger(logger.Named("fetcher")),
	)

	node, err := generator.NewNode(generator.LocalIP())
	if err != nil {
		return err
	}
	s, err := spider.New(
		spider.WithLogger(logger.Named("spider")),
		spider.WithFetcher(f),
		spider.WithIDGen(node),
	)
	if err != nil {
		return err
	}

	limits := limiter.NewRegistry()
	sites := BindSites(logger, catalog, limits, cfg.UserAgent, cfg.Sites)
	if len(sites) == 0 {
		return errors.New("no site configured")
	}

	opts := []engine.Option{
		engine.WithLogger(logger.Named("engine")),
		engine.WithSpider(s),
		engine.WithLimits(limits),
		engine.WithGate(cfg.PollInterval, cfg.Ceiling),
		engine.WithMaxResults(cfg.MaxResults),
		engine.WithWorkCount(cfg.WorkCount),
	}

	// storage
	switch cfg.StorageType {
	case "mysql":
		stats, err := sqlstorage.New(
			sqlstorage.WithSQLURL(cfg.SQLURL),
			sqlstorage.WithLogger(logger.Named("sqlDB")),
			sqlstorage.WithBatchCount(cfg.BatchCount),
		)
		if err != nil {
			logger.Error("create sqlstorage failed", zap.Error(err))
			return err
		}
		defer stats.Flush()
		opts = append(opts, engine.WithStatsRecorder(stats))
		logger.Info("start mysql storage")
	}

	e, err := engine.New(opts...)
	if err != nil {
		return err
	}

	results := e.SearchAll(ctx, sites, keyword,
		engine.FilterArgs{Sites: siteNames, Page: page},
		engine.MatchContext{MediaType: mediaType})

	for _, r := range results {
		logger.Info("result",
			zap.String("indexer", r.Indexer),
			zap.Stringer("outcome", r.Outcome),
			zap.Int("count", len(r.Records)),
			zap.String("reason", r.Reason))
	}

	enc := json.NewEncoder(out)
	for _, t := range engine.Records(results) {
		if err := enc.Encode(t); err != nil {
			return err
		}
	}
	return nil
}
