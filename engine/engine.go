// Package engine drives one search per indexer: input checks, site filter,
// rate limiting, request building, an isolated fetch+parse job and a bounded
// wait for its records.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dreamerjackson/torrentspider/definition"
	"github.com/dreamerjackson/torrentspider/generator"
	"github.com/dreamerjackson/torrentspider/limiter"
	"github.com/dreamerjackson/torrentspider/parse"
	"github.com/dreamerjackson/torrentspider/record"
	"github.com/dreamerjackson/torrentspider/spider"
	"go.uber.org/zap"
)

var ErrRateLimited = limiter.ErrRateLimited

type Outcome int

const (
	OutcomeOK Outcome = iota
	// 抓取成功但没有记录，或抓取失败
	OutcomeNoData
	// 被站点过滤或语言过滤，没有发起请求
	OutcomeFiltered
	OutcomeRateLimited
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNoData:
		return "no data"
	case OutcomeFiltered:
		return "filtered"
	case OutcomeRateLimited:
		return "rate limited"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// FilterArgs 调用方的过滤条件
type FilterArgs struct {
	// 站点白名单，按站点名称或 id 匹配，为空表示不限制
	Sites []string
	Page  int
}

func (a FilterArgs) allows(site *definition.Site) bool {
	if len(a.Sites) == 0 {
		return true
	}
	for _, s := range a.Sites {
		if s == site.Name || s == site.SiteID {
			return true
		}
	}
	return false
}

// MatchContext describes what the caller is looking for. Only MediaType is
// read here; the rest is handed to the ResultFilter.
type MatchContext struct {
	MediaType string
	Title     string
	Year      string
	Season    int
	Episode   int
}

// ResultFilter applies media matching and ordering to extracted records.
type ResultFilter interface {
	Filter(ctx context.Context, site *definition.Site, match MatchContext, records []record.Torrent) []record.Torrent
}

type StatsRecorder interface {
	Record(stat record.Stat) error
}

type Result struct {
	Indexer string
	Outcome Outcome
	Records []record.Torrent
	Reason  string
	RetryAt time.Time
	Elapsed time.Duration
	// false 表示等待超时，Records 只是超时前已发布的部分
	Complete bool
}

type Engine struct {
	options
	parser *parse.Parser
	gate   spider.Gate
}

func New(opts ...Option) (*Engine, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	if options.Spider == nil {
		node, err := generator.NewNode(generator.LocalIP())
		if err != nil {
			return nil, err
		}
		sopts := []spider.Option{
			spider.WithLogger(options.Logger),
			spider.WithIDGen(node),
		}
		if options.Fetcher != nil {
			sopts = append(sopts, spider.WithFetcher(options.Fetcher))
		}
		s, err := spider.New(sopts...)
		if err != nil {
			return nil, err
		}
		options.Spider = s
	}
	if options.Limits == nil {
		options.Limits = limiter.NewRegistry()
	}

	return &Engine{
		options: options,
		parser: parse.NewParser(
			parse.WithLogger(options.Logger),
			parse.WithMaxResults(options.MaxResults),
		),
		gate: spider.NewGate(options.PollInterval, options.Ceiling),
	}, nil
}

func siteKey(site *definition.Site) string {
	if site.SiteID != "" {
		return site.SiteID
	}
	return site.ID
}

// Search runs one search against site. A nil result with a nil error means
// there was nothing to do: no site or no usable keyword. A rejected rate
// limit check returns a result carrying the reason together with an error
// matching ErrRateLimited. Any other failure is reported as OutcomeNoData.
func (e *Engine) Search(ctx context.Context, site *definition.Site, keyword string, args FilterArgs, match MatchContext) (*Result, error) {
	return e.SearchBatch(ctx, site, []string{keyword}, args, match)
}

// SearchBatch searches for any of keywords in one request. It behaves like
// Search; keywords that sanitize to nothing are dropped.
func (e *Engine) SearchBatch(ctx context.Context, site *definition.Site, keywords []string, args FilterArgs, match MatchContext) (*Result, error) {
	if site == nil || site.Indexer == nil || blank(keywords) {
		return nil, nil
	}

	logger := e.Logger.With(zap.String("indexer", site.Name))
	res := &Result{Indexer: site.Name}

	if !args.allows(site) {
		res.Outcome = OutcomeFiltered
		res.Reason = "not in site list"
		return res, nil
	}

	words := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = SanitizeKeyword(k); k != "" {
			words = append(words, k)
		}
	}
	if len(words) == 0 {
		return nil, nil
	}
	logger = logger.With(zap.Strings("keyword", words))

	if strings.EqualFold(site.Language, "en") && containsHan(strings.Join(words, " ")) {
		logger.Debug("skip non-english keyword")
		res.Outcome = OutcomeFiltered
		res.Reason = "site does not support chinese keywords"
		return res, nil
	}

	build := func() (*spider.Request, error) {
		return BuildBatchRequest(site, words, match.MediaType, args.Page)
	}
	filter := func(records []record.Torrent) []record.Torrent {
		if e.Filter == nil {
			return records
		}
		return e.Filter.Filter(ctx, site, match, records)
	}
	return e.run(ctx, site, res, logger, build, filter)
}

// List fetches one page of a site's listing without a keyword. The site
// list and language guard do not apply; the rate limit does.
func (e *Engine) List(ctx context.Context, site *definition.Site, page int) (*Result, error) {
	if site == nil || site.Indexer == nil {
		return nil, nil
	}
	logger := e.Logger.With(zap.String("indexer", site.Name), zap.Int("page", page))
	res := &Result{Indexer: site.Name}
	build := func() (*spider.Request, error) {
		return BuildListRequest(site, page)
	}
	return e.run(ctx, site, res, logger, build, nil)
}

func blank(keywords []string) bool {
	for _, k := range keywords {
		if strings.TrimSpace(k) != "" {
			return false
		}
	}
	return true
}

// run 限流检查、提交任务、等待结果
func (e *Engine) run(
	ctx context.Context,
	site *definition.Site,
	res *Result,
	logger *zap.Logger,
	build func() (*spider.Request, error),
	filter func([]record.Torrent) []record.Torrent,
) (*Result, error) {
	if err := e.Limits.Check(siteKey(site)); err != nil {
		var rejected *limiter.RejectedError
		if errors.As(err, &rejected) {
			res.Reason = rejected.Reason
			res.RetryAt = rejected.RetryAt
		} else {
			res.Reason = err.Error()
		}
		res.Outcome = OutcomeRateLimited
		logger.Warn("rate limited", zap.String("reason", res.Reason))
		return res, fmt.Errorf("search %s: %w", site.Name, err)
	}

	req, err := build()
	if err != nil {
		res.Outcome = OutcomeNoData
		res.Reason = err.Error()
		logger.Warn("build request failed", zap.Error(err))
		return res, nil
	}

	start := time.Now()
	def := site.Indexer
	job := e.Spider.Submit(ctx, req, func(body []byte, emit func(record.Torrent)) (int, error) {
		return e.parser.Walk(def, body, emit)
	})
	logger = logger.With(zap.Int64("job", job.ID.Int64()), zap.String("request", job.Key))
	res.Complete = e.gate.Wait(ctx, job)
	records := job.Take()
	res.Elapsed = time.Since(start)

	// 与是否有结果无关，只看请求是否正常完成
	e.record(site, res.Elapsed, res.Complete && job.Err() == nil, logger)

	if len(records) == 0 {
		res.Outcome = OutcomeNoData
		switch {
		case !res.Complete:
			res.Reason = "timed out waiting for results"
		case job.Err() != nil:
			res.Reason = job.Err().Error()
		default:
			res.Reason = "no matching rows"
		}
		logger.Warn("no data",
			zap.String("reason", res.Reason),
			zap.Duration("elapsed", res.Elapsed))
		return res, nil
	}

	if !res.Complete {
		logger.Warn("returning partial result", zap.Int("count", len(records)))
	}
	if filter != nil {
		records = filter(records)
	}
	res.Outcome = OutcomeOK
	res.Records = records
	logger.Info("search done",
		zap.Int("count", len(records)),
		zap.Duration("elapsed", res.Elapsed))

	return res, nil
}

func (e *Engine) record(site *definition.Site, elapsed time.Duration, ok bool, logger *zap.Logger) {
	if e.Stats == nil {
		return
	}
	err := e.Stats.Record(record.Stat{
		Indexer: site.Name,
		Elapsed: elapsed,
		Success: ok,
		At:      time.Now(),
	})
	if err != nil {
		logger.Error("record stats failed", zap.Error(err))
	}
}
