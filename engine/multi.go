package engine

import (
	"context"

	"github.com/dreamerjackson/torrentspider/definition"
	"github.com/dreamerjackson/torrentspider/record"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SearchAll searches every site concurrently. Results keep the order of
// sites; sites with nothing to do are left out. One site failing never
// affects the others.
func (e *Engine) SearchAll(ctx context.Context, sites []*definition.Site, keyword string, args FilterArgs, match MatchContext) []*Result {
	results := make([]*Result, len(sites))

	var g errgroup.Group
	if e.WorkCount > 0 {
		g.SetLimit(e.WorkCount)
	}
	for i, site := range sites {
		i, site := i, site
		g.Go(func() error {
			res, err := e.Search(ctx, site, keyword, args, match)
			if err != nil {
				e.Logger.Debug("search failed", zap.Error(err))
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	out := results[:0]
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// Records concatenates the records of successful results.
func Records(results []*Result) []record.Torrent {
	var out []record.Torrent
	for _, r := range results {
		if r != nil && r.Outcome == OutcomeOK {
			out = append(out, r.Records...)
		}
	}
	return out
}
