package engine

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/dreamerjackson/torrentspider/definition"
	"github.com/dreamerjackson/torrentspider/extract"
	"github.com/dreamerjackson/torrentspider/spider"
)

// 站点的查询模式参数
const (
	// 单个关键字，与
	searchModeAll = "0"
	// 批量关键字，或
	searchModeAny = "1"
)

// BuildRequest turns a site and a sanitized keyword into the search request.
// The path is chosen by media type; {keyword} and {page} are filled in the
// path and in params. Without params or a {keyword} placeholder the keyword
// goes in as search=<keyword>.
func BuildRequest(site *definition.Site, keyword, mediaType string, page int) (*spider.Request, error) {
	return buildSearch(site, keyword, searchModeAll, mediaType, page)
}

// BuildBatchRequest searches for any of keywords in one request, joined with
// the site's batch delimiter.
func BuildBatchRequest(site *definition.Site, keywords []string, mediaType string, page int) (*spider.Request, error) {
	if site == nil || site.Indexer == nil {
		return nil, fmt.Errorf("nil site")
	}
	if len(keywords) == 1 {
		return BuildRequest(site, keywords[0], mediaType, page)
	}
	return buildSearch(site, site.JoinKeywords(keywords), searchModeAny, mediaType, page)
}

func buildSearch(site *definition.Site, keyword, mode, mediaType string, page int) (*spider.Request, error) {
	if site == nil || site.Indexer == nil {
		return nil, fmt.Errorf("nil site")
	}
	def := site.Indexer
	path := def.SearchPath(mediaType).Path
	if page < 0 {
		page = 0
	}
	pageStr := strconv.Itoa(page)

	hasPlaceholder := strings.Contains(path, "{keyword}")
	path = strings.NewReplacer(
		"{keyword}", url.QueryEscape(keyword),
		"{page}", pageStr,
	).Replace(path)

	values := url.Values{}
	if len(def.Search.Params) > 0 {
		// 默认参数，站点参数同名时覆盖
		values.Set("search_mode", mode)
		values.Set("page", pageStr)
		values.Set("notnewword", "1")
		// 保证生成的 URL 稳定
		keys := make([]string, 0, len(def.Search.Params))
		for k := range def.Search.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		r := strings.NewReplacer("{keyword}", keyword, "{page}", pageStr)
		for _, k := range keys {
			values.Set(k, r.Replace(def.Search.Params[k]))
		}
	} else if !hasPlaceholder {
		values.Set("search", keyword)
	}

	rawURL := extract.ResolveURL(def.Domain, path)
	if _, err := url.Parse(rawURL); err != nil {
		return nil, fmt.Errorf("build search url: %w", err)
	}

	req := newRequest(site, rawURL)
	if def.IsPost() {
		req.Method = "POST"
		req.Form = values
		return req, nil
	}
	if q := values.Encode(); q != "" {
		req.URL = rawURL + querySep(rawURL) + q
	}
	return req, nil
}

// BuildListRequest builds the request for a site's browse page. With a
// browse block its path is used and the page is offset by browse.start;
// otherwise the default search path gets page=N for pages after the first.
func BuildListRequest(site *definition.Site, page int) (*spider.Request, error) {
	if site == nil || site.Indexer == nil {
		return nil, fmt.Errorf("nil site")
	}
	def := site.Indexer
	if page < 0 {
		page = 0
	}
	path := def.SearchPath("").Path
	pageNum := page
	switch {
	case def.Browse.Path != "":
		path = def.Browse.Path
		pageNum = def.Browse.Start + page
	case page > 0:
		path += querySep(path) + "page=" + strconv.Itoa(page)
	}
	path = strings.NewReplacer(
		"{keyword}", "",
		"{page}", strconv.Itoa(pageNum),
	).Replace(path)

	rawURL := extract.ResolveURL(def.Domain, path)
	if _, err := url.Parse(rawURL); err != nil {
		return nil, fmt.Errorf("build list url: %w", err)
	}
	return newRequest(site, rawURL), nil
}

func newRequest(site *definition.Site, rawURL string) *spider.Request {
	return &spider.Request{
		URL:       rawURL,
		Method:    "GET",
		Cookie:    site.Session.Cookie,
		UserAgent: site.UserAgent(),
		Headers:   site.Session.Headers,
		Encoding:  site.Encoding,
	}
}

func querySep(u string) string {
	if strings.Contains(u, "?") {
		return "&"
	}
	return "?"
}
