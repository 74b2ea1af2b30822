package search

import (
	"fmt"
	"time"

	"github.com/dreamerjackson/torrentspider/definition"
	"github.com/dreamerjackson/torrentspider/limiter"
	"github.com/go-micro/plugins/v4/config/encoder/toml"
	"go-micro.dev/v4/config"
	"go-micro.dev/v4/config/reader"
	"go-micro.dev/v4/config/reader/json"
	"go-micro.dev/v4/config/source"
	"go-micro.dev/v4/config/source/file"
	"go.uber.org/zap"
)

type LimitConfig struct {
	EventCount int
	EventDur   int // 秒
}

// SiteConfig 用户配置的站点，对应 [[Sites]]
type SiteConfig struct {
	ID            string // 定义 id，为空时按 URL 查找
	URL           string
	Name          string
	Cookie        string
	UA            string
	Headers       map[string]string
	Language      string // 覆盖定义中的语言
	LimitSeconds  int // 两次搜索最小间隔，秒
	LimitInterval int // 统计窗口，秒
	LimitCount    int // 窗口内最大搜索次数
}

func (c SiteConfig) Rule() limiter.Rule {
	return limiter.Rule{
		MinSpacing: time.Duration(c.LimitSeconds) * time.Second,
		Window:     time.Duration(c.LimitInterval) * time.Second,
		MaxCount:   c.LimitCount,
	}
}

type Config struct {
	LogLevel    string
	LogFile     string
	Definitions string

	Timeout   time.Duration
	Proxy     []string
	UserAgent string
	Limits    []limiter.Window

	PollInterval time.Duration
	Ceiling      time.Duration
	MaxResults   int
	WorkCount    int

	StorageType string
	SQLURL      string
	BatchCount  int

	Sites []SiteConfig
}

func LoadConfig(path string) (*Config, error) {
	// load config
	enc := toml.NewEncoder()
	cfg, err := config.NewConfig(config.WithReader(json.NewReader(reader.WithEncoder(enc))))
	if err != nil {
		return nil, err
	}
	err = cfg.Load(file.NewSource(
		file.WithPath(path),
		source.WithEncoder(enc),
	))
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	c := &Config{
		LogLevel:    cfg.Get("logLevel").String("INFO"),
		LogFile:     cfg.Get("logFile").String(""),
		Definitions: cfg.Get("definitions").String("definitions"),

		Timeout:   time.Duration(cfg.Get("fetcher", "timeout").Int(15000)) * time.Millisecond,
		Proxy:     cfg.Get("fetcher", "proxy").StringSlice([]string{}),
		UserAgent: cfg.Get("fetcher", "userAgent").String(""),

		PollInterval: time.Duration(cfg.Get("search", "pollInterval").Int(1000)) * time.Millisecond,
		Ceiling:      time.Duration(cfg.Get("search", "ceiling").Int(20000)) * time.Millisecond,
		MaxResults:   cfg.Get("search", "maxResults").Int(100),
		WorkCount:    cfg.Get("search", "workCount").Int(8),

		StorageType: cfg.Get("storage", "type").String(""),
		SQLURL:      cfg.Get("storage", "sqlURL").String(""),
		BatchCount:  cfg.Get("storage", "batchCount").Int(1),
	}

	var limits []LimitConfig
	if err := cfg.Get("fetcher", "limits").Scan(&limits); err != nil {
		return nil, fmt.Errorf("scan fetcher limits: %w", err)
	}
	for _, l := range limits {
		c.Limits = append(c.Limits, limiter.Window{
			Count:    l.EventCount,
			Duration: time.Duration(l.EventDur) * time.Second,
		})
	}

	if err := cfg.Get("Sites").Scan(&c.Sites); err != nil {
		return nil, fmt.Errorf("scan sites: %w", err)
	}

	return c, nil
}

// BindSites resolves every configured site against the catalog and installs
// its limiter rule. Sites without a definition are logged and skipped.
func BindSites(logger *zap.Logger, catalog *definition.Catalog, limits *limiter.Registry, defaultUA string, cfgs []SiteConfig) []*definition.Site {
	sites := make([]*definition.Site, 0, len(cfgs))
	seen := make(map[string]bool, len(cfgs))
	for i, sc := range cfgs {
		var (
			def *definition.Indexer
			err error
		)
		if sc.ID != "" {
			def, err = catalog.Get(sc.ID)
		} else {
			def, err = catalog.Lookup(sc.URL)
		}
		if err != nil {
			logger.Warn("skip site", zap.String("id", sc.ID), zap.String("url", sc.URL), zap.Error(err))
			continue
		}

		ua := sc.UA
		if ua == "" && def.UA == "" {
			ua = defaultUA
		}
		// 同一个定义可以配置多个账号，限流按配置项区分
		siteID := sc.Name
		if siteID == "" {
			siteID = def.ID
		}
		if seen[siteID] {
			siteID = fmt.Sprintf("%s#%d", siteID, i)
		}
		seen[siteID] = true

		site := definition.Bind(def, siteID, sc.Name, definition.Session{
			Cookie:    sc.Cookie,
			UserAgent: ua,
			Headers:   sc.Headers,
		})
		if sc.Language != "" {
			site.Language = sc.Language
		}
		limits.Set(site.SiteID, sc.Rule())
		sites = append(sites, site)
	}
	return sites
}
