package search

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dreamerjackson/torrentspider/definition"
	"github.com/dreamerjackson/torrentspider/limiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testConfig = `
logLevel = "warn"
definitions = "defs"

[fetcher]
timeout = 3000
proxy = ["127.0.0.1:8888"]
userAgent = "cfg-agent"

[[fetcher.limits]]
EventCount = 2
EventDur = 1

[search]
ceiling = 5000

[storage]
type = "mysql"
sqlURL = "root@tcp(127.0.0.1:3306)/stats"

[[Sites]]
id = "hdexample"
name = "HD"
cookie = "uid=1"
limitSeconds = 10

[[Sites]]
url = "https://www.en.example.org/browse.php"
limitInterval = 600
limitCount = 20
[Sites.headers]
Referer = "https://en.example.org/"
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "defs", cfg.Definitions)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"127.0.0.1:8888"}, cfg.Proxy)
	assert.Equal(t, "cfg-agent", cfg.UserAgent)
	assert.Equal(t, []limiter.Window{{Count: 2, Duration: time.Second}}, cfg.Limits)

	// 未配置的使用默认值
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.Ceiling)
	assert.Equal(t, 100, cfg.MaxResults)
	assert.Equal(t, 1, cfg.BatchCount)

	assert.Equal(t, "mysql", cfg.StorageType)
	require.Len(t, cfg.Sites, 2)
	assert.Equal(t, "hdexample", cfg.Sites[0].ID)
	assert.Equal(t, "HD", cfg.Sites[0].Name)
	assert.Equal(t, limiter.Rule{MinSpacing: 10 * time.Second}, cfg.Sites[0].Rule())
	assert.Equal(t, "https://en.example.org/", cfg.Sites[1].Headers["Referer"])
	assert.Equal(t, limiter.Rule{Window: 10 * time.Minute, MaxCount: 20}, cfg.Sites[1].Rule())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestBindSites(t *testing.T) {
	hd, err := definition.Parse([]byte("id: hdexample\nname: HDExample\ndomain: https://hd.example.org\n"))
	require.NoError(t, err)
	en, err := definition.Parse([]byte("id: enexample\ndomain: https://en.example.org\nua: def-agent\n"))
	require.NoError(t, err)
	catalog := definition.NewCatalog(hd, en)

	limits := limiter.NewRegistry()
	sites := BindSites(zap.NewNop(), catalog, limits, "cfg-agent", []SiteConfig{
		{ID: "hdexample", Name: "HD", Cookie: "uid=1", LimitSeconds: 60},
		{URL: "https://www.en.example.org/browse.php", Language: "en"},
		{ID: "missing"},
		{ID: "hdexample", Cookie: "uid=2", LimitSeconds: 60},
		{ID: "hdexample", Cookie: "uid=3", LimitSeconds: 60},
	})
	require.Len(t, sites, 4)

	assert.Equal(t, "HD", sites[0].Name)
	assert.Equal(t, "HD", sites[0].SiteID)
	assert.Equal(t, "uid=1", sites[0].Session.Cookie)
	assert.Equal(t, "cfg-agent", sites[0].UserAgent())
	assert.NoError(t, limits.Check("HD"))
	assert.Error(t, limits.Check("HD"))

	assert.Equal(t, "enexample", sites[1].Name)
	assert.Equal(t, "def-agent", sites[1].UserAgent())
	assert.Equal(t, "en", sites[1].Language)
	// 覆盖只作用于站点，定义保持不变
	assert.Equal(t, "", en.Language)
	assert.NoError(t, limits.Check("enexample"))
	assert.NoError(t, limits.Check("enexample"))

	// 同一定义的多个账号各自限流
	assert.Equal(t, "hdexample", sites[2].SiteID)
	assert.Equal(t, "hdexample#4", sites[3].SiteID)
	assert.NoError(t, limits.Check("hdexample"))
	assert.NoError(t, limits.Check("hdexample#4"))
	assert.Error(t, limits.Check("hdexample"))
}

func TestSampleDefinitions(t *testing.T) {
	catalog, err := definition.LoadDir(filepath.Join("..", "..", "definitions"), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	def, err := catalog.Lookup("https://www.hd.example.org/torrents.php")
	require.NoError(t, err)
	assert.Equal(t, "hdexample", def.ID)
	require.Len(t, def.Field(definition.FieldDownloadVolumeFactor).Case, 6)
	assert.Equal(t, "img.pro_free", def.Field(definition.FieldDownloadVolumeFactor).Case[0].Selector)
}
