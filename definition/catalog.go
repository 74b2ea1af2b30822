package definition

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

var ErrNotFound = errors.New("indexer definition not found")

// Catalog is an immutable set of definitions built once and passed around by
// reference. Lookups never modify it.
type Catalog struct {
	list   []*Indexer
	byID   map[string]*Indexer
	byHost map[string]*Indexer
}

func NewCatalog(defs ...*Indexer) *Catalog {
	c := &Catalog{
		byID:   make(map[string]*Indexer, len(defs)),
		byHost: make(map[string]*Indexer, len(defs)),
	}
	for _, d := range defs {
		if d == nil || d.ID == "" {
			continue
		}
		if _, ok := c.byID[d.ID]; ok {
			continue
		}
		c.byID[d.ID] = d
		c.list = append(c.list, d)
		if h := NormalizeHost(d.Domain); h != "" {
			if _, ok := c.byHost[h]; !ok {
				c.byHost[h] = d
			}
		}
	}
	sort.Slice(c.list, func(i, j int) bool { return c.list[i].ID < c.list[j].ID })
	return c
}

// LoadDir 加载目录下的全部站点定义，解析失败的文件跳过
func LoadDir(dir string, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read definition dir: %w", err)
	}
	var defs []*Indexer
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yml", ".yaml", ".json":
		default:
			continue
		}
		p := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(p)
		if err != nil {
			logger.Warn("read definition failed", zap.String("file", p), zap.Error(err))
			continue
		}
		def, err := Parse(data)
		if err != nil {
			logger.Warn("parse definition failed", zap.String("file", p), zap.Error(err))
			continue
		}
		defs = append(defs, def)
	}
	logger.Info("definitions loaded", zap.Int("count", len(defs)), zap.String("dir", dir))
	return NewCatalog(defs...), nil
}

func (c *Catalog) Len() int {
	return len(c.list)
}

// All returns the definitions ordered by id. The slice is a copy.
func (c *Catalog) All() []*Indexer {
	out := make([]*Indexer, len(c.list))
	copy(out, c.list)
	return out
}

func (c *Catalog) Get(id string) (*Indexer, error) {
	if d, ok := c.byID[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: id %q", ErrNotFound, id)
}

// Lookup finds the definition whose domain has the same host as rawURL,
// ignoring scheme, port-less differences in case and a leading "www.".
func (c *Catalog) Lookup(rawURL string) (*Indexer, error) {
	h := NormalizeHost(rawURL)
	if h == "" {
		return nil, fmt.Errorf("%w: empty host in %q", ErrNotFound, rawURL)
	}
	if d, ok := c.byHost[h]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: host %q", ErrNotFound, h)
}

// NormalizeHost reduces a url or bare host to lower case host without "www.".
func NormalizeHost(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	h := strings.ToLower(u.Host)
	return strings.TrimPrefix(h, "www.")
}
