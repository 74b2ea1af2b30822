// Package definition describes how one tracker site is searched and how its
// listing page is turned into torrent records.
//
// Definitions are loaded once and shared by every search against the site, so
// nothing in this package mutates an Indexer after Normalize has run.
package definition

import (
	"strings"
)

// 字段名称，固定集合
const (
	FieldTitle                = "title"
	FieldTitleDefault         = "title_default"
	FieldTitleOptional        = "title_optional"
	FieldDescription          = "description"
	FieldDetails              = "details"
	FieldDownload             = "download"
	FieldIMDBID               = "imdbid"
	FieldSize                 = "size"
	FieldLeechers             = "leechers"
	FieldSeeders              = "seeders"
	FieldGrabs                = "grabs"
	FieldDownloadVolumeFactor = "downloadvolumefactor"
	FieldUploadVolumeFactor   = "uploadvolumefactor"
	FieldDateAdded            = "date_added"
	FieldDateElapsed          = "date_elapsed"
	FieldFreeDeadline         = "free_deadline"
	FieldCategory             = "category"
	FieldLabels               = "labels"

	// 模板模式下的子字段
	FieldTags                   = "tags"
	FieldSubject                = "subject"
	FieldDescriptionFreeForever = "description_free_forever"
	FieldDescriptionNormal      = "description_normal"
)

// 搜索路径类型
const (
	PathTypeAll   = "all"
	PathTypeMovie = "movie"
	PathTypeTV    = "tv"
	PathTypeAnime = "anime"
)

type Indexer struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Domain   string `yaml:"domain"`
	Language string `yaml:"language"`
	Encoding string `yaml:"encoding"`
	UA       string `yaml:"ua"`
	Public   bool   `yaml:"public"`
	// 透传，不在本模块解释
	UserInfo         map[string]interface{} `yaml:"userinfo"`
	CategoryMappings interface{}            `yaml:"category_mappings"`

	Search   SearchBlock  `yaml:"search"`
	Browse   BrowseBlock  `yaml:"browse"`
	Batch    BatchBlock   `yaml:"batch"`
	Torrents TorrentBlock `yaml:"torrents"`
}

type SearchBlock struct {
	Method string            `yaml:"method"`
	Paths  []SearchPath      `yaml:"paths"`
	Params map[string]string `yaml:"params"`
}

type SearchPath struct {
	Path string `yaml:"path"`
	Type string `yaml:"type"`
}

// BrowseBlock 浏览首页时使用的路径，Start 为站点的起始页码
type BrowseBlock struct {
	Path  string `yaml:"path"`
	Start int    `yaml:"start"`
}

// BatchBlock controls how several keywords are joined into one query.
type BatchBlock struct {
	Delimiter    string `yaml:"delimiter"`
	SpaceReplace string `yaml:"space_replace"`
}

type TorrentBlock struct {
	List   ListBlock             `yaml:"list"`
	Fields map[string]*FieldSpec `yaml:"fields"`
}

type ListBlock struct {
	Selector string `yaml:"selector"`
}

// FieldSpec 单个字段的提取规则
type FieldSpec struct {
	Selector  string     `yaml:"selector"`
	Attribute string     `yaml:"attribute"`
	Filters   []Filter   `yaml:"filters"`
	Remove    StringList `yaml:"remove"`
	Case      CaseList   `yaml:"case"`
	Text      string     `yaml:"text"`
	Index     *int       `yaml:"index"`
	Contents  *int       `yaml:"contents"`
}

// Filter is one named step of a field pipeline. Unknown names pass the value through.
type Filter struct {
	Name string `yaml:"name"`
	Args Args   `yaml:"args"`
}

// CaseEntry maps a candidate selector to a fixed volume factor.
type CaseEntry struct {
	Selector string
	Value    float64
}

// CaseList keeps case entries in declaration order; the first match wins.
type CaseList []CaseEntry

// HasAttribute reports whether the field reads an attribute instead of text.
func (f *FieldSpec) HasAttribute() bool {
	return f != nil && f.Attribute != ""
}

// Field returns the field rule for name, nil when the site does not declare it.
func (i *Indexer) Field(name string) *FieldSpec {
	if i == nil || i.Torrents.Fields == nil {
		return nil
	}
	return i.Torrents.Fields[name]
}

func (i *Indexer) HasField(name string) bool {
	return i.Field(name) != nil
}

// ListSelector returns the raw row selector.
func (i *Indexer) ListSelector() string {
	return i.Torrents.List.Selector
}

// SearchPath 按媒体类型选择搜索路径，只有一个路径时直接使用
func (i *Indexer) SearchPath(mediaType string) SearchPath {
	paths := i.Search.Paths
	if len(paths) == 0 {
		return SearchPath{}
	}
	if len(paths) == 1 {
		return paths[0]
	}
	want := mediaType
	if want == "" {
		want = PathTypeAll
	}
	for _, p := range paths {
		if p.Type == want {
			return p
		}
	}
	return paths[0]
}

// JoinKeywords 批量查询时拼接关键字，未配置 batch 时以空格拼接
func (i *Indexer) JoinKeywords(words []string) string {
	delimiter, space := i.Batch.Delimiter, i.Batch.SpaceReplace
	if delimiter == "" {
		delimiter = " "
	}
	if space == "" {
		space = " "
	}
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, strings.ReplaceAll(w, " ", space))
	}
	return strings.Join(parts, delimiter)
}

// IsPost reports whether searches are sent as form posts.
func (i *Indexer) IsPost() bool {
	return strings.EqualFold(i.Search.Method, "post")
}

// Normalize fixes up fields that site files commonly get slightly wrong.
func (i *Indexer) Normalize() {
	i.Domain = strings.TrimSpace(i.Domain)
	if i.Domain != "" && !strings.HasSuffix(i.Domain, "/") {
		i.Domain += "/"
	}
	if i.Name == "" {
		i.Name = i.ID
	}
	// description 缺省时兼容 title_optional 写法
	if i.Torrents.Fields != nil {
		if _, ok := i.Torrents.Fields[FieldDescription]; !ok {
			if opt, ok := i.Torrents.Fields[FieldTitleOptional]; ok && opt != nil {
				i.Torrents.Fields[FieldDescription] = opt
			}
		}
	}
}
