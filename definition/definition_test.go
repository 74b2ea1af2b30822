package definition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDef = `
id: hdexample
name: HDExample
domain: https://www.hd.example.org
language: zh
search:
  paths:
    - path: torrents.php
      type: all
    - path: movie.php
      type: movie
torrents:
  list:
    selector: table.torrents > tr:has(table.torrentname)
  fields:
    title:
      selector: a[href*="details.php?id="]
      attribute: title
    title_optional:
      selector: td.embedded > span
      remove: a, b
      contents: 1
    downloadvolumefactor:
      case:
        img.pro_free: 0
        img.pro_50pctdown: 0.5
        img.pro_free2up: 0
        "*": 1
    free_deadline:
      selector: span[title]
      attribute: title
      filters:
        - name: re_search
          args: ['\d+-\d+-\d+ \d+:\d+:\d+', 0]
        - name: dateparse
          args: "%Y-%m-%d %H:%M:%S"
category_mappings:
  - id: 401
    cat: Movies
`

func TestParse(t *testing.T) {
	def, err := Parse([]byte(sampleDef))
	require.NoError(t, err)

	assert.Equal(t, "hdexample", def.ID)
	assert.Equal(t, "https://www.hd.example.org/", def.Domain)
	assert.Equal(t, "table.torrents > tr:has(table.torrentname)", def.ListSelector())
	assert.NotNil(t, def.CategoryMappings)

	opt := def.Field(FieldTitleOptional)
	require.NotNil(t, opt)
	assert.Equal(t, StringList{"a", "b"}, opt.Remove)
	require.NotNil(t, opt.Contents)
	assert.Equal(t, 1, *opt.Contents)
	assert.Nil(t, opt.Index)
	// title_optional doubles as description
	assert.Same(t, opt, def.Field(FieldDescription))

	fd := def.Field(FieldFreeDeadline)
	require.NotNil(t, fd)
	require.Len(t, fd.Filters, 2)
	assert.Equal(t, "re_search", fd.Filters[0].Name)
	g, ok := fd.Filters[0].Args.Int(-1)
	assert.True(t, ok)
	assert.Equal(t, 0, g)
	assert.Equal(t, Args{"%Y-%m-%d %H:%M:%S"}, fd.Filters[1].Args)

	assert.Nil(t, def.Field(FieldSeeders))
	assert.False(t, def.HasField(FieldSeeders))
}

func TestCaseListKeepsDeclarationOrder(t *testing.T) {
	def, err := Parse([]byte(sampleDef))
	require.NoError(t, err)

	cases := def.Field(FieldDownloadVolumeFactor).Case
	require.Len(t, cases, 4)
	want := []string{"img.pro_free", "img.pro_50pctdown", "img.pro_free2up", "*"}
	for i, c := range cases {
		assert.Equal(t, want[i], c.Selector)
	}
	assert.Equal(t, 0.5, cases[1].Value)
}

func TestParseRejectsMissingID(t *testing.T) {
	_, err := Parse([]byte("name: nobody\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("id: [broken"))
	assert.Error(t, err)
}

func TestSearchPath(t *testing.T) {
	def, err := Parse([]byte(sampleDef))
	require.NoError(t, err)

	assert.Equal(t, "torrents.php", def.SearchPath("").Path)
	assert.Equal(t, "movie.php", def.SearchPath(PathTypeMovie).Path)
	// unknown type falls back to the first path
	assert.Equal(t, "torrents.php", def.SearchPath(PathTypeAnime).Path)

	single := &Indexer{Search: SearchBlock{Paths: []SearchPath{{Path: "browse.php", Type: "tv"}}}}
	assert.Equal(t, "browse.php", single.SearchPath(PathTypeMovie).Path)

	empty := &Indexer{}
	assert.Equal(t, "", empty.SearchPath("").Path)
}

func TestCatalogLookup(t *testing.T) {
	a := &Indexer{ID: "a", Domain: "https://www.alpha.example/"}
	b := &Indexer{ID: "b", Domain: "http://Beta.example"}
	c := NewCatalog(b, a, nil, &Indexer{ID: "a", Domain: "https://dup.example/"})

	assert.Equal(t, 2, c.Len())
	all := c.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)

	tests := []struct {
		url  string
		want string
	}{
		{"https://alpha.example/torrents.php", "a"},
		{"alpha.example", "a"},
		{"http://www.beta.example/rss?x=1", "b"},
	}
	for _, tt := range tests {
		got, err := c.Lookup(tt.url)
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, got.ID)
	}

	_, err := c.Lookup("https://dup.example/")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Lookup("")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Get("zzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hd.yml"), []byte(sampleDef), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("id: [x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js.json"),
		[]byte(`{"id": "jsonsite", "domain": "https://json.example"}`), 0o644))

	c, err := LoadDir(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	site, err := c.Resolve("https://hd.example.org/index.php", "7", "", Session{Cookie: "uid=1"})
	require.NoError(t, err)
	assert.Equal(t, "HDExample", site.Name)
	assert.Equal(t, "7", site.SiteID)
	assert.Equal(t, "uid=1", site.Session.Cookie)

	_, err = LoadDir(filepath.Join(dir, "missing"), nil)
	assert.Error(t, err)
}

func TestBrowseAndBatch(t *testing.T) {
	def, err := Parse([]byte(`
id: batch
domain: https://pt.example
browse:
  path: torrents.php?page={page}
  start: 1
batch:
  delimiter: " | "
  space_replace: "+"
`))
	require.NoError(t, err)
	assert.Equal(t, "torrents.php?page={page}", def.Browse.Path)
	assert.Equal(t, 1, def.Browse.Start)
	assert.Equal(t, "the+movie | other", def.JoinKeywords([]string{"the movie", "other"}))

	plain := &Indexer{}
	assert.Equal(t, "the movie other", plain.JoinKeywords([]string{"the movie", "other"}))
	assert.Equal(t, "", plain.JoinKeywords(nil))
}
