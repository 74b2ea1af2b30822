package extract

import (
	"testing"

	"github.com/dreamerjackson/torrentspider/definition"
	"github.com/stretchr/testify/assert"
)

func TestApplyFilters(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		filters []definition.Filter
		want    string
	}{
		{
			name:  "no filters keeps raw value",
			value: "  raw  ",
			want:  "  raw  ",
		},
		{
			name:  "replaces run in declared order",
			value: "abc",
			filters: []definition.Filter{
				{Name: "replace", Args: definition.Args{"ab", "x"}},
				{Name: "replace", Args: definition.Args{"xc", "done"}},
			},
			want: "done",
		},
		{
			name:  "reversed order gives a different result",
			value: "abc",
			filters: []definition.Filter{
				{Name: "replace", Args: definition.Args{"xc", "done"}},
				{Name: "replace", Args: definition.Args{"ab", "x"}},
			},
			want: "xc",
		},
		{
			name:    "unknown filter is a no-op",
			value:   "keep",
			filters: []definition.Filter{{Name: "translate", Args: definition.Args{"zh"}}},
			want:    "keep",
		},
		{
			name:    "re_search first capture group",
			value:   "id=12345&x",
			filters: []definition.Filter{{Name: "re_search", Args: definition.Args{`id=(\d+)`}}},
			want:    "12345",
		},
		{
			name:    "re_search explicit group zero",
			value:   "id=12345&x",
			filters: []definition.Filter{{Name: "re_search", Args: definition.Args{`id=(\d+)`, "0"}}},
			want:    "id=12345",
		},
		{
			name:    "re_search flags",
			value:   "FREE until tomorrow",
			filters: []definition.Filter{{Name: "re_search", Args: definition.Args{`free \w+`, "i"}}},
			want:    "FREE until",
		},
		{
			name:    "re_search no match empties",
			value:   "nothing here",
			filters: []definition.Filter{{Name: "re_search", Args: definition.Args{`\d+`}}},
			want:    "",
		},
		{
			name:    "re_search bad pattern leaves value",
			value:   "value",
			filters: []definition.Filter{{Name: "re_search", Args: definition.Args{`(`}}},
			want:    "value",
		},
		{
			name:    "split with index",
			value:   "a|b|c",
			filters: []definition.Filter{{Name: "split", Args: definition.Args{"|", "-1"}}},
			want:    "c",
		},
		{
			name:    "split out of range leaves value",
			value:   "a|b",
			filters: []definition.Filter{{Name: "split", Args: definition.Args{"|", "5"}}},
			want:    "a|b",
		},
		{
			name:    "appendleft",
			value:   "tt0111161",
			filters: []definition.Filter{{Name: "appendleft", Args: definition.Args{"https://imdb.com/title/"}}},
			want:    "https://imdb.com/title/tt0111161",
		},
		{
			name:    "dateparse substitutes literal",
			value:   "2023-01-01",
			filters: []definition.Filter{{Name: "dateparse", Args: definition.Args{"permanent"}}},
			want:    "permanent",
		},
		{
			name:    "strip",
			value:   "  padded ",
			filters: []definition.Filter{{Name: "strip"}},
			want:    "padded",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyFilters(tt.value, tt.filters))
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"1024", 1024},
		{"1 KB", 1024},
		{"1.5 GB", 1610612736},
		{"2GiB", 2147483648},
		{"1,024.00 MB", 1073741824},
		{"1 TB", 1099511627776},
		{"3 PB", 3377699720527872},
		{"about a gig", 0},
		{"NaN", 0},
		{"inf", 0},
		{"Infinity", 0},
		{"1e30", 0},
		{"-5 GB", 0},
		{"99999999 PB", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSize(tt.in), tt.in)
	}
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, 0, ParseCount(""))
	assert.Equal(t, 12, ParseCount(" 12 "))
	assert.Equal(t, 1234, ParseCount("1,234"))
	assert.Equal(t, 7, ParseCount("7/3"))
	assert.Equal(t, 3, ParseCount("3.0"))
	assert.Equal(t, 0, ParseCount("---"))
	assert.Equal(t, 0, ParseCount("-"))
	assert.Equal(t, 0, ParseCount("-3"))
	assert.Equal(t, 0, ParseCount("NaN"))
	assert.Equal(t, 0, ParseCount("inf"))
	assert.Equal(t, 0, ParseCount("1e30"))
	assert.Equal(t, 0, ParseCount("99999999999999999999"))
}

func TestResolveURL(t *testing.T) {
	const domain = "https://pt.example/"
	tests := []struct {
		link string
		want string
	}{
		{"", ""},
		{"download.php?id=1", "https://pt.example/download.php?id=1"},
		{"/download.php?id=1", "https://pt.example/download.php?id=1"},
		{"//cdn.example/t/1", "https://cdn.example/t/1"},
		{"http://other.example/x", "http://other.example/x"},
		{"magnet:?xt=urn:btih:abc", "magnet:?xt=urn:btih:abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveURL(domain, tt.link), tt.link)
	}
	assert.Equal(t, "http://a.example/x", ResolveURL("http://a.example", "x"))
	assert.Equal(t, "rel", ResolveURL("", "rel"))
}

func TestRender(t *testing.T) {
	values := map[string]string{"tags": "国语", "subject": "剧集", "other": "x"}
	assert.Equal(t, "剧集 国语", Render("{{fields.subject}} {{ fields.tags }}", values))
	assert.Equal(t, "", Render("{{ fields.other }}", values))
	assert.Equal(t, "plain", Render("plain", values))
}
