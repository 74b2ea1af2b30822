package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dreamerjackson/torrentspider/definition"
)

type filterFunc func(value string, args definition.Args) (string, bool)

// 未登记的过滤器原样放行，兼容为新版本编写的站点定义
var filters = map[string]filterFunc{
	"replace":    replaceFilter,
	"re_search":  reSearchFilter,
	"split":      splitFilter,
	"strip":      stripFilter,
	"appendleft": appendLeftFilter,
	"dateparse":  dateParseFilter,
}

// ApplyFilters runs filters in declared order, each one seeing the previous
// output. A filter that cannot apply leaves the value unchanged.
func ApplyFilters(value string, fs []definition.Filter) string {
	if len(fs) == 0 {
		return value
	}
	for _, f := range fs {
		fn, ok := filters[f.Name]
		if !ok {
			continue
		}
		if out, ok := fn(value, f.Args); ok {
			value = out
		}
	}
	return strings.TrimSpace(value)
}

func replaceFilter(value string, args definition.Args) (string, bool) {
	old, ok := args.Get(0)
	if !ok || len(args) < 2 {
		return value, false
	}
	repl, _ := args.Get(-1)
	return strings.ReplaceAll(value, old, repl), true
}

// re_search(pattern[, group|flags]): an integer picks the capture group, when
// the pattern has that many groups; letters i, m and s are regexp flags.
// Without a usable group the first capture group wins, else the whole match.
func reSearchFilter(value string, args definition.Args) (string, bool) {
	pattern, ok := args.Get(0)
	if !ok {
		return value, false
	}
	group := -1
	if len(args) > 1 {
		if n, ok := args.Int(-1); ok {
			group = n
		} else if flags := regexpFlags(args[len(args)-1]); flags != "" {
			pattern = "(?" + flags + ")" + pattern
		}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return value, false
	}
	m := re.FindStringSubmatch(value)
	if m == nil {
		return "", true
	}
	switch {
	case group >= 0 && group < len(m):
		return m[group], true
	case len(m) > 1:
		return m[1], true
	default:
		return m[0], true
	}
}

func regexpFlags(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case 'i', 'm', 's':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func splitFilter(value string, args definition.Args) (string, bool) {
	sep, ok := args.Get(0)
	if !ok || sep == "" {
		return value, false
	}
	idx, ok := args.Int(-1)
	if !ok || len(args) < 2 {
		idx = 0
	}
	parts := strings.Split(value, sep)
	if idx < 0 {
		idx += len(parts)
	}
	if idx < 0 || idx >= len(parts) {
		return value, false
	}
	return parts[idx], true
}

func stripFilter(value string, _ definition.Args) (string, bool) {
	return strings.TrimSpace(value), true
}

func appendLeftFilter(value string, args definition.Args) (string, bool) {
	prefix, ok := args.Get(0)
	if !ok {
		return value, false
	}
	return prefix + value, true
}

// dateparse 丢弃提取到的文本，替换为站点给定的固定值
func dateParseFilter(_ string, args definition.Args) (string, bool) {
	v, ok := args.Get(0)
	if !ok {
		return "", false
	}
	return v, true
}

var numberRe = regexp.MustCompile(`\d+\.?\d*`)

// firstNumber returns the first decimal number in s.
func firstNumber(s string) (float64, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
