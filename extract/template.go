package extract

import (
	"regexp"
	"strings"
)

// placeholders 模板只认识这几个名字，未知名字渲染为空
var placeholders = map[string]bool{
	"tags":                     true,
	"subject":                  true,
	"description_free_forever": true,
	"description_normal":       true,
	"title_default":            true,
	"title_optional":           true,
}

// {{ fields.tags }}, {{ fields['tags'] }} or {{ tags }}
var placeholderRe = regexp.MustCompile(`\{\{\s*(?:fields\.|fields\[\s*['"])?([a-z_]+)(?:['"]\s*\])?\s*\}\}`)

// Render substitutes the named placeholders of tmpl with values.
func Render(tmpl string, values map[string]string) string {
	out := placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		if !placeholders[name] {
			return ""
		}
		return values[name]
	})
	return strings.TrimSpace(out)
}
