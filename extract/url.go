package extract

import "strings"

// ResolveURL 相对链接拼接站点域名，domain 需以 / 结尾
func ResolveURL(domain, link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	lower := strings.ToLower(link)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "magnet:") {
		return link
	}
	if strings.HasPrefix(link, "//") {
		scheme := "https"
		if i := strings.Index(domain, ":"); i > 0 {
			scheme = domain[:i]
		}
		return scheme + ":" + link
	}
	if domain == "" {
		return link
	}
	if !strings.HasSuffix(domain, "/") {
		domain += "/"
	}
	return domain + strings.TrimPrefix(link, "/")
}
