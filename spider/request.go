package spider

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"
)

// Request 一次搜索请求，由 engine 根据站点定义构造
type Request struct {
	URL       string
	Method    string
	Form      url.Values
	Cookie    string
	UserAgent string
	Headers   map[string]string
	Encoding  string // 页面编码，为空时自动识别
}

func (r *Request) IsPost() bool {
	return strings.EqualFold(r.Method, http.MethodPost)
}

// 请求的唯一识别码
func (r *Request) Unique() string {
	block := md5.Sum([]byte(r.URL + r.Method + r.Form.Encode()))

	return hex.EncodeToString(block[:])
}

func (r *Request) build() (*http.Request, error) {
	method := http.MethodGet
	var body *strings.Reader
	if r.IsPost() {
		method = http.MethodPost
		body = strings.NewReader(r.Form.Encode())
	}

	var (
		req *http.Request
		err error
	)
	if body != nil {
		req, err = http.NewRequest(method, r.URL, body)
	} else {
		req, err = http.NewRequest(method, r.URL, nil)
	}
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if len(r.Cookie) > 0 {
		req.Header.Set("Cookie", r.Cookie)
	}
	ua := r.UserAgent
	if ua == "" {
		ua = GenerateRandomUA()
	}
	req.Header.Set("User-Agent", ua)

	return req, nil
}
