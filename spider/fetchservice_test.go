package spider

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestFetchSendsSession(t *testing.T) {
	var got *http.Request
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		assert.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, "<html><body>ok</body></html>")
	}))
	defer srv.Close()

	f := NewFetchService(WithTimeout(5 * time.Second))
	body, err := f.Get(context.Background(), &Request{
		URL:       srv.URL + "/torrents.php",
		Method:    "post",
		Form:      url.Values{"search": {"电影"}},
		Cookie:    "uid=1; pass=x",
		UserAgent: "test-agent",
		Headers:   map[string]string{"Referer": "https://pt.example/"},
	})
	require.NoError(t, err)
	assert.Contains(t, string(body), "ok")

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "uid=1; pass=x", got.Header.Get("Cookie"))
	assert.Equal(t, "test-agent", got.Header.Get("User-Agent"))
	assert.Equal(t, "https://pt.example/", got.Header.Get("Referer"))
	assert.Equal(t, "电影", form.Get("search"))
}

func TestFetchRandomUserAgent(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	_, err := NewFetchService().Get(context.Background(), &Request{URL: srv.URL})
	require.NoError(t, err)
	assert.Contains(t, userAgents, ua)
}

func TestFetchStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewFetchService().Get(context.Background(), &Request{URL: srv.URL})
	assert.Error(t, err)
}

func TestFetchDecodesCharset(t *testing.T) {
	page := `<html><head><meta charset="gbk"></head><body>种子列表</body></html>`
	encoded, err := simplifiedchinese.GBK.NewEncoder().String(page)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=gbk")
		io.WriteString(w, encoded)
	}))
	defer srv.Close()

	body, err := NewFetchService().Get(context.Background(), &Request{URL: srv.URL})
	require.NoError(t, err)
	assert.Contains(t, string(body), "种子列表")

	// 显式指定编码
	body, err = NewFetchService(WithEncoding("gbk")).Get(context.Background(), &Request{URL: srv.URL})
	require.NoError(t, err)
	assert.Contains(t, string(body), "种子列表")

	body, err = NewFetchService().Get(context.Background(), &Request{URL: srv.URL, Encoding: "gb18030"})
	require.NoError(t, err)
	assert.Contains(t, string(body), "种子列表")
}

func TestRequestUnique(t *testing.T) {
	a := &Request{URL: "https://pt.example/t.php", Method: "GET"}
	b := &Request{URL: "https://pt.example/t.php", Method: "POST", Form: url.Values{"k": {"v"}}}
	assert.NotEqual(t, a.Unique(), b.Unique())
	assert.Equal(t, a.Unique(), (&Request{URL: a.URL, Method: "GET"}).Unique())
}
