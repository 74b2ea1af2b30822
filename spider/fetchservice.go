package spider

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dreamerjackson/torrentspider/limiter"
	"github.com/dreamerjackson/torrentspider/proxy"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type Fetcher interface {
	Get(ctx context.Context, req *Request) ([]byte, error)
}

type fetchOptions struct {
	timeout  time.Duration
	proxy    proxy.ProxyFunc
	limit    limiter.RateLimiter
	encoding string
	logger   *zap.Logger
}

var defaultFetchOptions = fetchOptions{
	timeout: 15 * time.Second,
	logger:  zap.NewNop(),
}

type FetchOption func(opts *fetchOptions)

func WithTimeout(timeout time.Duration) FetchOption {
	return func(opts *fetchOptions) {
		opts.timeout = timeout
	}
}

func WithProxy(p proxy.ProxyFunc) FetchOption {
	return func(opts *fetchOptions) {
		opts.proxy = p
	}
}

// WithLimit 每次请求前等待限速器
func WithLimit(l limiter.RateLimiter) FetchOption {
	return func(opts *fetchOptions) {
		opts.limit = l
	}
}

// WithEncoding 强制页面编码，为空时自动识别
func WithEncoding(name string) FetchOption {
	return func(opts *fetchOptions) {
		opts.encoding = name
	}
}

func WithFetchLogger(logger *zap.Logger) FetchOption {
	return func(opts *fetchOptions) {
		opts.logger = logger
	}
}

type browserFetch struct {
	fetchOptions
	client *http.Client
}

// NewFetchService returns a Fetcher that behaves like a browser: cookies,
// user agent and extra headers come from the request, and the body is
// decoded to UTF-8.
func NewFetchService(opts ...FetchOption) Fetcher {
	options := defaultFetchOptions
	for _, opt := range opts {
		opt(&options)
	}

	client := &http.Client{
		Timeout: options.timeout,
	}
	if options.proxy != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = options.proxy
		client.Transport = transport
	}

	return &browserFetch{fetchOptions: options, client: client}
}

// 模拟浏览器访问
func (b *browserFetch) Get(ctx context.Context, request *Request) ([]byte, error) {
	if b.limit != nil {
		if err := b.limit.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := request.build()
	if err != nil {
		return nil, fmt.Errorf("get url failed:%w", err)
	}
	req = req.WithContext(ctx)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error status code:%d", resp.StatusCode)
	}

	bodyReader := bufio.NewReader(resp.Body)
	e := b.determineEncoding(bodyReader, request.Encoding, resp.Header.Get("Content-Type"))
	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())

	return io.ReadAll(utf8Reader)
}

func (b *browserFetch) determineEncoding(r *bufio.Reader, name, contentType string) encoding.Encoding {
	if name == "" {
		name = b.encoding
	}
	if name != "" {
		if e, _ := charset.Lookup(name); e != nil {
			return e
		}
		b.logger.Warn("unknown encoding", zap.String("encoding", name))
	}
	return DeterminEncoding(r, contentType, b.logger)
}

func DeterminEncoding(r *bufio.Reader, contentType string, logger *zap.Logger) encoding.Encoding {
	bytes, err := r.Peek(1024)

	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		logger.Error("fetch failed", zap.Error(err))

		return unicode.UTF8
	}

	e, _, _ := charset.DetermineEncoding(bytes, contentType)

	return e
}
