package rss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Philipkilonzoke/Bytebyphilip/internal/logger"
	"github.com/mmcdole/gofeed"
)

const (
	defaultMaxItems     = 15 // 每个订阅源保留的最大条目数
	defaultFetchTimeout = 10 * time.Second
	defaultUserAgent    = "Bytebyphilip/1.0 RSS Reader"
	maxFeedBytes        = 10 << 20
)

// 抓取方式，记录在 FeedResult.Via 中。
const (
	ViaDirect   = "direct"
	ViaRelay    = "relay"
	ViaFallback = "fallback"
)

var (
	// ErrHTTPStatus 响应状态码不是 200。
	ErrHTTPStatus = errors.New("HTTP 状态码异常")
	// ErrNoItems 订阅源解析成功但没有条目。
	ErrNoItems = errors.New("订阅源没有条目")
)

// Attempt 一次抓取尝试的结果。
type Attempt struct {
	Strategy string
	Err      error
}

// FeedResult 单个订阅源的抓取结果。Items 永远不为空。
type FeedResult struct {
	Items    []NewsItem
	Via      string
	Attempts []Attempt
}

// FetcherOptions 抓取器配置，零值字段使用默认值。
type FetcherOptions struct {
	// RelayURL CORS 中转地址，请求形如 {RelayURL}?url={订阅源地址}。为空则不走中转。
	RelayURL     string
	UserAgent    string
	DefaultImage string
	SourceLabel  string
	MaxItems     int
	Timeout      time.Duration
}

// strategy 一种获取订阅源内容的方式。target 返回 false 表示跳过。
type strategy struct {
	name   string
	target func(feedURL string) (string, bool)
}

// Fetcher 按顺序尝试各种抓取方式，全部失败时返回分类备用数据。
type Fetcher struct {
	client       *http.Client
	strategies   []strategy
	userAgent    string
	defaultImage string
	sourceLabel  string
	maxItems     int
	timeout      time.Duration
	now          func() time.Time
}

// NewFetcher 创建订阅源抓取器。
func NewFetcher(opts FetcherOptions) *Fetcher {
	f := &Fetcher{
		client:       &http.Client{},
		userAgent:    opts.UserAgent,
		defaultImage: opts.DefaultImage,
		sourceLabel:  opts.SourceLabel,
		maxItems:     opts.MaxItems,
		timeout:      opts.Timeout,
		now:          time.Now,
	}
	if f.userAgent == "" {
		f.userAgent = defaultUserAgent
	}
	if f.defaultImage == "" {
		f.defaultImage = DefaultImage
	}
	if f.sourceLabel == "" {
		f.sourceLabel = googleNews
	}
	if f.maxItems <= 0 {
		f.maxItems = defaultMaxItems
	}
	if f.timeout <= 0 {
		f.timeout = defaultFetchTimeout
	}

	f.strategies = []strategy{
		{name: ViaDirect, target: func(feedURL string) (string, bool) { return feedURL, true }},
		{name: ViaRelay, target: func(feedURL string) (string, bool) { return relayTarget(opts.RelayURL, feedURL) }},
	}
	return f
}

// relayTarget 构造中转请求地址。
func relayTarget(relay, feedURL string) (string, bool) {
	if relay == "" {
		return "", false
	}
	u, err := url.Parse(relay)
	if err != nil {
		logger.Warnf("[rss] 中转地址无效 %q: %v", relay, err)
		return "", false
	}
	q := u.Query()
	q.Set("url", feedURL)
	u.RawQuery = q.Encode()
	return u.String(), true
}

// FetchFeed 抓取单个订阅源，不会返回错误。
func (f *Fetcher) FetchFeed(ctx context.Context, src FeedSource) FeedResult {
	var res FeedResult
	for _, s := range f.strategies {
		target, ok := s.target(src.URL)
		if !ok {
			continue
		}
		items, err := f.fetchItems(ctx, target, src)
		res.Attempts = append(res.Attempts, Attempt{Strategy: s.name, Err: err})
		if err == nil {
			res.Items = items
			res.Via = s.name
			logger.Debugf("[rss] %s 通过 %s 获取 %d 条", src.URL, s.name, len(items))
			return res
		}
		logger.Debugf("[rss] %s 通过 %s 抓取失败: %v", src.URL, s.name, err)
	}

	logger.Warnf("[rss] 抓取 %s 订阅源失败（%d 次尝试），使用备用数据", src.Category, len(res.Attempts))
	res.Items = FallbackNews(src.Category, f.now())
	res.Via = ViaFallback
	return res
}

// fetchItems 请求 target 并解析为 NewsItem，最多保留 maxItems 条。
func (f *Fetcher) fetchItems(ctx context.Context, target string, src FeedSource) ([]NewsItem, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}

	// gofeed.Parser 内部有状态，每次解析使用新实例
	feed, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("解析订阅源失败: %w", err)
	}
	if len(feed.Items) == 0 {
		return nil, ErrNoItems
	}

	source := src.Source
	if source == "" {
		source = f.sourceLabel
	}

	n := len(feed.Items)
	if n > f.maxItems {
		n = f.maxItems
	}
	now := f.now()
	items := make([]NewsItem, 0, n)
	for _, it := range feed.Items[:n] {
		if it == nil {
			continue
		}
		items = append(items, normalizeItem(it, source, src.Category, f.defaultImage, now))
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	return items, nil
}
