package rss

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/Philipkilonzoke/Bytebyphilip/internal/logger"
	"golang.org/x/sync/errgroup"
)

const dedupKeyLen = 50

// FeedFetcher 抓取单个订阅源。实现不应返回空结果，但聚合器不依赖这一点。
type FeedFetcher interface {
	FetchFeed(ctx context.Context, src FeedSource) FeedResult
}

// Aggregator 并发抓取所有订阅源并合并结果。
type Aggregator struct {
	fetcher       FeedFetcher
	registry      []FeedSource
	maxConcurrent int
	now           func() time.Time
}

// NewAggregator 创建聚合器。maxConcurrent <= 0 表示不限制并发数。
func NewAggregator(fetcher FeedFetcher, registry []FeedSource, maxConcurrent int) *Aggregator {
	reg := make([]FeedSource, len(registry))
	copy(reg, registry)
	return &Aggregator{
		fetcher:       fetcher,
		registry:      reg,
		maxConcurrent: maxConcurrent,
		now:           time.Now,
	}
}

// Registry 返回订阅源列表的副本。
func (a *Aggregator) Registry() []FeedSource {
	result := make([]FeedSource, len(a.registry))
	copy(result, a.registry)
	return result
}

// FetchAll 抓取全部订阅源，按登记顺序拼接并去重。
// 全部为空时返回所有分类的备用数据，不会返回错误。
func (a *Aggregator) FetchAll(ctx context.Context) []NewsItem {
	start := time.Now()
	results := make([][]NewsItem, len(a.registry))

	var g errgroup.Group
	if a.maxConcurrent > 0 {
		g.SetLimit(a.maxConcurrent)
	}
	for i, src := range a.registry {
		i, src := i, src
		g.Go(func() error {
			results[i] = a.fetchOne(ctx, src)
			return nil // 单个订阅源的失败不影响整体
		})
	}
	_ = g.Wait()

	var all []NewsItem
	for _, items := range results {
		all = append(all, items...)
	}

	if len(all) == 0 {
		logger.Warnf("[rss] %d 个订阅源均无数据，使用全局备用数据", len(a.registry))
		all = AllFallbackNews(a.now())
	}

	deduped := Deduplicate(all)
	logger.Infof("[rss] 抓取完成: %d 个订阅源, %d 条, 去重后 %d 条, 耗时 %s",
		len(a.registry), len(all), len(deduped), time.Since(start).Round(time.Millisecond))
	return deduped
}

// fetchOne 调用抓取器，panic 时返回空列表。
func (a *Aggregator) fetchOne(ctx context.Context, src FeedSource) (items []NewsItem) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[rss] 抓取 %s (%s) 时发生异常: %v", src.URL, src.Category, r)
			items = nil
		}
	}()
	return a.fetcher.FetchFeed(ctx, src).Items
}

// Deduplicate 按标题键去重，保留首次出现的条目，顺序不变。
func Deduplicate(items []NewsItem) []NewsItem {
	seen := make(map[string]struct{}, len(items))
	result := make([]NewsItem, 0, len(items))
	for _, it := range items {
		key := dedupKey(it.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, it)
	}
	return result
}

// dedupKey 小写、去掉所有空白后取前 dedupKeyLen 个字符。
func dedupKey(title string) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.ToLower(title) {
		if unicode.IsSpace(r) {
			continue
		}
		if n == dedupKeyLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
