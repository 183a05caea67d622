package rss

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Philipkilonzoke/Bytebyphilip/internal/logger"
)

const (
	// ItemsKey 缓存条目的键。
	ItemsKey = "cached_rss_items"
	// LastFetchKey 最近一次抓取时间（毫秒时间戳）的键。
	LastFetchKey = "rss_last_fetch"

	DefaultCacheTTL = 30 * time.Minute
)

// KVStore 缓存使用的键值存储。
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// ItemSource 产生一批新闻条目，通常是 *Aggregator。
type ItemSource interface {
	FetchAll(ctx context.Context) []NewsItem
}

// Cache 整批缓存抓取结果，在有效期内直接返回。
type Cache struct {
	store  KVStore
	source ItemSource
	ttl    time.Duration
	now    func() time.Time
}

// NewCache 创建缓存。ttl <= 0 时使用 30 分钟。
func NewCache(store KVStore, source ItemSource, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		store:  store,
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Refresh 重新抓取并覆盖缓存。写缓存失败只记录日志，仍返回抓取结果。
func (c *Cache) Refresh(ctx context.Context) []NewsItem {
	items := c.source.FetchAll(ctx)

	data, err := json.Marshal(items)
	if err != nil {
		logger.Errorf("[cache] 序列化缓存失败: %v", err)
		return items
	}
	// 先写条目再写时间戳，时间戳缺失时读取方视为无缓存
	if err := c.store.Set(ctx, ItemsKey, string(data)); err != nil {
		logger.Warnf("[cache] 保存缓存失败: %v", err)
		return items
	}
	fetchedAt := strconv.FormatInt(c.now().UnixMilli(), 10)
	if err := c.store.Set(ctx, LastFetchKey, fetchedAt); err != nil {
		logger.Warnf("[cache] 保存抓取时间失败: %v", err)
	}
	return items
}

// Cached 返回有效期内的缓存。缓存不存在、已过期或损坏时 ok 为 false。
func (c *Cache) Cached(ctx context.Context) ([]NewsItem, bool) {
	raw, ok, err := c.store.Get(ctx, ItemsKey)
	if err != nil {
		logger.Warnf("[cache] 读取缓存失败: %v", err)
		return nil, false
	}
	if !ok || raw == "" {
		return nil, false
	}

	last, ok, err := c.store.Get(ctx, LastFetchKey)
	if err != nil || !ok {
		return nil, false
	}
	fetchedMillis, err := strconv.ParseInt(last, 10, 64)
	if err != nil {
		logger.Debugf("[cache] 抓取时间无效 %q: %v", last, err)
		return nil, false
	}

	age := c.now().Sub(time.UnixMilli(fetchedMillis))
	if age >= c.ttl {
		return nil, false
	}

	var items []NewsItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Warnf("[cache] 缓存内容损坏: %v", err)
		return nil, false
	}
	return items, true
}

// Items 优先返回缓存，缓存无效时刷新。
func (c *Cache) Items(ctx context.Context) []NewsItem {
	if items, ok := c.Cached(ctx); ok {
		return items
	}
	return c.Refresh(ctx)
}

// FetchedAt 返回缓存记录的抓取时间，没有记录时 ok 为 false。
func (c *Cache) FetchedAt(ctx context.Context) (time.Time, bool) {
	last, ok, err := c.store.Get(ctx, LastFetchKey)
	if err != nil || !ok {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(last, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
