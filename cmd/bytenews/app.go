package main

import (
	"fmt"
	"time"

	"github.com/Philipkilonzoke/Bytebyphilip/internal/config"
	"github.com/Philipkilonzoke/Bytebyphilip/internal/database"
	"github.com/Philipkilonzoke/Bytebyphilip/internal/logger"
	"github.com/Philipkilonzoke/Bytebyphilip/internal/news"
	"github.com/Philipkilonzoke/Bytebyphilip/internal/rss"
)

// app 持有命令行用到的全部组件。
type app struct {
	cfg        *config.Config
	db         *database.DB
	articles   *database.ArticleStore
	aggregator *rss.Aggregator
	cache      *rss.Cache
	news       *news.Service
}

func newApp(cfg *config.Config) (*app, error) {
	registry, err := buildRegistry(cfg.News.Feeds)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	var store rss.KVStore
	switch cfg.News.CacheBackend {
	case "file":
		fs, err := rss.NewFileStore(cfg.DataDir)
		if err != nil {
			db.Close()
			return nil, err
		}
		store = fs
	default:
		store = database.NewKVStore(db)
	}

	fetcher := rss.NewFetcher(rss.FetcherOptions{
		RelayURL:     cfg.News.RelayURL,
		UserAgent:    cfg.News.UserAgent,
		DefaultImage: cfg.News.DefaultImage,
		SourceLabel:  cfg.News.SourceLabel,
		MaxItems:     cfg.News.MaxItemsPerFeed,
		Timeout:      time.Duration(cfg.News.FetchTimeoutSeconds) * time.Second,
	})
	aggregator := rss.NewAggregator(fetcher, registry, cfg.News.MaxConcurrentFeeds)
	cache := rss.NewCache(store, aggregator, time.Duration(cfg.News.CacheTTLMinutes)*time.Minute)
	articles := database.NewArticleStore(db)

	logger.Debugf("[main] 缓存存储=%s, 订阅源 %d 个, 数据库 %s", cfg.News.CacheBackend, len(registry), db.Path())

	return &app{
		cfg:        cfg,
		db:         db,
		articles:   articles,
		aggregator: aggregator,
		cache:      cache,
		news:       news.NewService(articles, cache),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// buildRegistry 将配置中的订阅源转换为登记表，未配置时使用内置列表。
func buildRegistry(feeds []config.FeedConfig) ([]rss.FeedSource, error) {
	if len(feeds) == 0 {
		return rss.DefaultRegistry(), nil
	}
	registry := make([]rss.FeedSource, 0, len(feeds))
	for i, f := range feeds {
		category, ok := rss.ParseCategory(f.Category)
		if !ok {
			return nil, fmt.Errorf("news.feeds[%d] 分类无效: %q", i, f.Category)
		}
		registry = append(registry, rss.FeedSource{URL: f.URL, Category: category, Source: f.Source})
	}
	return registry, nil
}
