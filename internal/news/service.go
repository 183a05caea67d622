// Package news 合并站内文章与外部 RSS 条目，供列表页使用。
package news

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/Philipkilonzoke/Bytebyphilip/internal/database"
	"github.com/Philipkilonzoke/Bytebyphilip/internal/logger"
	"github.com/Philipkilonzoke/Bytebyphilip/internal/rss"
)

const (
	FilterAll    = "all"
	FilterCustom = "custom" // 只要站内文章

	siteName = "Byte by Philip"
)

// ArticleLister 站内文章来源，通常是 *database.ArticleStore。
type ArticleLister interface {
	List(ctx context.Context) ([]database.Article, error)
}

// FeedItems 外部条目来源，通常是 *rss.Cache。
type FeedItems interface {
	Items(ctx context.Context) []rss.NewsItem
}

// Service 新闻列表服务。
type Service struct {
	articles ArticleLister
	feeds    FeedItems
	now      func() time.Time
}

// NewService 创建服务。articles 可以为 nil（没有数据库时）。
func NewService(articles ArticleLister, feeds FeedItems) *Service {
	return &Service{
		articles: articles,
		feeds:    feeds,
		now:      time.Now,
	}
}

// Latest 返回站内文章在前、RSS 条目在后的列表。
// filter 为空或 all 返回全部，custom 只返回站内文章，其他值按分类过滤。
// limit <= 0 不限制条数。
func (s *Service) Latest(ctx context.Context, filter string, limit int) []rss.NewsItem {
	filter = strings.ToLower(strings.TrimSpace(filter))

	items := s.editorial(ctx)
	if filter != FilterCustom && s.feeds != nil {
		items = append(items, s.feeds.Items(ctx)...)
	}

	switch filter {
	case "", FilterAll, FilterCustom:
	default:
		items = byCategory(items, filter)
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func (s *Service) editorial(ctx context.Context) []rss.NewsItem {
	if s.articles == nil {
		return nil
	}
	articles, err := s.articles.List(ctx)
	if err != nil {
		logger.Warnf("[news] 读取文章失败，使用示例文章: %v", err)
		articles = s.sampleArticles()
	}

	items := make([]rss.NewsItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, articleItem(a))
	}
	return items
}

// articleItem 将站内文章转换为列表条目。
func articleItem(a database.Article) rss.NewsItem {
	source := strings.TrimSpace(a.Author)
	if source == "" {
		source = siteName
	}
	image := a.Image
	if image == "" {
		image = rss.DefaultImage
	}
	return rss.NewsItem{
		Title:       a.Title,
		Link:        "article.html?slug=" + url.QueryEscape(a.Slug),
		PubDate:     a.PublishedAt,
		PublishedAt: a.PublishedAt,
		Excerpt:     a.Excerpt,
		Summary:     a.Excerpt,
		Image:       image,
		Source:      source,
		Category:    rss.Category(strings.ToLower(strings.TrimSpace(a.Category))),
		IsExternal:  false,
	}
}

func byCategory(items []rss.NewsItem, category string) []rss.NewsItem {
	result := make([]rss.NewsItem, 0, len(items))
	for _, it := range items {
		if string(it.Category) == category {
			result = append(result, it)
		}
	}
	return result
}

func (s *Service) sampleArticles() []database.Article {
	return []database.Article{{
		ID:          "1",
		Title:       "The Future of AI in Kenya",
		Slug:        "future-of-ai-kenya",
		Excerpt:     "Exploring how artificial intelligence is transforming industries across Kenya.",
		Body:        "<p>Artificial intelligence is rapidly transforming industries across Kenya...</p>",
		Author:      "Philip",
		Category:    "AI",
		Image:       rss.DefaultImage,
		PublishedAt: s.now().UTC().Format(time.RFC3339),
	}}
}
