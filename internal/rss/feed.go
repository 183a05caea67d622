// Package rss 抓取外部 RSS 订阅源，归一化为统一的新闻条目，去重后缓存。
//
// 抓取链路: 直连 → CORS 中转 → 分类备用数据。任何一步失败都只会降级，
// 不会把错误抛给调用方。
package rss

import "strings"

// Category 新闻分类。
type Category string

const (
	CategoryTech        Category = "tech"
	CategoryAI          Category = "ai"
	CategoryProgramming Category = "programming"
	CategorySecurity    Category = "security"
	CategoryGadgets     Category = "gadgets"
)

// Categories 按固定顺序返回所有分类。
func Categories() []Category {
	return []Category{CategoryTech, CategoryAI, CategoryProgramming, CategorySecurity, CategoryGadgets}
}

// ParseCategory 解析分类名称（不区分大小写）。
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// FeedSource 订阅源登记项，进程启动后不再修改。
type FeedSource struct {
	URL      string   `json:"url"`
	Category Category `json:"category"`
	// Source 展示用的来源名称，为空时使用抓取器的默认值。
	Source string `json:"source,omitempty"`
}

// NewsItem 统一的新闻条目。JSON 字段名与缓存中的历史数据保持一致。
type NewsItem struct {
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	PubDate     string   `json:"pubDate"`
	PublishedAt string   `json:"publishedAt"`
	Excerpt     string   `json:"excerpt"`
	Summary     string   `json:"summary"`
	Image       string   `json:"image"`
	Source      string   `json:"source"`
	Category    Category `json:"category"`
	IsExternal  bool     `json:"isExternal"`
}

const googleNews = "Google News"

// DefaultRegistry 返回内置的订阅源列表。
func DefaultRegistry() []FeedSource {
	return []FeedSource{
		{URL: "https://news.google.com/rss/search?q=technology&hl=en-US&gl=US&ceid=US:en", Category: CategoryTech, Source: googleNews},
		{URL: "https://news.google.com/rss/search?q=artificial+intelligence&hl=en-US&gl=US&ceid=US:en", Category: CategoryAI, Source: googleNews},
		{URL: "https://news.google.com/rss/search?q=machine+learning&hl=en-US&gl=US&ceid=US:en", Category: CategoryAI, Source: googleNews},
		{URL: "https://news.google.com/rss/search?q=programming&hl=en-US&gl=US&ceid=US:en", Category: CategoryProgramming, Source: googleNews},
		{URL: "https://news.google.com/rss/search?q=cybersecurity&hl=en-US&gl=US&ceid=US:en", Category: CategorySecurity, Source: googleNews},
		{URL: "https://news.google.com/rss/search?q=tech+gadgets&hl=en-US&gl=US&ceid=US:en", Category: CategoryGadgets, Source: googleNews},
	}
}
