package rss

import "time"

// DefaultImage 条目没有图片时使用的占位图。
const DefaultImage = "assets/default-news.jpg"

// isoMillis 与浏览器 Date.toISOString 相同的格式。
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type fallbackEntry struct {
	title   string
	excerpt string
	source  string
	age     time.Duration
}

const day = 24 * time.Hour

var fallbackTable = map[Category][]fallbackEntry{
	CategoryTech: {
		{"Latest Technology Trends Reshaping Industries in 2025",
			"Explore how emerging technologies are transforming businesses and creating new opportunities across various sectors.",
			"Tech News", 0},
		{"Cloud Computing Advances Drive Digital Transformation",
			"New cloud services and infrastructure improvements are enabling faster innovation and scalability for businesses.",
			"Tech News", day},
	},
	CategoryAI: {
		{"Artificial Intelligence Breakthroughs in Natural Language Processing",
			"Recent advances in AI language models are pushing the boundaries of what machines can understand and generate.",
			"AI News", 0},
		{"Machine Learning Models Achieve Human-Level Performance in Complex Tasks",
			"New ML architectures demonstrate remarkable capabilities in pattern recognition and decision making.",
			"AI News", day},
	},
	CategoryProgramming: {
		{"Modern Development Frameworks Simplify Complex Applications",
			"New tools and frameworks are making it easier for developers to build sophisticated applications faster.",
			"Dev News", 0},
		{"Open Source Projects Driving Innovation in Software Development",
			"Community-driven projects continue to shape the future of software development with collaborative innovations.",
			"Dev News", 2 * day},
	},
	CategorySecurity: {
		{"Cybersecurity Threats Evolve as Digital Transformation Accelerates",
			"Organizations face new challenges in protecting data and systems from increasingly sophisticated cyber attacks.",
			"Security News", 0},
		{"Zero Trust Architecture Becomes Essential for Modern Security",
			"Companies are adopting zero trust principles to better protect against evolving security threats.",
			"Security News", day},
	},
	CategoryGadgets: {
		{"Latest Tech Gadgets Showcase Innovation in Consumer Electronics",
			"New devices and hardware innovations are bringing cutting-edge technology to everyday consumers.",
			"Gadget News", 0},
		{"Wearable Technology Advances Health and Fitness Tracking",
			"Smart devices are providing more accurate health monitoring and personalized fitness insights.",
			"Gadget News", day},
	},
}

// FallbackNews 返回分类的备用新闻，时间戳相对 now 计算。
// 未知分类返回 tech 的数据。
func FallbackNews(category Category, now time.Time) []NewsItem {
	entries, ok := fallbackTable[category]
	if !ok {
		category = CategoryTech
		entries = fallbackTable[CategoryTech]
	}

	items := make([]NewsItem, 0, len(entries))
	for _, e := range entries {
		published := now.Add(-e.age).UTC().Format(isoMillis)
		items = append(items, NewsItem{
			Title:       e.title,
			Link:        "#",
			PubDate:     published,
			PublishedAt: published,
			Excerpt:     e.excerpt,
			Summary:     e.excerpt,
			Image:       DefaultImage,
			Source:      e.source,
			Category:    category,
			IsExternal:  true,
		})
	}
	return items
}

// AllFallbackNews 按分类顺序拼接所有备用新闻。
func AllFallbackNews(now time.Time) []NewsItem {
	var items []NewsItem
	for _, c := range Categories() {
		items = append(items, FallbackNews(c, now)...)
	}
	return items
}
