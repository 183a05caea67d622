package rss

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	"golang.org/x/net/html"
)

const maxExcerptLen = 200 // 摘要最大字符数

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`\s+`)

	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", "\"",
		"&#39;", "'",
	)
	bracketReplacer = strings.NewReplacer("<", "", ">", "")

	rasterExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
)

// normalizeItem 将 gofeed 条目转换为 NewsItem，所有字段都有兜底值。
func normalizeItem(it *gofeed.Item, source string, category Category, defaultImage string, now time.Time) NewsItem {
	title := cleanText(it.Title)
	if title == "" {
		title = "No title"
	}

	link := strings.TrimSpace(it.Link)
	if link == "" && len(it.Links) > 0 {
		link = strings.TrimSpace(it.Links[0])
	}
	if link == "" {
		link = "#"
	}

	published := strings.TrimSpace(it.Published)
	if published == "" {
		published = strings.TrimSpace(it.Updated)
	}
	if published == "" {
		published = now.UTC().Format(isoMillis)
	}

	description := it.Description
	if strings.TrimSpace(description) == "" {
		description = it.Content
	}
	excerpt := truncate(cleanText(description), maxExcerptLen)

	image := extractImage(it, description)
	if image == "" {
		image = defaultImage
	}

	return NewsItem{
		Title:       title,
		Link:        link,
		PubDate:     published,
		PublishedAt: published,
		Excerpt:     excerpt,
		Summary:     excerpt,
		Image:       image,
		Source:      source,
		Category:    category,
		IsExternal:  true,
	}
}

// cleanText 剥离 HTML 标签并解码常见实体，结果不含尖括号。
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	s = tagRe.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	// &lt;b&gt; 解码后会重新变成标签
	s = tagRe.ReplaceAllString(s, "")
	s = bracketReplacer.Replace(s)
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// truncate 截断到 maxLen 个字符（按 UTF-8 字符计算），不追加省略号。
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:maxLen]))
}

// extractImage 依次尝试 enclosure、media:content、media:thumbnail、描述中的 <img>。
// 都没有时返回空字符串。
func extractImage(it *gofeed.Item, rawDescription string) string {
	for _, enc := range it.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(enc.Type), "image") {
			return enc.URL
		}
	}

	for _, mc := range mediaElements(it.Extensions, "content") {
		if u := mc.Attrs["url"]; u != "" && isRasterImage(u) {
			return u
		}
	}

	for _, th := range mediaElements(it.Extensions, "thumbnail") {
		if u := th.Attrs["url"]; u != "" {
			return u
		}
	}

	return firstImgSrc(rawDescription)
}

// mediaElements 返回 media 命名空间下指定名称的元素，包括 media:group 里嵌套的。
func mediaElements(exts ext.Extensions, name string) []ext.Extension {
	media, ok := exts["media"]
	if !ok {
		return nil
	}
	result := append([]ext.Extension(nil), media[name]...)
	for _, group := range media["group"] {
		result = append(result, group.Children[name]...)
	}
	return result
}

func isRasterImage(raw string) bool {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	return rasterExts[strings.ToLower(path.Ext(p))]
}

// firstImgSrc 返回 HTML 片段中第一个 <img> 的 src。
func firstImgSrc(fragment string) string {
	if !strings.Contains(strings.ToLower(fragment), "<img") {
		return ""
	}
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "img" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "src" && len(val) > 0 {
					return string(val)
				}
				if !more {
					break
				}
			}
		}
	}
}
