package rss

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<p>Hello <b>World</b></p>", "Hello World"},
		{"plain text", "plain text"},
		{"a&nbsp;b", "a b"},
		{"&#39;quoted&#39; &quot;twice&quot;", "'quoted' \"twice\""},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"&lt;b&gt;bold&lt;/b&gt;", "bold"},
		{"5 &gt; 3", "5 3"},
		{"<div>  many   spaces  </div>", "many spaces"},
		{"", ""},
	}

	for _, tc := range tests {
		got := cleanText(tc.input)
		if got != tc.expected {
			t.Errorf("cleanText(%q) = %q, 期望 %q", tc.input, got, tc.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	short := "short text"
	if got := truncate(short, 200); got != short {
		t.Errorf("短文本不应被截断: %s", got)
	}

	long := strings.Repeat("这是一段很长的文字", 50)
	got := truncate(long, 200)
	if n := utf8.RuneCountInString(got); n != 200 {
		t.Errorf("截断后长度应为 200 rune，实际 %d", n)
	}
}

func TestExtractImage(t *testing.T) {
	media := func(elems map[string][]ext.Extension) ext.Extensions {
		return ext.Extensions{"media": elems}
	}

	tests := []struct {
		name string
		item *gofeed.Item
		desc string
		want string
	}{
		{
			name: "image enclosure",
			item: &gofeed.Item{Enclosures: []*gofeed.Enclosure{{URL: "https://a/enc.jpg", Type: "image/jpeg"}}},
			want: "https://a/enc.jpg",
		},
		{
			name: "non-image enclosure skipped",
			item: &gofeed.Item{
				Enclosures: []*gofeed.Enclosure{{URL: "https://a/ep.mp3", Type: "audio/mpeg"}},
				Extensions: media(map[string][]ext.Extension{
					"content": {{Attrs: map[string]string{"url": "https://a/media.webp"}}},
				}),
			},
			want: "https://a/media.webp",
		},
		{
			name: "media content with query string",
			item: &gofeed.Item{Extensions: media(map[string][]ext.Extension{
				"content": {{Attrs: map[string]string{"url": "https://a/pic.PNG?w=300"}}},
			})},
			want: "https://a/pic.PNG?w=300",
		},
		{
			name: "video media content falls to thumbnail",
			item: &gofeed.Item{Extensions: media(map[string][]ext.Extension{
				"content":   {{Attrs: map[string]string{"url": "https://a/clip.mp4"}}},
				"thumbnail": {{Attrs: map[string]string{"url": "https://a/thumb"}}},
			})},
			want: "https://a/thumb",
		},
		{
			name: "media group",
			item: &gofeed.Item{Extensions: media(map[string][]ext.Extension{
				"group": {{Children: map[string][]ext.Extension{
					"content": {{Attrs: map[string]string{"url": "https://a/grouped.jpg"}}},
				}}},
			})},
			want: "https://a/grouped.jpg",
		},
		{
			name: "img in description",
			item: &gofeed.Item{},
			desc: `<p>intro</p><img alt="x" src="https://x/y.jpg"> caption`,
			want: "https://x/y.jpg",
		},
		{
			name: "img without src",
			item: &gofeed.Item{},
			desc: `<img alt="none">`,
			want: "",
		},
		{
			name: "nothing",
			item: &gofeed.Item{},
			desc: "plain",
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractImage(tc.item, tc.desc); got != tc.want {
				t.Errorf("extractImage = %q, 期望 %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeItemDefaults(t *testing.T) {
	item := normalizeItem(&gofeed.Item{}, "Google News", CategoryAI, DefaultImage, testNow)

	if item.Title != "No title" {
		t.Errorf("缺失标题应为 No title: %q", item.Title)
	}
	if item.Link != "#" {
		t.Errorf("缺失链接应为 #: %q", item.Link)
	}
	if item.PubDate != "2026-02-19T12:00:00.000Z" || item.PublishedAt != item.PubDate {
		t.Errorf("缺失发布时间应为当前时间: %q", item.PubDate)
	}
	if item.Image != DefaultImage {
		t.Errorf("缺失图片应为默认图: %q", item.Image)
	}
	if item.Source != "Google News" || item.Category != CategoryAI || !item.IsExternal {
		t.Errorf("来源字段不正确: %+v", item)
	}
}

func TestNormalizeItemUsesContentWhenNoDescription(t *testing.T) {
	item := normalizeItem(&gofeed.Item{
		Title:   "Has content",
		Content: `<p>From content:encoded</p><img src="https://c/img.png">`,
	}, "Src", CategoryTech, DefaultImage, testNow)

	if item.Excerpt != "From content:encoded" {
		t.Errorf("摘要应来自 content: %q", item.Excerpt)
	}
	if item.Image != "https://c/img.png" {
		t.Errorf("图片应来自 content: %q", item.Image)
	}
}

// 摘要长度不超过 200 且不含尖括号。
func TestNormalizeExcerptBound(t *testing.T) {
	descriptions := []string{
		strings.Repeat("<p>word &amp; more</p>", 100),
		"&lt;script&gt;alert(1)&lt;/script&gt; tail",
		"a < b and c > d",
		"&amp;lt;double&amp;gt;",
		strings.Repeat("ü", 500),
		"<unclosed tag text",
	}
	for _, d := range descriptions {
		item := normalizeItem(&gofeed.Item{Title: "t", Description: d}, "s", CategoryTech, DefaultImage, testNow)
		if n := utf8.RuneCountInString(item.Excerpt); n > maxExcerptLen {
			t.Errorf("摘要超长 (%d): %q", n, d)
		}
		if strings.ContainsAny(item.Excerpt, "<>") {
			t.Errorf("摘要含有尖括号: %q", item.Excerpt)
		}
		if item.Summary != item.Excerpt {
			t.Errorf("Summary 与 Excerpt 应一致")
		}
	}
}
