//nolint:testpackage // Exercises unexported extraction helpers
package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "新功能发布", "新功能发布"},
		{"tags stripped", "<b>重大</b>新闻", "重大新闻"},
		{"entities replaced", "A&amp;B&nbsp;公司", "A B 公司"},
		{"whitespace collapsed", "  多余   空格\n换行  ", "多余 空格 换行"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanContent(t *testing.T) {
	in := `<script>alert("x")</script><style>p{color:red}</style><p>正文&nbsp;内容</p>`
	if got := CleanContent(in); got != "正文 内容" {
		t.Errorf("CleanContent = %q, want %q", got, "正文 内容")
	}

	multiline := "<SCRIPT>\nvar a = 1;\n</SCRIPT>保留的文本"
	if got := CleanContent(multiline); got != "保留的文本" {
		t.Errorf("CleanContent = %q, want script block removed", got)
	}

	long := strings.Repeat("字", 3000)
	if n := len([]rune(CleanContent(long))); n != maxFeedContentLength {
		t.Errorf("cleaned length = %d, want %d", n, maxFeedContentLength)
	}
}

func TestExtractContent(t *testing.T) {
	longBody := strings.Repeat("这是一段足够长的正文内容。", 10)

	tests := []struct {
		name string
		item *gofeed.Item
		want string
	}{
		{
			name: "prefers full content",
			item: &gofeed.Item{Title: "标题", Content: longBody, Description: "短描述"},
			want: CleanContent(longBody),
		},
		{
			name: "falls back to description",
			item: &gofeed.Item{Title: "标题", Description: longBody},
			want: CleanContent(longBody),
		},
		{
			name: "short fields fall back to title",
			item: &gofeed.Item{Title: "只有标题", Content: "短", Description: "也短"},
			want: "只有标题",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractContent(tt.item); got != tt.want {
				t.Errorf("extractContent = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPublishDate(t *testing.T) {
	published := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	item := &gofeed.Item{PublishedParsed: &published, UpdatedParsed: &updated}
	if got := publishDate(item); !got.Equal(published) {
		t.Errorf("publishDate = %v, want published time", got)
	}

	item = &gofeed.Item{UpdatedParsed: &updated}
	if got := publishDate(item); !got.Equal(updated) {
		t.Errorf("publishDate = %v, want updated time", got)
	}

	before := time.Now()
	got := publishDate(&gofeed.Item{})
	if got.Before(before) {
		t.Error("publishDate without timestamps should default to now")
	}
}
