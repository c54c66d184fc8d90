// Package feed fetches and cleans RSS feed entries for ingestion.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/levelreader/levelreader/internal/config"
	"github.com/levelreader/levelreader/internal/domain"
	"github.com/levelreader/levelreader/internal/logger"
)

// minContentLength is the threshold below which a candidate content field
// is considered too short to be the article body.
const minContentLength = 50

const userAgent = "LevelReader Bot 1.0"

// Fetcher retrieves items from a single RSS feed.
type Fetcher struct {
	parser   *gofeed.Parser
	url      string
	maxItems int
	logger   logger.Logger
}

// NewFetcher creates a feed fetcher for the configured source.
func NewFetcher(cfg config.FeedConfig, log logger.Logger) *Fetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = &http.Client{Timeout: cfg.Timeout}

	return &Fetcher{
		parser:   parser,
		url:      cfg.URL,
		maxItems: cfg.MaxItems,
		logger:   log,
	}
}

// FetchLatest returns up to the configured number of feed items, newest
// first, with titles and bodies cleaned of HTML.
func (f *Fetcher) FetchLatest(ctx context.Context) ([]domain.FeedItem, error) {
	parsed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", f.url, err)
	}

	items := make([]domain.FeedItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		items = append(items, domain.FeedItem{
			Title:       CleanText(item.Title),
			Content:     extractContent(item),
			Link:        item.Link,
			PublishDate: publishDate(item),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].PublishDate.After(items[j].PublishDate)
	})

	if len(items) > f.maxItems {
		items = items[:f.maxItems]
	}

	f.logger.Info("Fetched feed items",
		logger.String("url", f.url),
		logger.Int("count", len(items)),
	)

	return items, nil
}

// extractContent picks the best available body field, preferring full
// content over the description; short fragments fall back to the title.
func extractContent(item *gofeed.Item) string {
	for _, candidate := range []string{item.Content, item.Description} {
		if len(candidate) > minContentLength {
			return CleanContent(candidate)
		}
	}
	return CleanText(item.Title)
}

func publishDate(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Now()
}
