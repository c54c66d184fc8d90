package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/levelreader/levelreader/internal/analyzer"
	"github.com/levelreader/levelreader/internal/domain"
	"github.com/levelreader/levelreader/internal/logger"
	"github.com/levelreader/levelreader/internal/pipeline"
	"github.com/levelreader/levelreader/internal/telemetry"
)

type nopLogger struct{}

func (nopLogger) Debug(_ string, _ ...logger.Field) {}
func (nopLogger) Info(_ string, _ ...logger.Field)  {}
func (nopLogger) Warn(_ string, _ ...logger.Field)  {}
func (nopLogger) Error(_ string, _ ...logger.Field) {}
func (nopLogger) Fatal(_ string, _ ...logger.Field) {}
func (n nopLogger) With(_ ...logger.Field) logger.Logger { return n }
func (nopLogger) Sync() error                            { return nil }

type fakeSource struct {
	items []domain.FeedItem
	err   error
}

func (f *fakeSource) FetchLatest(_ context.Context) ([]domain.FeedItem, error) {
	return f.items, f.err
}

// fakeStore is an in-memory article store with the same OR-based dedupe
// semantics as the real repository.
type fakeStore struct {
	articles  []domain.Article
	failTitle string
}

func (s *fakeStore) Create(_ context.Context, article *domain.Article) error {
	if s.failTitle != "" && article.Title == s.failTitle {
		return errors.New("store unavailable")
	}
	article.ID = fmt.Sprintf("id-%d", len(s.articles)+1)
	s.articles = append(s.articles, *article)
	return nil
}

func (s *fakeStore) FindByURLOrTitle(_ context.Context, sourceURL, title string) (*domain.Article, error) {
	for i := range s.articles {
		if s.articles[i].SourceURL == sourceURL || s.articles[i].Title == title {
			return &s.articles[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeTranslator struct {
	failFor string
}

func (f *fakeTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	if f.failFor != "" && strings.Contains(text, f.failFor) {
		return "", errors.New("translator down")
	}
	return "translated: " + text, nil
}

func newPipeline(source *fakeSource, store *fakeStore, trans *fakeTranslator) *pipeline.Pipeline {
	metrics := telemetry.New(prometheus.NewRegistry())
	return pipeline.New(source, store, trans, analyzer.New(&nopLogger{}), metrics, "极客公园", &nopLogger{})
}

func feedItem(n int) domain.FeedItem {
	return domain.FeedItem{
		Title:       fmt.Sprintf("第%d篇文章", n),
		Content:     fmt.Sprintf("第%d篇文章的正文内容。介绍了人工智能技术的发展。", n),
		Link:        fmt.Sprintf("https://example.com/articles/%d", n),
		PublishDate: time.Date(2025, 6, n, 0, 0, 0, 0, time.UTC),
	}
}

func TestProcessFeed_CreatesArticles(t *testing.T) {
	source := &fakeSource{items: []domain.FeedItem{feedItem(1), feedItem(2)}}
	store := &fakeStore{}

	result, err := newPipeline(source, store, &fakeTranslator{}).ProcessFeed(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Created) != 2 || result.Skipped != 0 || len(result.Errors) != 0 {
		t.Fatalf("result = created %d skipped %d errors %d, want 2/0/0",
			len(result.Created), result.Skipped, len(result.Errors))
	}

	article := result.Created[0]
	if article.ID == "" {
		t.Error("created article has no ID")
	}
	if !article.Difficulty.Valid() {
		t.Errorf("difficulty %q is not a valid level", article.Difficulty)
	}
	if article.ReadingTime < 1 {
		t.Errorf("reading time = %d, want >= 1", article.ReadingTime)
	}
	if article.Source != "极客公园" {
		t.Errorf("source = %q", article.Source)
	}
	if len(article.Tags) == 0 || article.Tags[0] != "科技" {
		t.Errorf("tags = %v, want default first", article.Tags)
	}
	if !article.IsPublished {
		t.Error("ingested article should be published")
	}
	if !strings.HasPrefix(article.TranslatedContent, "translated: ") {
		t.Errorf("translated content = %q", article.TranslatedContent)
	}
}

func TestProcessFeed_SecondRunIsIdempotent(t *testing.T) {
	source := &fakeSource{items: []domain.FeedItem{feedItem(1), feedItem(2), feedItem(3)}}
	store := &fakeStore{}
	p := newPipeline(source, store, &fakeTranslator{})

	first, err := p.ProcessFeed(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(first.Created) != 3 {
		t.Fatalf("first run created %d, want 3", len(first.Created))
	}

	second, err := p.ProcessFeed(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second.Created) != 0 || second.Skipped != 3 {
		t.Errorf("second run = created %d skipped %d, want 0/3",
			len(second.Created), second.Skipped)
	}
	if len(store.articles) != 3 {
		t.Errorf("store holds %d articles, want 3", len(store.articles))
	}
}

func TestProcessFeed_TitleMatchAloneIsDuplicate(t *testing.T) {
	item := feedItem(1)
	sameTitle := item
	sameTitle.Link = "https://other.example.com/mirror/1"

	store := &fakeStore{}
	p := newPipeline(&fakeSource{items: []domain.FeedItem{item}}, store, &fakeTranslator{})
	if _, err := p.ProcessFeed(context.Background()); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	result, err := newPipeline(&fakeSource{items: []domain.FeedItem{sameTitle}}, store, &fakeTranslator{}).
		ProcessFeed(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Skipped != 1 || len(result.Created) != 0 {
		t.Errorf("same title under a different URL should dedupe: %+v", result)
	}
}

func TestProcessFeed_TranslationFailureUsesPlaceholder(t *testing.T) {
	items := []domain.FeedItem{feedItem(1), feedItem(2), feedItem(3)}
	store := &fakeStore{}
	trans := &fakeTranslator{failFor: "第2篇"}

	result, err := newPipeline(&fakeSource{items: items}, store, trans).ProcessFeed(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Created) != 3 || len(result.Errors) != 0 {
		t.Fatalf("result = created %d errors %d, want 3/0", len(result.Created), len(result.Errors))
	}

	want := "English translation of: 第2篇文章"
	if got := result.Created[1].TranslatedContent; got != want {
		t.Errorf("translated content = %q, want placeholder %q", got, want)
	}
}

func TestProcessFeed_StoreFailureSkipsItemOnly(t *testing.T) {
	items := []domain.FeedItem{feedItem(1), feedItem(2), feedItem(3)}
	store := &fakeStore{failTitle: "第3篇文章"}

	result, err := newPipeline(&fakeSource{items: items}, store, &fakeTranslator{}).
		ProcessFeed(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Created) != 2 {
		t.Errorf("created %d, want 2", len(result.Created))
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "第3篇文章") {
		t.Errorf("errors = %v, want one entry naming the failed item", result.Errors)
	}
}

func TestProcessFeed_FetchFailureIsFatal(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}

	result, err := newPipeline(source, &fakeStore{}, &fakeTranslator{}).ProcessFeed(context.Background())
	if err == nil {
		t.Fatal("expected error when the feed fetch fails")
	}
	if result != nil {
		t.Errorf("result = %+v, want nil on fatal failure", result)
	}
}
