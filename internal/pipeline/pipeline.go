// Package pipeline runs the feed ingestion pipeline: fetch, dedupe,
// analyze, classify, translate and persist.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/levelreader/levelreader/internal/analyzer"
	"github.com/levelreader/levelreader/internal/classifier"
	"github.com/levelreader/levelreader/internal/domain"
	"github.com/levelreader/levelreader/internal/logger"
	"github.com/levelreader/levelreader/internal/telemetry"
	"github.com/levelreader/levelreader/internal/translator"
)

// FeedSource provides feed items to ingest.
type FeedSource interface {
	FetchLatest(ctx context.Context) ([]domain.FeedItem, error)
}

// ArticleStore is the subset of the article repository the pipeline needs.
type ArticleStore interface {
	Create(ctx context.Context, article *domain.Article) error
	FindByURLOrTitle(ctx context.Context, sourceURL, title string) (*domain.Article, error)
}

// Result summarises one ingestion run.
type Result struct {
	Created   []domain.Article `json:"created"`
	Skipped   int              `json:"skipped"`
	Errors    []string         `json:"errors"`
	StartedAt time.Time        `json:"startedAt"`
	Duration  time.Duration    `json:"-"`
}

// Pipeline wires the ingestion stages together.
type Pipeline struct {
	source     FeedSource
	store      ArticleStore
	translator translator.Translator
	analyzer   *analyzer.Analyzer
	metrics    *telemetry.Metrics
	sourceName string
	logger     logger.Logger
}

// New creates an ingestion pipeline.
func New(
	source FeedSource,
	store ArticleStore,
	trans translator.Translator,
	an *analyzer.Analyzer,
	metrics *telemetry.Metrics,
	sourceName string,
	log logger.Logger,
) *Pipeline {
	return &Pipeline{
		source:     source,
		store:      store,
		translator: trans,
		analyzer:   an,
		metrics:    metrics,
		sourceName: sourceName,
		logger:     log,
	}
}

// ProcessFeed runs one ingestion pass. Items are processed sequentially
// and best-effort: a failing item is recorded and skipped while the rest
// continue. Only a feed fetch failure aborts the run.
func (p *Pipeline) ProcessFeed(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{StartedAt: start.UTC()}

	items, err := p.source.FetchLatest(ctx)
	if err != nil {
		p.metrics.ObserveSync(telemetry.StatusError, time.Since(start))
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	for _, item := range items {
		article, itemErr := p.processItem(ctx, item)
		switch {
		case itemErr != nil:
			p.metrics.ArticlesIngested.WithLabelValues(telemetry.ResultFailed).Inc()
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: %v", item.Title, itemErr))
			p.logger.Error("Feed item failed",
				logger.String("title", item.Title),
				logger.Error(itemErr),
			)
		case article == nil:
			p.metrics.ArticlesIngested.WithLabelValues(telemetry.ResultDuplicate).Inc()
			result.Skipped++
		default:
			p.metrics.ArticlesIngested.WithLabelValues(telemetry.ResultCreated).Inc()
			result.Created = append(result.Created, *article)
		}
	}

	result.Duration = time.Since(start)
	p.metrics.ObserveSync(telemetry.StatusOK, result.Duration)

	p.logger.Info("Feed processed",
		logger.Int("created", len(result.Created)),
		logger.Int("skipped", result.Skipped),
		logger.Int("errors", len(result.Errors)),
		logger.Duration("duration", result.Duration),
	)

	return result, nil
}

// processItem ingests a single feed item. A nil article with nil error
// means the item was a duplicate.
func (p *Pipeline) processItem(ctx context.Context, item domain.FeedItem) (*domain.Article, error) {
	existing, err := p.store.FindByURLOrTitle(ctx, item.Link, item.Title)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("dedupe check: %w", err)
	}
	if existing != nil {
		p.logger.Debug("Duplicate feed item skipped",
			logger.String("title", item.Title),
			logger.String("link", item.Link),
		)
		return nil, nil
	}

	content := analyzer.NormalizeContent(item.Content)
	analysis := p.analyzer.Analyze(content)
	difficulty := classifier.Classify(analysis)

	article := &domain.Article{
		Title:             item.Title,
		OriginalContent:   content,
		TranslatedContent: p.translate(ctx, content, item.Title),
		Source:            p.sourceName,
		SourceURL:         item.Link,
		Difficulty:        difficulty,
		Tags:              analyzer.ExtractTags(content),
		ReadingTime:       analyzer.ReadingTime(analysis.CharacterCount),
		WordCount:         analysis.CharacterCount,
		PublishDate:       item.PublishDate,
		IsPublished:       true,
	}

	if err := p.store.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("persist article: %w", err)
	}

	return article, nil
}

// translate attempts a real translation and falls back to a placeholder
// built from the article title when the service is unavailable or fails.
func (p *Pipeline) translate(ctx context.Context, text, title string) string {
	translated, err := p.translator.Translate(ctx, text, "zh", "en")
	if err != nil {
		outcome := telemetry.OutcomeFallback
		if !errors.Is(err, translator.ErrNoAPIKey) {
			outcome = telemetry.OutcomeError
			p.logger.Warn("Translation failed, using placeholder",
				logger.String("title", title),
				logger.Error(err),
			)
		}
		p.metrics.TranslationRequests.WithLabelValues(outcome).Inc()
		return translator.Placeholder(title)
	}
	p.metrics.TranslationRequests.WithLabelValues(telemetry.OutcomeOK).Inc()
	return translated
}
