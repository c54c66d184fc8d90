// Package api exposes the reader service's HTTP surface: article CRUD,
// statistics, sync and translation endpoints.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/levelreader/levelreader/internal/analyzer"
	"github.com/levelreader/levelreader/internal/classifier"
	"github.com/levelreader/levelreader/internal/database"
	"github.com/levelreader/levelreader/internal/domain"
	"github.com/levelreader/levelreader/internal/logger"
	"github.com/levelreader/levelreader/internal/pipeline"
	"github.com/levelreader/levelreader/internal/translator"
)

// Pinger verifies the backing store is reachable, for readiness checks.
type Pinger interface {
	PingContext(ctx context.Context) error
}

const readyCheckTimeout = 2 * time.Second

// Handler handles HTTP requests for the reader API.
type Handler struct {
	articles   *database.ArticleRepository
	pipeline   *pipeline.Pipeline
	translator translator.Translator
	analyzer   *analyzer.Analyzer
	db         Pinger
	version    string
	logger     logger.Logger
}

// NewHandler creates an API handler.
func NewHandler(
	articles *database.ArticleRepository,
	p *pipeline.Pipeline,
	trans translator.Translator,
	an *analyzer.Analyzer,
	db Pinger,
	version string,
	log logger.Logger,
) *Handler {
	return &Handler{
		articles:   articles,
		pipeline:   p,
		translator: trans,
		analyzer:   an,
		db:         db,
		version:    version,
		logger:     log,
	}
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": h.version,
	})
}

// ReadyCheck handles GET /ready. The service is ready when the database
// responds to a ping.
func (h *Handler) ReadyCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyCheckTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("Readiness check failed", logger.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// ListArticles handles GET /api/v1/articles.
func (h *Handler) ListArticles(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	articles, total, err := h.articles.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("List articles failed", logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to list articles")
		return
	}

	page := filter.Page
	if page < 1 {
		page = database.DefaultPage
	}
	limit := filter.Limit
	if limit < 1 {
		limit = database.DefaultLimit
	}

	respondOK(c, ArticleListResponse{
		Articles:   articles,
		Pagination: newPagination(page, limit, total),
	})
}

func parseListFilter(c *gin.Context) (database.ListFilter, error) {
	filter := database.ListFilter{
		Difficulty: c.Query("difficulty"),
		Source:     c.Query("source"),
		Search:     c.Query("search"),
		Tag:        c.Query("tag"),
		SortBy:     c.DefaultQuery("sortBy", "publish_date"),
		SortOrder:  c.DefaultQuery("sortOrder", "desc"),
	}

	if filter.Difficulty != "" && !domain.Difficulty(filter.Difficulty).Valid() {
		return filter, errors.New("invalid difficulty")
	}

	var err error
	if filter.Page, err = intQuery(c, "page", database.DefaultPage); err != nil {
		return filter, errors.New("invalid page")
	}
	if filter.Limit, err = intQuery(c, "limit", database.DefaultLimit); err != nil {
		return filter, errors.New("invalid limit")
	}

	if from := c.Query("dateFrom"); from != "" {
		t, parseErr := time.Parse(time.RFC3339, from)
		if parseErr != nil {
			return filter, errors.New("invalid dateFrom, expected RFC3339")
		}
		filter.DateFrom = &t
	}
	if to := c.Query("dateTo"); to != "" {
		t, parseErr := time.Parse(time.RFC3339, to)
		if parseErr != nil {
			return filter, errors.New("invalid dateTo, expected RFC3339")
		}
		filter.DateTo = &t
	}
	if published := c.Query("published"); published != "" {
		b, parseErr := strconv.ParseBool(published)
		if parseErr != nil {
			return filter, errors.New("invalid published, expected boolean")
		}
		filter.Published = &b
	}

	return filter, nil
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// GetArticle handles GET /api/v1/articles/:id.
func (h *Handler) GetArticle(c *gin.Context) {
	article, err := h.articles.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		h.logger.Error("Get article failed",
			logger.String("id", c.Param("id")),
			logger.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "failed to get article")
		return
	}
	respondOK(c, article)
}

// CreateArticle handles POST /api/v1/articles. Difficulty, tags, reading
// time and word count are derived from the content when not supplied.
func (h *Handler) CreateArticle(c *gin.Context) {
	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	content := analyzer.NormalizeContent(req.OriginalContent)
	analysis := h.analyzer.Analyze(content)

	difficulty := domain.Difficulty(req.Difficulty)
	if difficulty == "" {
		difficulty = classifier.Classify(analysis)
	}

	tags := req.Tags
	if len(tags) == 0 {
		tags = analyzer.ExtractTags(content)
	}

	translated := req.TranslatedContent
	if translated == "" {
		translated = translator.Placeholder(req.Title)
	}

	publishDate := time.Now().UTC()
	if req.PublishDate != nil {
		publishDate = *req.PublishDate
	}
	isPublished := true
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}

	article := &domain.Article{
		Title:             strings.TrimSpace(req.Title),
		OriginalContent:   content,
		TranslatedContent: translated,
		Source:            req.Source,
		SourceURL:         req.SourceURL,
		Difficulty:        difficulty,
		Tags:              tags,
		ReadingTime:       analyzer.ReadingTime(analysis.CharacterCount),
		WordCount:         analysis.CharacterCount,
		HotScore:          req.HotScore,
		PublishDate:       publishDate,
		IsPublished:       isPublished,
	}

	if err := h.articles.Create(c.Request.Context(), article); err != nil {
		h.logger.Error("Create article failed", logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to create article")
		return
	}

	h.logger.Info("Article created via API",
		logger.String("id", article.ID),
		logger.String("difficulty", string(article.Difficulty)),
	)
	respondCreated(c, article)
}

// UpdateArticle handles PATCH /api/v1/articles/:id. When the content
// changes, every analysis-derived field (difficulty, tags, reading time,
// word count) is recomputed from the new content unless the patch sets it
// explicitly.
func (h *Handler) UpdateArticle(c *gin.Context) {
	var req UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	input := database.UpdateInput{
		Title:             req.Title,
		OriginalContent:   req.OriginalContent,
		TranslatedContent: req.TranslatedContent,
		Source:            req.Source,
		SourceURL:         req.SourceURL,
		Tags:              req.Tags,
		HotScore:          req.HotScore,
		PublishDate:       req.PublishDate,
		IsPublished:       req.IsPublished,
	}
	if req.Difficulty != nil {
		d := domain.Difficulty(*req.Difficulty)
		input.Difficulty = &d
	}
	if req.OriginalContent != nil {
		content := analyzer.NormalizeContent(*req.OriginalContent)
		analysis := h.analyzer.Analyze(content)
		readingTime := analyzer.ReadingTime(analysis.CharacterCount)
		input.ReadingTime = &readingTime
		input.WordCount = &analysis.CharacterCount
		if req.Difficulty == nil {
			d := classifier.Classify(analysis)
			input.Difficulty = &d
		}
		if req.Tags == nil {
			tags := analyzer.ExtractTags(content)
			input.Tags = &tags
		}
	}

	article, err := h.articles.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(c, http.StatusNotFound, "article not found")
			return
		}
		h.logger.Error("Update article failed",
			logger.String("id", c.Param("id")),
			logger.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "failed to update article")
		return
	}
	respondOK(c, article)
}

// DeleteArticle handles DELETE /api/v1/articles/:id. Deleting a missing
// article reports not found but is not a server error.
func (h *Handler) DeleteArticle(c *gin.Context) {
	deleted, err := h.articles.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Delete article failed",
			logger.String("id", c.Param("id")),
			logger.Error(err),
		)
		respondError(c, http.StatusInternalServerError, "failed to delete article")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "article not found")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Message: "article deleted"})
}

// GetStats handles GET /api/v1/articles/stats.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.articles.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("Stats query failed", logger.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	respondOK(c, stats)
}

// TriggerSync handles POST /api/v1/sync, running one ingestion pass.
func (h *Handler) TriggerSync(c *gin.Context) {
	result, err := h.pipeline.ProcessFeed(c.Request.Context())
	if err != nil {
		h.logger.Error("Manual sync failed", logger.Error(err))
		respondError(c, http.StatusBadGateway, "feed fetch failed")
		return
	}
	respondOK(c, result)
}

// Translate handles POST /api/v1/translate. Translation failures fall
// back to the placeholder rather than erroring.
func (h *Handler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.From == "" {
		req.From = "zh"
	}
	if req.To == "" {
		req.To = "en"
	}

	translated, err := h.translator.Translate(c.Request.Context(), req.Text, req.From, req.To)
	if err != nil {
		if !errors.Is(err, translator.ErrNoAPIKey) {
			h.logger.Warn("Translation failed, returning placeholder", logger.Error(err))
		}
		respondOK(c, TranslateResponse{
			TranslatedText: translator.Placeholder(req.Text),
			Fallback:       true,
		})
		return
	}
	respondOK(c, TranslateResponse{TranslatedText: translated})
}
