package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/levelreader/levelreader/internal/domain"
	"github.com/levelreader/levelreader/internal/logger"
)

// Pagination defaults for article listing.
const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

// ListFilter narrows and orders an article listing.
type ListFilter struct {
	Page       int
	Limit      int
	Difficulty string
	Source     string
	Search     string
	Tag        string
	DateFrom   *time.Time
	DateTo     *time.Time
	Published  *bool
	SortBy     string
	SortOrder  string
}

// UpdateInput carries a partial article update. Nil fields are left
// unchanged.
type UpdateInput struct {
	Title             *string
	OriginalContent   *string
	TranslatedContent *string
	Source            *string
	SourceURL         *string
	Difficulty        *domain.Difficulty
	Tags              *[]string
	ReadingTime       *int
	WordCount         *int
	HotScore          *int
	PublishDate       *time.Time
	IsPublished       *bool
}

// sortColumns whitelists sortable columns.
var sortColumns = map[string]string{
	"publish_date": "publish_date",
	"reading_time": "reading_time",
	"difficulty":   "difficulty",
	"hot_score":    "hot_score",
	"created_at":   "created_at",
}

// ArticleRepository persists articles in PostgreSQL.
type ArticleRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewArticleRepository creates an article repository.
func NewArticleRepository(db *sqlx.DB, log logger.Logger) *ArticleRepository {
	return &ArticleRepository{db: db, logger: log}
}

// articleRow mirrors the articles table for sqlx scanning.
type articleRow struct {
	ID                string         `db:"id"`
	Title             string         `db:"title"`
	OriginalContent   string         `db:"original_content"`
	TranslatedContent string         `db:"translated_content"`
	Source            string         `db:"source"`
	SourceURL         string         `db:"source_url"`
	Difficulty        string         `db:"difficulty"`
	Tags              pq.StringArray `db:"tags"`
	ReadingTime       int            `db:"reading_time"`
	WordCount         int            `db:"word_count"`
	HotScore          int            `db:"hot_score"`
	PublishDate       time.Time      `db:"publish_date"`
	IsPublished       bool           `db:"is_published"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

func (r articleRow) toDomain() domain.Article {
	return domain.Article{
		ID:                r.ID,
		Title:             r.Title,
		OriginalContent:   r.OriginalContent,
		TranslatedContent: r.TranslatedContent,
		Source:            r.Source,
		SourceURL:         r.SourceURL,
		Difficulty:        domain.Difficulty(r.Difficulty),
		Tags:              []string(r.Tags),
		ReadingTime:       r.ReadingTime,
		WordCount:         r.WordCount,
		HotScore:          r.HotScore,
		PublishDate:       r.PublishDate,
		IsPublished:       r.IsPublished,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

const articleColumns = `id, title, original_content, translated_content, source, source_url,
	difficulty, tags, reading_time, word_count, hot_score, publish_date, is_published,
	created_at, updated_at`

// Create inserts an article. A missing ID is generated; timestamps are set
// to the current time.
func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now

	query := `
		INSERT INTO articles (
			id, title, original_content, translated_content, source, source_url,
			difficulty, tags, reading_time, word_count, hot_score, publish_date,
			is_published, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.Title, article.OriginalContent, article.TranslatedContent,
		article.Source, article.SourceURL, string(article.Difficulty), pq.Array(article.Tags),
		article.ReadingTime, article.WordCount, article.HotScore, article.PublishDate,
		article.IsPublished, article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}

	r.logger.Debug("Article created",
		logger.String("id", article.ID),
		logger.String("title", article.Title),
	)
	return nil
}

// GetByID fetches a single article. Returns domain.ErrNotFound when the
// article does not exist.
func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	var row articleRow
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get article %s: %w", id, err)
	}

	article := row.toDomain()
	return &article, nil
}

// FindByURLOrTitle returns an article matching either the source URL or
// the exact title. Used for ingestion deduplication. Returns
// domain.ErrNotFound when no article matches.
func (r *ArticleRepository) FindByURLOrTitle(ctx context.Context, sourceURL, title string) (*domain.Article, error) {
	var row articleRow
	query := `SELECT ` + articleColumns + ` FROM articles
		WHERE source_url = $1 OR title = $2
		LIMIT 1`

	if err := r.db.GetContext(ctx, &row, query, sourceURL, title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find article by url or title: %w", err)
	}

	article := row.toDomain()
	return &article, nil
}

// List returns a page of articles matching the filter along with the
// total match count.
func (r *ArticleRepository) List(ctx context.Context, filter ListFilter) ([]domain.Article, int, error) {
	page := filter.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := filter.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	where, args := buildListWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM articles` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	sortCol, ok := sortColumns[filter.SortBy]
	if !ok {
		sortCol = "publish_date"
	}
	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "ASC"
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`SELECT %s FROM articles%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		articleColumns, where, sortCol, order, len(args)-1, len(args))

	var rows []articleRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}

	articles := make([]domain.Article, 0, len(rows))
	for _, row := range rows {
		articles = append(articles, row.toDomain())
	}
	return articles, total, nil
}

func buildListWhere(filter ListFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Difficulty != "" {
		add("difficulty = $%d", filter.Difficulty)
	}
	if filter.Source != "" {
		add("source ILIKE $%d", "%"+filter.Source+"%")
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		clauses = append(clauses, fmt.Sprintf(
			"(title ILIKE $%d OR original_content ILIKE $%d)", len(args), len(args)))
	}
	if filter.Tag != "" {
		add("$%d = ANY(tags)", filter.Tag)
	}
	if filter.DateFrom != nil {
		add("publish_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("publish_date <= $%d", *filter.DateTo)
	}
	if filter.Published != nil {
		add("is_published = $%d", *filter.Published)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Update applies a partial update and returns the updated article.
// Returns domain.ErrNotFound when the article does not exist.
func (r *ArticleRepository) Update(ctx context.Context, id string, input UpdateInput) (*domain.Article, error) {
	var sets []string
	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.Title != nil {
		set("title", *input.Title)
	}
	if input.OriginalContent != nil {
		set("original_content", *input.OriginalContent)
	}
	if input.TranslatedContent != nil {
		set("translated_content", *input.TranslatedContent)
	}
	if input.Source != nil {
		set("source", *input.Source)
	}
	if input.SourceURL != nil {
		set("source_url", *input.SourceURL)
	}
	if input.Difficulty != nil {
		set("difficulty", string(*input.Difficulty))
	}
	if input.Tags != nil {
		set("tags", pq.Array(*input.Tags))
	}
	if input.ReadingTime != nil {
		set("reading_time", *input.ReadingTime)
	}
	if input.WordCount != nil {
		set("word_count", *input.WordCount)
	}
	if input.HotScore != nil {
		set("hot_score", *input.HotScore)
	}
	if input.PublishDate != nil {
		set("publish_date", *input.PublishDate)
	}
	if input.IsPublished != nil {
		set("is_published", *input.IsPublished)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	set("updated_at", time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE articles SET %s WHERE id = $%d RETURNING `+articleColumns,
		strings.Join(sets, ", "), len(args))

	var row articleRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update article %s: %w", id, err)
	}

	article := row.toDomain()
	return &article, nil
}

// Delete removes an article. It reports whether a row was deleted; a
// missing article is not an error.
func (r *ArticleRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete article %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete article %s: %w", id, err)
	}
	return affected > 0, nil
}

// DeleteOlderThan removes articles published before cutoff and returns the
// number deleted.
func (r *ArticleRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE publish_date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old articles: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete old articles: %w", err)
	}
	return affected, nil
}

// CountCreatedSince returns the number of articles created at or after t.
func (r *ArticleRepository) CountCreatedSince(ctx context.Context, t time.Time) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM articles WHERE created_at >= $1`, t); err != nil {
		return 0, fmt.Errorf("count recent articles: %w", err)
	}
	return count, nil
}

// Stats aggregates corpus statistics: totals, per-difficulty counts,
// average reading time and the ten most frequent tags.
func (r *ArticleRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{ByDifficulty: make(map[string]int)}

	type diffCount struct {
		Difficulty string `db:"difficulty"`
		Count      int    `db:"count"`
	}
	var diffs []diffCount
	if err := r.db.SelectContext(ctx, &diffs,
		`SELECT difficulty, COUNT(*) AS count FROM articles GROUP BY difficulty`); err != nil {
		return nil, fmt.Errorf("aggregate difficulties: %w", err)
	}
	for _, d := range diffs {
		stats.ByDifficulty[d.Difficulty] = d.Count
		stats.TotalArticles += d.Count
	}

	var avg sql.NullFloat64
	if err := r.db.GetContext(ctx, &avg,
		`SELECT AVG(reading_time) FROM articles`); err != nil {
		return nil, fmt.Errorf("average reading time: %w", err)
	}
	if avg.Valid {
		stats.AvgReadingTime = avg.Float64
	}

	type tagCount struct {
		Tag   string `db:"tag"`
		Count int    `db:"count"`
	}
	var tags []tagCount
	if err := r.db.SelectContext(ctx, &tags,
		`SELECT tag, COUNT(*) AS count
		 FROM articles, UNNEST(tags) AS tag
		 GROUP BY tag
		 ORDER BY count DESC, tag ASC
		 LIMIT 10`); err != nil {
		return nil, fmt.Errorf("aggregate tags: %w", err)
	}
	for _, t := range tags {
		stats.TopTags = append(stats.TopTags, domain.TagCount{Tag: t.Tag, Count: t.Count})
	}

	return stats, nil
}
