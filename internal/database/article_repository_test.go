//nolint:testpackage // Testing internal repository requires same package access
package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/levelreader/levelreader/internal/domain"
	"github.com/levelreader/levelreader/internal/logger"
)

type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...logger.Field) {}
func (m *mockLogger) Info(_ string, _ ...logger.Field)  {}
func (m *mockLogger) Warn(_ string, _ ...logger.Field)  {}
func (m *mockLogger) Error(_ string, _ ...logger.Field) {}
func (m *mockLogger) Fatal(_ string, _ ...logger.Field) {}
func (m *mockLogger) With(_ ...logger.Field) logger.Logger { return m }
func (m *mockLogger) Sync() error                          { return nil }

func newMockRepo(t *testing.T) (*ArticleRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewArticleRepository(sqlxDB, &mockLogger{})
	return repo, mock, func() { _ = db.Close() }
}

func articleColumnsList() []string {
	return []string{
		"id", "title", "original_content", "translated_content", "source", "source_url",
		"difficulty", "tags", "reading_time", "word_count", "hot_score", "publish_date",
		"is_published", "created_at", "updated_at",
	}
}

func sampleRow(rows *sqlmock.Rows, id string) *sqlmock.Rows {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id, "示例标题", "示例正文内容。", "Sample translation", "极客公园",
		"https://example.com/"+id, "medium", []byte(`{科技,人工智能}`),
		2, 420, 0, now, true, now, now,
	)
}

func TestArticleRepository_Create(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO articles").
		WithArgs(
			sqlmock.AnyArg(), // generated UUID
			"新文章", "正文内容。", "Translated body", "极客公园",
			"https://example.com/new", "easy", sqlmock.AnyArg(),
			1, 120, 0, sqlmock.AnyArg(), true,
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	article := &domain.Article{
		Title:             "新文章",
		OriginalContent:   "正文内容。",
		TranslatedContent: "Translated body",
		Source:            "极客公园",
		SourceURL:         "https://example.com/new",
		Difficulty:        domain.DifficultyEasy,
		Tags:              []string{"科技"},
		ReadingTime:       1,
		WordCount:         120,
		PublishDate:       time.Now(),
		IsPublished:       true,
	}

	if err := repo.Create(context.Background(), article); err != nil {
		t.Errorf("Create() error = %v", err)
	}
	if article.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if article.CreatedAt.IsZero() || article.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestArticleRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM articles WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestArticleRepository_FindByURLOrTitle(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	rows := sampleRow(sqlmock.NewRows(articleColumnsList()), "a1")
	mock.ExpectQuery("SELECT (.+) FROM articles\\s+WHERE source_url = (.+) OR title =").
		WithArgs("https://example.com/a1", "示例标题").
		WillReturnRows(rows)

	article, err := repo.FindByURLOrTitle(context.Background(), "https://example.com/a1", "示例标题")
	if err != nil {
		t.Fatalf("FindByURLOrTitle() error = %v", err)
	}
	if article.ID != "a1" {
		t.Errorf("ID = %q, want a1", article.ID)
	}
	if len(article.Tags) != 2 || article.Tags[0] != "科技" {
		t.Errorf("Tags = %v", article.Tags)
	}
}

func TestArticleRepository_FindByURLOrTitle_NotFound(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM articles").
		WithArgs("https://example.com/x", "无此标题").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByURLOrTitle(context.Background(), "https://example.com/x", "无此标题")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestArticleRepository_List_DefaultsAndFilter(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM articles WHERE difficulty =").
		WithArgs("easy").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sampleRow(sqlmock.NewRows(articleColumnsList()), "a1")
	mock.ExpectQuery("SELECT (.+) FROM articles WHERE difficulty = (.+) ORDER BY publish_date DESC LIMIT").
		WithArgs("easy", DefaultLimit, 0).
		WillReturnRows(rows)

	articles, total, err := repo.List(context.Background(), ListFilter{Difficulty: "easy"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || len(articles) != 1 {
		t.Errorf("List() = %d articles, total %d", len(articles), total)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestArticleRepository_List_SourceSubstringFilter(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM articles WHERE source ILIKE").
		WithArgs("%极客%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sampleRow(sqlmock.NewRows(articleColumnsList()), "a1")
	mock.ExpectQuery("SELECT (.+) FROM articles WHERE source ILIKE (.+) ORDER BY publish_date DESC LIMIT").
		WithArgs("%极客%", DefaultLimit, 0).
		WillReturnRows(rows)

	articles, total, err := repo.List(context.Background(), ListFilter{Source: "极客"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || len(articles) != 1 {
		t.Errorf("List() = %d articles, total %d", len(articles), total)
	}
	if articles[0].Source != "极客公园" {
		t.Errorf("Source = %q, want 极客公园", articles[0].Source)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestArticleRepository_List_SortByHotScore(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM articles").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sampleRow(sqlmock.NewRows(articleColumnsList()), "a1")
	mock.ExpectQuery("SELECT (.+) FROM articles ORDER BY hot_score DESC LIMIT").
		WithArgs(DefaultLimit, 0).
		WillReturnRows(rows)

	_, _, err := repo.List(context.Background(), ListFilter{SortBy: "hot_score"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestArticleRepository_Update_NotFound(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery("UPDATE articles SET").
		WillReturnError(sql.ErrNoRows)

	title := "新标题"
	_, err := repo.Update(context.Background(), "missing", UpdateInput{Title: &title})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestArticleRepository_Delete(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM articles WHERE id").
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !deleted {
		t.Error("Delete() = false, want true")
	}

	mock.ExpectExec("DELETE FROM articles WHERE id").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err = repo.Delete(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted {
		t.Error("Delete() of missing id = true, want false")
	}
}

func TestArticleRepository_Stats(t *testing.T) {
	repo, mock, cleanup := newMockRepo(t)
	defer cleanup()

	mock.ExpectQuery("SELECT difficulty, COUNT\\(\\*\\)").
		WillReturnRows(sqlmock.NewRows([]string{"difficulty", "count"}).
			AddRow("easy", 3).
			AddRow("medium", 5).
			AddRow("hard", 2))

	mock.ExpectQuery("SELECT AVG\\(reading_time\\)").
		WillReturnRows(sqlmock.NewRows([]string{"avg"}).AddRow(2.4))

	mock.ExpectQuery("SELECT tag, COUNT\\(\\*\\)").
		WillReturnRows(sqlmock.NewRows([]string{"tag", "count"}).
			AddRow("科技", 10).
			AddRow("人工智能", 4))

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalArticles != 10 {
		t.Errorf("TotalArticles = %d, want 10", stats.TotalArticles)
	}
	if stats.ByDifficulty["medium"] != 5 {
		t.Errorf("ByDifficulty = %v", stats.ByDifficulty)
	}
	if stats.AvgReadingTime != 2.4 {
		t.Errorf("AvgReadingTime = %f", stats.AvgReadingTime)
	}
	if len(stats.TopTags) != 2 || stats.TopTags[0].Tag != "科技" {
		t.Errorf("TopTags = %v", stats.TopTags)
	}
}
