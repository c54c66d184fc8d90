package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/levelreader/levelreader/internal/domain"
	"github.com/levelreader/levelreader/internal/logger"
)

// SettingsRepository persists key/value service settings.
type SettingsRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewSettingsRepository creates a settings repository.
func NewSettingsRepository(db *sqlx.DB, log logger.Logger) *SettingsRepository {
	return &SettingsRepository{db: db, logger: log}
}

// Save upserts a setting value.
func (r *SettingsRepository) Save(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}

	r.logger.Debug("Setting saved", logger.String("key", key))
	return nil
}

// Get fetches a setting. Returns domain.ErrNotFound when the key does not
// exist.
func (r *SettingsRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	var setting domain.Setting
	query := `SELECT key, value, updated_at FROM settings WHERE key = $1`

	if err := r.db.GetContext(ctx, &setting, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get setting %s: %w", key, err)
	}
	return &setting, nil
}
