// Package scheduler runs the periodic maintenance jobs: feed sync, weekly
// activity reports and monthly cleanup of old articles.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/levelreader/levelreader/internal/config"
	"github.com/levelreader/levelreader/internal/domain"
	"github.com/levelreader/levelreader/internal/logger"
	"github.com/levelreader/levelreader/internal/pipeline"
)

// Settings keys written by scheduled jobs.
const (
	SettingLastSync     = "last_sync_at"
	SettingLastReport   = "last_report_at"
	SettingLastCleanup  = "last_cleanup_at"
	SettingWeeklyReport = "weekly_report"
)

const jobTimeout = 10 * time.Minute

// MaintenanceStore is the subset of the article repository the scheduled
// jobs need.
type MaintenanceStore interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	CountCreatedSince(ctx context.Context, t time.Time) (int, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}

// SettingsStore records job run markers.
type SettingsStore interface {
	Save(ctx context.Context, key, value string) error
}

// Scheduler owns the cron runner and its jobs.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.SchedulerConfig
	pipeline *pipeline.Pipeline
	store    MaintenanceStore
	settings SettingsStore
	logger   logger.Logger
}

// New creates a scheduler with the configured cron expressions.
func New(
	cfg config.SchedulerConfig,
	p *pipeline.Pipeline,
	store MaintenanceStore,
	settings SettingsStore,
	log logger.Logger,
) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		cfg:      cfg,
		pipeline: p,
		store:    store,
		settings: settings,
		logger:   log,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	jobs := []struct {
		name     string
		schedule string
		run      func(context.Context)
	}{
		{"feed_sync", s.cfg.SyncSchedule, s.runSync},
		{"weekly_report", s.cfg.ReportSchedule, s.runReport},
		{"monthly_cleanup", s.cfg.CleanupSchedule, s.runCleanup},
	}

	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			job.run(ctx)
		}); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", job.name, job.schedule, err)
		}
	}

	s.cron.Start()
	s.logger.Info("Scheduler started",
		logger.String("sync_schedule", s.cfg.SyncSchedule),
		logger.String("report_schedule", s.cfg.ReportSchedule),
		logger.String("cleanup_schedule", s.cfg.CleanupSchedule),
	)
	return nil
}

// Stop stops the cron runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) runSync(ctx context.Context) {
	result, err := s.pipeline.ProcessFeed(ctx)
	if err != nil {
		s.logger.Error("Scheduled sync failed", logger.Error(err))
		return
	}
	s.recordRun(ctx, SettingLastSync)
	s.logger.Info("Scheduled sync completed",
		logger.Int("created", len(result.Created)),
		logger.Int("skipped", result.Skipped),
		logger.Int("errors", len(result.Errors)),
	)
}

// weeklyReport is the activity summary persisted by the report job.
type weeklyReport struct {
	GeneratedAt    time.Time      `json:"generatedAt"`
	RecentArticles int            `json:"recentArticles"`
	TotalArticles  int            `json:"totalArticles"`
	ByDifficulty   map[string]int `json:"byDifficulty"`
	AvgReadingTime float64        `json:"avgReadingTime"`
}

// runReport persists and logs a weekly summary of ingestion activity and
// corpus shape.
func (s *Scheduler) runReport(ctx context.Context) {
	weekAgo := time.Now().AddDate(0, 0, -7)
	recent, err := s.store.CountCreatedSince(ctx, weekAgo)
	if err != nil {
		s.logger.Error("Weekly report failed", logger.Error(err))
		return
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		s.logger.Error("Weekly report failed", logger.Error(err))
		return
	}

	report := weeklyReport{
		GeneratedAt:    time.Now().UTC(),
		RecentArticles: recent,
		TotalArticles:  stats.TotalArticles,
		ByDifficulty:   stats.ByDifficulty,
		AvgReadingTime: stats.AvgReadingTime,
	}
	if data, marshalErr := json.Marshal(report); marshalErr == nil {
		if saveErr := s.settings.Save(ctx, SettingWeeklyReport, string(data)); saveErr != nil {
			s.logger.Warn("Failed to persist weekly report", logger.Error(saveErr))
		}
	}

	s.recordRun(ctx, SettingLastReport)
	s.logger.Info("Weekly report",
		logger.Int("articles_last_7_days", recent),
		logger.Int("total_articles", stats.TotalArticles),
		logger.Any("by_difficulty", stats.ByDifficulty),
		logger.Float64("avg_reading_time", stats.AvgReadingTime),
	)
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	deleted, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("Cleanup failed", logger.Error(err))
		return
	}

	s.recordRun(ctx, SettingLastCleanup)
	s.logger.Info("Cleanup completed",
		logger.Int64("deleted", deleted),
		logger.Time("cutoff", cutoff),
		logger.Int("retention_days", s.cfg.RetentionDays),
	)
}

func (s *Scheduler) recordRun(ctx context.Context, key string) {
	if err := s.settings.Save(ctx, key, time.Now().UTC().Format(time.RFC3339)); err != nil {
		s.logger.Warn("Failed to record job run",
			logger.String("key", key),
			logger.Error(err),
		)
	}
}
