// Package scheduler runs the nightly uploads janitor.
package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"reportbot/internal/config"
	"reportbot/internal/service/storage"
)

// PhotoPathSource lists every photo reference persisted with a report.
type PhotoPathSource interface {
	PhotoPaths(ctx context.Context) ([]string, error)
}

// Scheduler runs the periodic uploads sweep. Photos are written to disk
// before the report row is inserted, so a failed insert can leave a file no
// report references; the sweep removes those once they age past the retention
// window.
type Scheduler struct {
	cron    *cron.Cron
	files   *storage.FileService
	reports PhotoPathSource
	cfg     config.JanitorConfig
	logger  *zap.Logger
}

// NewScheduler creates a scheduler instance.
func NewScheduler(cfg config.JanitorConfig, files *storage.FileService, reports PhotoPathSource, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:    cron.New(),
		files:   files,
		reports: reports,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start registers the sweep on the configured cron schedule and starts the
// cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sweepOrphanedUploads)
	if err != nil {
		s.logger.Error("failed to schedule uploads sweep", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sweepOrphanedUploads() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	referenced, err := s.reports.PhotoPaths(ctx)
	if err != nil {
		s.logger.Error("failed to collect referenced photos", zap.Error(err))
		return
	}

	live := make(map[string]bool, len(referenced))
	for _, path := range referenced {
		live[filepath.Base(path)] = true
	}

	cutoff := time.Now().Add(-time.Duration(s.cfg.RetentionDays) * 24 * time.Hour)
	dir := s.files.ShiftReportsDir()

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.logger.Error("failed to read uploads dir", zap.String("dir", dir), zap.Error(err))
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || live[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			s.logger.Warn("failed to remove orphaned upload",
				zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}

	s.logger.Info("uploads sweep finished",
		zap.Int("scanned", len(entries)), zap.Int("removed", removed))
}
