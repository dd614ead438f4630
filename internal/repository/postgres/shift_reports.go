package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"reportbot/internal/domain/models"
)

// ShiftReports is the store for shift closing reports.
type ShiftReports struct {
	db *gorm.DB
}

// NewShiftReports creates the store.
func NewShiftReports(db *gorm.DB) *ShiftReports {
	return &ShiftReports{db: db}
}

// Create inserts a fully assembled report. Derived fields must already be
// computed; the store never recalculates them.
func (r *ShiftReports) Create(ctx context.Context, report *models.ShiftReport) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("insert shift report: %w", err)
	}
	return nil
}

// GetByID fetches one report.
func (r *ShiftReports) GetByID(ctx context.Context, id int64) (*models.ShiftReport, error) {
	var report models.ShiftReport
	err := r.db.WithContext(ctx).First(&report, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get shift report %d: %w", id, err)
	}
	return &report, nil
}

// ShiftReportFilter narrows List results.
type ShiftReportFilter struct {
	Location string
	From     *time.Time
	To       *time.Time
	Pagination
}

// List returns reports newest first plus the unpaginated total.
func (r *ShiftReports) List(ctx context.Context, f ShiftReportFilter) ([]models.ShiftReport, int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.ShiftReport{})
	if f.Location != "" {
		tx = tx.Where("location = ?", f.Location)
	}
	if f.From != nil {
		tx = tx.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("date < ?", *f.To)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count shift reports: %w", err)
	}

	var reports []models.ShiftReport
	if err := f.apply(tx.Order("date DESC")).Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("list shift reports: %w", err)
	}
	return reports, total, nil
}

// MarkSent transitions a draft report to sent. The guard on the current
// status keeps the transition one-way: a report that is already sent is left
// untouched.
func (r *ShiftReports) MarkSent(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).
		Model(&models.ShiftReport{}).
		Where("id = ? AND status = ?", id, models.StatusDraft).
		Update("status", models.StatusSent).Error
	if err != nil {
		return fmt.Errorf("mark shift report %d sent: %w", id, err)
	}
	return nil
}

// PhotoPaths returns every stored photo reference; the janitor uses it to
// tell orphaned uploads apart from live ones.
func (r *ShiftReports) PhotoPaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).
		Model(&models.ShiftReport{}).
		Pluck("photo_path", &paths).Error
	if err != nil {
		return nil, fmt.Errorf("collect photo paths: %w", err)
	}
	return paths, nil
}
