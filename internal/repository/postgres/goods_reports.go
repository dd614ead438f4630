package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"reportbot/internal/domain/models"
)

// GoodsReports is the store for goods delivery reports.
type GoodsReports struct {
	db *gorm.DB
}

// NewGoodsReports creates the store.
func NewGoodsReports(db *gorm.DB) *GoodsReports {
	return &GoodsReports{db: db}
}

// Create inserts a goods report. Attached photos are relayed to Telegram by
// the caller and are not persisted here.
func (r *GoodsReports) Create(ctx context.Context, report *models.GoodsReport) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("insert goods report: %w", err)
	}
	return nil
}

// GetByID fetches one goods report.
func (r *GoodsReports) GetByID(ctx context.Context, id int64) (*models.GoodsReport, error) {
	var report models.GoodsReport
	err := r.db.WithContext(ctx).First(&report, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get goods report %d: %w", id, err)
	}
	return &report, nil
}

// GoodsReportFilter narrows List results.
type GoodsReportFilter struct {
	Location string
	Pagination
}

// List returns goods reports newest first plus the unpaginated total.
func (r *GoodsReports) List(ctx context.Context, f GoodsReportFilter) ([]models.GoodsReport, int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.GoodsReport{})
	if f.Location != "" {
		tx = tx.Where("location = ?", f.Location)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count goods reports: %w", err)
	}

	var reports []models.GoodsReport
	if err := f.apply(tx.Order("date DESC")).Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("list goods reports: %w", err)
	}
	return reports, total, nil
}
