package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"reportbot/internal/domain/models"
)

// WriteoffTransfers is the store for write-off and transfer acts.
type WriteoffTransfers struct {
	db *gorm.DB
}

// NewWriteoffTransfers creates the store.
func NewWriteoffTransfers(db *gorm.DB) *WriteoffTransfers {
	return &WriteoffTransfers{db: db}
}

// Create inserts an act. The caller has already checked that at least one of
// the two lists is populated.
func (r *WriteoffTransfers) Create(ctx context.Context, act *models.WriteoffTransfer) error {
	if err := r.db.WithContext(ctx).Create(act).Error; err != nil {
		return fmt.Errorf("insert writeoff/transfer act: %w", err)
	}
	return nil
}

// GetByID fetches one act.
func (r *WriteoffTransfers) GetByID(ctx context.Context, id int64) (*models.WriteoffTransfer, error) {
	var act models.WriteoffTransfer
	err := r.db.WithContext(ctx).First(&act, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get writeoff/transfer act %d: %w", id, err)
	}
	return &act, nil
}

// ActFilter narrows List results.
type ActFilter struct {
	Location string
	Pagination
}

// List returns acts newest first plus the unpaginated total.
func (r *WriteoffTransfers) List(ctx context.Context, f ActFilter) ([]models.WriteoffTransfer, int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.WriteoffTransfer{})
	if f.Location != "" {
		tx = tx.Where("location = ?", f.Location)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count writeoff/transfer acts: %w", err)
	}

	var acts []models.WriteoffTransfer
	if err := f.apply(tx.Order("created_at DESC")).Find(&acts).Error; err != nil {
		return nil, 0, fmt.Errorf("list writeoff/transfer acts: %w", err)
	}
	return acts, total, nil
}
