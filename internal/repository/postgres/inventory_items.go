package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"reportbot/internal/domain/models"
)

// InventoryItems is the store for the mutable item catalog.
type InventoryItems struct {
	db *gorm.DB
}

// NewInventoryItems creates the store.
func NewInventoryItems(db *gorm.DB) *InventoryItems {
	return &InventoryItems{db: db}
}

// Create inserts a catalog item. A name collision surfaces as
// ErrDuplicateName so the handler can answer with a client error.
func (r *InventoryItems) Create(ctx context.Context, item *models.InventoryItem) error {
	err := r.db.WithContext(ctx).Create(item).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// GetByID fetches one item, active or not.
func (r *InventoryItems) GetByID(ctx context.Context, id int64) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory item %d: %w", id, err)
	}
	return &item, nil
}

// ItemFilter narrows List results.
type ItemFilter struct {
	Category string
	IsActive *bool
	Pagination
}

// List returns catalog items ordered the way the mini-app renders them, plus
// the unpaginated total.
func (r *InventoryItems) List(ctx context.Context, f ItemFilter) ([]models.InventoryItem, int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.InventoryItem{})
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.IsActive != nil {
		tx = tx.Where("is_active = ?", *f.IsActive)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count inventory items: %w", err)
	}

	var items []models.InventoryItem
	if err := f.apply(tx.Order("sort_order, name")).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list inventory items: %w", err)
	}
	return items, total, nil
}

// Update applies the non-nil fields of upd to an existing item.
func (r *InventoryItems) Update(ctx context.Context, id int64, upd models.UpdateInventoryItem) (*models.InventoryItem, error) {
	item, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if upd.Name != nil {
		changes["name"] = *upd.Name
	}
	if upd.Category != nil {
		changes["category"] = *upd.Category
	}
	if upd.Unit != nil {
		changes["unit"] = *upd.Unit
	}
	if upd.Description != nil {
		changes["description"] = *upd.Description
	}
	if upd.SortOrder != nil {
		changes["sort_order"] = *upd.SortOrder
	}
	if upd.IsActive != nil {
		changes["is_active"] = *upd.IsActive
	}
	if len(changes) == 0 {
		return item, nil
	}

	err = r.db.WithContext(ctx).Model(item).Updates(changes).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateName
	}
	if err != nil {
		return nil, fmt.Errorf("update inventory item %d: %w", id, err)
	}
	return item, nil
}

// Deactivate soft-deletes an item. Deactivating an already-inactive item is
// a no-op that still succeeds; historical inventories referencing the id
// remain readable either way.
func (r *InventoryItems) Deactivate(ctx context.Context, id int64) error {
	item, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !item.IsActive {
		return nil
	}

	err = r.db.WithContext(ctx).Model(item).Update("is_active", false).Error
	if err != nil {
		return fmt.Errorf("deactivate inventory item %d: %w", id, err)
	}
	return nil
}

// FindActiveIDs returns the subset of ids that exist and are active.
func (r *InventoryItems) FindActiveIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int64
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id IN ? AND is_active = ?", ids, true).
		Pluck("id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("find active inventory items: %w", err)
	}
	return found, nil
}

// FindByIDs returns the named items keyed by id, ignoring missing ones.
func (r *InventoryItems) FindByIDs(ctx context.Context, ids []int64) (map[int64]models.InventoryItem, error) {
	if len(ids) == 0 {
		return map[int64]models.InventoryItem{}, nil
	}
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("find inventory items: %w", err)
	}
	byID := make(map[int64]models.InventoryItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return byID, nil
}

// Categories lists the distinct categories of active items.
func (r *InventoryItems) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("is_active = ?", true).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
