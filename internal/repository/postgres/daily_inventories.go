package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"reportbot/internal/domain/models"
)

// Placeholder values rendered when an inventory entry references a catalog
// item that was deactivated or removed after the count was filed.
const (
	missingItemName     = "Товар не найден"
	missingItemCategory = "unknown"
	missingItemUnit     = "шт"
)

// DailyInventories is the store for catalog-driven inventory counts.
type DailyInventories struct {
	db    *gorm.DB
	items *InventoryItems
}

// NewDailyInventories creates the store. The catalog store is needed to
// resolve entry references when building detailed views.
func NewDailyInventories(db *gorm.DB, items *InventoryItems) *DailyInventories {
	return &DailyInventories{db: db, items: items}
}

// Create inserts an inventory. Referential validation against the catalog
// happens upstream; the store only persists.
func (r *DailyInventories) Create(ctx context.Context, inventory *models.DailyInventory) error {
	if err := r.db.WithContext(ctx).Create(inventory).Error; err != nil {
		return fmt.Errorf("insert daily inventory: %w", err)
	}
	return nil
}

// GetByID fetches one inventory with raw entries.
func (r *DailyInventories) GetByID(ctx context.Context, id int64) (*models.DailyInventory, error) {
	var inventory models.DailyInventory
	err := r.db.WithContext(ctx).First(&inventory, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get daily inventory %d: %w", id, err)
	}
	return &inventory, nil
}

// GetDetailed fetches an inventory and resolves each entry against the
// catalog. Entries whose item has disappeared render a placeholder rather
// than failing, so old counts survive catalog churn.
func (r *DailyInventories) GetDetailed(ctx context.Context, id int64) (*models.DetailedInventory, error) {
	inventory, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(inventory.Entries))
	for _, entry := range inventory.Entries {
		ids = append(ids, entry.ItemID)
	}

	byID, err := r.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	detailed := make([]models.DetailedInventoryEntry, 0, len(inventory.Entries))
	for _, entry := range inventory.Entries {
		resolved := models.DetailedInventoryEntry{
			ItemID:       entry.ItemID,
			ItemName:     missingItemName,
			ItemCategory: missingItemCategory,
			ItemUnit:     missingItemUnit,
			Quantity:     entry.Quantity,
		}
		if item, ok := byID[entry.ItemID]; ok {
			resolved.ItemName = item.Name
			resolved.ItemCategory = item.Category
			resolved.ItemUnit = item.Unit
		}
		detailed = append(detailed, resolved)
	}

	return &models.DetailedInventory{
		ID:          inventory.ID,
		Location:    inventory.Location,
		ShiftType:   inventory.ShiftType,
		CashierName: inventory.CashierName,
		Date:        inventory.Date,
		Entries:     detailed,
		CreatedAt:   inventory.CreatedAt,
		UpdatedAt:   inventory.UpdatedAt,
	}, nil
}

// InventoryFilter narrows List results.
type InventoryFilter struct {
	Location string
	Pagination
}

// List returns inventories newest first plus the unpaginated total.
func (r *DailyInventories) List(ctx context.Context, f InventoryFilter) ([]models.DailyInventory, int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.DailyInventory{})
	if f.Location != "" {
		tx = tx.Where("location = ?", f.Location)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count daily inventories: %w", err)
	}

	var inventories []models.DailyInventory
	if err := f.apply(tx.Order("date DESC")).Find(&inventories).Error; err != nil {
		return nil, 0, fmt.Errorf("list daily inventories: %w", err)
	}
	return inventories, total, nil
}
