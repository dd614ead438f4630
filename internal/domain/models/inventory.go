package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// InventoryItem is a catalog entry daily inventories quantify against. Items
// are deactivated rather than deleted so historical inventories keep resolving
// their ids.
type InventoryItem struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Category    string  `gorm:"size:100;not null;default:Прочее" json:"category"`
	Unit        string  `gorm:"size:50;not null;default:шт" json:"unit"`
	Description *string `gorm:"size:255" json:"description"`
	SortOrder   int     `gorm:"not null;default:0" json:"sort_order"`
	IsActive    bool    `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CreateInventoryItem carries input for a new catalog item.
type CreateInventoryItem struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Category    string  `json:"category"`
	Unit        string  `json:"unit"`
	Description *string `json:"description"`
	SortOrder   int     `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateInventoryItem carries a partial catalog item update; nil fields are
// left untouched.
type UpdateInventoryItem struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Unit        *string `json:"unit"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// InventoryEntry references a catalog item by id with the counted quantity.
type InventoryEntry struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// InventoryEntries is stored as a JSON column; the item reference is weak, no
// relational foreign key backs it.
type InventoryEntries []InventoryEntry

func (e *InventoryEntries) Scan(value interface{}) error {
	*e = InventoryEntries{}
	return scanJSON(value, e)
}

func (e InventoryEntries) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	return json.Marshal(e)
}

// DailyInventory is a catalog-driven stock count filed once per shift.
type DailyInventory struct {
	ID          int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Location    string           `gorm:"size:255;not null" json:"location"`
	ShiftType   string           `gorm:"size:20;not null" json:"shift_type"`
	CashierName string           `gorm:"size:255;not null" json:"cashier_name"`
	Date        time.Time        `gorm:"not null" json:"date"`
	Entries     InventoryEntries `gorm:"type:jsonb;not null" json:"inventory_data"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CreateDailyInventory is the JSON request body for a new inventory.
type CreateDailyInventory struct {
	Location    string           `json:"location" binding:"required"`
	ShiftType   string           `json:"shift_type" binding:"required,oneof=morning night"`
	CashierName string           `json:"cashier_name" binding:"required"`
	Date        *time.Time       `json:"date"`
	Entries     []InventoryEntry `json:"inventory_data" binding:"required"`
}

// DetailedInventoryEntry is an inventory entry joined with its catalog item.
// Items deactivated or removed after the count was filed fall back to a
// placeholder so historical inventories stay renderable.
type DetailedInventoryEntry struct {
	ItemID       int64  `json:"item_id"`
	ItemName     string `json:"item_name"`
	ItemCategory string `json:"item_category"`
	ItemUnit     string `json:"item_unit"`
	Quantity     int    `json:"quantity"`
}

// DetailedInventory is an inventory with all entries resolved.
type DetailedInventory struct {
	ID          int64                    `json:"id"`
	Location    string                   `json:"location"`
	ShiftType   string                   `json:"shift_type"`
	CashierName string                   `json:"cashier_name"`
	Date        time.Time                `json:"date"`
	Entries     []DetailedInventoryEntry `json:"inventory_data"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}
