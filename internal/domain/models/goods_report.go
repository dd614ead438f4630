package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// GoodsItem is a received-goods line: product name, counted quantity and unit.
type GoodsItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Unit  string `json:"unit"`
}

// GoodsItems is stored as a JSON column.
type GoodsItems []GoodsItem

func (g *GoodsItems) Scan(value interface{}) error {
	*g = GoodsItems{}
	return scanJSON(value, g)
}

func (g GoodsItems) Value() (driver.Value, error) {
	if g == nil {
		return "[]", nil
	}
	return json.Marshal(g)
}

// GoodsReport records a goods delivery accepted at a location, split by
// destination. Photos accompanying the submission are relayed to Telegram but
// never persisted.
type GoodsReport struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Location    string    `gorm:"size:255;not null" json:"location"`
	ShiftType   string    `gorm:"size:20;not null" json:"shift_type"`
	CashierName string    `gorm:"size:255;not null" json:"cashier_name"`
	Date        time.Time `gorm:"not null" json:"date"`

	Kitchen   GoodsItems `gorm:"type:jsonb;not null" json:"kitchen"`
	Bar       GoodsItems `gorm:"type:jsonb;not null" json:"bar"`
	Packaging GoodsItems `gorm:"type:jsonb;not null" json:"packaging"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CreateGoodsReport carries the parsed form input for a new goods report.
type CreateGoodsReport struct {
	Location    string
	ShiftType   string
	CashierName string
	Kitchen     []GoodsItem
	Bar         []GoodsItem
	Packaging   []GoodsItem
}
