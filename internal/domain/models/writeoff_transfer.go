package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ActItem is a single write-off or transfer line. Weight keeps the precision
// the cashier entered; whole-unit rounding happens at notification time only.
type ActItem struct {
	Name   string          `json:"name"`
	Weight decimal.Decimal `json:"weight"`
	Unit   string          `json:"unit"`
	Reason string          `json:"reason"`
}

// ActItems is stored as a JSON column.
type ActItems []ActItem

func (a *ActItems) Scan(value interface{}) error {
	*a = ActItems{}
	return scanJSON(value, a)
}

func (a ActItems) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

// WriteoffTransfer is an act recording spoiled goods removed from stock and
// goods moved between locations. The writeoff/transfer framing shown in chat
// is a presentation tag and is not a column here.
type WriteoffTransfer struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Location    string     `gorm:"size:255;not null" json:"location"`
	ShiftType   string     `gorm:"size:20;not null" json:"shift_type"`
	CashierName string     `gorm:"size:255;not null" json:"cashier_name"`
	ReportDate  *time.Time `json:"report_date"`

	Writeoffs ActItems `gorm:"type:jsonb;not null" json:"writeoffs"`
	Transfers ActItems `gorm:"type:jsonb;not null" json:"transfers"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CreateWriteoffTransfer carries the parsed form input for a new act. At
// least one of the two lists must be populated.
type CreateWriteoffTransfer struct {
	Location    string
	ShiftType   string
	CashierName string
	ReportDate  *time.Time
	Writeoffs   []ActItem
	Transfers   []ActItem
}
