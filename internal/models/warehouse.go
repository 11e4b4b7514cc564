package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WarehouseItem is a catalog/stock record usable as a replacement source.
// Read-only from the workflows' perspective.
type WarehouseItem struct {
	LineID      int             `gorm:"primaryKey;autoIncrement:false" json:"lineId"`
	ProductCode string          `gorm:"index;not null;size:64" json:"productCode"`
	Name        string          `gorm:"not null" json:"name"`
	Qty         decimal.Decimal `gorm:"type:numeric(12,3)" json:"qty"`
	Unit        string          `gorm:"size:16" json:"unit"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}
