package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is owned by the persistence layer; workflows borrow it for the
// duration of a single operation.
type Order struct {
	ID         string      `gorm:"primaryKey;size:64" json:"orderId"`
	CustomerID string      `gorm:"index;size:64" json:"customerId,omitempty"`
	Lines      []OrderLine `gorm:"foreignKey:OrderID;references:ID" json:"lines"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

// OrderLine carries the short-pick flag. The flag starts false and is set
// true once a shortage has been recorded for the line; setting it again is
// a no-op.
type OrderLine struct {
	OrderID     string          `gorm:"primaryKey;size:64" json:"-"`
	LineID      int             `gorm:"primaryKey;autoIncrement:false" json:"lineId"`
	ProductCode string          `gorm:"not null;size:64" json:"productCode"`
	Name        string          `json:"name"`
	Qty         decimal.Decimal `gorm:"type:numeric(12,3)" json:"qty"`
	Unit        string          `gorm:"size:16" json:"unit"`
	ShortPick   bool            `gorm:"default:false" json:"shortPick"`
}

// Line returns the line with the given id, or nil when the order has none.
func (o *Order) Line(lineID int) *OrderLine {
	for i := range o.Lines {
		if o.Lines[i].LineID == lineID {
			return &o.Lines[i]
		}
	}
	return nil
}
