package database

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"order-fulfilment-service/internal/models"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.WarehouseItem{},
		&models.Order{},
		&models.OrderLine{},
	)
}

// Seed populates the warehouse catalog and a couple of demo orders. It is
// idempotent: existing records are left untouched.
func Seed(db *gorm.DB) error {
	items := []models.WarehouseItem{
		{LineID: 1, ProductCode: "MILK-1L", Name: "Semi-Skimmed Milk 1L", Qty: decimal.NewFromInt(36), Unit: "pcs"},
		{LineID: 2, ProductCode: "MILK-LF-1L", Name: "Lactose Free Milk Drink 1L", Qty: decimal.NewFromInt(18), Unit: "pcs"},
		{LineID: 3, ProductCode: "OAT-1L", Name: "Oat Drink 1L", Qty: decimal.NewFromInt(24), Unit: "pcs"},
		{LineID: 4, ProductCode: "YOG-NAT-400", Name: "Natural Yoghurt 400g", Qty: decimal.NewFromInt(30), Unit: "pcs"},
		{LineID: 5, ProductCode: "BUTTER-500", Name: "Butter 500g", Qty: decimal.NewFromInt(40), Unit: "pcs"},
		{LineID: 6, ProductCode: "CREAM-2DL", Name: "Whipping Cream 2dl", Qty: decimal.NewFromInt(12), Unit: "pcs"},
		{LineID: 7, ProductCode: "CHEESE-EDAM", Name: "Edam Cheese Slices 300g", Qty: decimal.NewFromInt(22), Unit: "pcs"},
		{LineID: 8, ProductCode: "EGGS-M10", Name: "Free Range Eggs M10", Qty: decimal.NewFromInt(15), Unit: "pcs"},
		{LineID: 9, ProductCode: "OAT-GF-1L", Name: "Gluten Free Oat Drink 1L", Qty: decimal.NewFromInt(9), Unit: "pcs"},
		{LineID: 10, ProductCode: "QUARK-VAN", Name: "Vanilla Quark 1kg", Qty: decimal.Zero, Unit: "kg"},
	}

	for _, item := range items {
		var existing models.WarehouseItem
		err := db.Where("line_id = ?", item.LineID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&item).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	orders := []models.Order{
		{
			ID:         "ORD-1001",
			CustomerID: "CUST-77",
			Lines: []models.OrderLine{
				{LineID: 1, ProductCode: "MILK-1L", Name: "Semi-Skimmed Milk 1L", Qty: decimal.NewFromInt(10), Unit: "pcs"},
				{LineID: 2, ProductCode: "OAT-1L", Name: "Oat Drink 1L", Qty: decimal.NewFromInt(4), Unit: "pcs"},
				{LineID: 3, ProductCode: "BUTTER-500", Name: "Butter 500g", Qty: decimal.NewFromInt(2), Unit: "pcs"},
			},
		},
		{
			ID:         "ORD-1002",
			CustomerID: "CUST-12",
			Lines: []models.OrderLine{
				{LineID: 1, ProductCode: "EGGS-M10", Name: "Free Range Eggs M10", Qty: decimal.NewFromInt(3), Unit: "pcs"},
				{LineID: 2, ProductCode: "CHEESE-EDAM", Name: "Edam Cheese Slices 300g", Qty: decimal.NewFromInt(1), Unit: "pcs"},
			},
		},
	}

	for _, order := range orders {
		var existing models.Order
		err := db.Where("id = ?", order.ID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&order).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	return nil
}
