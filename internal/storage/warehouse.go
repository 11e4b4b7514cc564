package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"order-fulfilment-service/internal/models"
)

// WarehouseStore is the gorm-backed implementation of
// shortage.WarehouseStore.
type WarehouseStore struct {
	db *gorm.DB
}

func NewWarehouseStore(db *gorm.DB) *WarehouseStore {
	return &WarehouseStore{db: db}
}

// Find returns (nil, nil) when no record exists for the line id.
func (s *WarehouseStore) Find(ctx context.Context, lineID int) (*models.WarehouseItem, error) {
	var item models.WarehouseItem
	err := s.db.WithContext(ctx).First(&item, "line_id = ?", lineID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *WarehouseStore) FindBatch(ctx context.Context, lineIDs []int) ([]models.WarehouseItem, error) {
	var items []models.WarehouseItem
	if err := s.db.WithContext(ctx).Where("line_id IN ?", lineIDs).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *WarehouseStore) List(ctx context.Context) ([]models.WarehouseItem, error) {
	var items []models.WarehouseItem
	if err := s.db.WithContext(ctx).Order("line_id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
