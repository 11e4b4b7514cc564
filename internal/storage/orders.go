package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"order-fulfilment-service/internal/models"
	"order-fulfilment-service/internal/shortage"
)

// OrderStore is the gorm-backed implementation of shortage.OrderStore.
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) Get(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_id") }).
		First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, shortage.ErrOrderNotFound)
		}
		return nil, err
	}
	return &order, nil
}

// Update loads the order under SELECT ... FOR UPDATE, hands it to fn and
// persists the lines before committing. Concurrent shortage events on the
// same order serialize on the row lock, so the read-modify-write of the
// short-pick flag cannot lose updates.
func (s *OrderStore) Update(ctx context.Context, orderID string, fn func(order *models.Order) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %s: %w", orderID, shortage.ErrOrderNotFound)
			}
			return err
		}

		if err := tx.Where("order_id = ?", orderID).Order("line_id").Find(&order.Lines).Error; err != nil {
			return err
		}

		if err := fn(&order); err != nil {
			return err
		}

		for i := range order.Lines {
			if err := tx.Save(&order.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
