package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

type OrderFilter struct {
	UserID *uint
	Status string
}

// CreateOrder writes the header and every line item in one transaction.
// On failure nothing is committed; order.ID may still hold the id that was
// assigned before the rollback.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertOrder(tx, order)
	})
}

// CreateOrderFromCart reads the buyer's cart, hands the lines to build and
// writes the resulting order, all in one transaction. Only the cart rows that
// were read are removed, so an item added meanwhile stays in the cart.
// An error from build aborts the transaction and is returned as is.
func (r *GormRepo) CreateOrderFromCart(ctx context.Context, userID uint, build func([]CartLine) (*models.Order, error)) (*models.Order, error) {
	var order *models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines, rowIDs, err := cartLines(tx, userID)
		if err != nil {
			return err
		}
		order, err = build(lines)
		if err != nil {
			return err
		}
		if err := insertOrder(tx, order); err != nil {
			return err
		}
		if len(rowIDs) == 0 {
			return nil
		}
		return tx.Where("user_id = ? AND id IN ?", userID, rowIDs).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func insertOrder(tx *gorm.DB, order *models.Order) error {
	if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if err := tx.Create(&order.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

// SetOrderStatus writes the new status unconditionally. The first move into
// completed also takes the items out of stock and marks the order so later
// completions do not take them again. Leaving completed does not restock.
// If any product cannot cover its line the status is left unchanged.
func (r *GormRepo) SetOrderStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Order("id ASC").Find(&order.Items).Error; err != nil {
			return err
		}

		updates := map[string]any{"status": status}
		if status == models.OrderStatusCompleted && !order.StockTaken {
			if err := takeStock(tx, order.Items); err != nil {
				return err
			}
			updates["stock_taken"] = true
			order.StockTaken = true
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return err
		}
		order.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
