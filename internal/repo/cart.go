package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

// CartLine is a cart row joined with the product's current price.
type CartLine struct {
	ProductID uint
	Quantity  int
	Product   models.Product
}

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetCartLines returns the cart with product rows; lines whose product was deleted are dropped.
func (r *GormRepo) GetCartLines(ctx context.Context, userID uint) ([]CartLine, error) {
	lines, _, err := cartLines(r.DB.WithContext(ctx), userID)
	return lines, err
}

// cartLines also returns the ids of every cart row it read, including rows
// whose product is gone.
func cartLines(tx *gorm.DB, userID uint) ([]CartLine, []uint, error) {
	var items []models.CartItem
	if err := tx.Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, nil, err
	}

	rowIDs := make([]uint, 0, len(items))
	productIDs := make([]uint, 0, len(items))
	for _, it := range items {
		rowIDs = append(rowIDs, it.ID)
		productIDs = append(productIDs, it.ProductID)
	}
	if len(items) == 0 {
		return []CartLine{}, rowIDs, nil
	}

	var products []models.Product
	if err := tx.Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, CartLine{ProductID: it.ProductID, Quantity: it.Quantity, Product: p})
	}
	return lines, rowIDs, nil
}

func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
			Update("quantity", gorm.Expr("quantity + ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).First(item).Error
		}
		return tx.Create(item).Error
	})
}

func (r *GormRepo) DeleteOneFromCart(ctx context.Context, userID, productID uint) (bool, *models.CartItem, error) {
	var item models.CartItem
	deleted := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			First(&item).Error; err != nil {
			return err
		}
		if item.Quantity > 1 {
			if err := tx.Model(&item).Update("quantity", gorm.Expr("quantity - 1")).Error; err != nil {
				return err
			}
			return tx.First(&item, item.ID).Error
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		item.Quantity = 0
		deleted = true
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	return deleted, &item, nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
