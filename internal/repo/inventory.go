package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
)

// takeStock decrements stock with a guarded UPDATE per line so two
// transactions can never both pass the check for the same units.
func takeStock(tx *gorm.DB, items []models.OrderItem) error {
	for _, it := range items {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", it.ProductID, it.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			continue
		}

		shortage := &domain.InsufficientStockError{ProductID: it.ProductID, Requested: it.Quantity}
		var p models.Product
		err := tx.Select("id", "stock").First(&p, it.ProductID).Error
		switch {
		case err == nil:
			shortage.Available = p.Stock
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		return shortage
	}
	return nil
}

// StockLevels returns current stock keyed by product id. Unknown ids are absent.
func (r *GormRepo) StockLevels(ctx context.Context, ids []uint) (map[uint]int, error) {
	var rows []models.Product
	if err := r.DB.WithContext(ctx).Select("id", "stock").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	levels := make(map[uint]int, len(rows))
	for _, p := range rows {
		levels[p.ID] = p.Stock
	}
	return levels, nil
}
