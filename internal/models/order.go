package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCart      = "cart"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

var orderStatuses = map[string]struct{}{
	OrderStatusPending:   {},
	OrderStatusCart:      {},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

func ValidOrderStatus(s string) bool {
	_, ok := orderStatuses[s]
	return ok
}

// Order.StockTaken is set by the first completion, which takes the items out of stock.
type Order struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"             json:"id"`
	UserID     uint            `gorm:"index;not null"                       json:"user_id"`
	Total      decimal.Decimal `gorm:"type:numeric(12,2);not null"          json:"total"`
	Status     string          `gorm:"index;not null;default:pending"       json:"status"`
	StockTaken bool            `gorm:"not null;default:false"               json:"-"`
	CreatedAt  time.Time       `gorm:"not null"                             json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Items      []OrderItem     `gorm:"constraint:OnDelete:CASCADE"          json:"items"`
}

// OrderItem keeps the unit price as it was when the order was placed.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"             json:"id"`
	OrderID   uint            `gorm:"index;not null"                       json:"order_id"`
	ProductID uint            `gorm:"index;not null"                       json:"product_id"`
	Quantity  int             `gorm:"not null;check:quantity > 0"          json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"          json:"price"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
