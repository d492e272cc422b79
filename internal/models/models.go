package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"    json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"        json:"email"`
	PasswordHash string    `gorm:"not null"                    json:"-"`
	Role         string    `gorm:"not null;default:user"       json:"role"`
	CreatedAt    time.Time `gorm:"not null"                    json:"created_at"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"              json:"id"`
	UserID    uint      `gorm:"index;not null"          json:"user_id"`
	JTI       string    `gorm:"uniqueIndex;not null"    json:"jti"`
	TokenHash string    `gorm:"uniqueIndex;not null"    json:"-"`
	ExpiresAt time.Time `gorm:"not null"                json:"expires_at"`
	Revoked   bool      `gorm:"not null;default:false"  json:"revoked"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string `gorm:"uniqueIndex;not null"      json:"name"`
	Description string `gorm:"not null;default:''"       json:"description"`
	Image       string `gorm:"not null;default:''"       json:"image"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"        json:"id"`
	Name        string          `gorm:"not null"                        json:"name"`
	Description string          `gorm:"not null;default:''"             json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"     json:"price"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CategoryID  *uint           `gorm:"index"                           json:"category_id"`
	Image       string          `gorm:"not null;default:''"             json:"image"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                                json:"id"`
	UserID    uint `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID uint `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Quantity  int  `gorm:"not null;default:1;check:quantity > 0"     json:"quantity"`
}

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&User{},
		&RefreshToken{},
		&Category{},
		&Product{},
		&CartItem{},
		&Order{},
		&OrderItem{},
	}
}

// AutoMigrate is used for local runs and tests; production schemas come from migrations/.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
