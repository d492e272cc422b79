package transport

import "github.com/shopspring/decimal"

type CreateOrderItem struct {
	ProductID uint             `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity"   validate:"required,gt=0,lte=2147483647"`
	Price     *decimal.Decimal `json:"price"      validate:"required"`
}

// CreateOrderRequest.UserID is optional and defaults to the caller.
type CreateOrderRequest struct {
	UserID uint              `json:"user_id"`
	Items  []CreateOrderItem `json:"items" validate:"required,min=1,dive"`
}

type CreateOrderResponse struct {
	Message string          `json:"message"`
	OrderID uint            `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type StockCheckItem struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gt=0,lte=2147483647"`
}

type StockCheckRequest struct {
	Items []StockCheckItem `json:"items" validate:"required,min=1,dive"`
}

type StockShortage struct {
	ProductID uint `json:"product_id"`
	Requested int  `json:"requested"`
	Available int  `json:"available"`
}

type StockCheckResponse struct {
	Available bool            `json:"available"`
	Shortages []StockShortage `json:"shortages"`
}

type StockResponse struct {
	ProductID uint `json:"product_id"`
	Stock     int  `json:"stock"`
}

type CreateProductRequest struct {
	Name        string           `json:"name"        validate:"required,max=255"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"       validate:"required"`
	Stock       int              `json:"stock"       validate:"gte=0"`
	CategoryID  *uint            `json:"category_id"`
	Image       string           `json:"image"`
}

type PatchProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"       validate:"omitempty,gte=0"`
	CategoryID  *uint            `json:"category_id"`
	Image       *string          `json:"image"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type PatchCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
}

type CredentialsRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"omitempty,gt=0,lte=2147483647"`
}

type CartLine struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	Items []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type DeleteOneFromCartResponse struct {
	ProductID uint `json:"product_id"`
	Deleted   bool `json:"deleted"`
	Quantity  int  `json:"quantity"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

func NewPage[T any](data []T, page, offset, limit int, total int64) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data: data,
		Meta: PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}
}
