package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CartService struct {
	Repo *repo.GormRepo
}

// GetCart prices the cart at the products' current prices.
func (s *CartService) GetCart(ctx context.Context, userID uint) (*transport.CartResponse, error) {
	lines, err := s.Repo.GetCartLines(ctx, userID)
	if err != nil {
		return nil, repoErr(err)
	}

	resp := &transport.CartResponse{Items: make([]transport.CartLine, 0, len(lines)), Total: decimal.Zero}
	for _, line := range lines {
		lineTotal := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		resp.Items = append(resp.Items, transport.CartLine{
			ProductID: line.ProductID,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
			LineTotal: lineTotal,
		})
		resp.Total = resp.Total.Add(lineTotal)
	}
	return resp, nil
}

// AddToCart adds quantity (default 1) to the user's line for the product.
func (s *CartService) AddToCart(ctx context.Context, userID uint, req transport.AddToCartRequest) (*models.CartItem, error) {
	if req.ProductID == 0 {
		return nil, fmt.Errorf("%w: product_id required", domain.ErrValidation)
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", domain.ErrValidation)
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	if _, err := s.Repo.GetProduct(ctx, req.ProductID); err != nil {
		return nil, repoErr(err)
	}

	item := &models.CartItem{UserID: userID, ProductID: req.ProductID, Quantity: qty}
	if err := s.Repo.AddToCart(ctx, item); err != nil {
		return nil, repoErr(err)
	}
	return item, nil
}

func (s *CartService) DeleteOneFromCart(ctx context.Context, userID, productID uint) (*transport.DeleteOneFromCartResponse, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id required", domain.ErrValidation)
	}

	deleted, item, err := s.Repo.DeleteOneFromCart(ctx, userID, productID)
	if err != nil {
		return nil, repoErr(err)
	}
	return &transport.DeleteOneFromCartResponse{
		ProductID: productID,
		Deleted:   deleted,
		Quantity:  item.Quantity,
	}, nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	return repoErr(s.Repo.ClearCart(ctx, userID))
}
