package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

// InventoryService is the read side of stock. Stock is only written when an
// order is completed.
type InventoryService struct {
	Repo *repo.GormRepo
}

func (s *InventoryService) GetStock(ctx context.Context, productID uint) (int, error) {
	levels, err := s.Repo.StockLevels(ctx, []uint{productID})
	if err != nil {
		return 0, repoErr(err)
	}
	stock, ok := levels[productID]
	if !ok {
		return 0, fmt.Errorf("%w: product %d", domain.ErrNotFound, productID)
	}
	return stock, nil
}

// CheckStock reports every product whose stock cannot cover the requested
// quantity. Repeated product ids are summed. Nothing is reserved.
func (s *InventoryService) CheckStock(ctx context.Context, req transport.StockCheckRequest) (*transport.StockCheckResponse, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", domain.ErrValidation)
	}

	wanted := make(map[uint]int, len(req.Items))
	ids := make([]uint, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID == 0 || it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product_id and positive quantity required", domain.ErrValidation)
		}
		if _, seen := wanted[it.ProductID]; !seen {
			ids = append(ids, it.ProductID)
		}
		wanted[it.ProductID] += it.Quantity
	}

	levels, err := s.Repo.StockLevels(ctx, ids)
	if err != nil {
		return nil, repoErr(err)
	}

	resp := &transport.StockCheckResponse{Available: true, Shortages: []transport.StockShortage{}}
	for _, id := range ids {
		have := levels[id]
		if have >= wanted[id] {
			continue
		}
		resp.Available = false
		resp.Shortages = append(resp.Shortages, transport.StockShortage{
			ProductID: id,
			Requested: wanted[id],
			Available: have,
		})
	}
	sort.Slice(resp.Shortages, func(i, j int) bool {
		return resp.Shortages[i].ProductID < resp.Shortages[j].ProductID
	})
	return resp, nil
}
