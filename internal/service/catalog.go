package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// ProductIndex is the full-text index kept next to the products table.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type CatalogService struct {
	Repo      *repo.GormRepo
	Index     ProductIndex
	Publisher events.Publisher
}

type productEvent struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, repoErr(err)
	}
	return p, nil
}

func (s *CatalogService) GetProducts(ctx context.Context, categoryID *uint, offset, limit int) (int64, []models.Product, error) {
	total, items, err := s.Repo.GetProducts(ctx, categoryID, offset, limit)
	if err != nil {
		return 0, nil, repoErr(err)
	}
	return total, items, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrValidation)
	}
	if req.Price == nil {
		return nil, fmt.Errorf("%w: price required", domain.ErrValidation)
	}
	if err := checkAmount("price", *req.Price); err != nil {
		return nil, err
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must be >= 0", domain.ErrValidation)
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	prod := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		Image:       req.Image,
	}
	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, repoErr(err)
	}

	s.sync(ctx, events.ProductCreated, prod)
	return prod, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	if req.Price != nil {
		if err := checkAmount("price", *req.Price); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must be >= 0", domain.ErrValidation)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	prod, err := s.Repo.PatchProduct(ctx, id, req)
	if err != nil {
		return nil, repoErr(err)
	}

	s.sync(ctx, events.ProductUpdated, prod)
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return repoErr(err)
	}
	s.sync(ctx, events.ProductDeleted, &models.Product{ID: id})
	return nil
}

// SearchProducts asks the index when one is configured and hydrates the
// hits from the database in rank order. Without an index, or when the index
// fails, it falls back to a LIKE query.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("%w: query required", domain.ErrValidation)
	}

	if s.Index != nil {
		total, ids, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			items, err := s.Repo.GetProductsByIDs(ctx, ids)
			if err != nil {
				return 0, nil, repoErr(err)
			}
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "reason", "falling back to database", "error", err)
	}

	total, items, err := s.Repo.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		return 0, nil, repoErr(err)
	}
	return total, items, nil
}

func (s *CatalogService) checkCategory(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := s.Repo.GetCategory(ctx, *id); err != nil {
		if errors.Is(repoErr(err), domain.ErrNotFound) {
			return fmt.Errorf("%w: category %d does not exist", domain.ErrValidation, *id)
		}
		return repoErr(err)
	}
	return nil
}

// sync updates the index and publishes the change. Both are best effort.
func (s *CatalogService) sync(ctx context.Context, eventType string, p *models.Product) {
	l := logging.FromContext(ctx)
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if s.Index != nil {
		var err error
		if eventType == events.ProductDeleted {
			err = s.Index.DeleteProduct(pctx, p.ID)
		} else {
			err = s.Index.IndexProduct(pctx, *p)
		}
		if err != nil {
			l.Error("search_index_error", "type", eventType, "product_id", p.ID, "error", err)
		}
	}

	if s.Publisher == nil {
		return
	}
	ev := events.New(eventType, productEvent{ProductID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock})
	key := strconv.FormatUint(uint64(p.ID), 10)
	if err := s.Publisher.PublishEvent(pctx, events.TopicProducts, key, ev); err != nil {
		l.Error("kafka_publish_error", "topic", events.TopicProducts, "type", eventType, "product_id", p.ID, "error", err)
	}
}
