package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CategoryService struct {
	Repo *repo.GormRepo
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	items, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, repoErr(err)
	}
	return items, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, repoErr(err)
	}
	return c, nil
}

// CreateCategory fails with ErrConflict when the name is taken.
func (s *CategoryService) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", domain.ErrValidation)
	}

	c := &models.Category{Name: name, Description: req.Description, Image: req.Image}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, repoErr(err)
	}
	return c, nil
}

func (s *CategoryService) PatchCategory(ctx context.Context, id uint, req transport.PatchCategoryRequest) (*models.Category, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
		}
		req.Name = &name
	}

	c, err := s.Repo.PatchCategory(ctx, id, req)
	if err != nil {
		return nil, repoErr(err)
	}
	return c, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	return repoErr(s.Repo.DeleteCategory(ctx, id))
}
