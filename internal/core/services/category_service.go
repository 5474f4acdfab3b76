package services

import (
	"context"
	"strings"

	"library-api/internal/adapters/persistence/models"
	"library-api/internal/adapters/persistence/repositories"
	"library-api/internal/core/domain"
)

// categoryService implements CategoryService
type categoryService struct {
	store repositories.Store
}

// NewCategoryService creates a new category service
func NewCategoryService(store repositories.Store) CategoryService {
	return &categoryService{store: store}
}

// List returns all categories sorted by name
func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.store.Categories().ListSorted(ctx)
}

// GetByID returns a category or domain.ErrCategoryNotFound
func (s *categoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.store.Categories().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrCategoryNotFound)
	}
	return category, nil
}

func (s *categoryService) Search(ctx context.Context, query string) ([]*models.Category, error) {
	return s.store.Categories().Search(ctx, strings.TrimSpace(query))
}

// Create creates a category; names are unique ignoring case
func (s *categoryService) Create(ctx context.Context, input *CategoryInput) (*models.Category, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	exists, err := s.store.Categories().ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateCategoryName
	}

	category := &models.Category{
		Name:        name,
		Description: input.Description,
	}
	if err := s.store.Categories().Create(ctx, category); err != nil {
		return nil, duplicateAs(err, domain.ErrDuplicateCategoryName)
	}
	return category, nil
}

// Update updates a category, re-checking uniqueness when the name changes
func (s *categoryService) Update(ctx context.Context, id uint, input *CategoryInput) (*models.Category, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if !strings.EqualFold(category.Name, name) {
		exists, err := s.store.Categories().ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateCategoryName
		}
	}

	category.Name = name
	category.Description = input.Description
	if err := s.store.Categories().Update(ctx, category); err != nil {
		return nil, duplicateAs(err, domain.ErrDuplicateCategoryName)
	}
	return category, nil
}

// Delete deletes a category that no book references
func (s *categoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.store.Books().CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrCategoryInUse
	}

	return s.store.Categories().Delete(ctx, id)
}
