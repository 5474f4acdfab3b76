package services

import (
	"context"
	"strings"

	"library-api/internal/adapters/persistence/models"
	"library-api/internal/adapters/persistence/repositories"
	"library-api/internal/core/domain"
	"library-api/internal/pkg/clock"
)

// authorService implements AuthorService
type authorService struct {
	store repositories.Store
	clock clock.Clock
}

// NewAuthorService creates a new author service
func NewAuthorService(store repositories.Store, clk clock.Clock) AuthorService {
	return &authorService{store: store, clock: clk}
}

func (s *authorService) List(ctx context.Context) ([]*models.Author, error) {
	return s.store.Authors().ListSorted(ctx)
}

func (s *authorService) GetByID(ctx context.Context, id uint) (*models.Author, error) {
	author, err := s.store.Authors().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrAuthorNotFound)
	}
	return author, nil
}

func (s *authorService) Search(ctx context.Context, query string) ([]*models.Author, error) {
	return s.store.Authors().Search(ctx, strings.TrimSpace(query))
}

func (s *authorService) ListByNationality(ctx context.Context, nationality string) ([]*models.Author, error) {
	return s.store.Authors().ListByNationality(ctx, strings.TrimSpace(nationality))
}

func (s *authorService) Create(ctx context.Context, input *AuthorInput) (*models.Author, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	author := &models.Author{}
	applyAuthorInput(author, input)
	if err := s.store.Authors().Create(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

func (s *authorService) Update(ctx context.Context, id uint, input *AuthorInput) (*models.Author, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	author, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyAuthorInput(author, input)
	if err := s.store.Authors().Update(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

// Delete deletes an author that no book references
func (s *authorService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.store.Books().CountByAuthor(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrAuthorInUse
	}

	return s.store.Authors().Delete(ctx, id)
}

func (s *authorService) validate(input *AuthorInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	fields := map[string]string{}
	checkNotFuture(fields, "birth_date", input.BirthDate, s.clock.Today())
	if len(fields) > 0 {
		return domain.NewValidationError(fields)
	}
	return nil
}

func applyAuthorInput(author *models.Author, input *AuthorInput) {
	author.FirstName = strings.TrimSpace(input.FirstName)
	author.LastName = strings.TrimSpace(input.LastName)
	author.BirthDate = input.BirthDate
	author.Biography = input.Biography
	author.Nationality = strings.TrimSpace(input.Nationality)
}
