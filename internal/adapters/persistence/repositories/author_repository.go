package repositories

import (
	"context"
	"strings"

	"library-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// authorRepository implements AuthorRepository interface
type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository creates a new author repository
func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

// Create creates a new author
func (r *authorRepository) Create(ctx context.Context, author *models.Author) error {
	return r.db.WithContext(ctx).Create(author).Error
}

// GetByID gets an author by ID
func (r *authorRepository) GetByID(ctx context.Context, id uint) (*models.Author, error) {
	var author models.Author
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&author).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// GetByIDs loads the authors with the given ids; missing ids are simply absent
func (r *authorRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Author, error) {
	var authors []models.Author
	if len(ids) == 0 {
		return authors, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&authors).Error
	if err != nil {
		return nil, err
	}
	return authors, nil
}

// ListSorted lists authors ordered by last then first name
func (r *authorRepository) ListSorted(ctx context.Context) ([]*models.Author, error) {
	var authors []*models.Author
	err := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC").Find(&authors).Error
	if err != nil {
		return nil, err
	}
	return authors, nil
}

// Search finds authors by first or last name fragment
func (r *authorRepository) Search(ctx context.Context, query string) ([]*models.Author, error) {
	var authors []*models.Author
	pattern := likePattern(strings.ToLower(query))
	err := r.db.WithContext(ctx).
		Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", pattern, pattern).
		Order("last_name ASC, first_name ASC").
		Find(&authors).Error
	if err != nil {
		return nil, err
	}
	return authors, nil
}

// ListByNationality lists authors of a nationality, ignoring case
func (r *authorRepository) ListByNationality(ctx context.Context, nationality string) ([]*models.Author, error) {
	var authors []*models.Author
	err := r.db.WithContext(ctx).
		Where("LOWER(nationality) = ?", strings.ToLower(nationality)).
		Order("last_name ASC, first_name ASC").
		Find(&authors).Error
	if err != nil {
		return nil, err
	}
	return authors, nil
}

// Update updates an author
func (r *authorRepository) Update(ctx context.Context, author *models.Author) error {
	return r.db.WithContext(ctx).Save(author).Error
}

// Delete deletes an author
func (r *authorRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Author{}, id).Error
}
