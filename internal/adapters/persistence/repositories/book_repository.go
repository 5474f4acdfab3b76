package repositories

import (
	"context"
	"strings"

	"library-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// bookRepository implements BookRepository interface
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Category").Preload("Authors", func(db *gorm.DB) *gorm.DB {
		return db.Order("last_name ASC, first_name ASC")
	})
}

func (r *bookRepository) find(query *gorm.DB) ([]*models.Book, error) {
	var books []*models.Book
	if err := query.Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// Create creates a new book and links its authors without touching author rows
func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return translateError(r.db.WithContext(ctx).Omit("Category", "Authors.*").Create(book).Error)
}

// GetByID gets a book by ID
func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.withRelations(ctx).Where("books.id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByIDForUpdate gets a book by ID and locks the row until the transaction ends
func (r *bookRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListAll lists every book ordered by title
func (r *bookRepository) ListAll(ctx context.Context) ([]*models.Book, error) {
	return r.find(r.withRelations(ctx).Order("title ASC"))
}

// List lists books with pagination
func (r *bookRepository) List(ctx context.Context, offset, limit int) ([]*models.Book, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	books, err := r.find(r.withRelations(ctx).Order("title ASC").Offset(offset).Limit(limit))
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// SearchByTitle finds books whose title contains title, ignoring case
func (r *bookRepository) SearchByTitle(ctx context.Context, title string) ([]*models.Book, error) {
	return r.find(r.withRelations(ctx).
		Where("LOWER(title) LIKE ?", likePattern(strings.ToLower(title))).
		Order("title ASC"))
}

// ListByCategory lists books in a category
func (r *bookRepository) ListByCategory(ctx context.Context, categoryID uint) ([]*models.Book, error) {
	return r.find(r.withRelations(ctx).Where("category_id = ?", categoryID).Order("title ASC"))
}

// ListByAuthor lists books written by an author
func (r *bookRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Book, error) {
	return r.find(r.withRelations(ctx).
		Joins("JOIN book_authors ON book_authors.book_id = books.id").
		Where("book_authors.author_id = ?", authorID).
		Order("books.title ASC"))
}

// ListByAvailability lists books by availability flag
func (r *bookRepository) ListByAvailability(ctx context.Context, available bool) ([]*models.Book, error) {
	return r.find(r.withRelations(ctx).Where("available = ?", available).Order("title ASC"))
}

// ListRecent lists the most recently published books
func (r *bookRepository) ListRecent(ctx context.Context, limit int) ([]*models.Book, error) {
	return r.find(r.withRelations(ctx).
		Where("publish_date IS NOT NULL").
		Order("publish_date DESC, id DESC").
		Limit(limit))
}

// Update updates book columns only; use ReplaceAuthors for the author set
func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(book).Error)
}

// ReplaceAuthors replaces the author links of a book
func (r *bookRepository) ReplaceAuthors(ctx context.Context, book *models.Book, authors []models.Author) error {
	if len(authors) == 0 {
		return r.db.WithContext(ctx).Model(book).Association("Authors").Clear()
	}
	return r.db.WithContext(ctx).Model(book).Association("Authors").Replace(authors)
}

// Delete deletes a book and its author links
func (r *bookRepository) Delete(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Select("Authors").Delete(book).Error
}

// ExistsByISBN checks if an ISBN is taken
func (r *bookRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("isbn = ?", isbn).
		Count(&count).Error
	return count > 0, err
}

// CountByCategory counts books referencing a category
func (r *bookRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// CountByAuthor counts books linked to an author
func (r *bookRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("book_authors").
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}
