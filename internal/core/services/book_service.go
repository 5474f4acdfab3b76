package services

import (
	"context"
	"strings"

	"library-api/internal/adapters/persistence/models"
	"library-api/internal/adapters/persistence/repositories"
	"library-api/internal/core/domain"
	"library-api/internal/pkg/clock"
)

// RecentBooksLimit is the number of books returned by ListRecent
const RecentBooksLimit = 10

// bookService implements BookService
type bookService struct {
	store repositories.Store
	clock clock.Clock
}

// NewBookService creates a new book service
func NewBookService(store repositories.Store, clk clock.Clock) BookService {
	return &bookService{store: store, clock: clk}
}

func (s *bookService) List(ctx context.Context) ([]*models.Book, error) {
	return s.store.Books().ListAll(ctx)
}

// ListPaged returns one page of books and the total count
func (s *bookService) ListPaged(ctx context.Context, page, limit int) ([]*models.Book, int64, error) {
	return s.store.Books().List(ctx, pageOffset(page, limit), limit)
}

// GetByID returns a book with its category and authors, or domain.ErrBookNotFound
func (s *bookService) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.store.Books().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrBookNotFound)
	}
	return book, nil
}

func (s *bookService) SearchByTitle(ctx context.Context, title string) ([]*models.Book, error) {
	return s.store.Books().SearchByTitle(ctx, strings.TrimSpace(title))
}

// ListByCategory fails with domain.ErrCategoryNotFound for an unknown category
func (s *bookService) ListByCategory(ctx context.Context, categoryID uint) ([]*models.Book, error) {
	if _, err := s.store.Categories().GetByID(ctx, categoryID); err != nil {
		return nil, notFoundAs(err, domain.ErrCategoryNotFound)
	}
	return s.store.Books().ListByCategory(ctx, categoryID)
}

// ListByAuthor fails with domain.ErrAuthorNotFound for an unknown author
func (s *bookService) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Book, error) {
	if _, err := s.store.Authors().GetByID(ctx, authorID); err != nil {
		return nil, notFoundAs(err, domain.ErrAuthorNotFound)
	}
	return s.store.Books().ListByAuthor(ctx, authorID)
}

func (s *bookService) ListAvailable(ctx context.Context) ([]*models.Book, error) {
	return s.store.Books().ListByAvailability(ctx, true)
}

// ListRecent returns the most recently published books
func (s *bookService) ListRecent(ctx context.Context) ([]*models.Book, error) {
	return s.store.Books().ListRecent(ctx, RecentBooksLimit)
}

// Create adds an available book. The ISBN must be unused and the category and authors must exist.
func (s *bookService) Create(ctx context.Context, input *BookInput) (*models.Book, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	var id uint
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		isbn := strings.TrimSpace(input.ISBN)
		exists, err := tx.Books().ExistsByISBN(ctx, isbn)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateISBN
		}

		authors, err := resolveReferences(ctx, tx, input)
		if err != nil {
			return err
		}

		book := &models.Book{Available: true, Authors: authors}
		applyBookInput(book, input)
		if err := tx.Books().Create(ctx, book); err != nil {
			return duplicateAs(err, domain.ErrDuplicateISBN)
		}
		id = book.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Update replaces the descriptive fields and author set. Availability is left untouched.
func (s *bookService) Update(ctx context.Context, id uint, input *BookInput) (*models.Book, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		book, err := tx.Books().GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.ErrBookNotFound)
		}

		isbn := strings.TrimSpace(input.ISBN)
		if book.ISBN != isbn {
			exists, err := tx.Books().ExistsByISBN(ctx, isbn)
			if err != nil {
				return err
			}
			if exists {
				return domain.ErrDuplicateISBN
			}
		}

		authors, err := resolveReferences(ctx, tx, input)
		if err != nil {
			return err
		}

		applyBookInput(book, input)
		if err := tx.Books().Update(ctx, book); err != nil {
			return duplicateAs(err, domain.ErrDuplicateISBN)
		}
		return tx.Books().ReplaceAuthors(ctx, book, authors)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// SyncAvailability recomputes the availability flag from the book's loans:
// available exactly when no unreturned loan references it.
func (s *bookService) SyncAvailability(ctx context.Context, id uint) (*models.Book, error) {
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		book, err := tx.Books().GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.ErrBookNotFound)
		}

		lent, err := tx.Loans().ExistsActiveByBook(ctx, id)
		if err != nil {
			return err
		}
		if book.Available == !lent {
			return nil
		}

		book.Available = !lent
		return tx.Books().Update(ctx, book)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Delete removes a book that is not lent, together with its loan history and author links
func (s *bookService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		book, err := tx.Books().GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.ErrBookNotFound)
		}

		lent, err := tx.Loans().ExistsActiveByBook(ctx, id)
		if err != nil {
			return err
		}
		if lent {
			return domain.ErrBookHasActiveLoan
		}

		if err := tx.Loans().DeleteByBook(ctx, id); err != nil {
			return err
		}
		return tx.Books().Delete(ctx, book)
	})
}

func (s *bookService) validate(input *BookInput) error {
	if err := validateInput(input); err != nil {
		return err
	}
	fields := map[string]string{}
	checkNotFuture(fields, "publish_date", input.PublishDate, s.clock.Today())
	if len(fields) > 0 {
		return domain.NewValidationError(fields)
	}
	return nil
}

// resolveReferences checks the category exists and loads every referenced author
func resolveReferences(ctx context.Context, tx repositories.Store, input *BookInput) ([]models.Author, error) {
	if _, err := tx.Categories().GetByID(ctx, input.CategoryID); err != nil {
		return nil, notFoundAs(err, domain.ErrCategoryNotFound)
	}

	ids := uniqueIDs(input.AuthorIDs)
	authors, err := tx.Authors().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(authors) != len(ids) {
		return nil, domain.ErrAuthorNotFound
	}
	return authors, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func applyBookInput(book *models.Book, input *BookInput) {
	book.Title = strings.TrimSpace(input.Title)
	book.ISBN = strings.TrimSpace(input.ISBN)
	book.Description = input.Description
	book.PageCount = input.PageCount
	book.PublishDate = input.PublishDate
	book.Language = input.Language
	book.Publisher = input.Publisher
	book.CoverImageURL = input.CoverImageURL
	book.CategoryID = input.CategoryID
}
