package repositories

import (
	"context"

	"library-api/internal/adapters/persistence/models"
	"library-api/internal/pkg/dateonly"
)

// CategoryRepository defines category repository interface
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	ListSorted(ctx context.Context) ([]*models.Category, error)
	Search(ctx context.Context, query string) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// AuthorRepository defines author repository interface
type AuthorRepository interface {
	Create(ctx context.Context, author *models.Author) error
	GetByID(ctx context.Context, id uint) (*models.Author, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Author, error)
	ListSorted(ctx context.Context) ([]*models.Author, error)
	Search(ctx context.Context, query string) ([]*models.Author, error)
	ListByNationality(ctx context.Context, nationality string) ([]*models.Author, error)
	Update(ctx context.Context, author *models.Author) error
	Delete(ctx context.Context, id uint) error
}

// MemberRepository defines member repository interface
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Member, error)
	ListSorted(ctx context.Context) ([]*models.Member, error)
	List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error)
	Search(ctx context.Context, query string) ([]*models.Member, error)
	ListActive(ctx context.Context) ([]*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id uint) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// BookRepository defines book repository interface.
// Reads preload Category and Authors.
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Book, error)
	ListAll(ctx context.Context) ([]*models.Book, error)
	List(ctx context.Context, offset, limit int) ([]*models.Book, int64, error)
	SearchByTitle(ctx context.Context, title string) ([]*models.Book, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]*models.Book, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]*models.Book, error)
	ListByAvailability(ctx context.Context, available bool) ([]*models.Book, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	ReplaceAuthors(ctx context.Context, book *models.Book, authors []models.Author) error
	Delete(ctx context.Context, book *models.Book) error
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

// LoanRepository defines loan repository interface.
// Reads preload Book and Member.
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Loan, error)
	Update(ctx context.Context, loan *models.Loan) error
	ListAll(ctx context.Context) ([]*models.Loan, error)
	ListActive(ctx context.Context) ([]*models.Loan, error)
	ListOverdue(ctx context.Context, today dateonly.Date) ([]*models.Loan, error)
	ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error)
	ListActiveByMember(ctx context.Context, memberID uint) ([]*models.Loan, error)
	ListByBook(ctx context.Context, bookID uint) ([]*models.Loan, error)
	ListByBorrowDateBetween(ctx context.Context, start, end dateonly.Date) ([]*models.Loan, error)
	ExistsActiveByBook(ctx context.Context, bookID uint) (bool, error)
	ExistsActiveByMember(ctx context.Context, memberID uint) (bool, error)
	CountActiveByMember(ctx context.Context, memberID uint) (int64, error)
	DeleteByBook(ctx context.Context, bookID uint) error
	DeleteByMember(ctx context.Context, memberID uint) error
}

// Store groups the repositories and runs units of work.
// Inside Transaction, fn receives a Store bound to the transaction;
// a non-nil error from fn rolls everything back.
type Store interface {
	Categories() CategoryRepository
	Authors() AuthorRepository
	Members() MemberRepository
	Books() BookRepository
	Loans() LoanRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
