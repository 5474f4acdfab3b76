package services

import (
	"context"

	"library-api/internal/adapters/persistence/models"
	"library-api/internal/pkg/dateonly"
)

// CategoryService defines category service interface
type CategoryService interface {
	List(ctx context.Context) ([]*models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Search(ctx context.Context, query string) ([]*models.Category, error)
	Create(ctx context.Context, input *CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id uint, input *CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id uint) error
}

// AuthorService defines author service interface
type AuthorService interface {
	List(ctx context.Context) ([]*models.Author, error)
	GetByID(ctx context.Context, id uint) (*models.Author, error)
	Search(ctx context.Context, query string) ([]*models.Author, error)
	ListByNationality(ctx context.Context, nationality string) ([]*models.Author, error)
	Create(ctx context.Context, input *AuthorInput) (*models.Author, error)
	Update(ctx context.Context, id uint, input *AuthorInput) (*models.Author, error)
	Delete(ctx context.Context, id uint) error
}

// MemberService defines member service interface
type MemberService interface {
	List(ctx context.Context) ([]*models.Member, error)
	ListPaged(ctx context.Context, page, limit int) ([]*models.Member, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	Search(ctx context.Context, query string) ([]*models.Member, error)
	ListActive(ctx context.Context) ([]*models.Member, error)
	Create(ctx context.Context, input *MemberInput) (*models.Member, error)
	Update(ctx context.Context, id uint, input *MemberInput) (*models.Member, error)
	ToggleActivation(ctx context.Context, id uint) (*models.Member, error)
	Delete(ctx context.Context, id uint) error
}

// BookService defines book service interface
type BookService interface {
	List(ctx context.Context) ([]*models.Book, error)
	ListPaged(ctx context.Context, page, limit int) ([]*models.Book, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	SearchByTitle(ctx context.Context, title string) ([]*models.Book, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]*models.Book, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]*models.Book, error)
	ListAvailable(ctx context.Context) ([]*models.Book, error)
	ListRecent(ctx context.Context) ([]*models.Book, error)
	Create(ctx context.Context, input *BookInput) (*models.Book, error)
	Update(ctx context.Context, id uint, input *BookInput) (*models.Book, error)
	SyncAvailability(ctx context.Context, id uint) (*models.Book, error)
	Delete(ctx context.Context, id uint) error
}

// LoanService defines the loan workflow
type LoanService interface {
	ListAll(ctx context.Context) ([]*models.Loan, error)
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	ListActive(ctx context.Context) ([]*models.Loan, error)
	ListOverdue(ctx context.Context) ([]*models.Loan, error)
	ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error)
	ListActiveByMember(ctx context.Context, memberID uint) ([]*models.Loan, error)
	ListByBook(ctx context.Context, bookID uint) ([]*models.Loan, error)
	ListByBorrowDateRange(ctx context.Context, start, end dateonly.Date) ([]*models.Loan, error)
	Borrow(ctx context.Context, input *BorrowInput) (*models.Loan, error)
	Return(ctx context.Context, id uint) (*models.Loan, error)
	Extend(ctx context.Context, id uint, additionalDays int) (*models.Loan, error)
	DefaultExtensionDays() int
	Today() dateonly.Date
}

// ============================================================
// Input DTOs
// ============================================================

// CategoryInput for creating or updating a category
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// AuthorInput for creating or updating an author
type AuthorInput struct {
	FirstName   string         `json:"first_name" validate:"required,max=100"`
	LastName    string         `json:"last_name" validate:"required,max=100"`
	BirthDate   *dateonly.Date `json:"birth_date"`
	Biography   string         `json:"biography"`
	Nationality string         `json:"nationality" validate:"max=100"`
}

// MemberInput for creating or updating a member.
// Active defaults to true on create and is left unchanged on update when omitted.
type MemberInput struct {
	FirstName string         `json:"first_name" validate:"required,max=100"`
	LastName  string         `json:"last_name" validate:"required,max=100"`
	Email     string         `json:"email" validate:"required,email,max=150"`
	Phone     string         `json:"phone" validate:"max=30"`
	Address   string         `json:"address" validate:"max=255"`
	BirthDate *dateonly.Date `json:"birth_date"`
	Active    *bool          `json:"active"`
}

// BookInput for creating or updating a book.
// Availability is owned by the loan workflow and cannot be set here.
type BookInput struct {
	Title         string         `json:"title" validate:"required,max=255"`
	ISBN          string         `json:"isbn" validate:"required,max=20"`
	Description   string         `json:"description" validate:"max=1000"`
	PageCount     *int           `json:"page_count" validate:"omitempty,gt=0"`
	PublishDate   *dateonly.Date `json:"publish_date"`
	Language      string         `json:"language" validate:"max=50"`
	Publisher     string         `json:"publisher" validate:"max=150"`
	CoverImageURL string         `json:"cover_image_url" validate:"omitempty,url,max=500"`
	CategoryID    uint           `json:"category_id" validate:"required"`
	AuthorIDs     []uint         `json:"author_ids"`
}

// BorrowInput for borrowing a book
type BorrowInput struct {
	BookID   uint           `json:"book_id" validate:"required"`
	MemberID uint           `json:"member_id" validate:"required"`
	DueDate  *dateonly.Date `json:"due_date"`
	Notes    string         `json:"notes" validate:"max=500"`
}
