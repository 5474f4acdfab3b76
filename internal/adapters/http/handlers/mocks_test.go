package handlers_test

import (
	"context"

	"library-api/internal/adapters/persistence/models"
	"library-api/internal/core/services"
	"library-api/internal/pkg/dateonly"
)

var testToday = dateonly.MustParse("2024-03-01")

type mockLoanService struct {
	ListAllFn               func(ctx context.Context) ([]*models.Loan, error)
	GetByIDFn               func(ctx context.Context, id uint) (*models.Loan, error)
	ListActiveFn            func(ctx context.Context) ([]*models.Loan, error)
	ListOverdueFn           func(ctx context.Context) ([]*models.Loan, error)
	ListByMemberFn          func(ctx context.Context, memberID uint) ([]*models.Loan, error)
	ListActiveByMemberFn    func(ctx context.Context, memberID uint) ([]*models.Loan, error)
	ListByBookFn            func(ctx context.Context, bookID uint) ([]*models.Loan, error)
	ListByBorrowDateRangeFn func(ctx context.Context, start, end dateonly.Date) ([]*models.Loan, error)
	BorrowFn                func(ctx context.Context, input *services.BorrowInput) (*models.Loan, error)
	ReturnFn                func(ctx context.Context, id uint) (*models.Loan, error)
	ExtendFn                func(ctx context.Context, id uint, additionalDays int) (*models.Loan, error)
}

func (m *mockLoanService) ListAll(ctx context.Context) ([]*models.Loan, error) {
	return m.ListAllFn(ctx)
}

func (m *mockLoanService) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockLoanService) ListActive(ctx context.Context) ([]*models.Loan, error) {
	return m.ListActiveFn(ctx)
}

func (m *mockLoanService) ListOverdue(ctx context.Context) ([]*models.Loan, error) {
	return m.ListOverdueFn(ctx)
}

func (m *mockLoanService) ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	return m.ListByMemberFn(ctx, memberID)
}

func (m *mockLoanService) ListActiveByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	return m.ListActiveByMemberFn(ctx, memberID)
}

func (m *mockLoanService) ListByBook(ctx context.Context, bookID uint) ([]*models.Loan, error) {
	return m.ListByBookFn(ctx, bookID)
}

func (m *mockLoanService) ListByBorrowDateRange(ctx context.Context, start, end dateonly.Date) ([]*models.Loan, error) {
	return m.ListByBorrowDateRangeFn(ctx, start, end)
}

func (m *mockLoanService) Borrow(ctx context.Context, input *services.BorrowInput) (*models.Loan, error) {
	return m.BorrowFn(ctx, input)
}

func (m *mockLoanService) Return(ctx context.Context, id uint) (*models.Loan, error) {
	return m.ReturnFn(ctx, id)
}

func (m *mockLoanService) Extend(ctx context.Context, id uint, additionalDays int) (*models.Loan, error) {
	return m.ExtendFn(ctx, id, additionalDays)
}

func (m *mockLoanService) DefaultExtensionDays() int { return 7 }

func (m *mockLoanService) Today() dateonly.Date { return testToday }

// mockBookService only implements what the book tests call
type mockBookService struct {
	services.BookService
	ListFn             func(ctx context.Context) ([]*models.Book, error)
	ListPagedFn        func(ctx context.Context, page, limit int) ([]*models.Book, int64, error)
	CreateFn           func(ctx context.Context, input *services.BookInput) (*models.Book, error)
	SyncAvailabilityFn func(ctx context.Context, id uint) (*models.Book, error)
	DeleteFn           func(ctx context.Context, id uint) error
}

func (m *mockBookService) List(ctx context.Context) ([]*models.Book, error) {
	return m.ListFn(ctx)
}

func (m *mockBookService) ListPaged(ctx context.Context, page, limit int) ([]*models.Book, int64, error) {
	return m.ListPagedFn(ctx, page, limit)
}

func (m *mockBookService) Create(ctx context.Context, input *services.BookInput) (*models.Book, error) {
	return m.CreateFn(ctx, input)
}

func (m *mockBookService) SyncAvailability(ctx context.Context, id uint) (*models.Book, error) {
	return m.SyncAvailabilityFn(ctx, id)
}

func (m *mockBookService) Delete(ctx context.Context, id uint) error {
	return m.DeleteFn(ctx, id)
}

type mockCategoryService struct {
	services.CategoryService
	CreateFn func(ctx context.Context, input *services.CategoryInput) (*models.Category, error)
	DeleteFn func(ctx context.Context, id uint) error
}

func (m *mockCategoryService) Create(ctx context.Context, input *services.CategoryInput) (*models.Category, error) {
	return m.CreateFn(ctx, input)
}

func (m *mockCategoryService) Delete(ctx context.Context, id uint) error {
	return m.DeleteFn(ctx, id)
}

type mockMemberService struct {
	services.MemberService
	CreateFn           func(ctx context.Context, input *services.MemberInput) (*models.Member, error)
	ToggleActivationFn func(ctx context.Context, id uint) (*models.Member, error)
}

func (m *mockMemberService) Create(ctx context.Context, input *services.MemberInput) (*models.Member, error) {
	return m.CreateFn(ctx, input)
}

func (m *mockMemberService) ToggleActivation(ctx context.Context, id uint) (*models.Member, error) {
	return m.ToggleActivationFn(ctx, id)
}

type mockAuthorService struct {
	services.AuthorService
	CreateFn            func(ctx context.Context, input *services.AuthorInput) (*models.Author, error)
	ListByNationalityFn func(ctx context.Context, nationality string) ([]*models.Author, error)
	DeleteFn            func(ctx context.Context, id uint) error
}

func (m *mockAuthorService) Create(ctx context.Context, input *services.AuthorInput) (*models.Author, error) {
	return m.CreateFn(ctx, input)
}

func (m *mockAuthorService) ListByNationality(ctx context.Context, nationality string) ([]*models.Author, error) {
	return m.ListByNationalityFn(ctx, nationality)
}

func (m *mockAuthorService) Delete(ctx context.Context, id uint) error {
	return m.DeleteFn(ctx, id)
}
