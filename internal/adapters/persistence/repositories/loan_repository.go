package repositories

import (
	"context"

	"library-api/internal/adapters/persistence/models"
	"library-api/internal/pkg/dateonly"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Book").Preload("Member")
}

func (r *loanRepository) find(query *gorm.DB) ([]*models.Loan, error) {
	var loans []*models.Loan
	if err := query.Order("borrow_date DESC, id DESC").Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// Create creates a new loan.
// A second unreturned loan for the same book fails with domain.ErrDuplicateKey.
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return translateError(r.db.WithContext(ctx).Omit("Book", "Member").Create(loan).Error)
}

// GetByID gets a loan by ID
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.withRelations(ctx).Where("id = ?", id).First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// GetByIDForUpdate gets a loan by ID and locks the row until the transaction ends
func (r *loanRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// Update writes the columns a loan may change after it is created.
// Book, member and borrow date are fixed at borrow time and never rewritten.
func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	err := r.db.WithContext(ctx).
		Model(loan).
		Select("due_date", "return_date", "returned", "active_book_id", "notes", "updated_at").
		Updates(loan).Error
	return translateError(err)
}

// ListAll lists every loan, newest first
func (r *loanRepository) ListAll(ctx context.Context) ([]*models.Loan, error) {
	return r.find(r.withRelations(ctx))
}

// ListActive lists unreturned loans
func (r *loanRepository) ListActive(ctx context.Context) ([]*models.Loan, error) {
	return r.find(r.withRelations(ctx).Where("returned = ?", false))
}

// ListOverdue lists unreturned loans due before today
func (r *loanRepository) ListOverdue(ctx context.Context, today dateonly.Date) ([]*models.Loan, error) {
	return r.find(r.withRelations(ctx).Where("returned = ? AND due_date < ?", false, today))
}

// ListByMember lists every loan of a member
func (r *loanRepository) ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	return r.find(r.withRelations(ctx).Where("member_id = ?", memberID))
}

// ListActiveByMember lists unreturned loans of a member
func (r *loanRepository) ListActiveByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	return r.find(r.withRelations(ctx).Where("member_id = ? AND returned = ?", memberID, false))
}

// ListByBook lists every loan of a book
func (r *loanRepository) ListByBook(ctx context.Context, bookID uint) ([]*models.Loan, error) {
	return r.find(r.withRelations(ctx).Where("book_id = ?", bookID))
}

// ListByBorrowDateBetween lists loans borrowed within [start, end]
func (r *loanRepository) ListByBorrowDateBetween(ctx context.Context, start, end dateonly.Date) ([]*models.Loan, error) {
	return r.find(r.withRelations(ctx).Where("borrow_date BETWEEN ? AND ?", start, end))
}

// ExistsActiveByBook checks if a book has an unreturned loan
func (r *loanRepository) ExistsActiveByBook(ctx context.Context, bookID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("book_id = ? AND returned = ?", bookID, false).
		Count(&count).Error
	return count > 0, err
}

// ExistsActiveByMember checks if a member has an unreturned loan
func (r *loanRepository) ExistsActiveByMember(ctx context.Context, memberID uint) (bool, error) {
	count, err := r.CountActiveByMember(ctx, memberID)
	return count > 0, err
}

// CountActiveByMember counts unreturned loans of a member
func (r *loanRepository) CountActiveByMember(ctx context.Context, memberID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Loan{}).
		Where("member_id = ? AND returned = ?", memberID, false).
		Count(&count).Error
	return count, err
}

// DeleteByBook deletes the loan history of a book
func (r *loanRepository) DeleteByBook(ctx context.Context, bookID uint) error {
	return r.db.WithContext(ctx).Where("book_id = ?", bookID).Delete(&models.Loan{}).Error
}

// DeleteByMember deletes the loan history of a member
func (r *loanRepository) DeleteByMember(ctx context.Context, memberID uint) error {
	return r.db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&models.Loan{}).Error
}
