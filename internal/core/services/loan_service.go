package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"library-api/internal/adapters/events"
	"library-api/internal/adapters/persistence/models"
	"library-api/internal/adapters/persistence/repositories"
	"library-api/internal/core/domain"
	"library-api/internal/pkg/clock"
	"library-api/internal/pkg/dateonly"
)

// ============================================================
// Loan workflow: borrow / return / extend
// ============================================================

// MaxExtensionDays caps a single extension
const MaxExtensionDays = 365

// loanService implements LoanService
type loanService struct {
	store     repositories.Store
	clock     clock.Clock
	policy    domain.LoanPolicy
	publisher events.Publisher
}

// NewLoanService creates a new loan service.
// A nil publisher disables loan events.
func NewLoanService(store repositories.Store, clk clock.Clock, policy domain.LoanPolicy, publisher events.Publisher) LoanService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &loanService{
		store:     store,
		clock:     clk,
		policy:    policy,
		publisher: publisher,
	}
}

// Today returns the service's current calendar date
func (s *loanService) Today() dateonly.Date {
	return s.clock.Today()
}

// DefaultExtensionDays is the extension applied when a caller names none
func (s *loanService) DefaultExtensionDays() int {
	return s.policy.DefaultExtensionDays
}

// Borrow lends a book to a member.
// The loan insert and the availability flag change commit together or not at all.
func (s *loanService) Borrow(ctx context.Context, input *BorrowInput) (*models.Loan, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	today := s.clock.Today()
	if input.DueDate != nil && input.DueDate.Before(today) {
		return nil, domain.NewFieldError("due_date", "Due date must not be before the borrow date")
	}

	var loanID uint
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		book, err := tx.Books().GetByIDForUpdate(ctx, input.BookID)
		if err != nil {
			return notFoundAs(err, domain.ErrBookNotFound)
		}

		member, err := tx.Members().GetByIDForUpdate(ctx, input.MemberID)
		if err != nil {
			return notFoundAs(err, domain.ErrMemberNotFound)
		}

		if !book.Available {
			return domain.ErrBookUnavailable
		}

		// The flag and the loan table should agree; check both in case they drifted.
		lent, err := tx.Loans().ExistsActiveByBook(ctx, book.ID)
		if err != nil {
			return err
		}
		if lent {
			return domain.ErrBookAlreadyLent
		}

		if !member.Active {
			return domain.ErrMemberInactive
		}

		active, err := tx.Loans().CountActiveByMember(ctx, member.ID)
		if err != nil {
			return err
		}
		if active >= int64(s.policy.MaxActiveLoans) {
			return domain.ErrQuotaExceeded
		}

		dueDate := today.AddDays(s.policy.LoanPeriodDays)
		if input.DueDate != nil {
			dueDate = *input.DueDate
		}

		bookID := book.ID
		loan := &models.Loan{
			BookID:       book.ID,
			MemberID:     member.ID,
			ActiveBookID: &bookID,
			BorrowDate:   today,
			DueDate:      dueDate,
			Returned:     false,
			Notes:        input.Notes,
		}
		if err := tx.Loans().Create(ctx, loan); err != nil {
			if errors.Is(err, domain.ErrDuplicateKey) {
				return domain.ErrBookAlreadyLent
			}
			return err
		}

		book.Available = false
		if err := tx.Books().Update(ctx, book); err != nil {
			return err
		}

		loanID = loan.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	loan, err := s.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.LoanBorrowed, loan, today)
	return loan, nil
}

// Return closes a loan and makes its book available again
func (s *loanService) Return(ctx context.Context, id uint) (*models.Loan, error) {
	today := s.clock.Today()

	// Loan row first, then its book; a concurrent return or extension of the same loan waits here.
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		loan, err := tx.Loans().GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.ErrLoanNotFound)
		}
		if loan.Returned {
			return domain.ErrLoanAlreadyReturned
		}

		book, err := tx.Books().GetByIDForUpdate(ctx, loan.BookID)
		if err != nil {
			return notFoundAs(err, domain.ErrBookNotFound)
		}

		loan.MarkReturned(today)
		if err := tx.Loans().Update(ctx, loan); err != nil {
			return err
		}

		book.Available = true
		return tx.Books().Update(ctx, book)
	})
	if err != nil {
		return nil, err
	}

	loan, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.LoanReturned, loan, today)
	return loan, nil
}

// Extend pushes the due date of an open, not yet overdue loan
func (s *loanService) Extend(ctx context.Context, id uint, additionalDays int) (*models.Loan, error) {
	if additionalDays <= 0 {
		return nil, domain.NewFieldError("days", "Value must be greater than 0")
	}
	if additionalDays > MaxExtensionDays {
		return nil, domain.NewFieldError("days", fmt.Sprintf("Value must be at most %d", MaxExtensionDays))
	}

	today := s.clock.Today()

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		loan, err := tx.Loans().GetByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, domain.ErrLoanNotFound)
		}
		if loan.Returned {
			return domain.ErrLoanAlreadyReturned
		}
		if loan.IsOverdue(today) {
			return domain.ErrLoanOverdue
		}

		loan.DueDate = loan.DueDate.AddDays(additionalDays)
		return tx.Loans().Update(ctx, loan)
	})
	if err != nil {
		return nil, err
	}

	loan, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.LoanExtended, loan, today)
	return loan, nil
}

// ============================================================
// Queries
// ============================================================

func (s *loanService) ListAll(ctx context.Context) ([]*models.Loan, error) {
	return s.store.Loans().ListAll(ctx)
}

// GetByID returns a loan or domain.ErrLoanNotFound
func (s *loanService) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.store.Loans().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrLoanNotFound)
	}
	return loan, nil
}

func (s *loanService) ListActive(ctx context.Context) ([]*models.Loan, error) {
	return s.store.Loans().ListActive(ctx)
}

// ListOverdue returns unreturned loans whose due date has passed
func (s *loanService) ListOverdue(ctx context.Context) ([]*models.Loan, error) {
	return s.store.Loans().ListOverdue(ctx, s.clock.Today())
}

func (s *loanService) ListByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	if err := s.requireMember(ctx, memberID); err != nil {
		return nil, err
	}
	return s.store.Loans().ListByMember(ctx, memberID)
}

func (s *loanService) ListActiveByMember(ctx context.Context, memberID uint) ([]*models.Loan, error) {
	if err := s.requireMember(ctx, memberID); err != nil {
		return nil, err
	}
	return s.store.Loans().ListActiveByMember(ctx, memberID)
}

func (s *loanService) ListByBook(ctx context.Context, bookID uint) ([]*models.Loan, error) {
	if _, err := s.store.Books().GetByID(ctx, bookID); err != nil {
		return nil, notFoundAs(err, domain.ErrBookNotFound)
	}
	return s.store.Loans().ListByBook(ctx, bookID)
}

// ListByBorrowDateRange returns loans borrowed within [start, end], both inclusive
func (s *loanService) ListByBorrowDateRange(ctx context.Context, start, end dateonly.Date) ([]*models.Loan, error) {
	if start.After(end) {
		return nil, domain.NewFieldError("start_date", "Start date must not be after end date")
	}
	return s.store.Loans().ListByBorrowDateBetween(ctx, start, end)
}

func (s *loanService) requireMember(ctx context.Context, memberID uint) error {
	if _, err := s.store.Members().GetByID(ctx, memberID); err != nil {
		return notFoundAs(err, domain.ErrMemberNotFound)
	}
	return nil
}

// publish emits a loan event; failures are logged and never reach the caller
func (s *loanService) publish(ctx context.Context, eventType string, loan *models.Loan, today dateonly.Date) {
	if err := s.publisher.Publish(ctx, eventType, NewLoanEvent(loan, today)); err != nil {
		log.Printf("⚠️ Failed to publish %s for loan %d: %v", eventType, loan.ID, err)
	}
}

// NewLoanEvent builds the event payload for a loan
func NewLoanEvent(loan *models.Loan, today dateonly.Date) events.LoanEvent {
	return events.LoanEvent{
		LoanID:      loan.ID,
		BookID:      loan.BookID,
		MemberID:    loan.MemberID,
		BorrowDate:  loan.BorrowDate,
		DueDate:     loan.DueDate,
		ReturnDate:  loan.ReturnDate,
		DaysOverdue: loan.DaysOverdue(today),
	}
}
