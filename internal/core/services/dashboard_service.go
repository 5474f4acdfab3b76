package services

import (
	"context"
	"sort"

	"library-api/internal/adapters/persistence/models"
	"library-api/internal/adapters/persistence/repositories"
	"library-api/internal/pkg/clock"
	"library-api/internal/pkg/dateonly"
)

// TopBorrowersLimit caps the top borrowers list
const TopBorrowersLimit = 5

// DashboardService builds the library overview
type DashboardService struct {
	store repositories.Store
	clock clock.Clock
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store repositories.Store, clk clock.Clock) *DashboardService {
	return &DashboardService{store: store, clock: clk}
}

// ============================================================
// Library Dashboard
// ============================================================

// DashboardData represents the library overview
type DashboardData struct {
	Date dateonly.Date `json:"date"`

	// Catalogue
	TotalBooks     int64 `json:"total_books"`
	AvailableBooks int64 `json:"available_books"`

	// Members
	TotalMembers  int64 `json:"total_members"`
	ActiveMembers int64 `json:"active_members"`

	// Loans
	ActiveLoans  int64 `json:"active_loans"`
	OverdueLoans int64 `json:"overdue_loans"`

	// Monthly Statistics
	LoansThisMonth   int64 `json:"loans_this_month"`
	ReturnsThisMonth int64 `json:"returns_this_month"`

	// Recent Activity
	RecentBooks []BookSummary `json:"recent_books"`

	// Top borrowers of the current month
	TopBorrowers []BorrowerStats `json:"top_borrowers"`
}

// BookSummary represents a recently added book
type BookSummary struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	ISBN      string `json:"isbn"`
	Available bool   `json:"available"`
}

// BorrowerStats represents a member's borrowing this month
type BorrowerStats struct {
	MemberID   uint   `json:"member_id"`
	MemberName string `json:"member_name"`
	Loans      int64  `json:"loans"`
}

// GetDashboard returns the library overview as of today
func (s *DashboardService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	today := s.clock.Today()
	data := &DashboardData{Date: today}

	// Catalogue counts
	_, total, err := s.store.Books().List(ctx, 0, 1)
	if err != nil {
		return nil, err
	}
	data.TotalBooks = total

	available, err := s.store.Books().ListByAvailability(ctx, true)
	if err != nil {
		return nil, err
	}
	data.AvailableBooks = int64(len(available))

	// Member counts
	_, total, err = s.store.Members().List(ctx, 0, 1)
	if err != nil {
		return nil, err
	}
	data.TotalMembers = total

	activeMembers, err := s.store.Members().ListActive(ctx)
	if err != nil {
		return nil, err
	}
	data.ActiveMembers = int64(len(activeMembers))

	// Loan counts
	active, err := s.store.Loans().ListActive(ctx)
	if err != nil {
		return nil, err
	}
	data.ActiveLoans = int64(len(active))

	overdue, err := s.store.Loans().ListOverdue(ctx, today)
	if err != nil {
		return nil, err
	}
	data.OverdueLoans = int64(len(overdue))

	// This month statistics
	startOfMonth := dateonly.New(today.Year, today.Month, 1)
	monthLoans, err := s.store.Loans().ListByBorrowDateBetween(ctx, startOfMonth, today)
	if err != nil {
		return nil, err
	}
	data.LoansThisMonth = int64(len(monthLoans))
	for _, loan := range monthLoans {
		if loan.Returned {
			data.ReturnsThisMonth++
		}
	}
	data.TopBorrowers = topBorrowers(monthLoans, TopBorrowersLimit)

	// Recent books
	recent, err := s.store.Books().ListRecent(ctx, RecentBooksLimit)
	if err != nil {
		return nil, err
	}
	data.RecentBooks = make([]BookSummary, len(recent))
	for i, b := range recent {
		data.RecentBooks[i] = BookSummary{
			ID:        b.ID,
			Title:     b.Title,
			ISBN:      b.ISBN,
			Available: b.Available,
		}
	}

	return data, nil
}

// topBorrowers ranks members by loan count, ties broken by member id
func topBorrowers(loans []*models.Loan, limit int) []BorrowerStats {
	byMember := make(map[uint]*BorrowerStats)
	for _, loan := range loans {
		stats, ok := byMember[loan.MemberID]
		if !ok {
			stats = &BorrowerStats{MemberID: loan.MemberID}
			if loan.Member != nil {
				stats.MemberName = loan.Member.FirstName + " " + loan.Member.LastName
			}
			byMember[loan.MemberID] = stats
		}
		stats.Loans++
	}

	out := make([]BorrowerStats, 0, len(byMember))
	for _, stats := range byMember {
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Loans != out[j].Loans {
			return out[i].Loans > out[j].Loans
		}
		return out[i].MemberID < out[j].MemberID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
