package domain

// LoanStatus is the derived lifecycle state of a loan
type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "ACTIVE"
	LoanStatusOverdue  LoanStatus = "OVERDUE"
	LoanStatusReturned LoanStatus = "RETURNED"
)

// LoanPolicy holds the configurable borrowing rules
type LoanPolicy struct {
	MaxActiveLoans       int // simultaneous unreturned loans per member
	LoanPeriodDays       int // due date offset when none is given
	DefaultExtensionDays int // used when an extension does not name a length
}

// DefaultLoanPolicy returns the standard library rules: 5 books, 14 days, 7-day extensions
func DefaultLoanPolicy() LoanPolicy {
	return LoanPolicy{
		MaxActiveLoans:       5,
		LoanPeriodDays:       14,
		DefaultExtensionDays: 7,
	}
}
