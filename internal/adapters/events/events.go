package events

import (
	"time"

	"library-api/internal/pkg/dateonly"
)

// Event types
const (
	LoanBorrowed = "loan.borrowed"
	LoanReturned = "loan.returned"
	LoanExtended = "loan.extended"
	LoanOverdue  = "loan.overdue"
)

// DefaultStream is the Redis stream loan events are appended to
const DefaultStream = "library.loan.events"

// Base event structure
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// LoanEvent is the payload of every loan event
type LoanEvent struct {
	LoanID      uint           `json:"loan_id"`
	BookID      uint           `json:"book_id"`
	MemberID    uint           `json:"member_id"`
	BorrowDate  dateonly.Date  `json:"borrow_date"`
	DueDate     dateonly.Date  `json:"due_date"`
	ReturnDate  *dateonly.Date `json:"return_date,omitempty"`
	DaysOverdue int            `json:"days_overdue,omitempty"`
}
