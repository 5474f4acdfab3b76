package models

import (
	"time"

	"library-api/internal/core/domain"
	"library-api/internal/pkg/dateonly"

	"gorm.io/gorm"
)

// ============================================================
// Directory Tables
// ============================================================

// Category represents categories table
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Author represents authors table
type Author struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FirstName   string         `gorm:"size:100;not null" json:"first_name"`
	LastName    string         `gorm:"size:100;not null;index" json:"last_name"`
	BirthDate   *dateonly.Date `json:"birth_date"`
	Biography   string         `gorm:"type:text" json:"biography"`
	Nationality string         `gorm:"size:100;index" json:"nationality"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Author) TableName() string {
	return "authors"
}

// FullName returns "First Last"
func (a *Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Member represents members table
type Member struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	FirstName        string         `gorm:"size:100;not null" json:"first_name"`
	LastName         string         `gorm:"size:100;not null;index" json:"last_name"`
	Email            string         `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Phone            string         `gorm:"size:30;index" json:"phone"`
	Address          string         `gorm:"size:255" json:"address"`
	BirthDate        *dateonly.Date `json:"birth_date"`
	Active           bool           `gorm:"not null;index" json:"active"`
	RegistrationDate dateonly.Date  `gorm:"not null" json:"registration_date"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// ============================================================
// Catalog Tables
// ============================================================

// Book represents books table
type Book struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:255;not null;index" json:"title"`
	ISBN          string         `gorm:"column:isbn;size:20;uniqueIndex;not null" json:"isbn"`
	Description   string         `gorm:"size:1000" json:"description"`
	PageCount     *int           `json:"page_count"`
	PublishDate   *dateonly.Date `gorm:"index" json:"publish_date"`
	Language      string         `gorm:"size:50" json:"language"`
	Publisher     string         `gorm:"size:150" json:"publisher"`
	CoverImageURL string         `gorm:"size:500" json:"cover_image_url"`
	CategoryID    uint           `gorm:"not null;index" json:"category_id"`
	Available     bool           `gorm:"not null;index" json:"available"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Authors  []Author  `gorm:"many2many:book_authors" json:"authors"`
}

func (Book) TableName() string {
	return "books"
}

// AuthorIDs returns the ids of the loaded authors
func (b *Book) AuthorIDs() []uint {
	ids := make([]uint, len(b.Authors))
	for i, a := range b.Authors {
		ids[i] = a.ID
	}
	return ids
}

// ============================================================
// Loan Table
// ============================================================

// Loan represents loans table.
// ActiveBookID mirrors BookID while the loan is unreturned and is NULL afterwards;
// its unique index allows at most one unreturned loan per book.
type Loan struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	BookID       uint           `gorm:"not null;index" json:"book_id"`
	MemberID     uint           `gorm:"not null;index" json:"member_id"`
	ActiveBookID *uint          `gorm:"uniqueIndex" json:"-"`
	BorrowDate   dateonly.Date  `gorm:"not null;index" json:"borrow_date"`
	DueDate      dateonly.Date  `gorm:"not null;index" json:"due_date"`
	ReturnDate   *dateonly.Date `json:"return_date"`
	Returned     bool           `gorm:"not null;index" json:"returned"`
	Notes        string         `gorm:"size:500" json:"notes"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Book   *Book   `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// IsOverdue reports whether the loan is unreturned and past its due date
func (l *Loan) IsOverdue(today dateonly.Date) bool {
	return !l.Returned && today.After(l.DueDate)
}

// DaysOverdue returns 0 unless overdue, otherwise the calendar days past the due date
func (l *Loan) DaysOverdue(today dateonly.Date) int {
	if !l.IsOverdue(today) {
		return 0
	}
	return today.DaysSince(l.DueDate)
}

// Status derives ACTIVE / OVERDUE / RETURNED
func (l *Loan) Status(today dateonly.Date) domain.LoanStatus {
	switch {
	case l.Returned:
		return domain.LoanStatusReturned
	case l.IsOverdue(today):
		return domain.LoanStatusOverdue
	default:
		return domain.LoanStatusActive
	}
}

// MarkReturned closes the loan on the given date
func (l *Loan) MarkReturned(on dateonly.Date) {
	l.Returned = true
	l.ReturnDate = &on
	l.ActiveBookID = nil
}

// LoanResponse DTO
type LoanResponse struct {
	ID          uint              `json:"id"`
	BookID      uint              `json:"book_id"`
	BookTitle   string            `json:"book_title,omitempty"`
	MemberID    uint              `json:"member_id"`
	MemberName  string            `json:"member_name,omitempty"`
	BorrowDate  dateonly.Date     `json:"borrow_date"`
	DueDate     dateonly.Date     `json:"due_date"`
	ReturnDate  *dateonly.Date    `json:"return_date"`
	Returned    bool              `json:"returned"`
	Status      domain.LoanStatus `json:"status"`
	Overdue     bool              `json:"overdue"`
	DaysOverdue int               `json:"days_overdue"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (l *Loan) ToResponse(today dateonly.Date) *LoanResponse {
	resp := &LoanResponse{
		ID:          l.ID,
		BookID:      l.BookID,
		MemberID:    l.MemberID,
		BorrowDate:  l.BorrowDate,
		DueDate:     l.DueDate,
		ReturnDate:  l.ReturnDate,
		Returned:    l.Returned,
		Status:      l.Status(today),
		Overdue:     l.IsOverdue(today),
		DaysOverdue: l.DaysOverdue(today),
		Notes:       l.Notes,
		CreatedAt:   l.CreatedAt,
	}

	if l.Book != nil {
		resp.BookTitle = l.Book.Title
	}
	if l.Member != nil {
		resp.MemberName = l.Member.FirstName + " " + l.Member.LastName
	}

	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates all library tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Category{},
		&Author{},
		&Member{},
		&Book{},
		&Loan{},
	)
}
