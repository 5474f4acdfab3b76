package repositories

import (
	"context"

	"gorm.io/gorm"
)

// gormStore implements Store on top of a *gorm.DB
type gormStore struct {
	db         *gorm.DB
	categories CategoryRepository
	authors    AuthorRepository
	members    MemberRepository
	books      BookRepository
	loans      LoanRepository
}

// NewStore creates a store whose repositories share db
func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db:         db,
		categories: NewCategoryRepository(db),
		authors:    NewAuthorRepository(db),
		members:    NewMemberRepository(db),
		books:      NewBookRepository(db),
		loans:      NewLoanRepository(db),
	}
}

func (s *gormStore) Categories() CategoryRepository { return s.categories }
func (s *gormStore) Authors() AuthorRepository       { return s.authors }
func (s *gormStore) Members() MemberRepository       { return s.members }
func (s *gormStore) Books() BookRepository           { return s.books }
func (s *gormStore) Loans() LoanRepository           { return s.loans }

// Transaction runs fn inside a database transaction.
// fn must only use the Store it receives.
func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// likePattern wraps a search fragment for a case-insensitive LIKE
func likePattern(query string) string {
	return "%" + query + "%"
}
