package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"library-api/internal/adapters/events"
	"library-api/internal/adapters/persistence/models"
	"library-api/internal/core/domain"
	"library-api/internal/core/services"
	"library-api/internal/pkg/clock"
	"library-api/internal/pkg/dateonly"
)

type recordedEvent struct {
	Type string
	Data events.LoanEvent
}

// recordingPublisher keeps published loan events in memory
type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	payload, _ := data.(events.LoanEvent)
	p.events = append(p.events, recordedEvent{Type: eventType, Data: payload})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

var errStoreDown = errors.New("store unavailable")

type testEnv struct {
	ctx        context.Context
	store      *memStore
	clock      *clock.Manual
	publisher  *recordingPublisher
	categories services.CategoryService
	authors    services.AuthorService
	members    services.MemberService
	books      services.BookService
	loans      services.LoanService

	category *models.Category
	isbnSeq  int
}

// newTestEnv wires every service to one in-memory store with the clock at 2024-01-01
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	clk := clock.NewManual(dateonly.MustParse("2024-01-01"))
	publisher := &recordingPublisher{}

	env := &testEnv{
		ctx:        context.Background(),
		store:      store,
		clock:      clk,
		publisher:  publisher,
		categories: services.NewCategoryService(store),
		authors:    services.NewAuthorService(store, clk),
		members:    services.NewMemberService(store, clk),
		books:      services.NewBookService(store, clk),
		loans:      services.NewLoanService(store, clk, domain.DefaultLoanPolicy(), publisher),
	}

	category, err := env.categories.Create(env.ctx, &services.CategoryInput{Name: "General"})
	require.NoError(t, err)
	env.category = category

	return env
}

func (e *testEnv) newBook(t *testing.T, title string) *models.Book {
	t.Helper()
	e.isbnSeq++
	book, err := e.books.Create(e.ctx, &services.BookInput{
		Title:      title,
		ISBN:       fmt.Sprintf("978000000%04d", e.isbnSeq),
		CategoryID: e.category.ID,
	})
	require.NoError(t, err)
	return book
}

func (e *testEnv) newMember(t *testing.T, email string) *models.Member {
	t.Helper()
	member, err := e.members.Create(e.ctx, &services.MemberInput{
		FirstName: "Test",
		LastName:  "Member",
		Email:     email,
	})
	require.NoError(t, err)
	return member
}

func (e *testEnv) borrow(bookID, memberID uint) (*models.Loan, error) {
	return e.loans.Borrow(e.ctx, &services.BorrowInput{BookID: bookID, MemberID: memberID})
}

func (e *testEnv) bookAvailable(t *testing.T, id uint) bool {
	t.Helper()
	book, err := e.books.GetByID(e.ctx, id)
	require.NoError(t, err)
	return book.Available
}
