package repositories_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"library-api/internal/adapters/persistence/models"
	"library-api/internal/adapters/persistence/repositories"
	"library-api/internal/core/domain"
	"library-api/internal/core/services"
	"library-api/internal/pkg/clock"
	"library-api/internal/pkg/dateonly"
)

// openTestDB connects to TEST_DATABASE_DSN and resets the library tables.
// A DSN starting with "postgres" selects the postgres driver, anything else mysql.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	dialector := mysql.Open(dsn)
	if strings.HasPrefix(dsn, "postgres") {
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, db.Migrator().DropTable("book_authors", &models.Loan{}, &models.Book{}, &models.Member{}, &models.Author{}, &models.Category{}))
	require.NoError(t, models.AutoMigrate(db))

	return db
}

func seedBookAndMember(t *testing.T, store repositories.Store) (*models.Book, *models.Member) {
	t.Helper()
	ctx := context.Background()

	category := &models.Category{Name: "Science Fiction"}
	require.NoError(t, store.Categories().Create(ctx, category))

	author := &models.Author{FirstName: "Frank", LastName: "Herbert"}
	require.NoError(t, store.Authors().Create(ctx, author))

	book := &models.Book{
		Title:      "Dune",
		ISBN:       "9780441013593",
		CategoryID: category.ID,
		Available:  true,
		Authors:    []models.Author{*author},
	}
	require.NoError(t, store.Books().Create(ctx, book))

	member := &models.Member{
		FirstName:        "Ada",
		LastName:         "Lovelace",
		Email:            "ada@example.com",
		Active:           true,
		RegistrationDate: dateonly.MustParse("2024-01-01"),
	}
	require.NoError(t, store.Members().Create(ctx, member))

	return book, member
}

func newActiveLoan(book *models.Book, member *models.Member) *models.Loan {
	bookID := book.ID
	return &models.Loan{
		BookID:       book.ID,
		MemberID:     member.ID,
		ActiveBookID: &bookID,
		BorrowDate:   dateonly.MustParse("2024-01-01"),
		DueDate:      dateonly.MustParse("2024-01-15"),
	}
}

func Test_Store_SecondActiveLoanIsDuplicate(t *testing.T) {
	store := repositories.NewStore(openTestDB(t))
	ctx := context.Background()
	book, member := seedBookAndMember(t, store)

	require.NoError(t, store.Loans().Create(ctx, newActiveLoan(book, member)))

	err := store.Loans().Create(ctx, newActiveLoan(book, member))

	assert.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func Test_Store_ReturnedLoanFreesActiveSlot(t *testing.T) {
	store := repositories.NewStore(openTestDB(t))
	ctx := context.Background()
	book, member := seedBookAndMember(t, store)

	first := newActiveLoan(book, member)
	require.NoError(t, store.Loans().Create(ctx, first))
	first.MarkReturned(dateonly.MustParse("2024-01-05"))
	require.NoError(t, store.Loans().Update(ctx, first))

	require.NoError(t, store.Loans().Create(ctx, newActiveLoan(book, member)))

	count, err := store.Loans().CountActiveByMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func Test_Store_TransactionRollsBack(t *testing.T) {
	store := repositories.NewStore(openTestDB(t))
	ctx := context.Background()
	book, member := seedBookAndMember(t, store)
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(tx repositories.Store) error {
		if err := tx.Loans().Create(ctx, newActiveLoan(book, member)); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	exists, err := store.Loans().ExistsActiveByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func Test_Store_BookQueries(t *testing.T) {
	store := repositories.NewStore(openTestDB(t))
	ctx := context.Background()
	book, _ := seedBookAndMember(t, store)

	loaded, err := store.Books().GetByID(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Category)
	assert.Equal(t, "Science Fiction", loaded.Category.Name)
	require.Len(t, loaded.Authors, 1)

	byAuthor, err := store.Books().ListByAuthor(ctx, loaded.Authors[0].ID)
	require.NoError(t, err)
	assert.Len(t, byAuthor, 1)

	count, err := store.Books().CountByAuthor(ctx, loaded.Authors[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	found, err := store.Books().SearchByTitle(ctx, "dun")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	exists, err := store.Categories().ExistsByName(ctx, "science FICTION")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Books().Delete(ctx, loaded))
	count, err = store.Books().CountByAuthor(ctx, loaded.Authors[0].ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

// concurrently starts every fn at once and returns their errors in order
func concurrently(fns ...func() error) []error {
	errs := make([]error, len(fns))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, fn := range fns {
		wg.Add(1)
		go func(i int, fn func() error) {
			defer wg.Done()
			<-start
			errs[i] = fn()
		}(i, fn)
	}
	close(start)
	wg.Wait()
	return errs
}

func newLoanService(store repositories.Store) services.LoanService {
	return services.NewLoanService(store, clock.NewManual(dateonly.MustParse("2024-01-01")), domain.DefaultLoanPolicy(), nil)
}

func Test_Store_ConcurrentReturnsSucceedOnce(t *testing.T) {
	store := repositories.NewStore(openTestDB(t))
	ctx := context.Background()
	book, member := seedBookAndMember(t, store)
	loans := newLoanService(store)

	loan, err := loans.Borrow(ctx, &services.BorrowInput{BookID: book.ID, MemberID: member.ID})
	require.NoError(t, err)

	returnLoan := func() error {
		_, err := loans.Return(ctx, loan.ID)
		return err
	}
	errs := concurrently(returnLoan, returnLoan)

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrLoanAlreadyReturned)
	}
	assert.Equal(t, 1, succeeded)
}

func Test_Store_ConcurrentReturnAndExtendKeepAvailability(t *testing.T) {
	store := repositories.NewStore(openTestDB(t))
	ctx := context.Background()
	book, member := seedBookAndMember(t, store)
	loans := newLoanService(store)

	for i := 0; i < 10; i++ {
		loan, err := loans.Borrow(ctx, &services.BorrowInput{BookID: book.ID, MemberID: member.ID})
		require.NoError(t, err)

		errs := concurrently(
			func() error {
				_, err := loans.Return(ctx, loan.ID)
				return err
			},
			func() error {
				_, err := loans.Extend(ctx, loan.ID, 7)
				return err
			},
		)

		require.NoError(t, errs[0])
		if errs[1] != nil {
			assert.ErrorIs(t, errs[1], domain.ErrLoanAlreadyReturned)
		}

		final, err := store.Loans().GetByID(ctx, loan.ID)
		require.NoError(t, err)
		assert.True(t, final.Returned)
		assert.Nil(t, final.ActiveBookID)
		require.NotNil(t, final.ReturnDate)

		lent, err := store.Loans().ExistsActiveByBook(ctx, book.ID)
		require.NoError(t, err)
		assert.False(t, lent)
		reloaded, err := store.Books().GetByID(ctx, book.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.Available)
	}
}
