package services_test

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"library-api/internal/adapters/persistence/models"
	"library-api/internal/adapters/persistence/repositories"
	"library-api/internal/core/domain"
	"library-api/internal/pkg/dateonly"
)

// memState is one consistent snapshot of the in-memory tables
type memState struct {
	nextID      uint
	categories  map[uint]models.Category
	authors     map[uint]models.Author
	members     map[uint]models.Member
	books       map[uint]models.Book
	bookAuthors map[uint][]uint
	loans       map[uint]models.Loan
}

func newMemState() *memState {
	return &memState{
		categories:  map[uint]models.Category{},
		authors:     map[uint]models.Author{},
		members:     map[uint]models.Member{},
		books:       map[uint]models.Book{},
		bookAuthors: map[uint][]uint{},
		loans:       map[uint]models.Loan{},
	}
}

func (st *memState) clone() *memState {
	return &memState{
		nextID:      st.nextID,
		categories:  maps.Clone(st.categories),
		authors:     maps.Clone(st.authors),
		members:     maps.Clone(st.members),
		books:       maps.Clone(st.books),
		bookAuthors: maps.Clone(st.bookAuthors),
		loans:       maps.Clone(st.loans),
	}
}

func (st *memState) newID() uint {
	st.nextID++
	return st.nextID
}

func (st *memState) loadBook(id uint) (*models.Book, bool) {
	b, ok := st.books[id]
	if !ok {
		return nil, false
	}
	if c, ok := st.categories[b.CategoryID]; ok {
		b.Category = &c
	}
	b.Authors = []models.Author{}
	for _, aid := range st.bookAuthors[id] {
		if a, ok := st.authors[aid]; ok {
			b.Authors = append(b.Authors, a)
		}
	}
	return &b, true
}

func (st *memState) loadLoan(id uint) (*models.Loan, bool) {
	l, ok := st.loans[id]
	if !ok {
		return nil, false
	}
	if b, ok := st.books[l.BookID]; ok {
		l.Book = &b
	}
	if m, ok := st.members[l.MemberID]; ok {
		l.Member = &m
	}
	return &l, true
}

// memDB owns the committed state; transactions are serialized by mu
type memDB struct {
	mu       sync.Mutex
	state    *memState
	failures map[string]error
	locks    []string
}

// memStore implements repositories.Store in memory.
// Transaction works on a cloned state and swaps it in only when fn succeeds.
type memStore struct {
	db    *memDB
	state *memState // non-nil inside a transaction
}

func newMemStore() *memStore {
	return &memStore{db: &memDB{state: newMemState(), failures: map[string]error{}}}
}

// failOn makes the named repository operation (e.g. "Books.Update") return err
func (s *memStore) failOn(op string, err error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.failures[op] = err
}

// lock records a row read FOR UPDATE inside a transaction as "<Table>:<id>".
// Outside a transaction a gorm row lock is released as soon as the statement ends.
func (s *memStore) lock(table string, id uint) {
	if s.state != nil {
		s.db.locks = append(s.db.locks, fmt.Sprintf("%s:%d", table, id))
	}
}

// lockedRows returns and clears the recorded row locks
func (s *memStore) lockedRows() []string {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := s.db.locks
	s.db.locks = nil
	return out
}

func (s *memStore) do(op string, fn func(st *memState) error) error {
	if s.state != nil {
		if err := s.db.failures[op]; err != nil {
			return err
		}
		return fn(s.state)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if err := s.db.failures[op]; err != nil {
		return err
	}
	return fn(s.db.state)
}

func (s *memStore) Categories() repositories.CategoryRepository { return memCategories{s} }
func (s *memStore) Authors() repositories.AuthorRepository       { return memAuthors{s} }
func (s *memStore) Members() repositories.MemberRepository       { return memMembers{s} }
func (s *memStore) Books() repositories.BookRepository           { return memBooks{s} }
func (s *memStore) Loans() repositories.LoanRepository           { return memLoans{s} }

func (s *memStore) Transaction(_ context.Context, fn func(tx repositories.Store) error) error {
	if s.state != nil {
		return fn(s)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	work := s.db.state.clone()
	if err := fn(&memStore{db: s.db, state: work}); err != nil {
		return err
	}
	s.db.state = work
	return nil
}

func duplicate(key string) error {
	return fmt.Errorf("%w: %s", domain.ErrDuplicateKey, key)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// ============================================================
// Categories
// ============================================================

type memCategories struct{ s *memStore }

func (r memCategories) Create(_ context.Context, c *models.Category) error {
	return r.s.do("Categories.Create", func(st *memState) error {
		for _, other := range st.categories {
			if strings.EqualFold(other.Name, c.Name) {
				return duplicate("categories.name")
			}
		}
		c.ID = st.newID()
		c.CreatedAt = time.Now()
		st.categories[c.ID] = *c
		return nil
	})
}

func (r memCategories) GetByID(_ context.Context, id uint) (*models.Category, error) {
	var out *models.Category
	err := r.s.do("Categories.GetByID", func(st *memState) error {
		c, ok := st.categories[id]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r memCategories) list(filter func(models.Category) bool) ([]*models.Category, error) {
	var out []*models.Category
	err := r.s.do("Categories.List", func(st *memState) error {
		for _, c := range st.categories {
			if filter(c) {
				c := c
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r memCategories) ListSorted(_ context.Context) ([]*models.Category, error) {
	return r.list(func(models.Category) bool { return true })
}

func (r memCategories) Search(_ context.Context, query string) ([]*models.Category, error) {
	return r.list(func(c models.Category) bool { return containsFold(c.Name, query) })
}

func (r memCategories) Update(_ context.Context, c *models.Category) error {
	return r.s.do("Categories.Update", func(st *memState) error {
		for id, other := range st.categories {
			if id != c.ID && strings.EqualFold(other.Name, c.Name) {
				return duplicate("categories.name")
			}
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r memCategories) Delete(_ context.Context, id uint) error {
	return r.s.do("Categories.Delete", func(st *memState) error {
		delete(st.categories, id)
		return nil
	})
}

func (r memCategories) ExistsByName(_ context.Context, name string) (bool, error) {
	found := false
	err := r.s.do("Categories.ExistsByName", func(st *memState) error {
		for _, c := range st.categories {
			if strings.EqualFold(c.Name, name) {
				found = true
			}
		}
		return nil
	})
	return found, err
}

// ============================================================
// Authors
// ============================================================

type memAuthors struct{ s *memStore }

func (r memAuthors) Create(_ context.Context, a *models.Author) error {
	return r.s.do("Authors.Create", func(st *memState) error {
		a.ID = st.newID()
		st.authors[a.ID] = *a
		return nil
	})
}

func (r memAuthors) GetByID(_ context.Context, id uint) (*models.Author, error) {
	var out *models.Author
	err := r.s.do("Authors.GetByID", func(st *memState) error {
		a, ok := st.authors[id]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		out = &a
		return nil
	})
	return out, err
}

func (r memAuthors) GetByIDs(_ context.Context, ids []uint) ([]models.Author, error) {
	out := []models.Author{}
	err := r.s.do("Authors.GetByIDs", func(st *memState) error {
		for _, id := range ids {
			if a, ok := st.authors[id]; ok {
				out = append(out, a)
			}
		}
		return nil
	})
	return out, err
}

func (r memAuthors) list(filter func(models.Author) bool) ([]*models.Author, error) {
	var out []*models.Author
	err := r.s.do("Authors.List", func(st *memState) error {
		for _, a := range st.authors {
			if filter(a) {
				a := a
				out = append(out, &a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, err
}

func (r memAuthors) ListSorted(_ context.Context) ([]*models.Author, error) {
	return r.list(func(models.Author) bool { return true })
}

func (r memAuthors) Search(_ context.Context, query string) ([]*models.Author, error) {
	return r.list(func(a models.Author) bool {
		return containsFold(a.FirstName, query) || containsFold(a.LastName, query)
	})
}

func (r memAuthors) ListByNationality(_ context.Context, nationality string) ([]*models.Author, error) {
	return r.list(func(a models.Author) bool { return strings.EqualFold(a.Nationality, nationality) })
}

func (r memAuthors) Update(_ context.Context, a *models.Author) error {
	return r.s.do("Authors.Update", func(st *memState) error {
		st.authors[a.ID] = *a
		return nil
	})
}

func (r memAuthors) Delete(_ context.Context, id uint) error {
	return r.s.do("Authors.Delete", func(st *memState) error {
		delete(st.authors, id)
		return nil
	})
}

// ============================================================
// Members
// ============================================================

type memMembers struct{ s *memStore }

func (r memMembers) Create(_ context.Context, m *models.Member) error {
	return r.s.do("Members.Create", func(st *memState) error {
		for _, other := range st.members {
			if strings.EqualFold(other.Email, m.Email) {
				return duplicate("members.email")
			}
		}
		m.ID = st.newID()
		st.members[m.ID] = *m
		return nil
	})
}

func (r memMembers) GetByID(_ context.Context, id uint) (*models.Member, error) {
	var out *models.Member
	err := r.s.do("Members.GetByID", func(st *memState) error {
		m, ok := st.members[id]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		out = &m
		return nil
	})
	return out, err
}

func (r memMembers) GetByIDForUpdate(ctx context.Context, id uint) (*models.Member, error) {
	r.s.lock("Members", id)
	return r.GetByID(ctx, id)
}

func (r memMembers) list(filter func(models.Member) bool) ([]*models.Member, error) {
	var out []*models.Member
	err := r.s.do("Members.List", func(st *memState) error {
		for _, m := range st.members {
			if filter(m) {
				m := m
				out = append(out, &m)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, err
}

func (r memMembers) ListSorted(_ context.Context) ([]*models.Member, error) {
	return r.list(func(models.Member) bool { return true })
}

func (r memMembers) List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error) {
	all, err := r.ListSorted(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []*models.Member{}, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (r memMembers) Search(_ context.Context, query string) ([]*models.Member, error) {
	return r.list(func(m models.Member) bool {
		return containsFold(m.FirstName, query) || containsFold(m.LastName, query) ||
			containsFold(m.Email, query) || strings.Contains(m.Phone, query)
	})
}

func (r memMembers) ListActive(_ context.Context) ([]*models.Member, error) {
	return r.list(func(m models.Member) bool { return m.Active })
}

func (r memMembers) Update(_ context.Context, m *models.Member) error {
	return r.s.do("Members.Update", func(st *memState) error {
		for id, other := range st.members {
			if id != m.ID && strings.EqualFold(other.Email, m.Email) {
				return duplicate("members.email")
			}
		}
		st.members[m.ID] = *m
		return nil
	})
}

func (r memMembers) Delete(_ context.Context, id uint) error {
	return r.s.do("Members.Delete", func(st *memState) error {
		delete(st.members, id)
		return nil
	})
}

func (r memMembers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	found := false
	err := r.s.do("Members.ExistsByEmail", func(st *memState) error {
		for _, m := range st.members {
			if strings.EqualFold(m.Email, email) {
				found = true
			}
		}
		return nil
	})
	return found, err
}

// ============================================================
// Books
// ============================================================

type memBooks struct{ s *memStore }

func stripBook(b *models.Book) models.Book {
	stored := *b
	stored.Category = nil
	stored.Authors = nil
	return stored
}

func (r memBooks) checkISBN(st *memState, b *models.Book) error {
	for id, other := range st.books {
		if id != b.ID && other.ISBN == b.ISBN {
			return duplicate("books.isbn")
		}
	}
	return nil
}

func (r memBooks) Create(_ context.Context, b *models.Book) error {
	return r.s.do("Books.Create", func(st *memState) error {
		if err := r.checkISBN(st, b); err != nil {
			return err
		}
		b.ID = st.newID()
		st.books[b.ID] = stripBook(b)
		ids := make([]uint, len(b.Authors))
		for i, a := range b.Authors {
			ids[i] = a.ID
		}
		st.bookAuthors[b.ID] = ids
		return nil
	})
}

func (r memBooks) GetByID(_ context.Context, id uint) (*models.Book, error) {
	var out *models.Book
	err := r.s.do("Books.GetByID", func(st *memState) error {
		b, ok := st.loadBook(id)
		if !ok {
			return gorm.ErrRecordNotFound
		}
		out = b
		return nil
	})
	return out, err
}

func (r memBooks) GetByIDForUpdate(_ context.Context, id uint) (*models.Book, error) {
	r.s.lock("Books", id)
	var out *models.Book
	err := r.s.do("Books.GetByIDForUpdate", func(st *memState) error {
		b, ok := st.books[id]
		if !ok {
			return gorm.ErrRecordNotFound
		}
		out = &b
		return nil
	})
	return out, err
}

func (r memBooks) list(filter func(st *memState, b models.Book) bool) ([]*models.Book, error) {
	var out []*models.Book
	err := r.s.do("Books.List", func(st *memState) error {
		for id, b := range st.books {
			if filter(st, b) {
				loaded, _ := st.loadBook(id)
				out = append(out, loaded)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, err
}

func (r memBooks) ListAll(_ context.Context) ([]*models.Book, error) {
	return r.list(func(*memState, models.Book) bool { return true })
}

func (r memBooks) List(ctx context.Context, offset, limit int) ([]*models.Book, int64, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []*models.Book{}, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (r memBooks) SearchByTitle(_ context.Context, title string) ([]*models.Book, error) {
	return r.list(func(_ *memState, b models.Book) bool { return containsFold(b.Title, title) })
}

func (r memBooks) ListByCategory(_ context.Context, categoryID uint) ([]*models.Book, error) {
	return r.list(func(_ *memState, b models.Book) bool { return b.CategoryID == categoryID })
}

func (r memBooks) ListByAuthor(_ context.Context, authorID uint) ([]*models.Book, error) {
	return r.list(func(st *memState, b models.Book) bool {
		for _, id := range st.bookAuthors[b.ID] {
			if id == authorID {
				return true
			}
		}
		return false
	})
}

func (r memBooks) ListByAvailability(_ context.Context, available bool) ([]*models.Book, error) {
	return r.list(func(_ *memState, b models.Book) bool { return b.Available == available })
}

func (r memBooks) ListRecent(_ context.Context, limit int) ([]*models.Book, error) {
	out, err := r.list(func(_ *memState, b models.Book) bool { return b.PublishDate != nil })
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PublishDate.After(*out[j].PublishDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memBooks) Update(_ context.Context, b *models.Book) error {
	return r.s.do("Books.Update", func(st *memState) error {
		if err := r.checkISBN(st, b); err != nil {
			return err
		}
		st.books[b.ID] = stripBook(b)
		return nil
	})
}

func (r memBooks) ReplaceAuthors(_ context.Context, b *models.Book, authors []models.Author) error {
	return r.s.do("Books.ReplaceAuthors", func(st *memState) error {
		ids := make([]uint, len(authors))
		for i, a := range authors {
			ids[i] = a.ID
		}
		st.bookAuthors[b.ID] = ids
		return nil
	})
}

func (r memBooks) Delete(_ context.Context, b *models.Book) error {
	return r.s.do("Books.Delete", func(st *memState) error {
		delete(st.books, b.ID)
		delete(st.bookAuthors, b.ID)
		return nil
	})
}

func (r memBooks) ExistsByISBN(_ context.Context, isbn string) (bool, error) {
	found := false
	err := r.s.do("Books.ExistsByISBN", func(st *memState) error {
		for _, b := range st.books {
			if b.ISBN == isbn {
				found = true
			}
		}
		return nil
	})
	return found, err
}

func (r memBooks) CountByCategory(_ context.Context, categoryID uint) (int64, error) {
	var n int64
	err := r.s.do("Books.CountByCategory", func(st *memState) error {
		for _, b := range st.books {
			if b.CategoryID == categoryID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r memBooks) CountByAuthor(_ context.Context, authorID uint) (int64, error) {
	var n int64
	err := r.s.do("Books.CountByAuthor", func(st *memState) error {
		for _, ids := range st.bookAuthors {
			for _, id := range ids {
				if id == authorID {
					n++
				}
			}
		}
		return nil
	})
	return n, err
}

// ============================================================
// Loans
// ============================================================

type memLoans struct{ s *memStore }

func stripLoan(l *models.Loan) models.Loan {
	stored := *l
	stored.Book = nil
	stored.Member = nil
	return stored
}

// checkActiveBook mirrors the unique index on loans.active_book_id
func (r memLoans) checkActiveBook(st *memState, l *models.Loan) error {
	if l.ActiveBookID == nil {
		return nil
	}
	for id, other := range st.loans {
		if id != l.ID && other.ActiveBookID != nil && *other.ActiveBookID == *l.ActiveBookID {
			return duplicate("loans.active_book_id")
		}
	}
	return nil
}

func (r memLoans) Create(_ context.Context, l *models.Loan) error {
	return r.s.do("Loans.Create", func(st *memState) error {
		if err := r.checkActiveBook(st, l); err != nil {
			return err
		}
		l.ID = st.newID()
		l.CreatedAt = time.Now()
		st.loans[l.ID] = stripLoan(l)
		return nil
	})
}

func (r memLoans) GetByID(_ context.Context, id uint) (*models.Loan, error) {
	var out *models.Loan
	err := r.s.do("Loans.GetByID", func(st *memState) error {
		l, ok := st.loadLoan(id)
		if !ok {
			return gorm.ErrRecordNotFound
		}
		out = l
		return nil
	})
	return out, err
}

func (r memLoans) GetByIDForUpdate(ctx context.Context, id uint) (*models.Loan, error) {
	r.s.lock("Loans", id)
	return r.GetByID(ctx, id)
}

func (r memLoans) Update(_ context.Context, l *models.Loan) error {
	return r.s.do("Loans.Update", func(st *memState) error {
		if err := r.checkActiveBook(st, l); err != nil {
			return err
		}
		st.loans[l.ID] = stripLoan(l)
		return nil
	})
}

func (r memLoans) list(filter func(models.Loan) bool) ([]*models.Loan, error) {
	var out []*models.Loan
	err := r.s.do("Loans.List", func(st *memState) error {
		for id, l := range st.loans {
			if filter(l) {
				loaded, _ := st.loadLoan(id)
				out = append(out, loaded)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].BorrowDate != out[j].BorrowDate {
			return out[i].BorrowDate.After(out[j].BorrowDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r memLoans) ListAll(_ context.Context) ([]*models.Loan, error) {
	return r.list(func(models.Loan) bool { return true })
}

func (r memLoans) ListActive(_ context.Context) ([]*models.Loan, error) {
	return r.list(func(l models.Loan) bool { return !l.Returned })
}

func (r memLoans) ListOverdue(_ context.Context, today dateonly.Date) ([]*models.Loan, error) {
	return r.list(func(l models.Loan) bool { return !l.Returned && l.DueDate.Before(today) })
}

func (r memLoans) ListByMember(_ context.Context, memberID uint) ([]*models.Loan, error) {
	return r.list(func(l models.Loan) bool { return l.MemberID == memberID })
}

func (r memLoans) ListActiveByMember(_ context.Context, memberID uint) ([]*models.Loan, error) {
	return r.list(func(l models.Loan) bool { return l.MemberID == memberID && !l.Returned })
}

func (r memLoans) ListByBook(_ context.Context, bookID uint) ([]*models.Loan, error) {
	return r.list(func(l models.Loan) bool { return l.BookID == bookID })
}

func (r memLoans) ListByBorrowDateBetween(_ context.Context, start, end dateonly.Date) ([]*models.Loan, error) {
	return r.list(func(l models.Loan) bool { return !l.BorrowDate.Before(start) && !l.BorrowDate.After(end) })
}

func (r memLoans) ExistsActiveByBook(ctx context.Context, bookID uint) (bool, error) {
	found := false
	err := r.s.do("Loans.ExistsActiveByBook", func(st *memState) error {
		for _, l := range st.loans {
			if l.BookID == bookID && !l.Returned {
				found = true
			}
		}
		return nil
	})
	return found, err
}

func (r memLoans) ExistsActiveByMember(ctx context.Context, memberID uint) (bool, error) {
	n, err := r.CountActiveByMember(ctx, memberID)
	return n > 0, err
}

func (r memLoans) CountActiveByMember(_ context.Context, memberID uint) (int64, error) {
	var n int64
	err := r.s.do("Loans.CountActiveByMember", func(st *memState) error {
		for _, l := range st.loans {
			if l.MemberID == memberID && !l.Returned {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r memLoans) DeleteByBook(_ context.Context, bookID uint) error {
	return r.s.do("Loans.DeleteByBook", func(st *memState) error {
		for id, l := range st.loans {
			if l.BookID == bookID {
				delete(st.loans, id)
			}
		}
		return nil
	})
}

func (r memLoans) DeleteByMember(_ context.Context, memberID uint) error {
	return r.s.do("Loans.DeleteByMember", func(st *memState) error {
		for id, l := range st.loans {
			if l.MemberID == memberID {
				delete(st.loans, id)
			}
		}
		return nil
	})
}
