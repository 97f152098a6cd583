package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"shelfwise/internal/adapters/persistence"
	"shelfwise/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore keeps the last saved snapshot so tests can restart a library
// from it, and can be told to fail saves.
type memStore struct {
	mu       sync.Mutex
	state    *domain.State
	failSave bool
	saves    int
}

func (s *memStore) Load(context.Context) (*domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return &domain.State{NextBookID: 1, NextMemberID: 1}, nil
	}
	return s.state, nil
}

func (s *memStore) Save(_ context.Context, state *domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return domain.Storagef(errors.New("disk full"), "save snapshot")
	}
	s.state = state
	s.saves++
	return nil
}

func (s *memStore) Close() error { return nil }

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	lib, err := NewLibrary(context.Background(), persistence.NewNoopStore(), nil, Options{})
	require.NoError(t, err)
	return lib
}

func TestLibrary_EndToEnd(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t)

	book, err := lib.AddBook(ctx, "Dune", "Herbert")
	require.NoError(t, err)
	assert.Equal(t, int64(1), book.ID)

	view, err := lib.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, view.Status)

	member, err := lib.RegisterMember(ctx, "Ann", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), member.ID)

	loan, err := lib.Borrow(ctx, book.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, loan.BookID)
	assert.Equal(t, member.ID, loan.MemberID)
	assert.Nil(t, loan.ReturnedAt)

	assert.Empty(t, lib.ListAvailable())

	closed, err := lib.ReturnBook(ctx, book.ID)
	require.NoError(t, err)
	assert.NotNil(t, closed.ReturnedAt)

	available := lib.ListAvailable()
	require.Len(t, available, 1)
	assert.Equal(t, book.ID, available[0].ID)

	history, err := lib.LoanHistoryByBook(book.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.NotNil(t, history[0].ReturnedAt)
}

func TestLibrary_BorrowErrors(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t)

	book, err := lib.AddBook(ctx, "Dune", "Herbert")
	require.NoError(t, err)
	member, err := lib.RegisterMember(ctx, "Ann", "a@x.com")
	require.NoError(t, err)

	_, err = lib.Borrow(ctx, 99, member.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = lib.Borrow(ctx, book.ID, 99)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = lib.Borrow(ctx, book.ID, member.ID)
	require.NoError(t, err)
	_, err = lib.Borrow(ctx, book.ID, member.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestLibrary_ReturnErrors(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t)

	_, err := lib.ReturnBook(ctx, 99)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	book, err := lib.AddBook(ctx, "Dune", "Herbert")
	require.NoError(t, err)
	_, err = lib.ReturnBook(ctx, book.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	history, err := lib.LoanHistoryByBook(book.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestLibrary_RemoveBorrowedBookConflicts(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t)

	book, err := lib.AddBook(ctx, "Dune", "Herbert")
	require.NoError(t, err)
	member, err := lib.RegisterMember(ctx, "Ann", "a@x.com")
	require.NoError(t, err)
	_, err = lib.Borrow(ctx, book.ID, member.ID)
	require.NoError(t, err)

	err = lib.RemoveBook(ctx, book.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Len(t, lib.ListBooks(), 1)

	_, err = lib.ReturnBook(ctx, book.ID)
	require.NoError(t, err)
	require.NoError(t, lib.RemoveBook(ctx, book.ID))
	assert.Empty(t, lib.ListBooks())
}

func TestLibrary_RemoveMemberWithActiveLoanConflicts(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t)

	book, err := lib.AddBook(ctx, "Dune", "Herbert")
	require.NoError(t, err)
	member, err := lib.RegisterMember(ctx, "Ann", "a@x.com")
	require.NoError(t, err)
	_, err = lib.Borrow(ctx, book.ID, member.ID)
	require.NoError(t, err)

	err = lib.RemoveMember(ctx, member.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	_, err = lib.ReturnBook(ctx, book.ID)
	require.NoError(t, err)
	require.NoError(t, lib.RemoveMember(ctx, member.ID))
}

func TestLibrary_ListBooksShowsBorrower(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t)

	book, err := lib.AddBook(ctx, "Dune", "Herbert")
	require.NoError(t, err)
	member, err := lib.RegisterMember(ctx, "Ann", "a@x.com")
	require.NoError(t, err)
	_, err = lib.Borrow(ctx, book.ID, member.ID)
	require.NoError(t, err)

	views := lib.ListBooks()
	require.Len(t, views, 1)
	assert.Equal(t, domain.StatusBorrowed, views[0].Status)
	require.NotNil(t, views[0].MemberID)
	assert.Equal(t, member.ID, *views[0].MemberID)

	borrowed := lib.ListBorrowed()
	require.Len(t, borrowed, 1)
	assert.Equal(t, "Ann", borrowed[0].MemberName)
}

func TestLibrary_ReadsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t)

	for i := 0; i < 3; i++ {
		_, err := lib.AddBook(ctx, fmt.Sprintf("Book %d", i), "Author")
		require.NoError(t, err)
	}

	first := lib.ListAvailable()
	second := lib.ListAvailable()
	assert.Equal(t, first, second)
}

func TestLibrary_ConcurrentBorrowSameBook(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t)

	book, err := lib.AddBook(ctx, "Dune", "Herbert")
	require.NoError(t, err)
	m1, err := lib.RegisterMember(ctx, "Ann", "a@x.com")
	require.NoError(t, err)
	m2, err := lib.RegisterMember(ctx, "Bob", "b@x.com")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, memberID := range []int64{m1.ID, m2.ID} {
		wg.Add(1)
		go func(i int, memberID int64) {
			defer wg.Done()
			_, errs[i] = lib.Borrow(ctx, book.ID, memberID)
		}(i, memberID)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	loan, err := lib.ActiveLoan(book.ID)
	require.NoError(t, err)
	require.NotNil(t, loan)
	assert.Contains(t, []int64{m1.ID, m2.ID}, loan.MemberID)
}

func TestLibrary_ConcurrentBorrowReturnChurn(t *testing.T) {
	ctx := context.Background()
	lib := newTestLibrary(t)

	book, err := lib.AddBook(ctx, "Dune", "Herbert")
	require.NoError(t, err)
	const workers = 8
	for i := 0; i < workers; i++ {
		_, err := lib.RegisterMember(ctx, fmt.Sprintf("member %d", i), "")
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(memberID int64) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := lib.Borrow(ctx, book.ID, memberID); err == nil {
					_, _ = lib.ReturnBook(ctx, book.ID)
				}
			}
		}(int64(i + 1))
	}
	wg.Wait()

	// At most one active loan may remain and history must be consistent
	history, err := lib.LoanHistoryByBook(book.ID)
	require.NoError(t, err)
	active := 0
	for _, loan := range history {
		if loan.Active() {
			active++
		}
	}
	assert.LessOrEqual(t, active, 1)
}

func TestLibrary_StateSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}

	lib, err := NewLibrary(ctx, store, nil, Options{})
	require.NoError(t, err)

	book, err := lib.AddBook(ctx, "Dune", "Herbert")
	require.NoError(t, err)
	member, err := lib.RegisterMember(ctx, "Ann", "a@x.com")
	require.NoError(t, err)
	_, err = lib.Borrow(ctx, book.ID, member.ID)
	require.NoError(t, err)

	reloaded, err := NewLibrary(ctx, store, nil, Options{})
	require.NoError(t, err)

	views := reloaded.ListBooks()
	require.Len(t, views, 1)
	assert.Equal(t, domain.StatusBorrowed, views[0].Status)

	_, err = reloaded.Borrow(ctx, book.ID, member.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestLibrary_StorageFailureSurfacesButKeepsState(t *testing.T) {
	ctx := context.Background()
	store := &memStore{failSave: true}

	lib, err := NewLibrary(ctx, store, nil, Options{})
	require.NoError(t, err)

	book, err := lib.AddBook(ctx, "Dune", "Herbert")
	assert.True(t, errors.Is(err, domain.ErrStorage))

	// The in-memory mutation stays committed
	view, err := lib.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", view.Title)
}

func TestLibrary_MaxLoansPerMember(t *testing.T) {
	ctx := context.Background()
	lib, err := NewLibrary(ctx, persistence.NewNoopStore(), nil, Options{MaxLoansPerMember: 1})
	require.NoError(t, err)

	b1, err := lib.AddBook(ctx, "Dune", "Herbert")
	require.NoError(t, err)
	b2, err := lib.AddBook(ctx, "Hyperion", "Simmons")
	require.NoError(t, err)
	member, err := lib.RegisterMember(ctx, "Ann", "a@x.com")
	require.NoError(t, err)

	_, err = lib.Borrow(ctx, b1.ID, member.ID)
	require.NoError(t, err)
	_, err = lib.Borrow(ctx, b2.ID, member.ID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}
