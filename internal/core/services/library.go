package services

import (
	"context"
	"sync"

	"shelfwise/internal/adapters/persistence"
	"shelfwise/internal/core/domain"
	"shelfwise/internal/pkg/logger"
)

// Library is the single entry point for both front-ends. It owns the
// catalog, roster and ledger behind one mutex: every mutating operation
// holds the write lock for its whole check-then-act sequence, so a borrow
// can never interleave with a conflicting borrow, return or removal on the
// same book. Reads hold the read lock and observe a consistent snapshot.
//
// No I/O happens inside the state lock. After a successful mutation the
// facade builds a snapshot under the lock, releases it, and hands the
// snapshot to the persistence collaborator.
type Library struct {
	mu      sync.RWMutex
	catalog *Catalog
	roster  *Roster
	ledger  *Ledger

	store  persistence.Store
	saveMu sync.Mutex

	maxLoansPerMember int
	log               *logger.Logger
}

// Options tunes facade behavior
type Options struct {
	// MaxLoansPerMember caps concurrent active loans per member; 0 means
	// unlimited.
	MaxLoansPerMember int
}

// NewLibrary builds the facade and loads durable state from the store
func NewLibrary(ctx context.Context, store persistence.Store, log *logger.Logger, opts Options) (*Library, error) {
	if log == nil {
		log = logger.NewNop()
	}

	lib := &Library{
		catalog:           NewCatalog(),
		roster:            NewRoster(),
		ledger:            NewLedger(),
		store:             store,
		maxLoansPerMember: opts.MaxLoansPerMember,
		log:               log,
	}

	state, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	lib.catalog.restore(state.Books, state.NextBookID)
	lib.roster.restore(state.Members, state.NextMemberID)
	lib.ledger.restore(state.Loans)

	log.Info("library state loaded",
		"books", len(state.Books),
		"members", len(state.Members),
		"loans", len(state.Loans),
	)
	return lib, nil
}

// ------------------ Catalog operations ------------------

// AddBook creates a new book record
func (s *Library) AddBook(ctx context.Context, title, author string) (domain.Book, error) {
	s.mu.Lock()
	book, err := s.catalog.Add(title, author)
	if err != nil {
		s.mu.Unlock()
		return domain.Book{}, err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info("book added", "book_id", book.ID, "title", book.Title)
	return book, s.persist(ctx, snap)
}

// RemoveBook deletes a book. It fails while the book has an active loan;
// the check and the removal happen under the same lock that borrow holds,
// so removal cannot race a borrow in flight.
func (s *Library) RemoveBook(ctx context.Context, id int64) error {
	s.mu.Lock()
	if _, err := s.catalog.Get(id); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.ledger.HasActiveLoan(id) {
		s.mu.Unlock()
		return domain.Conflictf("book %d is currently borrowed", id)
	}
	if err := s.catalog.Remove(id); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info("book removed", "book_id", id)
	return s.persist(ctx, snap)
}

// GetBook returns a single book with its derived status
func (s *Library) GetBook(id int64) (domain.BookView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, err := s.catalog.Get(id)
	if err != nil {
		return domain.BookView{}, err
	}
	return s.viewLocked(book), nil
}

// ListBooks returns every book with derived status and, when borrowed,
// the borrowing member's id
func (s *Library) ListBooks() []domain.BookView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := s.catalog.List()
	out := make([]domain.BookView, 0, len(books))
	for _, book := range books {
		out = append(out, s.viewLocked(book))
	}
	return out
}

// SearchBooks matches the query against title and author
func (s *Library) SearchBooks(query string) []domain.BookView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := s.catalog.Search(query)
	out := make([]domain.BookView, 0, len(books))
	for _, book := range books {
		out = append(out, s.viewLocked(book))
	}
	return out
}

// ListAvailable returns books with no active loan
func (s *Library) ListAvailable() []domain.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Book, 0)
	for _, book := range s.catalog.List() {
		if !s.ledger.HasActiveLoan(book.ID) {
			out = append(out, book)
		}
	}
	return out
}

// ------------------ Roster operations ------------------

// RegisterMember creates a new member record
func (s *Library) RegisterMember(ctx context.Context, name, contact string) (domain.Member, error) {
	s.mu.Lock()
	member, err := s.roster.Register(name, contact)
	if err != nil {
		s.mu.Unlock()
		return domain.Member{}, err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info("member registered", "member_id", member.ID, "name", member.Name)
	return member, s.persist(ctx, snap)
}

// LookupMember finds a member by id
func (s *Library) LookupMember(id int64) (domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roster.Lookup(id)
}

// ListMembers returns all members in registration order
func (s *Library) ListMembers() []domain.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roster.List()
}

// RemoveMember deletes a member; it fails while the member holds any
// active loan
func (s *Library) RemoveMember(ctx context.Context, id int64) error {
	s.mu.Lock()
	if _, err := s.roster.Lookup(id); err != nil {
		s.mu.Unlock()
		return err
	}
	if n := s.ledger.ActiveLoanCount(id); n > 0 {
		s.mu.Unlock()
		return domain.Conflictf("member %d has %d active loan(s)", id, n)
	}
	if err := s.roster.Remove(id); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info("member removed", "member_id", id)
	return s.persist(ctx, snap)
}

// ------------------ Ledger operations ------------------

// Borrow creates an active loan after verifying that the book and member
// exist and the book is not already borrowed. The whole sequence runs
// under the write lock, so two concurrent borrows of the same book resolve
// to exactly one success and one conflict.
func (s *Library) Borrow(ctx context.Context, bookID, memberID int64) (domain.Loan, error) {
	s.mu.Lock()
	if _, err := s.catalog.Get(bookID); err != nil {
		s.mu.Unlock()
		return domain.Loan{}, err
	}
	if _, err := s.roster.Lookup(memberID); err != nil {
		s.mu.Unlock()
		return domain.Loan{}, err
	}
	loan, err := s.ledger.Borrow(bookID, memberID, s.maxLoansPerMember)
	if err != nil {
		s.mu.Unlock()
		return domain.Loan{}, err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info("book borrowed", "book_id", bookID, "member_id", memberID, "loan_id", loan.ID)
	return loan, s.persist(ctx, snap)
}

// ReturnBook closes the active loan for the book
func (s *Library) ReturnBook(ctx context.Context, bookID int64) (domain.Loan, error) {
	s.mu.Lock()
	if _, err := s.catalog.Get(bookID); err != nil {
		s.mu.Unlock()
		return domain.Loan{}, err
	}
	loan, err := s.ledger.Return(bookID)
	if err != nil {
		s.mu.Unlock()
		return domain.Loan{}, err
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info("book returned", "book_id", bookID, "loan_id", loan.ID)
	return loan, s.persist(ctx, snap)
}

// ActiveLoan returns the active loan for the book, or nil if the book is
// available
func (s *Library) ActiveLoan(bookID int64) (*domain.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.catalog.Get(bookID); err != nil {
		return nil, err
	}
	return s.ledger.ActiveLoan(bookID), nil
}

// LoanHistoryByBook returns all loans for a book, oldest first
func (s *Library) LoanHistoryByBook(bookID int64) ([]domain.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.catalog.Get(bookID); err != nil {
		return nil, err
	}
	return s.ledger.HistoryByBook(bookID), nil
}

// LoanHistoryByMember returns all loans by a member, oldest first
func (s *Library) LoanHistoryByMember(memberID int64) ([]domain.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.roster.Lookup(memberID); err != nil {
		return nil, err
	}
	return s.ledger.HistoryByMember(memberID), nil
}

// ListBorrowed returns all borrowed books joined with member info
func (s *Library) ListBorrowed() []domain.BorrowedBookView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.BorrowedBookView, 0)
	for _, book := range s.catalog.List() {
		loan := s.ledger.ActiveLoan(book.ID)
		if loan == nil {
			continue
		}
		member, err := s.roster.Lookup(loan.MemberID)
		if err != nil {
			continue
		}
		out = append(out, domain.BorrowedBookView{
			BookID:     book.ID,
			Title:      book.Title,
			Author:     book.Author,
			MemberID:   member.ID,
			MemberName: member.Name,
			BorrowedAt: loan.BorrowedAt,
		})
	}
	return out
}

// ------------------ Persistence ------------------

// SaveNow writes a snapshot of current state to the store. Used by the
// periodic snapshot service.
func (s *Library) SaveNow(ctx context.Context) error {
	s.mu.RLock()
	snap := s.snapshotLocked()
	s.mu.RUnlock()
	return s.persist(ctx, snap)
}

// snapshotLocked deep-copies all state; callers must hold at least the
// read lock
func (s *Library) snapshotLocked() *domain.State {
	return &domain.State{
		Books:        s.catalog.List(),
		Members:      s.roster.List(),
		Loans:        s.ledger.snapshot(),
		NextBookID:   s.catalog.nextID,
		NextMemberID: s.roster.nextID,
	}
}

// viewLocked builds the public listing shape for one book; callers must
// hold at least the read lock
func (s *Library) viewLocked(book domain.Book) domain.BookView {
	view := domain.BookView{
		ID:     book.ID,
		Title:  book.Title,
		Author: book.Author,
		Status: s.ledger.Status(book.ID),
	}
	if loan := s.ledger.ActiveLoan(book.ID); loan != nil {
		memberID := loan.MemberID
		view.MemberID = &memberID
	}
	return view
}

// persist hands a snapshot to the store. The in-memory mutation is already
// committed at this point; a storage failure is surfaced to the caller
// rather than rolling back, so committed state is never silently lost.
func (s *Library) persist(ctx context.Context, snap *domain.State) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if err := s.store.Save(ctx, snap); err != nil {
		s.log.Error("snapshot save failed", "error", err)
		return err
	}
	return nil
}
