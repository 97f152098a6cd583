package services

import (
	"time"

	"shelfwise/internal/core/domain"

	"github.com/google/uuid"
)

// Ledger owns the borrowing relation between catalog and roster entries.
// Invariant: at most one active loan exists per book at any time. Closed
// loans are append-only history and are never mutated again.
//
// The ledger checks loan-state invariants only; existence of books and
// members is verified by the Library facade, which also serializes access.
type Ledger struct {
	loans        []*domain.Loan
	activeByBook map[int64]*domain.Loan
	now          func() time.Time
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		activeByBook: make(map[int64]*domain.Loan),
		now:          time.Now,
	}
}

// Borrow creates an active loan for the given book and member.
// maxPerMember caps concurrent active loans per member; 0 disables the cap.
func (l *Ledger) Borrow(bookID, memberID int64, maxPerMember int) (domain.Loan, error) {
	if l.activeByBook[bookID] != nil {
		return domain.Loan{}, domain.Conflictf("book %d already borrowed", bookID)
	}
	if maxPerMember > 0 && l.ActiveLoanCount(memberID) >= maxPerMember {
		return domain.Loan{}, domain.Conflictf("member %d reached the loan limit of %d", memberID, maxPerMember)
	}

	loan := &domain.Loan{
		ID:         uuid.New().String(),
		BookID:     bookID,
		MemberID:   memberID,
		BorrowedAt: l.now(),
	}
	l.loans = append(l.loans, loan)
	l.activeByBook[bookID] = loan
	return *loan, nil
}

// Return closes the active loan for the given book
func (l *Ledger) Return(bookID int64) (domain.Loan, error) {
	loan := l.activeByBook[bookID]
	if loan == nil {
		return domain.Loan{}, domain.Conflictf("book %d not currently borrowed", bookID)
	}
	returnedAt := l.now()
	loan.ReturnedAt = &returnedAt
	delete(l.activeByBook, bookID)
	return *loan, nil
}

// ActiveLoan returns a copy of the active loan for the book, or nil
func (l *Ledger) ActiveLoan(bookID int64) *domain.Loan {
	loan := l.activeByBook[bookID]
	if loan == nil {
		return nil
	}
	out := *loan
	return &out
}

// HasActiveLoan reports whether the book is currently borrowed
func (l *Ledger) HasActiveLoan(bookID int64) bool {
	return l.activeByBook[bookID] != nil
}

// ActiveLoanCount counts the member's current active loans
func (l *Ledger) ActiveLoanCount(memberID int64) int {
	count := 0
	for _, loan := range l.loans {
		if loan.Active() && loan.MemberID == memberID {
			count++
		}
	}
	return count
}

// Status derives a book's availability from active-loan existence
func (l *Ledger) Status(bookID int64) domain.BookStatus {
	if l.HasActiveLoan(bookID) {
		return domain.StatusBorrowed
	}
	return domain.StatusAvailable
}

// HistoryByBook returns all loans for a book in chronological order
func (l *Ledger) HistoryByBook(bookID int64) []domain.Loan {
	out := make([]domain.Loan, 0)
	for _, loan := range l.loans {
		if loan.BookID == bookID {
			out = append(out, *loan)
		}
	}
	return out
}

// HistoryByMember returns all loans by a member in chronological order
func (l *Ledger) HistoryByMember(memberID int64) []domain.Loan {
	out := make([]domain.Loan, 0)
	for _, loan := range l.loans {
		if loan.MemberID == memberID {
			out = append(out, *loan)
		}
	}
	return out
}

// snapshot copies all loans in chronological order
func (l *Ledger) snapshot() []domain.Loan {
	out := make([]domain.Loan, 0, len(l.loans))
	for _, loan := range l.loans {
		out = append(out, *loan)
	}
	return out
}

// restore replaces ledger state from a persisted snapshot
func (l *Ledger) restore(loans []domain.Loan) {
	l.loans = make([]*domain.Loan, 0, len(loans))
	l.activeByBook = make(map[int64]*domain.Loan)
	for i := range loans {
		loan := loans[i]
		l.loans = append(l.loans, &loan)
		if loan.Active() {
			l.activeByBook[loan.BookID] = &loan
		}
	}
}
