package domain

import "time"

// BookStatus represents the derived availability of a book
type BookStatus string

const (
	StatusAvailable BookStatus = "AVAILABLE"
	StatusBorrowed  BookStatus = "BORROWED"
)

// Book represents a book in the domain layer.
// Availability is derived from active-loan existence in the ledger and is
// never stored on the book itself.
type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// Member represents a registered library member
type Member struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

// Loan represents one borrowing of a book by a member.
// ReturnedAt is nil while the loan is active. A closed loan is a historical
// record and is never mutated again.
type Loan struct {
	ID         string     `json:"id"`
	BookID     int64      `json:"book_id"`
	MemberID   int64      `json:"member_id"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at"`
}

// Active reports whether the loan has not been returned yet
func (l *Loan) Active() bool {
	return l.ReturnedAt == nil
}

// BookView is the public listing shape: book fields plus derived status
// and, while borrowed, the borrowing member's id
type BookView struct {
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	Author   string     `json:"author"`
	Status   BookStatus `json:"status"`
	MemberID *int64     `json:"member_id,omitempty"`
}

// BorrowedBookView joins an active loan with book and member info
type BorrowedBookView struct {
	BookID     int64     `json:"book_id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	MemberID   int64     `json:"member_id"`
	MemberName string    `json:"member_name"`
	BorrowedAt time.Time `json:"borrowed_at"`
}

// State is a deep snapshot of catalog, roster and ledger state consumed by
// the persistence collaborator. Snapshots are built while the facade holds
// its lock and written to storage after the lock is released.
type State struct {
	Books        []Book
	Members      []Member
	Loans        []Loan
	NextBookID   int64
	NextMemberID int64
}
