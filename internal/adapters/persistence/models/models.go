package models

import (
	"time"

	"shelfwise/internal/core/domain"

	"gorm.io/gorm"
)

// Book represents the books table
type Book struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Author    string    `gorm:"size:255;not null" json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

func (Book) TableName() string {
	return "books"
}

// Member represents the members table
type Member struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Contact   string    `gorm:"size:255" json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

func (Member) TableName() string {
	return "members"
}

// Loan represents the loans table. Rows are append-only history; only
// returned_at is ever updated, and only once.
type Loan struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	BookID     int64      `gorm:"index;not null" json:"book_id"`
	MemberID   int64      `gorm:"index;not null" json:"member_id"`
	BorrowedAt time.Time  `gorm:"not null" json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at"`
}

func (Loan) TableName() string {
	return "loans"
}

// Meta holds the id counters so removed ids are never reused across restarts
type Meta struct {
	ID           uint  `gorm:"primaryKey"`
	NextBookID   int64 `gorm:"not null"`
	NextMemberID int64 `gorm:"not null"`
}

func (Meta) TableName() string {
	return "snapshot_meta"
}

// AutoMigrate creates all tables if they do not exist
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Book{},
		&Member{},
		&Loan{},
		&Meta{},
	)
}

// FromDomainBook converts a domain book to its row shape
func FromDomainBook(b domain.Book) Book {
	return Book{ID: b.ID, Title: b.Title, Author: b.Author, CreatedAt: b.CreatedAt}
}

// ToDomain converts a book row to the domain shape
func (b Book) ToDomain() domain.Book {
	return domain.Book{ID: b.ID, Title: b.Title, Author: b.Author, CreatedAt: b.CreatedAt}
}

// FromDomainMember converts a domain member to its row shape
func FromDomainMember(m domain.Member) Member {
	return Member{ID: m.ID, Name: m.Name, Contact: m.Contact, CreatedAt: m.CreatedAt}
}

// ToDomain converts a member row to the domain shape
func (m Member) ToDomain() domain.Member {
	return domain.Member{ID: m.ID, Name: m.Name, Contact: m.Contact, CreatedAt: m.CreatedAt}
}

// FromDomainLoan converts a domain loan to its row shape
func FromDomainLoan(l domain.Loan) Loan {
	return Loan{
		ID:         l.ID,
		BookID:     l.BookID,
		MemberID:   l.MemberID,
		BorrowedAt: l.BorrowedAt,
		ReturnedAt: l.ReturnedAt,
	}
}

// ToDomain converts a loan row to the domain shape
func (l Loan) ToDomain() domain.Loan {
	return domain.Loan{
		ID:         l.ID,
		BookID:     l.BookID,
		MemberID:   l.MemberID,
		BorrowedAt: l.BorrowedAt,
		ReturnedAt: l.ReturnedAt,
	}
}
