package services

import (
	"strings"
	"time"

	"shelfwise/internal/core/domain"
)

// Catalog owns the set of book records. It is not safe for concurrent use
// on its own; the Library facade serializes all access.
type Catalog struct {
	books  map[int64]domain.Book
	order  []int64
	nextID int64
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		books:  make(map[int64]domain.Book),
		nextID: 1,
	}
}

// Add creates a new book record with a fresh id
func (c *Catalog) Add(title, author string) (domain.Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" {
		return domain.Book{}, domain.Validationf("book title is required")
	}
	if author == "" {
		return domain.Book{}, domain.Validationf("book author is required")
	}

	book := domain.Book{
		ID:        c.nextID,
		Title:     title,
		Author:    author,
		CreatedAt: time.Now(),
	}
	c.nextID++
	c.books[book.ID] = book
	c.order = append(c.order, book.ID)
	return book, nil
}

// Get looks up a book by id
func (c *Catalog) Get(id int64) (domain.Book, error) {
	book, ok := c.books[id]
	if !ok {
		return domain.Book{}, domain.NotFoundf("book %d not found", id)
	}
	return book, nil
}

// Remove deletes a book record. The caller is responsible for checking the
// ledger for an active loan first.
func (c *Catalog) Remove(id int64) error {
	if _, ok := c.books[id]; !ok {
		return domain.NotFoundf("book %d not found", id)
	}
	delete(c.books, id)
	for i, bid := range c.order {
		if bid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns all books in insertion order
func (c *Catalog) List() []domain.Book {
	out := make([]domain.Book, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.books[id])
	}
	return out
}

// Search returns books whose title or author contains the query,
// case-insensitively and in insertion order. An empty query matches all.
// Each call recomputes from current state, so the sequence is restartable.
func (c *Catalog) Search(query string) []domain.Book {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Book, 0)
	for _, id := range c.order {
		book := c.books[id]
		if q == "" ||
			strings.Contains(strings.ToLower(book.Title), q) ||
			strings.Contains(strings.ToLower(book.Author), q) {
			out = append(out, book)
		}
	}
	return out
}

// Len returns the number of books in the catalog
func (c *Catalog) Len() int {
	return len(c.order)
}

// restore replaces catalog state from a persisted snapshot
func (c *Catalog) restore(books []domain.Book, nextID int64) {
	c.books = make(map[int64]domain.Book, len(books))
	c.order = make([]int64, 0, len(books))
	for _, b := range books {
		c.books[b.ID] = b
		c.order = append(c.order, b.ID)
	}
	c.nextID = nextID
	if c.nextID < 1 {
		c.nextID = 1
	}
}
