// Package library owns the books and authors on the shelf: listing,
// adding, and deleting them, plus the handful of rules that keep the
// data sane. It is the only package that writes to the database.
package library

import (
	"errors"
	"time"
)

var (
	ErrAuthorNotFound = errors.New("author not found")
	ErrAuthorExists   = errors.New("author already exists")
	ErrBookNotFound   = errors.New("book not found")
	ErrEmptyName      = errors.New("author name cannot be empty")
	ErrEmptyTitle     = errors.New("book title cannot be empty")
	ErrInvalidRating  = errors.New("rating must be between 0 and 10")
)

// Author is a person on the shelf. Deleting an author removes all of
// their books; an author whose last book is deleted is removed too.
type Author struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Book is an owned book. AuthorName is joined in by list queries and
// is never written.
type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	PublicationYear *int      `json:"publication_year,omitempty"`
	ISBN            *string   `json:"isbn,omitempty"`
	Rating          *float64  `json:"rating,omitempty"`
	CoverURL        *string   `json:"cover_url,omitempty"`
	AuthorID        int64     `json:"author_id"`
	AuthorName      string    `json:"author_name"`
	CreatedAt       time.Time `json:"created_at"`
}

// Query narrows and orders a book listing. Search matches title or
// author name, case-insensitive. Sort is one of title, author, year,
// rating; anything else falls back to title.
type Query struct {
	Search string
	Sort   string
}

// NewAuthor carries the fields accepted when adding an author.
type NewAuthor struct {
	Name        string
	BirthDate   *time.Time
	DateOfDeath *time.Time
}

// NewBook carries the fields accepted when adding a book. CoverURL is
// untrusted input and is only stored after validation.
type NewBook struct {
	Title           string
	AuthorID        int64
	PublicationYear *int
	ISBN            string
	Rating          *float64
	CoverURL        string
}
