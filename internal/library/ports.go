package library

import "context"

// Repository is the persistence surface the service needs.
type Repository interface {
	ListBooks(ctx context.Context, q Query) ([]Book, error)
	GetBook(ctx context.Context, id int64) (Book, error)
	CreateBook(ctx context.Context, b *Book) error
	DeleteBook(ctx context.Context, id int64) error
	CountBooksByAuthor(ctx context.Context, authorID int64) (int, error)

	ListAuthors(ctx context.Context) ([]Author, error)
	CreateAuthor(ctx context.Context, a *Author) error
	DeleteAuthor(ctx context.Context, id int64) error
}

// CoverChecker reports whether a remote cover URL serves a real image.
type CoverChecker interface {
	Validate(ctx context.Context, url string) bool
}
