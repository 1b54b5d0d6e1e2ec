package library

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Service applies the shelf's business rules on top of the repository.
type Service struct {
	repo   Repository
	covers CoverChecker
	logger zerolog.Logger
}

func NewService(repo Repository, covers CoverChecker, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		covers: covers,
		logger: logger.With().Str("component", "library").Logger(),
	}
}

func (s *Service) ListBooks(ctx context.Context, q Query) ([]Book, error) {
	return s.repo.ListBooks(ctx, q)
}

func (s *Service) ListAuthors(ctx context.Context) ([]Author, error) {
	return s.repo.ListAuthors(ctx)
}

// AddAuthor stores a new author. Names are unique across the shelf.
func (s *Service) AddAuthor(ctx context.Context, in NewAuthor) (Author, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Author{}, ErrEmptyName
	}

	author := Author{
		Name:        name,
		BirthDate:   in.BirthDate,
		DateOfDeath: in.DateOfDeath,
	}
	if err := s.repo.CreateAuthor(ctx, &author); err != nil {
		return Author{}, err
	}
	s.logger.Info().Int64("author_id", author.ID).Str("name", author.Name).Msg("author added")
	return author, nil
}

// AddBook stores a new book. A supplied cover URL is fetched and
// checked first; one that fails validation is dropped silently rather
// than rejected, matching how covers behave everywhere else in the
// app: a bad cover never blocks anything, it just falls back.
func (s *Service) AddBook(ctx context.Context, in NewBook) (Book, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Book{}, ErrEmptyTitle
	}
	if in.Rating != nil && (*in.Rating < 0 || *in.Rating > 10) {
		return Book{}, ErrInvalidRating
	}

	book := Book{
		Title:           title,
		AuthorID:        in.AuthorID,
		PublicationYear: in.PublicationYear,
	}
	if isbn := strings.TrimSpace(in.ISBN); isbn != "" {
		book.ISBN = &isbn
	}
	if in.CoverURL != "" {
		if s.covers.Validate(ctx, in.CoverURL) {
			cover := in.CoverURL
			book.CoverURL = &cover
		} else {
			s.logger.Debug().Str("cover_url", in.CoverURL).Msg("cover failed validation, storing without one")
		}
	}
	if in.Rating != nil {
		rating := *in.Rating
		book.Rating = &rating
	}

	if err := s.repo.CreateBook(ctx, &book); err != nil {
		return Book{}, err
	}
	s.logger.Info().Int64("book_id", book.ID).Str("title", book.Title).Msg("book added")
	return book, nil
}

// DeleteBook removes a book, and its author too when that was the
// author's last book on the shelf.
func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBook(ctx, id); err != nil {
		return err
	}

	remaining, err := s.repo.CountBooksByAuthor(ctx, book.AuthorID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := s.repo.DeleteAuthor(ctx, book.AuthorID); err != nil {
			return err
		}
		s.logger.Info().Int64("author_id", book.AuthorID).Msg("author had no remaining books, removed")
	}
	return nil
}

// DeleteAuthor removes an author and, through the schema's cascade,
// every book of theirs.
func (s *Service) DeleteAuthor(ctx context.Context, id int64) error {
	if err := s.repo.DeleteAuthor(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("author_id", id).Msg("author deleted")
	return nil
}
