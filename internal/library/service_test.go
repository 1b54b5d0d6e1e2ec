package library

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) ListBooks(ctx context.Context, q Query) ([]Book, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Book), args.Error(1)
}

func (m *mockRepo) GetBook(ctx context.Context, id int64) (Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Book), args.Error(1)
}

func (m *mockRepo) CreateBook(ctx context.Context, b *Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRepo) DeleteBook(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) CountBooksByAuthor(ctx context.Context, authorID int64) (int, error) {
	args := m.Called(ctx, authorID)
	return args.Int(0), args.Error(1)
}

func (m *mockRepo) ListAuthors(ctx context.Context) ([]Author, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Author), args.Error(1)
}

func (m *mockRepo) CreateAuthor(ctx context.Context, a *Author) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockRepo) DeleteAuthor(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type stubChecker struct {
	valid  bool
	calls  int
	gotURL string
}

func (s *stubChecker) Validate(_ context.Context, url string) bool {
	s.calls++
	s.gotURL = url
	return s.valid
}

func newTestService(repo Repository, checker CoverChecker) *Service {
	return NewService(repo, checker, zerolog.Nop())
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestAddAuthor(t *testing.T) {
	t.Run("trims the name and stores", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("CreateAuthor", mock.Anything, mock.AnythingOfType("*library.Author")).
			Run(func(args mock.Arguments) {
				a := args.Get(1).(*Author)
				assert.Equal(t, "Jane Austen", a.Name)
				a.ID = 7
			}).
			Return(nil)
		s := newTestService(repo, &stubChecker{})

		author, err := s.AddAuthor(context.Background(), NewAuthor{Name: "  Jane Austen  "})
		require.NoError(t, err)
		assert.Equal(t, int64(7), author.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects an empty name without touching the repo", func(t *testing.T) {
		repo := &mockRepo{}
		s := newTestService(repo, &stubChecker{})

		_, err := s.AddAuthor(context.Background(), NewAuthor{Name: "   "})
		assert.ErrorIs(t, err, ErrEmptyName)
		repo.AssertExpectations(t)
	})

	t.Run("surfaces duplicates", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("CreateAuthor", mock.Anything, mock.Anything).Return(ErrAuthorExists)
		s := newTestService(repo, &stubChecker{})

		_, err := s.AddAuthor(context.Background(), NewAuthor{Name: "Jane Austen"})
		assert.ErrorIs(t, err, ErrAuthorExists)
	})
}

func TestAddBook(t *testing.T) {
	t.Run("stores a fully specified book with a valid cover", func(t *testing.T) {
		repo := &mockRepo{}
		var stored *Book
		repo.On("CreateBook", mock.Anything, mock.AnythingOfType("*library.Book")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*Book)
				stored.ID = 3
			}).
			Return(nil)
		checker := &stubChecker{valid: true}
		s := newTestService(repo, checker)

		book, err := s.AddBook(context.Background(), NewBook{
			Title:           "  Persuasion ",
			AuthorID:        7,
			PublicationYear: intPtr(1817),
			ISBN:            " 9780141439686 ",
			Rating:          floatPtr(8.5),
			CoverURL:        "http://host/persuasion.jpg",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), book.ID)

		require.NotNil(t, stored)
		assert.Equal(t, "Persuasion", stored.Title)
		assert.Equal(t, int64(7), stored.AuthorID)
		require.NotNil(t, stored.ISBN)
		assert.Equal(t, "9780141439686", *stored.ISBN)
		require.NotNil(t, stored.Rating)
		assert.Equal(t, 8.5, *stored.Rating)
		require.NotNil(t, stored.CoverURL)
		assert.Equal(t, "http://host/persuasion.jpg", *stored.CoverURL)
		assert.Equal(t, "http://host/persuasion.jpg", checker.gotURL)
	})

	t.Run("rejects an empty title", func(t *testing.T) {
		s := newTestService(&mockRepo{}, &stubChecker{})
		_, err := s.AddBook(context.Background(), NewBook{Title: " ", AuthorID: 1})
		assert.ErrorIs(t, err, ErrEmptyTitle)
	})

	t.Run("rating bounds", func(t *testing.T) {
		for _, rating := range []float64{-0.1, 10.1, 99} {
			s := newTestService(&mockRepo{}, &stubChecker{})
			_, err := s.AddBook(context.Background(), NewBook{Title: "T", AuthorID: 1, Rating: floatPtr(rating)})
			assert.ErrorIs(t, err, ErrInvalidRating, "rating %v must be rejected", rating)
		}

		for _, rating := range []float64{0, 10, 7.5} {
			repo := &mockRepo{}
			repo.On("CreateBook", mock.Anything, mock.Anything).Return(nil)
			s := newTestService(repo, &stubChecker{})
			_, err := s.AddBook(context.Background(), NewBook{Title: "T", AuthorID: 1, Rating: floatPtr(rating)})
			assert.NoError(t, err, "rating %v must be accepted", rating)
		}
	})

	t.Run("drops a cover that fails validation without failing the add", func(t *testing.T) {
		repo := &mockRepo{}
		var stored *Book
		repo.On("CreateBook", mock.Anything, mock.AnythingOfType("*library.Book")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*Book) }).
			Return(nil)
		checker := &stubChecker{valid: false}
		s := newTestService(repo, checker)

		_, err := s.AddBook(context.Background(), NewBook{Title: "T", AuthorID: 1, CoverURL: "http://host/1x1.gif"})
		require.NoError(t, err)
		assert.Nil(t, stored.CoverURL)
		assert.Equal(t, 1, checker.calls)
	})

	t.Run("never fetches an empty cover url", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("CreateBook", mock.Anything, mock.Anything).Return(nil)
		checker := &stubChecker{valid: true}
		s := newTestService(repo, checker)

		_, err := s.AddBook(context.Background(), NewBook{Title: "T", AuthorID: 1})
		require.NoError(t, err)
		assert.Zero(t, checker.calls)
	})

	t.Run("blank isbn is stored as null", func(t *testing.T) {
		repo := &mockRepo{}
		var stored *Book
		repo.On("CreateBook", mock.Anything, mock.AnythingOfType("*library.Book")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*Book) }).
			Return(nil)
		s := newTestService(repo, &stubChecker{})

		_, err := s.AddBook(context.Background(), NewBook{Title: "T", AuthorID: 1, ISBN: "   "})
		require.NoError(t, err)
		assert.Nil(t, stored.ISBN)
	})

	t.Run("surfaces a missing author", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("CreateBook", mock.Anything, mock.Anything).Return(ErrAuthorNotFound)
		s := newTestService(repo, &stubChecker{})

		_, err := s.AddBook(context.Background(), NewBook{Title: "T", AuthorID: 99})
		assert.ErrorIs(t, err, ErrAuthorNotFound)
	})
}

func TestDeleteBook(t *testing.T) {
	book := Book{ID: 3, Title: "Persuasion", AuthorID: 7}

	t.Run("keeps the author while other books remain", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("GetBook", mock.Anything, int64(3)).Return(book, nil)
		repo.On("DeleteBook", mock.Anything, int64(3)).Return(nil)
		repo.On("CountBooksByAuthor", mock.Anything, int64(7)).Return(2, nil)
		s := newTestService(repo, &stubChecker{})

		require.NoError(t, s.DeleteBook(context.Background(), 3))
		repo.AssertNotCalled(t, "DeleteAuthor", mock.Anything, mock.Anything)
	})

	t.Run("removes the author with the last book", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("GetBook", mock.Anything, int64(3)).Return(book, nil)
		repo.On("DeleteBook", mock.Anything, int64(3)).Return(nil)
		repo.On("CountBooksByAuthor", mock.Anything, int64(7)).Return(0, nil)
		repo.On("DeleteAuthor", mock.Anything, int64(7)).Return(nil)
		s := newTestService(repo, &stubChecker{})

		require.NoError(t, s.DeleteBook(context.Background(), 3))
		repo.AssertExpectations(t)
	})

	t.Run("missing book surfaces before any delete", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("GetBook", mock.Anything, int64(404)).Return(Book{}, ErrBookNotFound)
		s := newTestService(repo, &stubChecker{})

		err := s.DeleteBook(context.Background(), 404)
		assert.ErrorIs(t, err, ErrBookNotFound)
		repo.AssertNotCalled(t, "DeleteBook", mock.Anything, mock.Anything)
	})
}

func TestDeleteAuthor(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("DeleteAuthor", mock.Anything, int64(7)).Return(nil)
		s := newTestService(repo, &stubChecker{})
		assert.NoError(t, s.DeleteAuthor(context.Background(), 7))
	})

	t.Run("missing author surfaces", func(t *testing.T) {
		repo := &mockRepo{}
		repo.On("DeleteAuthor", mock.Anything, int64(404)).Return(ErrAuthorNotFound)
		s := newTestService(repo, &stubChecker{})
		assert.ErrorIs(t, s.DeleteAuthor(context.Background(), 404), ErrAuthorNotFound)
	})
}

func TestListPassthrough(t *testing.T) {
	repo := &mockRepo{}
	q := Query{Search: "orwell", Sort: "year"}
	repo.On("ListBooks", mock.Anything, q).Return([]Book{{ID: 1}}, nil)
	repo.On("ListAuthors", mock.Anything).Return([]Author{{ID: 7}}, nil)
	s := newTestService(repo, &stubChecker{})

	books, err := s.ListBooks(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, books, 1)

	authors, err := s.ListAuthors(context.Background())
	require.NoError(t, err)
	assert.Len(t, authors, 1)
}
