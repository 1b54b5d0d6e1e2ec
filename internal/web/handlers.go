// Package web serves the HTML user interface and the recommendation
// endpoint. It renders embedded templates, keeps flash messages in a
// signed cookie, and translates form submissions into library calls.
package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"homelib/internal/httpx"
	"homelib/internal/library"
	"homelib/internal/recommend"
)

// LibraryService is the slice of the library the handlers need.
type LibraryService interface {
	ListBooks(ctx context.Context, q library.Query) ([]library.Book, error)
	ListAuthors(ctx context.Context) ([]library.Author, error)
	AddAuthor(ctx context.Context, in library.NewAuthor) (library.Author, error)
	AddBook(ctx context.Context, in library.NewBook) (library.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	DeleteAuthor(ctx context.Context, id int64) error
}

// Recommender produces a suggestion from the current shelf.
type Recommender interface {
	Recommend(ctx context.Context, books []recommend.Book) recommend.Suggestion
}

type Handler struct {
	library     LibraryService
	recommender Recommender
	renderer    *Renderer
	flash       *FlashCodec
	logger      zerolog.Logger
}

func NewHandler(lib LibraryService, rec Recommender, renderer *Renderer, flash *FlashCodec, logger zerolog.Logger) *Handler {
	return &Handler{
		library:     lib,
		recommender: rec,
		renderer:    renderer,
		flash:       flash,
		logger:      logger.With().Str("component", "web").Logger(),
	}
}

type homeData struct {
	Flashes     []Flash
	Books       []library.Book
	Authors     []library.Author
	SearchQuery string
	SortBy      string
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = "title"
	}

	books, err := h.library.ListBooks(r.Context(), library.Query{Search: query, Sort: sortBy})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	authors, err := h.library.ListAuthors(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	data := homeData{
		Flashes:     h.flash.Pop(w, r),
		Books:       books,
		Authors:     authors,
		SearchQuery: query,
		SortBy:      sortBy,
	}
	if err := h.renderer.Render(w, http.StatusOK, "home", data); err != nil {
		h.serverError(w, r, err)
	}
}

type addAuthorData struct {
	Flashes []Flash
}

func (h *Handler) addAuthorForm(w http.ResponseWriter, r *http.Request) {
	data := addAuthorData{Flashes: h.flash.Pop(w, r)}
	if err := h.renderer.Render(w, http.StatusOK, "add_author", data); err != nil {
		h.serverError(w, r, err)
	}
}

func (h *Handler) addAuthor(w http.ResponseWriter, r *http.Request) {
	in, msg := parseAuthorForm(r)
	if msg != "" {
		h.flash.Push(w, r, flashError, msg)
		h.redirect(w, r, "/add_author")
		return
	}

	if _, err := h.library.AddAuthor(r.Context(), in); err != nil {
		if errors.Is(err, library.ErrAuthorExists) {
			h.flash.Push(w, r, flashError, "Author already exists.")
			h.redirect(w, r, "/add_author")
			return
		}
		h.logger.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("add author failed")
		h.flash.Push(w, r, flashError, "Failed to add author.")
		h.redirect(w, r, "/")
		return
	}

	h.flash.Push(w, r, flashSuccess, "Author added successfully!")
	h.redirect(w, r, "/")
}

type addBookData struct {
	Flashes []Flash
	Authors []library.Author
}

func (h *Handler) addBookForm(w http.ResponseWriter, r *http.Request) {
	authors, err := h.library.ListAuthors(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	data := addBookData{Flashes: h.flash.Pop(w, r), Authors: authors}
	if err := h.renderer.Render(w, http.StatusOK, "add_book", data); err != nil {
		h.serverError(w, r, err)
	}
}

func (h *Handler) addBook(w http.ResponseWriter, r *http.Request) {
	in, msg := parseBookForm(r)
	if msg != "" {
		h.flash.Push(w, r, flashError, msg)
		h.redirect(w, r, "/add_book")
		return
	}

	if _, err := h.library.AddBook(r.Context(), in); err != nil {
		if errors.Is(err, library.ErrInvalidRating) {
			h.flash.Push(w, r, flashError, "Rating must be a number between 0 and 10.")
			h.redirect(w, r, "/add_book")
			return
		}
		h.logger.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("add book failed")
		h.flash.Push(w, r, flashError, "Failed to add book.")
		h.redirect(w, r, "/")
		return
	}

	h.flash.Push(w, r, flashSuccess, "Book added successfully!")
	h.redirect(w, r, "/")
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch err := h.library.DeleteBook(r.Context(), id); {
	case err == nil:
		h.flash.Push(w, r, flashSuccess, "Book deleted successfully.")
		h.redirect(w, r, "/")
	case errors.Is(err, library.ErrBookNotFound):
		http.NotFound(w, r)
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handler) deleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch err := h.library.DeleteAuthor(r.Context(), id); {
	case err == nil:
		h.flash.Push(w, r, flashSuccess, "Author deleted successfully.")
		h.redirect(w, r, "/")
	case errors.Is(err, library.ErrAuthorNotFound):
		http.NotFound(w, r)
	default:
		h.serverError(w, r, err)
	}
}

// recommendBook answers GET /recommend with a bare suggestion object.
// The pipeline is total, so the only failure mode here is the shelf
// listing itself.
func (h *Handler) recommendBook(w http.ResponseWriter, r *http.Request) {
	books, err := h.library.ListBooks(r.Context(), library.Query{})
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", httpx.RequestIDFrom(r)).Msg("listing shelf for recommendation failed")
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	shelf := make([]recommend.Book, 0, len(books))
	for _, b := range books {
		shelf = append(shelf, recommend.Book{
			Title:      b.Title,
			AuthorName: b.AuthorName,
			ISBN:       strOr(b.ISBN),
			CoverURL:   strOr(b.CoverURL),
		})
	}

	suggestion := h.recommender.Recommend(r.Context(), shelf)
	httpx.JSON(w, http.StatusOK, suggestion)
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error().Err(err).
		Str("request_id", httpx.RequestIDFrom(r)).
		Str("path", r.URL.Path).
		Msg("handler failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func strOr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
