package web

import (
	"net/http"

	"homelib/internal/httpx"
)

// NewRouter mounts every page and endpoint on a fresh mux. The
// recommendation endpoint fans out to external services, so it gets a
// per-client rate limiter when one is provided.
func NewRouter(h *Handler, recommendLimiter *httpx.RateLimitMiddleware) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("GET /add_author", h.addAuthorForm)
	mux.HandleFunc("POST /add_author", h.addAuthor)
	mux.HandleFunc("GET /add_book", h.addBookForm)
	mux.HandleFunc("POST /add_book", h.addBook)
	mux.HandleFunc("POST /delete_book/{id}", h.deleteBook)
	mux.HandleFunc("POST /delete_author/{id}", h.deleteAuthor)

	var recommendHandler http.Handler = http.HandlerFunc(h.recommendBook)
	if recommendLimiter != nil {
		recommendHandler = recommendLimiter.Middleware(recommendHandler)
	}
	mux.Handle("GET /recommend", recommendHandler)

	mux.Handle("GET /static/", http.FileServerFS(staticFS))

	return mux
}
