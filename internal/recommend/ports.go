package recommend

import (
	"context"

	"homelib/internal/platform/openlibrary"
)

// Suggester is one tier of the fallback chain. Returning (nil, nil)
// means the tier has nothing to offer and the next tier should be
// consulted; a non-nil error means the same thing but is worth a log
// line. Only the local tier is total.
type Suggester interface {
	Name() string
	Suggest(ctx context.Context, books []Book) (*Suggestion, error)
}

// GenerativeClient produces free text from a prompt.
type GenerativeClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CatalogClient is the slice of the Open Library client the catalog
// tier needs.
type CatalogClient interface {
	GetEdition(ctx context.Context, isbn string) (*openlibrary.Edition, error)
	SubjectWorks(ctx context.Context, slug string, limit int) (*openlibrary.SubjectResult, error)
	CoverByID(id int64) string
}

// CoverChecker reports whether a remote URL serves a usable cover
// image. Implementations fetch the URL; false covers every failure
// mode including the catalog's 1x1 placeholder.
type CoverChecker interface {
	Validate(ctx context.Context, url string) bool
}

// Sampler returns a uniform index in [0, n). Callers guarantee n > 0.
// A single shared Sampler backs every random pick in the pipeline.
type Sampler interface {
	Pick(n int) int
}
