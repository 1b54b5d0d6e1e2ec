package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"homelib/internal/platform/openlibrary"
)

// subjectLimit caps how many works the subject lookup asks for; one of
// them is sampled at random.
const subjectLimit = 5

// CatalogSuggester recommends a work that shares a subject with one of
// the owned books. It samples a seed book, walks seed ISBN -> edition
// subjects -> first subject's work list, and samples a work from it.
// Seeds without an ISBN skip the tier without any network traffic.
type CatalogSuggester struct {
	client       CatalogClient
	sampler      Sampler
	defaultCover string
}

func NewCatalogSuggester(client CatalogClient, sampler Sampler, defaultCover string) *CatalogSuggester {
	return &CatalogSuggester{client: client, sampler: sampler, defaultCover: defaultCover}
}

func (c *CatalogSuggester) Name() string { return "catalog" }

func (c *CatalogSuggester) Suggest(ctx context.Context, books []Book) (*Suggestion, error) {
	seed := books[c.sampler.Pick(len(books))]
	if seed.ISBN == "" {
		return nil, nil
	}

	edition, err := c.client.GetEdition(ctx, seed.ISBN)
	if err != nil {
		if errors.Is(err, openlibrary.ErrNotInCatalog) {
			return nil, nil
		}
		return nil, fmt.Errorf("edition lookup for %s: %w", seed.ISBN, err)
	}
	if len(edition.Subjects) == 0 {
		return nil, nil
	}

	slug := subjectSlug(edition.Subjects[0].Name)
	result, err := c.client.SubjectWorks(ctx, slug, subjectLimit)
	if err != nil {
		return nil, fmt.Errorf("subject lookup for %q: %w", slug, err)
	}
	if len(result.Works) == 0 {
		return nil, nil
	}

	work := result.Works[c.sampler.Pick(len(result.Works))]
	return c.fromWork(work, seed), nil
}

func (c *CatalogSuggester) fromWork(work openlibrary.Work, seed Book) *Suggestion {
	title := work.Title
	if title == "" {
		title = unknown
	}
	author := unknown
	if len(work.Authors) > 0 && work.Authors[0].Name != "" {
		author = work.Authors[0].Name
	}
	// By-id cover URLs are constructed, not fetched: the catalog only
	// hands out cover ids it has real images for.
	cover := c.defaultCover
	if work.CoverID != 0 {
		cover = c.client.CoverByID(work.CoverID)
	}
	return &Suggestion{
		Title:    title,
		Author:   author,
		CoverURL: cover,
		Reason:   ReasonLiked(seed.Title),
	}
}

// subjectSlug mirrors Open Library's subject path convention:
// lower-case, spaces to underscores.
func subjectSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
