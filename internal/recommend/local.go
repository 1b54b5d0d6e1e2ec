package recommend

import "context"

// LocalSuggester falls back to the reader's own shelf: one owned book,
// picked uniformly, returned as-is. It is the only total tier and
// terminates the chain.
type LocalSuggester struct {
	checker      CoverChecker
	sampler      Sampler
	defaultCover string
}

func NewLocalSuggester(checker CoverChecker, sampler Sampler, defaultCover string) *LocalSuggester {
	return &LocalSuggester{checker: checker, sampler: sampler, defaultCover: defaultCover}
}

func (l *LocalSuggester) Name() string { return "local" }

func (l *LocalSuggester) Suggest(ctx context.Context, books []Book) (*Suggestion, error) {
	pick := books[l.sampler.Pick(len(books))]

	// Owner-supplied cover URLs are the one untrusted cover path:
	// fetch and reject placeholders before showing them.
	cover := l.defaultCover
	if pick.CoverURL != "" && l.checker.Validate(ctx, pick.CoverURL) {
		cover = pick.CoverURL
	}

	return &Suggestion{
		Title:    pick.Title,
		Author:   pick.AuthorName,
		CoverURL: cover,
		Reason:   ReasonLocal,
	}, nil
}
