package recommend

import (
	"context"

	"github.com/rs/zerolog"

	"homelib/internal/metrics"
)

// Pipeline walks the tier chain in construction order and returns the
// first suggestion offered. A later tier is never consulted unless
// every earlier one declined.
type Pipeline struct {
	tiers        []Suggester
	defaultCover string
	logger       zerolog.Logger
}

func NewPipeline(logger zerolog.Logger, defaultCover string, tiers ...Suggester) *Pipeline {
	return &Pipeline{
		tiers:        tiers,
		defaultCover: defaultCover,
		logger:       logger.With().Str("component", "recommend").Logger(),
	}
}

// Recommend is total: tier failures are logged and skipped, the
// terminal tier always answers, and an empty library short-circuits to
// the degenerate suggestion with no reason attached.
func (p *Pipeline) Recommend(ctx context.Context, books []Book) Suggestion {
	if len(books) == 0 {
		return Suggestion{Title: noBooksTitle, CoverURL: p.defaultCover}
	}

	for _, tier := range p.tiers {
		s, err := tier.Suggest(ctx, books)
		switch {
		case err != nil:
			metrics.RecommendTier.WithLabelValues(tier.Name(), "error").Inc()
			p.logger.Warn().Err(err).Str("tier", tier.Name()).Msg("tier failed, falling through")
		case s == nil:
			metrics.RecommendTier.WithLabelValues(tier.Name(), "miss").Inc()
			p.logger.Debug().Str("tier", tier.Name()).Msg("tier had nothing to offer")
		default:
			metrics.RecommendTier.WithLabelValues(tier.Name(), "hit").Inc()
			if s.CoverURL == "" {
				s.CoverURL = p.defaultCover
			}
			return *s
		}
	}

	// Only reachable if the terminal tier declined, which the local
	// tier never does. Answer anyway rather than error out.
	p.logger.Error().Msg("every tier declined")
	return Suggestion{Title: noBooksTitle, CoverURL: p.defaultCover}
}
