// Package covers decides whether a remote cover URL is worth showing.
// The catalog serves a 1x1 pixel instead of a 404 for missing covers,
// so a successful GET alone proves nothing: the body must decode as a
// raster image strictly larger than the placeholder.
package covers

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
	"time"

	"homelib/internal/metrics"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultMinPixels = 1
	defaultUserAgent = "homelib/1.0"
)

type Config struct {
	Timeout   time.Duration
	MinPixels int // both dimensions must exceed this
	UserAgent string
}

// Validator fetches candidate cover URLs and inspects their pixel
// dimensions. It keeps no state between calls.
type Validator struct {
	httpClient *http.Client
	minPixels  int
	userAgent  string
}

func NewValidator(cfg Config) *Validator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MinPixels <= 0 {
		cfg.MinPixels = defaultMinPixels
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Validator{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		minPixels:  cfg.MinPixels,
		userAgent:  cfg.UserAgent,
	}
}

// Validate reports whether url resolves, within the configured timeout,
// to an image/* response that decodes as a raster image wider and
// taller than the placeholder threshold. All failure modes collapse to
// false: callers substitute the default cover either way.
func (v *Validator) Validate(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", v.userAgent)

	start := time.Now()
	resp, err := v.httpClient.Do(req)
	metrics.ObserveExternal("covers", start)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "image") {
		return false
	}

	// DecodeConfig reads only the header, never the full body.
	cfg, _, err := image.DecodeConfig(resp.Body)
	if err != nil {
		return false
	}
	return cfg.Width > v.minPixels && cfg.Height > v.minPixels
}
