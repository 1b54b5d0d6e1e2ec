// Package openlibrary is a minimal client for the Open Library REST API:
// edition lookup by ISBN bibkey, subject work listings, and cover URL
// construction.
package openlibrary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"homelib/internal/metrics"
)

// ErrNotInCatalog is returned when Open Library has no edition for an ISBN.
var ErrNotInCatalog = errors.New("openlibrary: edition not in catalog")

// Config controls client construction. Zero values fall back to the public
// Open Library endpoints and polite defaults.
type Config struct {
	BaseURL   string
	CoversURL string
	UserAgent string
	Timeout   time.Duration

	// RequestsPerSecond caps outbound request rate. Open Library asks
	// clients to stay well under their limits.
	RequestsPerSecond int

	// MaxRetries is the number of retries on 429/5xx responses. The
	// recommendation path runs with 0; batch tools may allow a few.
	MaxRetries int
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	coversURL  string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openlibrary.org"
	}
	if cfg.CoversURL == "" {
		cfg.CoversURL = "https://covers.openlibrary.org"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "homelib/1.0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		coversURL:  cfg.CoversURL,
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(cfg.RequestsPerSecond)), 1),
		maxRetries: cfg.MaxRetries,
	}
}

// Subject is one subject tag on an edition.
type Subject struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// EditionAuthor is an author reference on an edition.
type EditionAuthor struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Cover holds the cover URLs Open Library returns for an edition.
type Cover struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// Edition matches one entry of api/books?jscmd=data.
type Edition struct {
	Title         string          `json:"title"`
	Subtitle      string          `json:"subtitle"`
	PublishDate   string          `json:"publish_date"`
	Cover         Cover           `json:"cover"`
	Authors       []EditionAuthor `json:"authors"`
	Subjects      []Subject       `json:"subjects"`
	NumberOfPages int             `json:"number_of_pages"`
}

// WorkAuthor is an author reference on a subject work.
type WorkAuthor struct {
	Name string `json:"name"`
}

// Work is one entry of a subject's work list.
type Work struct {
	Key              string       `json:"key"`
	Title            string       `json:"title"`
	Authors          []WorkAuthor `json:"authors"`
	CoverID          int64        `json:"cover_id"`
	FirstPublishYear int          `json:"first_publish_year"`
}

// SubjectResult matches subjects/{slug}.json.
type SubjectResult struct {
	Name      string `json:"name"`
	WorkCount int    `json:"work_count"`
	Works     []Work `json:"works"`
}

// GetEdition fetches edition data for a single ISBN via the bibkey endpoint.
// Returns ErrNotInCatalog when Open Library has no entry for the ISBN.
func (c *Client) GetEdition(ctx context.Context, isbn string) (*Edition, error) {
	bibkey := "ISBN:" + isbn
	u := fmt.Sprintf("%s/api/books?bibkeys=%s&jscmd=data&format=json",
		c.baseURL, url.QueryEscape(bibkey))

	var res map[string]Edition
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}

	edition, ok := res[bibkey]
	if !ok {
		return nil, ErrNotInCatalog
	}
	return &edition, nil
}

// SubjectWorks fetches up to limit works filed under a subject slug.
func (c *Client) SubjectWorks(ctx context.Context, slug string, limit int) (*SubjectResult, error) {
	u := fmt.Sprintf("%s/subjects/%s.json?limit=%d", c.baseURL, url.PathEscape(slug), limit)

	var res SubjectResult
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CoverByID constructs the large-cover URL for a cover id. The URL is not
// fetched; id-based covers are served directly by the covers host.
func (c *Client) CoverByID(id int64) string {
	return fmt.Sprintf("%s/b/id/%d-L.jpg", c.coversURL, id)
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		metrics.ObserveExternal("openlibrary", start)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
				continue
			}
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		return err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}
