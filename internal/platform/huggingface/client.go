// Package huggingface is a minimal client for the Hugging Face hosted
// inference API. It speaks the text-generation task shape only: a JSON
// body {"inputs": prompt} in, a list of {"generated_text": ...} out.
package huggingface

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"homelib/internal/metrics"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "homelib/1.0"
)

// Config controls the inference client. Endpoint is required; the rest
// fall back to sensible defaults.
type Config struct {
	Endpoint  string
	UserAgent string
	Timeout   time.Duration
}

// Client posts prompts to a single text-generation endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   cfg.Endpoint,
		userAgent:  cfg.UserAgent,
	}
}

type generateRequest struct {
	Inputs string `json:"inputs"`
}

type completion struct {
	GeneratedText string `json:"generated_text"`
}

// Generate sends prompt to the endpoint and returns the first
// completion's generated_text. A single attempt, no retries: the caller
// decides what a failed generation means.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Inputs: prompt})
	if err != nil {
		return "", fmt.Errorf("encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveExternal("huggingface", start)
	if err != nil {
		return "", fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("inference endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var completions []completion
	if err := json.NewDecoder(resp.Body).Decode(&completions); err != nil {
		return "", fmt.Errorf("decode inference response: %w", err)
	}
	if len(completions) == 0 {
		return "", fmt.Errorf("inference response carried no completions")
	}
	if completions[0].GeneratedText == "" {
		return "", fmt.Errorf("inference response missing generated_text")
	}
	return completions[0].GeneratedText, nil
}
