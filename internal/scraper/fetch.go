// Package scraper downloads the public product catalog and turns its
// listing tables into catalog records.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultCatalogURL is the public product catalog listing.
const DefaultCatalogURL = "https://www.shl.com/solutions/products/product-catalog/"

// DefaultUserAgent mimics a desktop browser; the catalog rejects bare clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

const maxPageBytes = 16 << 20

// FetchError represents an error while downloading a catalog page.
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Options configures fetching.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client // optional; overrides Timeout
}

// DefaultOptions returns the defaults used by the scraper command.
func DefaultOptions() Options {
	return Options{Timeout: DefaultTimeout, UserAgent: DefaultUserAgent}
}

// FetchPage downloads a page and returns its body.
func FetchPage(ctx context.Context, pageURL string, opts Options) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &FetchError{URL: pageURL, Message: "invalid URL", Cause: err}
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", &FetchError{URL: pageURL, Message: "failed to create request", Cause: err}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{URL: pageURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: pageURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", &FetchError{URL: pageURL, Message: "failed to read response body", Cause: err}
	}
	return string(body), nil
}
