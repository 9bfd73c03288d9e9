package recommender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultTimeout   = 2 * time.Minute
	defaultUserAgent = "recommender-go-client"
	maxResponseBytes = 4 << 20
)

// Client talks to a recommendation API server.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	apiKey    string
	userAgent string
	obs       *observer
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout, userAgent: defaultUserAgent}
	for _, o := range opts {
		o.apply(cfg)
	}

	if baseURL == "" {
		return nil, errors.New("recommender: base url required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("recommender: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("recommender: unsupported scheme %q", u.Scheme)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:   u,
		http:      hc,
		apiKey:    cfg.apiKey,
		userAgent: cfg.userAgent,
		obs:       obs,
	}, nil
}

// Info returns the service banner from GET /.
func (c *Client) Info(ctx context.Context) (msg string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("info", start, err) }()

	var out struct {
		Message string `json:"message"`
	}
	if _, err = c.do(ctx, http.MethodGet, "/", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Recommend posts a query to /recommend.
func (c *Client) Recommend(ctx context.Context, req Request) (res Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("recommend", start, err) }()

	if req.MaxDuration < 0 {
		return Response{}, fmt.Errorf("recommender: max_duration must not be negative: %w", ErrValidation)
	}

	hdr, err := c.do(ctx, http.MethodPost, "/recommend", req, &res)
	if err != nil {
		return Response{}, err
	}
	res.OracleCalls, _ = strconv.Atoi(hdr.Get("X-Oracle-Calls"))
	res.OracleCacheHits, _ = strconv.Atoi(hdr.Get("X-Oracle-Cache-Hits"))
	res.Ranked = hdr.Get("X-Ranking") == "ranked"
	return res, nil
}

// Metrics returns the evaluation summary from /metrics.
func (c *Client) Metrics(ctx context.Context) (m Metrics, err error) {
	start := time.Now()
	defer func() { c.obs.observe("metrics", start, err) }()

	_, err = c.do(ctx, http.MethodGet, "/metrics", nil, &m)
	return m, err
}

// Health returns the service health report. A 503 carrying a report is not an error.
func (c *Client) Health(ctx context.Context) (h HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	_, err = c.do(ctx, http.MethodGet, "/health", nil, &h)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable && h.Status != "" {
		return h, nil
	}
	return h, err
}

// do sends a JSON request and decodes the JSON response into out.
// Non-2xx responses become *APIError; for 503 the body is still decoded into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (http.Header, error) {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("recommender: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return nil, fmt.Errorf("recommender: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommender: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.Header, fmt.Errorf("recommender: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusServiceUnavailable && out != nil {
			_ = json.Unmarshal(data, out)
		}
		return resp.Header, parseAPIError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.Header, fmt.Errorf("recommender: decode response: %w", err)
		}
	}
	return resp.Header, nil
}
