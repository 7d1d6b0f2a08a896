package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"bookscout/internal/core"
)

// Client is the HTTP catalog backend.
//
//	GET {base}/books           -> [{id, name, price?, language, genre}]
//	GET {base}/books/search?q= -> same shape, empty q returns everything
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
}

// ClientOptions configures the HTTP catalog client.
type ClientOptions struct {
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	RatePerSecond int
	MaxRetries    int
}

// NewClient creates an HTTP catalog client.
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 5
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "bookscout"
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(opts.RatePerSecond)), 1),
		maxRetries: opts.MaxRetries,
	}
}

// FetchAll returns the unfiltered catalog.
func (c *Client) FetchAll(ctx context.Context) ([]core.Record, error) {
	var recs []core.Record
	if err := c.get(ctx, c.baseURL+"/books", &recs); err != nil {
		return nil, core.NewDomainError(core.ErrCatNetwork, "catalog fetch failed", err)
	}
	return recs, nil
}

// Search returns the records matching term. The empty term is sent as
// an empty q parameter; the backend treats it as "no filter".
func (c *Client) Search(ctx context.Context, term string) ([]core.Record, error) {
	u := fmt.Sprintf("%s/books/search?q=%s", c.baseURL, url.QueryEscape(term))
	var recs []core.Record
	if err := c.get(ctx, u, &recs); err != nil {
		return nil, core.NewDomainError(core.ErrCatNetwork, "catalog search failed", err)
	}
	return recs, nil
}

// get performs a rate-limited GET with retries on 429/5xx.
func (c *Client) get(ctx context.Context, u string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
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

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", uuid.NewString())

		resp, err := c.httpClient.Do(req)
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
