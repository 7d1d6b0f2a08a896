// Package session obtains the credential bundle required by the
// recommendation agent. The session is established once per component
// lifetime; there is no refresh or retry.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"bookscout/internal/core"
)

// Client talks to the session service.
//
//	POST {base}/sessions -> {accessToken, sessionId}
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a session client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  "bookscout",
	}
}

// Init requests a fresh session from the backend.
func (c *Client) Init(ctx context.Context) (core.SessionInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sessions", nil)
	if err != nil {
		return core.SessionInfo{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.SessionInfo{}, core.NewDomainError(core.ErrCatAuth, "session init failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return core.SessionInfo{}, core.NewDomainError(core.ErrCatAuth, "session init failed",
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	var info core.SessionInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return core.SessionInfo{}, core.NewDomainError(core.ErrCatAuth, "session init failed", err)
	}
	if !info.Valid() {
		return core.SessionInfo{}, core.NewDomainError(core.ErrCatAuth, "session init failed",
			fmt.Errorf("incomplete credential bundle"))
	}
	return info, nil
}
