// Package agent invokes the remote conversational agent that produces
// book recommendations.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"bookscout/internal/core"
)

// Client talks to the agent service.
//
//	POST {base}/invoke  {accessToken, sessionId, message} -> {text}
//
// Concurrent invocations sharing a key (the book id) are collapsed
// into one request; rapid favorite toggles therefore issue one agent
// call, not a race of several.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	flight     singleflight.Group
}

// NewClient creates an agent client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  "bookscout",
	}
}

type invokeRequest struct {
	AccessToken string `json:"accessToken"`
	SessionID   string `json:"sessionId"`
	Message     string `json:"message"`
}

type invokeResponse struct {
	Text string `json:"text"`
}

// Invoke sends message to the agent under the given session and
// returns its text answer, which may be empty. Calls sharing key are
// deduplicated while one is in flight.
func (c *Client) Invoke(ctx context.Context, key string, info core.SessionInfo, message string) (string, error) {
	text, err, _ := c.flight.Do(key, func() (any, error) {
		return c.invoke(ctx, info, message)
	})
	if err != nil {
		return "", err
	}
	return text.(string), nil
}

func (c *Client) invoke(ctx context.Context, info core.SessionInfo, message string) (string, error) {
	body, err := json.Marshal(invokeRequest{
		AccessToken: info.AccessToken,
		SessionID:   info.SessionID,
		Message:     message,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invoke", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("Authorization", "Bearer "+info.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", core.NewDomainError(core.ErrCatAgent, "agent invocation failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", core.NewDomainError(core.ErrCatAgent, "agent invocation failed",
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	var out invokeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", core.NewDomainError(core.ErrCatAgent, "agent invocation failed", err)
	}
	return out.Text, nil
}

// RecommendationPrompt builds the natural-language prompt for a book.
func RecommendationPrompt(book core.Book) string {
	return fmt.Sprintf(
		"I enjoyed the book %q, a %s book written in %s. "+
			"Recommend three similar books and explain in one sentence each why I might like them.",
		book.Name, book.Genre, book.Language)
}
