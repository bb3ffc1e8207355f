// Package letterclient talks to the letters API over HTTP.
package letterclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"letterbox/internal/letter"
)

// APIError is a non-2xx response. Message is the server's "error" field when
// it sent one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("letters api: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) SendLetter(ctx context.Context, content, mood string) error {
	var resp letter.CreateLetterResponse
	if err := c.do(ctx, http.MethodPost, "/api/letters", letter.CreateLetterRequest{Content: content, Mood: mood}, &resp, "Failed to send letter"); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{StatusCode: http.StatusOK, Message: "Failed to send letter"}
	}
	return nil
}

func (c *Client) ArrivedLetters(ctx context.Context) ([]letter.Letter, error) {
	var letters []letter.Letter
	if err := c.do(ctx, http.MethodGet, "/api/letters", nil, &letters, "Failed to fetch letters"); err != nil {
		return nil, err
	}
	return letters, nil
}

// React sends a fire reaction and returns the letter's new count.
func (c *Client) React(ctx context.Context, id string) (int, error) {
	var resp letter.ReactResponse
	if err := c.do(ctx, http.MethodPost, "/api/letters/react", letter.ReactRequest{ID: id, Type: letter.ReactionFire}, &resp, "Failed to react"); err != nil {
		return 0, err
	}
	return resp.FireCount, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, fallback string) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", fallback, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: fallback}
		var errResp letter.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
