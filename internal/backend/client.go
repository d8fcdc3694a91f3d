// Package backend is the HTTP client for the remote record store. The
// backend is a black box: one POST per submission attempt, JSON body, and a
// JSON response that is logged but not otherwise consumed.
package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/example/pucsync/internal/models"
)

// Sentinel errors for common HTTP error classes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// entryPath is the backend's record ingestion endpoint.
const entryPath = "/dataEntry"

// Client is an HTTP client for the record backend.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a new backend client.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError is the structured error body some backend deployments return.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

// SubmitRecord performs a single delivery attempt for a formatted record.
// It returns the raw response body on success (2xx) so the caller can log
// it; any network failure or non-2xx status is a delivery failure.
func (c *Client) SubmitRecord(rec models.SubmissionRecord) ([]byte, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	req, err := http.NewRequest("POST", c.BaseURL+entryPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Code != "" {
			switch resp.StatusCode {
			case http.StatusUnauthorized:
				return nil, fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)
			case http.StatusNotFound:
				return nil, fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
			default:
				return nil, &apiErr
			}
		}
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
