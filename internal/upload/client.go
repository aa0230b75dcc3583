package upload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// profile is the part of /api/v1/users/me the uploader checks. It mirrors
// models.User without importing the server-side packages.
type profile struct {
	Name      string  `json:"name"`
	BirthDate *string `json:"birth_date"`
	Sex       *string `json:"sex"`
}

// Client sends TACF sessions to the TrackingTFM server over HTTP.
type Client struct {
	serverURL  string
	token      string
	httpClient *http.Client
	retryBase  time.Duration
}

// NewClient creates a new HTTP client for the TrackingTFM server. token is
// the user's bearer token.
func NewClient(serverURL, token string) *Client {
	return &Client{
		serverURL: serverURL,
		token:     token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		retryBase: time.Second,
	}
}

func (c *Client) newRequest(method, path string, body []byte) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, c.serverURL+path, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// CheckProfile verifies the token and that the profile has the birth date
// and sex the server needs for grading. It returns the user's name.
func (c *Client) CheckProfile() (string, error) {
	req, err := c.newRequest(http.MethodGet, "/api/v1/users/me", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("profile request failed (status %d): %s", resp.StatusCode, body)
	}

	var p profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return "", fmt.Errorf("decoding profile: %w", err)
	}
	if p.BirthDate == nil || p.Sex == nil {
		return p.Name, errors.New("profile is missing birth date or sex; complete it before uploading")
	}
	return p.Name, nil
}

// errRejected marks a response the server will never accept, so retrying
// is pointless.
var errRejected = errors.New("rejected by server")

// SendSession POSTs one session to the TACF endpoint. Network errors and
// 5xx responses are retried up to 3 times with exponential backoff; a 4xx
// fails immediately.
func (c *Client) SendSession(s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(c.retryBase << uint(attempt-1))
		}

		req, err := c.newRequest(http.MethodPost, "/api/v1/tacf", data)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusCreated:
			return nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return fmt.Errorf("%w (status %d): %s", errRejected, resp.StatusCode, bytes.TrimSpace(body))
		}
		lastErr = fmt.Errorf("upload failed (status %d): %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	return fmt.Errorf("after 3 attempts: %w", lastErr)
}
