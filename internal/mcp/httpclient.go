package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/trackingtfm/internal/models"
	"github.com/claude/trackingtfm/internal/storage"
	"github.com/claude/trackingtfm/internal/tacf"
)

// HTTPClient implements DataSource by calling the TrackingTFM REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server. The bearer token decides which user the
// data belongs to, so the userID arguments are ignored.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, v any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) ListTACFLogs(ctx context.Context, _ int) ([]models.TACFLogRow, error) {
	var logs []models.TACFLogRow
	if err := c.get(ctx, "/api/v1/tacf", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *HTTPClient) ListTFMLogs(ctx context.Context, _ int) ([]models.TFMLogRow, error) {
	var logs []models.TFMLogRow
	if err := c.get(ctx, "/api/v1/tfm", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// GetUnitStats needs a manager token. The server applies its own
// organization group.
func (c *HTTPClient) GetUnitStats(ctx context.Context, f storage.StatsFilter, _ string) (*storage.UnitStats, error) {
	params := url.Values{}
	if f.OrganizationID != nil {
		params.Set("om_id", strconv.Itoa(*f.OrganizationID))
	}
	if f.Sex != nil {
		sex, err := tacf.ParseSex(*f.Sex)
		if err != nil {
			return nil, fmt.Errorf("httpclient: %w", err)
		}
		params.Set("sex", sex.String())
	}

	var stats storage.UnitStats
	if err := c.get(ctx, "/api/v1/admin/stats", params, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
