// Package reportclient talks to a reports server over HTTP: it fetches the
// report collection for the dashboard and posts new reports for sentinels.
package reportclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bryanwahyu/prompt-sentinel/internal/domain/reports"
)

const (
	ReportsPath = "/api/reports"
	ReportPath  = "/api/report"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the server at baseURL (e.g. http://localhost:8000).
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type listResponse struct {
	Reports *[]reports.Report `json:"reports"`
}

// Fetch implements reports.Fetcher. Any transport failure, non-2xx status or
// malformed body is returned wrapped in reports.ErrFetch.
func (c *Client) Fetch(ctx context.Context) ([]reports.Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ReportsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reports.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", reports.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", reports.ErrFetch, statusText(resp))
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", reports.ErrFetch, err)
	}
	if body.Reports == nil {
		return nil, fmt.Errorf("%w: invalid data format received from the server", reports.ErrFetch)
	}
	out := *body.Reports
	for i := range out {
		out[i].Normalize()
	}
	return out, nil
}

type submitResponse struct {
	Message string          `json:"message"`
	Report  *reports.Report `json:"report"`
}

// Submit implements reports.Submitter.
func (c *Client) Submit(ctx context.Context, s reports.Submission) (*reports.Report, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ReportPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("submit report: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.ProjectToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.ProjectToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("submit report: %s", statusText(resp))
	}
	var body submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("submit report: decode body: %w", err)
	}
	if body.Report != nil {
		body.Report.Normalize()
	}
	return body.Report, nil
}

func statusText(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(b))
	if msg == "" {
		return resp.Status
	}
	return fmt.Sprintf("%s: %s", resp.Status, msg)
}
