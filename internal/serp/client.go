// Package serp is a thin client for a SerpAPI-style search endpoint.
// Responses are decoded defensively: every field is optional and an
// absent field yields its zero value, never an error.
package serp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://serpapi.com/search.json"
	httpTimeout    = 15 * time.Second

	EngineJobs    = "google_jobs"
	EngineGeneral = "google"
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
}

// WithBaseURL points the client at a different endpoint (used in tests).
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// RawJob mirrors a single provider job record. No invariants hold: any
// field may be missing from the wire.
type RawJob struct {
	CompanyName        string         `json:"company_name"`
	Title              string         `json:"title"`
	Location           string         `json:"location"`
	Description        string         `json:"description"`
	Via                string         `json:"via"`
	RelatedLinks       []RelatedLink  `json:"related_links"`
	ApplyOptions       []ApplyOption  `json:"apply_options"`
	DetectedExtensions map[string]any `json:"detected_extensions"`
}

type RelatedLink struct {
	Link string `json:"link"`
	Text string `json:"text"`
}

type ApplyOption struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

type jobsResponse struct {
	Error       string   `json:"error"`
	JobsResults []RawJob `json:"jobs_results"`
}

type organicResult struct {
	Link string `json:"link"`
}

type generalResponse struct {
	Error          string          `json:"error"`
	OrganicResults []organicResult `json:"organic_results"`
}

// SearchJobs queries the jobs engine. A provider-declared error field
// surfaces as a Go error; an absent jobs_results list is an empty slice.
func (c *Client) SearchJobs(ctx context.Context, query string, num int, locale string) ([]RawJob, error) {
	params := url.Values{}
	params.Set("engine", EngineJobs)
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("num", strconv.Itoa(num))
	if locale != "" {
		params.Set("hl", locale)
	}

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp jobsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode jobs response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("provider error: %s", resp.Error)
	}
	return resp.JobsResults, nil
}

// SearchLinks queries the general engine and returns organic result URLs.
func (c *Client) SearchLinks(ctx context.Context, query string, num int) ([]string, error) {
	params := url.Values{}
	params.Set("engine", EngineGeneral)
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("num", strconv.Itoa(num))

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp generalResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode general response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("provider error: %s", resp.Error)
	}

	var links []string
	for _, res := range resp.OrganicResults {
		if res.Link != "" {
			links = append(links, res.Link)
		}
	}
	return links, nil
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
