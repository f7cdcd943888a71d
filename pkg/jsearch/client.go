package jsearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/honeycarbs/jobscout/pkg/apierr"
	"github.com/honeycarbs/jobscout/pkg/httpx"
)

const (
	providerName   = "jsearch"
	defaultHost    = "jsearch.p.rapidapi.com"
	defaultBaseURL = "https://" + defaultHost

	// PageSize is the fixed number of results JSearch returns per page
	PageSize = 10
)

// NewClient instantiates a JSearch API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("jsearch: api key is required")
	}

	host := cfg.Host
	if host == "" {
		host = defaultHost
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		apiKey:     cfg.APIKey,
		host:       host,
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// SearchJobs queries JSearch for the given page window
func (c *Client) SearchJobs(ctx context.Context, params SearchParams) (SearchResponse, error) {
	if c == nil {
		return SearchResponse{}, fmt.Errorf("jsearch: client is nil")
	}

	u, err := c.buildSearchURL(params)
	if err != nil {
		return SearchResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("jsearch: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := httpx.Send(c.httpClient, providerName, req)
	if err != nil {
		return SearchResponse{}, err
	}

	var payload SearchResponse
	if err := httpx.DecodeJSON(providerName, resp, &payload); err != nil {
		return SearchResponse{}, err
	}
	if payload.Data == nil {
		return SearchResponse{}, apierr.New(providerName, apierr.ErrProvider, "response has no data array")
	}

	return payload, nil
}

func (c *Client) buildSearchURL(params SearchParams) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("jsearch: parse base url: %w", err)
	}

	if !strings.HasSuffix(u.Path, "/search") {
		u.Path = path.Join(u.Path, "search")
	}

	page := max(params.Page, 1)
	numPages := max(params.NumPages, 1)

	query := strings.TrimSpace(params.Query)
	if query == "" {
		query = "jobs"
	}

	values := url.Values{}
	values.Set("query", query)
	values.Set("page", strconv.Itoa(page))
	values.Set("num_pages", strconv.Itoa(numPages))
	if len(params.EmploymentTypes) > 0 {
		values.Set("employment_types", strings.Join(params.EmploymentTypes, ","))
	}
	if params.RemoteOnly {
		values.Set("remote_jobs_only", "true")
	}

	u.RawQuery = values.Encode()
	return u.String(), nil
}

// NumPages returns how many JSearch pages cover pageSize results
func NumPages(pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	return (pageSize + PageSize - 1) / PageSize
}
