package adzuna

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
	providerName    = "adzuna"
	defaultBaseURL  = "https://api.adzuna.com"
	defaultCountry  = "us"
	defaultPageSize = 20
)

// NewClient instantiates an Adzuna API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.AppID == "" || cfg.AppKey == "" {
		return nil, fmt.Errorf("adzuna: app_id and app_key are required")
	}

	country := strings.ToLower(strings.TrimSpace(cfg.Country))
	if country == "" {
		country = defaultCountry
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
		appID:      cfg.AppID,
		appKey:     cfg.AppKey,
		country:    country,
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// Country returns the configured country code
func (c *Client) Country() string {
	return c.country
}

// SearchJobs queries one page of Adzuna results
func (c *Client) SearchJobs(ctx context.Context, params SearchParams) (SearchResponse, error) {
	if c == nil {
		return SearchResponse{}, fmt.Errorf("adzuna: client is nil")
	}

	u, err := c.buildSearchURL(params)
	if err != nil {
		return SearchResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("adzuna: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpx.Send(c.httpClient, providerName, req)
	if err != nil {
		return SearchResponse{}, err
	}

	var payload SearchResponse
	if err := httpx.DecodeJSON(providerName, resp, &payload); err != nil {
		return SearchResponse{}, err
	}
	if payload.Results == nil {
		return SearchResponse{}, apierr.New(providerName, apierr.ErrProvider, "response has no results array")
	}

	return payload, nil
}

func (c *Client) buildSearchURL(params SearchParams) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("adzuna: parse base url: %w", err)
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.ResultsPerPage
	if perPage < 1 {
		perPage = defaultPageSize
	}

	u.Path = path.Join(u.Path, "v1", "api", "jobs", c.country, "search", strconv.Itoa(page))

	values := url.Values{}
	values.Set("app_id", c.appID)
	values.Set("app_key", c.appKey)
	values.Set("results_per_page", strconv.Itoa(perPage))
	values.Set("content-type", "application/json")

	if params.What != "" {
		values.Set("what", params.What)
	}
	if params.Where != "" {
		values.Set("where", params.Where)
	}
	if params.SalaryMin > 0 {
		values.Set("salary_min", strconv.FormatFloat(params.SalaryMin, 'f', -1, 64))
	}
	if params.SalaryMax > 0 {
		values.Set("salary_max", strconv.FormatFloat(params.SalaryMax, 'f', -1, 64))
	}
	if params.FullTime {
		values.Set("full_time", "1")
	}
	if params.PartTime {
		values.Set("part_time", "1")
	}
	if params.Contract {
		values.Set("contract", "1")
	}
	if params.Permanent {
		values.Set("permanent", "1")
	}

	u.RawQuery = values.Encode()
	return u.String(), nil
}
