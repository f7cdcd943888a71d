package reed

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
	providerName    = "reed"
	defaultBaseURL  = "https://www.reed.co.uk"
	defaultPageSize = 20
	maxResults      = 100
)

// NewClient instantiates a Reed API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("reed: api key is required")
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
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// SearchJobs queries one window of Reed results
func (c *Client) SearchJobs(ctx context.Context, params SearchParams) (SearchResponse, error) {
	if c == nil {
		return SearchResponse{}, fmt.Errorf("reed: client is nil")
	}

	u, err := c.buildSearchURL(params)
	if err != nil {
		return SearchResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("reed: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	// the key is the username, the password stays empty
	req.SetBasicAuth(c.apiKey, "")

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
		return "", fmt.Errorf("reed: parse base url: %w", err)
	}

	if !strings.HasSuffix(u.Path, "/search") {
		u.Path = path.Join(u.Path, "api", "1.0", "search")
	}

	take := params.ResultsToTake
	if take < 1 {
		take = defaultPageSize
	}
	take = min(take, maxResults)

	values := url.Values{}
	values.Set("resultsToTake", strconv.Itoa(take))
	if params.ResultsToSkip > 0 {
		values.Set("resultsToSkip", strconv.Itoa(params.ResultsToSkip))
	}
	if params.Keywords != "" {
		values.Set("keywords", params.Keywords)
	}
	if params.LocationName != "" {
		values.Set("locationName", params.LocationName)
	}
	if params.MinimumSalary > 0 {
		values.Set("minimumSalary", strconv.FormatFloat(params.MinimumSalary, 'f', -1, 64))
	}
	if params.MaximumSalary > 0 {
		values.Set("maximumSalary", strconv.FormatFloat(params.MaximumSalary, 'f', -1, 64))
	}
	for name, set := range map[string]bool{
		"fullTime":  params.FullTime,
		"partTime":  params.PartTime,
		"contract":  params.Contract,
		"temp":      params.Temp,
		"permanent": params.Permanent,
	} {
		if set {
			values.Set(name, "true")
		}
	}

	u.RawQuery = values.Encode()
	return u.String(), nil
}
