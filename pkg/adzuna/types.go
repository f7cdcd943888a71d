package adzuna

import (
	"github.com/honeycarbs/jobscout/pkg/httpx"
)

// Config defines Adzuna API client settings
type Config struct {
	AppID      string
	AppKey     string
	Country    string
	BaseURL    string
	HTTPClient httpx.Doer
}

// Client queries Adzuna job search API
type Client struct {
	appID      string
	appKey     string
	country    string
	baseURL    string
	httpClient httpx.Doer
}

// SearchParams describe a job search request
type SearchParams struct {
	What           string
	Where          string
	Page           int
	ResultsPerPage int
	SalaryMin      float64 // zero omits the filter
	SalaryMax      float64
	FullTime       bool
	PartTime       bool
	Contract       bool
	Permanent      bool
}

// SearchResponse is the decoded search payload. Results is nil when the
// payload carried no results array.
type SearchResponse struct {
	Count   int       `json:"count"`
	Mean    float64   `json:"mean"`
	Results []Posting `json:"results"`
}

// Posting is one Adzuna job advert as returned on the wire
type Posting struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Company           displayName `json:"company"`
	Location          displayName `json:"location"`
	Category          category    `json:"category"`
	Description       string      `json:"description"`
	Created           string      `json:"created"`
	RedirectURL       string      `json:"redirect_url"`
	ContractTime      string      `json:"contract_time"`
	ContractType      string      `json:"contract_type"`
	SalaryMin         float64     `json:"salary_min"`
	SalaryMax         float64     `json:"salary_max"`
	SalaryIsPredicted string      `json:"salary_is_predicted"`
}

type displayName struct {
	DisplayName string `json:"display_name"`
}

type category struct {
	Label string `json:"label"`
	Tag   string `json:"tag"`
}
