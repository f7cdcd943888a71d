package reed

import (
	"github.com/honeycarbs/jobscout/pkg/httpx"
)

// DateLayout is the layout Reed uses for posting and expiry dates
const DateLayout = "02/01/2006"

// Config defines Reed API client settings
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient httpx.Doer
}

// Client queries the Reed job search API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient httpx.Doer
}

// SearchParams describe a job search request
type SearchParams struct {
	Keywords      string
	LocationName  string
	MinimumSalary float64 // zero omits the filter
	MaximumSalary float64
	ResultsToTake int
	ResultsToSkip int
	FullTime      bool
	PartTime      bool
	Contract      bool
	Temp          bool
	Permanent     bool
}

// SearchResponse is the decoded search payload. Results is nil when the
// payload carried no results array.
type SearchResponse struct {
	TotalResults int       `json:"totalResults"`
	Results      []Posting `json:"results"`
}

// Posting is one Reed job as returned on the wire
type Posting struct {
	JobID          int64    `json:"jobId"`
	EmployerID     int64    `json:"employerId"`
	EmployerName   string   `json:"employerName"`
	JobTitle       string   `json:"jobTitle"`
	LocationName   string   `json:"locationName"`
	MinimumSalary  *float64 `json:"minimumSalary"`
	MaximumSalary  *float64 `json:"maximumSalary"`
	Currency       string   `json:"currency"`
	ExpirationDate string   `json:"expirationDate"`
	Date           string   `json:"date"`
	JobDescription string   `json:"jobDescription"`
	Applications   int      `json:"applications"`
	JobURL         string   `json:"jobUrl"`
}
