package jsearch

import (
	"github.com/honeycarbs/jobscout/pkg/httpx"
)

// Config defines JSearch (RapidAPI) client settings
type Config struct {
	APIKey     string
	Host       string
	BaseURL    string
	HTTPClient httpx.Doer
}

// Client queries the JSearch API
type Client struct {
	apiKey     string
	host       string
	baseURL    string
	httpClient httpx.Doer
}

// SearchParams describe a job search request
type SearchParams struct {
	Query           string // free text, location is folded in by the caller
	Page            int
	NumPages        int
	EmploymentTypes []string // FULLTIME, PARTTIME, CONTRACTOR, INTERN
	RemoteOnly      bool
}

// SearchResponse is the decoded search payload. Data is nil when the payload
// carried no data array.
type SearchResponse struct {
	Status    string    `json:"status"`
	RequestID string    `json:"request_id"`
	Data      []Posting `json:"data"`
}

// Posting is one JSearch job as returned on the wire
type Posting struct {
	JobID                  string   `json:"job_id"`
	JobTitle               string   `json:"job_title"`
	EmployerName           string   `json:"employer_name"`
	JobDescription         string   `json:"job_description"`
	JobApplyLink           string   `json:"job_apply_link"`
	JobCity                string   `json:"job_city"`
	JobState               string   `json:"job_state"`
	JobCountry             string   `json:"job_country"`
	JobLocation            string   `json:"job_location"`
	JobIsRemote            bool     `json:"job_is_remote"`
	JobEmploymentType      string   `json:"job_employment_type"`
	JobPostedAtTimestamp   int64    `json:"job_posted_at_timestamp"`
	JobPostedAtDatetimeUTC string   `json:"job_posted_at_datetime_utc"`
	JobMinSalary           *float64 `json:"job_min_salary"`
	JobMaxSalary           *float64 `json:"job_max_salary"`
	JobSalaryCurrency      string   `json:"job_salary_currency"`
	JobSalaryPeriod        string   `json:"job_salary_period"`
	JobPublisher           string   `json:"job_publisher"`
}
