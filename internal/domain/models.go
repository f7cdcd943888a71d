package domain

import (
	"time"
)

// Provider names in their fixed declaration order
const (
	ProviderAdzuna  = "adzuna"
	ProviderJSearch = "jsearch"
	ProviderReed    = "reed"
	ProviderDemo    = "demo"
)

// Placeholder values used when a provider omits a field
const (
	DefaultTitle          = "Job title not specified"
	DefaultCompany        = "Company not specified"
	DefaultLocation       = "Location not specified"
	DefaultDescription    = "No description available"
	DefaultApplyURL       = "#"
	DefaultEmploymentType = "Full-time"
	DefaultCategory       = "General"
	SalaryNotSpecified    = "Salary not specified"
	RecentlyPosted        = "Recently posted"
)

// Job is the canonical job record every provider normalizes into
type Job struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	SalaryDisplay  string    `json:"salary_display"`
	Description    string    `json:"description"`
	ApplyURL       string    `json:"apply_url"`
	PostedDisplay  string    `json:"posted_display"`
	EmploymentType string    `json:"employment_type"`
	Category       string    `json:"category"`
	Source         string    `json:"source"`
	RawPostedAt    string    `json:"raw_posted_at,omitempty"`
	PostedAt       time.Time `json:"posted_at,omitzero"`
	RawMinSalary   *float64  `json:"raw_min_salary,omitempty"`
	RawMaxSalary   *float64  `json:"raw_max_salary,omitempty"`
}

// EmploymentType is a provider-independent employment filter code
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
	EmploymentTemporary  EmploymentType = "temporary"
	EmploymentRemote     EmploymentType = "remote"
)

// Display returns the human readable label for the code
func (e EmploymentType) Display() string {
	switch e {
	case EmploymentFullTime:
		return "Full-time"
	case EmploymentPartTime:
		return "Part-time"
	case EmploymentContract:
		return "Contract"
	case EmploymentInternship:
		return "Internship"
	case EmploymentTemporary:
		return "Temporary"
	case EmploymentRemote:
		return "Remote"
	default:
		return DefaultEmploymentType
	}
}

// SortKey selects the collection ordering
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortDate      SortKey = "date"
	SortSalary    SortKey = "salary"
	SortCompany   SortKey = "company"
)

// SearchRequest is one user-initiated search. It is passed by value and never
// modified after dispatch.
type SearchRequest struct {
	Keywords       string         `json:"keywords" validate:"max=200"`
	Location       string         `json:"location" validate:"max=200"`
	MinSalary      *float64       `json:"min_salary,omitempty" validate:"omitempty,gte=0"`
	MaxSalary      *float64       `json:"max_salary,omitempty" validate:"omitempty,gte=0"`
	EmploymentType EmploymentType `json:"employment_type,omitempty" validate:"omitempty,oneof=full_time part_time contract internship temporary remote"`
	Page           int            `json:"page" validate:"gte=1"`
	PageSize       int            `json:"page_size" validate:"gte=1,lte=100"`
	SortKey        SortKey        `json:"sort_key" validate:"oneof=relevance date salary company"`
}

// ProviderConfig describes one external job provider
type ProviderConfig struct {
	Name    string `yaml:"name" validate:"required,oneof=adzuna jsearch reed"`
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	AppID   string `yaml:"app_id" validate:"required_if=Name adzuna"`
	APIKey  string `yaml:"api_key" validate:"required"`
	Host    string `yaml:"host"`
	Country string `yaml:"country"`
	Enabled bool   `yaml:"enabled"`
}

// ProviderPage is the output of a single adapter call
type ProviderPage struct {
	Jobs       []Job
	TotalCount int
	// IsEstimate is set when the provider reports no true total and
	// TotalCount is the length of the returned page
	IsEstimate bool
}

// SearchResult is what the orchestrator hands to its callers
type SearchResult struct {
	Jobs           []Job  `json:"jobs"`
	TotalCount     int    `json:"total_count"`
	IsEstimate     bool   `json:"is_estimate"`
	Source         string `json:"source"`
	Fallback       bool   `json:"fallback"`
	FallbackReason string `json:"fallback_reason,omitempty"`
	Seq            uint64 `json:"seq"`
	Stale          bool   `json:"stale"`
}
