package adzuna

import (
	"context"
	"fmt"
	"time"

	"github.com/honeycarbs/jobscout/internal/domain"
	jobdomain "github.com/honeycarbs/jobscout/internal/domain/job"
	"github.com/honeycarbs/jobscout/pkg/adzuna"
)

// searchClient describes the subset of the Adzuna client used by the provider.
type searchClient interface {
	SearchJobs(ctx context.Context, params adzuna.SearchParams) (adzuna.SearchResponse, error)
	Country() string
}

// Provider implements job.Provider using Adzuna API
type Provider struct {
	client searchClient
	clock  func() time.Time
}

// NewProvider builds an Adzuna provider
func NewProvider(client searchClient, clock func() time.Time) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("adzuna provider: client is required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &Provider{client: client, clock: clock}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return domain.ProviderAdzuna
}

// Search queries Adzuna and returns normalized jobs
func (p *Provider) Search(ctx context.Context, req domain.SearchRequest) (domain.ProviderPage, error) {
	if p == nil || p.client == nil {
		return domain.ProviderPage{}, fmt.Errorf("adzuna provider: client is nil")
	}

	params := adzuna.SearchParams{
		What:           req.Keywords,
		Where:          req.Location,
		Page:           req.Page,
		ResultsPerPage: req.PageSize,
	}
	if req.MinSalary != nil {
		params.SalaryMin = *req.MinSalary
	}
	if req.MaxSalary != nil {
		params.SalaryMax = *req.MaxSalary
	}
	switch req.EmploymentType {
	case domain.EmploymentFullTime:
		params.FullTime = true
	case domain.EmploymentPartTime:
		params.PartTime = true
	case domain.EmploymentContract:
		params.Contract = true
	case domain.EmploymentRemote:
		if params.Where == "" {
			params.Where = "Remote"
		}
	}

	resp, err := p.client.SearchJobs(ctx, params)
	if err != nil {
		return domain.ProviderPage{}, err
	}

	now := p.clock()
	currency := currencyForCountry(p.client.Country())

	jobs := make([]domain.Job, 0, len(resp.Results))
	for _, posting := range resp.Results {
		jobs = append(jobs, jobdomain.Normalize(domain.ProviderAdzuna, toRecord(posting, currency), now))
	}

	return domain.ProviderPage{
		Jobs:       jobs,
		TotalCount: resp.Count,
	}, nil
}

func toRecord(posting adzuna.Posting, currency string) jobdomain.Record {
	minSalary, maxSalary := posting.SalaryMin, posting.SalaryMax
	return jobdomain.Record{
		ID:             posting.ID,
		Title:          posting.Title,
		Company:        posting.Company.DisplayName,
		Location:       posting.Location.DisplayName,
		Description:    posting.Description,
		ApplyURL:       posting.RedirectURL,
		EmploymentType: employmentDisplay(posting),
		Category:       posting.Category.Label,
		Salary: jobdomain.SalaryInput{
			Min:      &minSalary,
			Max:      &maxSalary,
			Currency: currency,
		},
		Posted: jobdomain.PostedISO(posting.Created),
	}
}

func employmentDisplay(posting adzuna.Posting) string {
	switch {
	case posting.ContractType == "contract":
		return domain.EmploymentContract.Display()
	case posting.ContractTime == "part_time":
		return domain.EmploymentPartTime.Display()
	case posting.ContractTime == "full_time":
		return domain.EmploymentFullTime.Display()
	default:
		return ""
	}
}

func currencyForCountry(country string) string {
	switch country {
	case "gb":
		return "GBP"
	case "ca":
		return "CAD"
	case "au":
		return "AUD"
	case "in":
		return "INR"
	case "at", "be", "de", "es", "fr", "it", "nl":
		return "EUR"
	default:
		return "USD"
	}
}

var _ jobdomain.Provider = (*Provider)(nil)
