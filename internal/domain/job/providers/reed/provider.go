package reed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/honeycarbs/jobscout/internal/domain"
	jobdomain "github.com/honeycarbs/jobscout/internal/domain/job"
	"github.com/honeycarbs/jobscout/pkg/reed"
)

type searchClient interface {
	SearchJobs(ctx context.Context, params reed.SearchParams) (reed.SearchResponse, error)
}

// Provider implements job.Provider using the Reed API
type Provider struct {
	client searchClient
	clock  func() time.Time
}

// NewProvider builds a Reed provider
func NewProvider(client searchClient, clock func() time.Time) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("reed provider: client is required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &Provider{client: client, clock: clock}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return domain.ProviderReed
}

// Search queries Reed and returns normalized jobs
func (p *Provider) Search(ctx context.Context, req domain.SearchRequest) (domain.ProviderPage, error) {
	if p == nil || p.client == nil {
		return domain.ProviderPage{}, fmt.Errorf("reed provider: client is nil")
	}

	params := reed.SearchParams{
		Keywords:      req.Keywords,
		LocationName:  req.Location,
		ResultsToTake: req.PageSize,
		ResultsToSkip: (req.Page - 1) * req.PageSize,
	}
	if req.MinSalary != nil {
		params.MinimumSalary = *req.MinSalary
	}
	if req.MaxSalary != nil {
		params.MaximumSalary = *req.MaxSalary
	}
	switch req.EmploymentType {
	case domain.EmploymentFullTime:
		params.FullTime = true
	case domain.EmploymentPartTime:
		params.PartTime = true
	case domain.EmploymentContract:
		params.Contract = true
	case domain.EmploymentTemporary:
		params.Temp = true
	}

	resp, err := p.client.SearchJobs(ctx, params)
	if err != nil {
		return domain.ProviderPage{}, err
	}

	now := p.clock()
	jobs := make([]domain.Job, 0, len(resp.Results))
	for _, posting := range resp.Results {
		jobs = append(jobs, jobdomain.Normalize(domain.ProviderReed, toRecord(posting, req.EmploymentType), now))
	}

	return domain.ProviderPage{
		Jobs:       jobs,
		TotalCount: resp.TotalResults,
	}, nil
}

func toRecord(posting reed.Posting, filter domain.EmploymentType) jobdomain.Record {
	var id string
	if posting.JobID > 0 {
		id = strconv.FormatInt(posting.JobID, 10)
	}

	currency := posting.Currency
	if currency == "" {
		currency = "GBP"
	}

	// search results carry no employment type, echo the filter when one was applied
	var employment string
	if filter != "" {
		employment = filter.Display()
	}

	return jobdomain.Record{
		ID:             id,
		Title:          posting.JobTitle,
		Company:        posting.EmployerName,
		Location:       posting.LocationName,
		Description:    posting.JobDescription,
		ApplyURL:       posting.JobURL,
		EmploymentType: employment,
		Salary: jobdomain.SalaryInput{
			Min:      posting.MinimumSalary,
			Max:      posting.MaximumSalary,
			Currency: currency,
		},
		Posted: jobdomain.PostedLayout(posting.Date, reed.DateLayout),
	}
}

var _ jobdomain.Provider = (*Provider)(nil)
