package jsearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/honeycarbs/jobscout/internal/domain"
	jobdomain "github.com/honeycarbs/jobscout/internal/domain/job"
	"github.com/honeycarbs/jobscout/pkg/jsearch"
)

type searchClient interface {
	SearchJobs(ctx context.Context, params jsearch.SearchParams) (jsearch.SearchResponse, error)
}

// Provider implements job.Provider using the JSearch API. JSearch reports no
// total, so pages are returned with IsEstimate set.
type Provider struct {
	client searchClient
	clock  func() time.Time
}

// NewProvider builds a JSearch provider
func NewProvider(client searchClient, clock func() time.Time) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("jsearch provider: client is required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &Provider{client: client, clock: clock}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return domain.ProviderJSearch
}

// Search queries JSearch, normalizes the postings and applies the salary
// bounds client-side
func (p *Provider) Search(ctx context.Context, req domain.SearchRequest) (domain.ProviderPage, error) {
	if p == nil || p.client == nil {
		return domain.ProviderPage{}, fmt.Errorf("jsearch provider: client is nil")
	}

	numPages := jsearch.NumPages(req.PageSize)
	params := jsearch.SearchParams{
		Query:    buildQuery(req.Keywords, req.Location),
		Page:     firstPage(req.Page, numPages),
		NumPages: numPages,
	}
	switch req.EmploymentType {
	case domain.EmploymentFullTime:
		params.EmploymentTypes = []string{"FULLTIME"}
	case domain.EmploymentPartTime:
		params.EmploymentTypes = []string{"PARTTIME"}
	case domain.EmploymentContract, domain.EmploymentTemporary:
		params.EmploymentTypes = []string{"CONTRACTOR"}
	case domain.EmploymentInternship:
		params.EmploymentTypes = []string{"INTERN"}
	case domain.EmploymentRemote:
		params.RemoteOnly = true
	}

	resp, err := p.client.SearchJobs(ctx, params)
	if err != nil {
		return domain.ProviderPage{}, err
	}

	now := p.clock()
	jobs := make([]domain.Job, 0, len(resp.Data))
	for _, posting := range resp.Data {
		job := jobdomain.Normalize(domain.ProviderJSearch, toRecord(posting), now)
		if !jobdomain.MatchesSalary(job, req.MinSalary, req.MaxSalary) {
			continue
		}
		jobs = append(jobs, job)
	}

	return domain.ProviderPage{
		Jobs:       jobs,
		TotalCount: len(jobs),
		IsEstimate: true,
	}, nil
}

// firstPage maps a request page onto the first JSearch page of its window.
// JSearch fetches num_pages pages starting at page, so windows must not overlap.
func firstPage(page, numPages int) int {
	if page < 1 {
		page = 1
	}
	return (page-1)*numPages + 1
}

func buildQuery(keywords, location string) string {
	keywords = strings.TrimSpace(keywords)
	location = strings.TrimSpace(location)
	switch {
	case keywords != "" && location != "":
		return keywords + " in " + location
	case keywords != "":
		return keywords
	default:
		return location
	}
}

func toRecord(posting jsearch.Posting) jobdomain.Record {
	posted := jobdomain.PostedUnix(posting.JobPostedAtTimestamp)
	if posting.JobPostedAtTimestamp <= 0 {
		posted = jobdomain.PostedISO(posting.JobPostedAtDatetimeUTC)
	}

	return jobdomain.Record{
		ID:             posting.JobID,
		Title:          posting.JobTitle,
		Company:        posting.EmployerName,
		Location:       location(posting),
		Description:    posting.JobDescription,
		ApplyURL:       posting.JobApplyLink,
		EmploymentType: employmentDisplay(posting.JobEmploymentType),
		Salary: jobdomain.SalaryInput{
			Min:      posting.JobMinSalary,
			Max:      posting.JobMaxSalary,
			Currency: posting.JobSalaryCurrency,
			Period:   posting.JobSalaryPeriod,
		},
		Posted: posted,
	}
}

func location(posting jsearch.Posting) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{posting.JobCity, posting.JobState, posting.JobCountry} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	if posting.JobLocation != "" {
		return posting.JobLocation
	}
	if posting.JobIsRemote {
		return "Remote"
	}
	return ""
}

func employmentDisplay(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "FULLTIME":
		return domain.EmploymentFullTime.Display()
	case "PARTTIME":
		return domain.EmploymentPartTime.Display()
	case "CONTRACTOR":
		return domain.EmploymentContract.Display()
	case "INTERN":
		return domain.EmploymentInternship.Display()
	case "TEMPORARY":
		return domain.EmploymentTemporary.Display()
	default:
		return ""
	}
}

var _ jobdomain.Provider = (*Provider)(nil)
