package demo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/honeycarbs/jobscout/internal/domain"
	jobdomain "github.com/honeycarbs/jobscout/internal/domain/job"
)

type template struct {
	title       string // %s is replaced by the keywords or the default term
	defaultTerm string
	company     string
	location    string // used when the request has no location
	fixedLoc    bool
	salaryMin   float64
	salaryMax   float64
	description string
	employment  domain.EmploymentType
	fixedType   bool // employment type ignores the request
}

var templates = []template{
	{
		title:       "Senior %s Developer",
		defaultTerm: "Software",
		company:     "TechCorp Inc.",
		location:    "San Francisco, CA",
		salaryMin:   80000,
		salaryMax:   150000,
		description: "We are looking for an experienced %s Developer to join our dynamic team. You will be responsible for developing high-quality software solutions and working with cross-functional teams.",
		employment:  domain.EmploymentFullTime,
	},
	{
		title:       "%s Manager",
		defaultTerm: "Marketing",
		company:     "Innovation Labs",
		location:    "New York, NY",
		salaryMin:   70000,
		salaryMax:   120000,
		description: "Join our team as a %s Manager. You will lead campaigns, analyze market trends, and drive brand awareness.",
		employment:  domain.EmploymentFullTime,
	},
	{
		title:       "Junior %s Analyst",
		defaultTerm: "Data",
		company:     "DataFlow Solutions",
		location:    "Austin, TX",
		salaryMin:   55000,
		salaryMax:   85000,
		description: "We're seeking a Junior %s Analyst to help us make data-driven decisions. You'll work with large datasets and create insightful reports.",
		employment:  domain.EmploymentFullTime,
	},
	{
		title:       "%s Designer",
		defaultTerm: "Product",
		company:     "Design Studio Pro",
		location:    "Seattle, WA",
		salaryMin:   65000,
		salaryMax:   110000,
		description: "Creative %s Designer needed to design user-friendly interfaces and experiences. Work with product teams to bring ideas to life.",
		employment:  domain.EmploymentContract,
	},
	{
		title:       "Remote %s Support Specialist",
		defaultTerm: "Customer",
		company:     "SupportTech",
		location:    "Remote",
		fixedLoc:    true,
		salaryMin:   45000,
		salaryMax:   70000,
		description: "Remote %s Support Specialist to provide excellent customer service and resolve technical issues for our clients.",
		employment:  domain.EmploymentRemote,
		fixedType:   true,
	},
}

// Provider generates deterministic sample jobs. It never fails and never
// touches the network.
type Provider struct {
	clock func() time.Time
}

// NewProvider builds the demo provider. A nil clock means time.Now.
func NewProvider(clock func() time.Time) *Provider {
	if clock == nil {
		clock = time.Now
	}
	return &Provider{clock: clock}
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return domain.ProviderDemo
}

// Search builds the sample set for req, clamped and filtered by its salary
// bounds and employment type
func (p *Provider) Search(_ context.Context, req domain.SearchRequest) (domain.ProviderPage, error) {
	now := p.clock()
	keywords := strings.TrimSpace(req.Keywords)
	location := strings.TrimSpace(req.Location)

	jobs := make([]domain.Job, 0, len(templates))
	for i, t := range templates {
		term := keywords
		if term == "" {
			term = t.defaultTerm
		}

		employment := t.employment
		if req.EmploymentType != "" && !t.fixedType {
			employment = req.EmploymentType
		}
		if req.EmploymentType != "" && employment != req.EmploymentType {
			continue
		}

		minSalary, maxSalary := t.salaryMin, t.salaryMax
		if req.MinSalary != nil && *req.MinSalary > minSalary {
			minSalary = *req.MinSalary
		}
		if req.MaxSalary != nil && *req.MaxSalary > 0 && *req.MaxSalary < maxSalary {
			maxSalary = *req.MaxSalary
		}
		if minSalary > maxSalary {
			continue
		}

		loc := t.location
		if location != "" && !t.fixedLoc {
			loc = location
		}

		posted := now.AddDate(0, 0, -(i + 1))
		jobs = append(jobs, jobdomain.Normalize(domain.ProviderDemo, jobdomain.Record{
			ID:             fmt.Sprintf("demo-%d", i+1),
			Title:          fmt.Sprintf(t.title, term),
			Company:        t.company,
			Location:       loc,
			Description:    fmt.Sprintf(t.description, term),
			ApplyURL:       domain.DefaultApplyURL,
			EmploymentType: employment.Display(),
			Category:       domain.DefaultCategory,
			Salary: jobdomain.SalaryInput{
				Min:      &minSalary,
				Max:      &maxSalary,
				Currency: "USD",
			},
			Posted: jobdomain.PostedISO(posted.UTC().Format(time.RFC3339)),
		}, now))
	}

	return domain.ProviderPage{
		Jobs:       jobs,
		TotalCount: len(jobs),
	}, nil
}

var _ jobdomain.Provider = (*Provider)(nil)
