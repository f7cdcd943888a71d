package job

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/jobscout/internal/domain"
)

// Record is the provider-neutral intermediate an adapter fills from its wire
// type. Normalize collapses it into the canonical domain.Job.
type Record struct {
	ID             string
	Title          string
	Company        string
	Location       string
	Description    string
	ApplyURL       string
	EmploymentType string
	Category       string
	Salary         SalaryInput
	Posted         PostedValue
}

// Normalize fills every canonical field, applying placeholders for missing ones
func Normalize(source string, r Record, now time.Time) domain.Job {
	minV, maxV := SalaryBounds(r.Salary)
	job := domain.Job{
		ID:             strings.TrimSpace(r.ID),
		Title:          orDefault(r.Title, domain.DefaultTitle),
		Company:        orDefault(r.Company, domain.DefaultCompany),
		Location:       orDefault(r.Location, domain.DefaultLocation),
		SalaryDisplay:  FormatSalary(r.Salary),
		Description:    r.Description,
		ApplyURL:       orDefault(r.ApplyURL, domain.DefaultApplyURL),
		PostedDisplay:  FormatPostedDate(r.Posted, now),
		EmploymentType: orDefault(r.EmploymentType, domain.DefaultEmploymentType),
		Category:       orDefault(r.Category, domain.DefaultCategory),
		Source:         source,
		RawPostedAt:    r.Posted.Raw(),
		RawMinSalary:   minV,
		RawMaxSalary:   maxV,
	}

	if strings.TrimSpace(job.Description) == "" {
		job.Description = domain.DefaultDescription
	}
	if ts, ok := r.Posted.Time(); ok {
		job.PostedAt = ts
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	return job
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

// MatchesSalary reports whether a job satisfies optional salary bounds.
// Jobs without any salary information are kept.
func MatchesSalary(j domain.Job, minSalary, maxSalary *float64) bool {
	low, high := j.RawMinSalary, j.RawMaxSalary
	if low == nil {
		low = high
	}
	if high == nil {
		high = low
	}
	if low == nil {
		return true
	}

	if minSalary != nil && *minSalary > 0 && *high < *minSalary {
		return false
	}
	if maxSalary != nil && *maxSalary > 0 && *low > *maxSalary {
		return false
	}
	return true
}
