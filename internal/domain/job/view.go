package job

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/honeycarbs/jobscout/internal/domain"
)

// Sort returns a stably sorted copy of jobs. The input slice is not modified.
// Unknown keys behave like relevance.
func Sort(jobs []domain.Job, key domain.SortKey) []domain.Job {
	out := slices.Clone(jobs)

	switch key {
	case domain.SortDate:
		slices.SortStableFunc(out, func(a, b domain.Job) int {
			// newest first, zero times last
			return b.PostedAt.Compare(a.PostedAt)
		})
	case domain.SortSalary:
		slices.SortStableFunc(out, func(a, b domain.Job) int {
			sa, sb := salaryKey(a), salaryKey(b)
			switch {
			case sa > sb:
				return -1
			case sa < sb:
				return 1
			default:
				return 0
			}
		})
	case domain.SortCompany:
		c := collate.New(language.English, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b domain.Job) int {
			return c.CompareString(a.Company, b.Company)
		})
	}

	return out
}

func salaryKey(j domain.Job) float64 {
	if j.RawMaxSalary != nil {
		return *j.RawMaxSalary
	}
	if j.RawMinSalary != nil {
		return *j.RawMinSalary
	}
	return 0
}

// Paginate returns the 1-indexed page of jobs. Out of range pages are empty.
func Paginate(jobs []domain.Job, page, pageSize int) []domain.Job {
	if page < 1 || pageSize < 1 {
		return []domain.Job{}
	}

	start := (page - 1) * pageSize
	if start >= len(jobs) {
		return []domain.Job{}
	}
	end := min(start+pageSize, len(jobs))

	return slices.Clone(jobs[start:end])
}

// TotalPages is ceil(n/pageSize)
func TotalPages(n, pageSize int) int {
	if n <= 0 || pageSize < 1 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}
