package reed

import (
	"context"
	"testing"
	"time"

	"github.com/honeycarbs/jobscout/internal/domain"
	"github.com/honeycarbs/jobscout/pkg/reed"
)

type fakeClient struct {
	resp reed.SearchResponse
	got  reed.SearchParams
}

func (f *fakeClient) SearchJobs(_ context.Context, params reed.SearchParams) (reed.SearchResponse, error) {
	f.got = params
	return f.resp, nil
}

func TestProviderSearch(t *testing.T) {
	now := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	minSalary := 28000.0
	client := &fakeClient{resp: reed.SearchResponse{
		TotalResults: 431,
		Results: []reed.Posting{
			{
				JobID:          99,
				EmployerName:   "NHS",
				JobTitle:       "Nurse",
				LocationName:   "Bristol",
				MinimumSalary:  &minSalary,
				Date:           "06/03/2025",
				JobDescription: "Care",
				JobURL:         "https://www.reed.co.uk/jobs/99",
			},
			{JobTitle: "Bad date", Date: "2025-03-06"},
		},
	}}

	p, err := NewProvider(client, func() time.Time { return now })
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	page, err := p.Search(context.Background(), domain.SearchRequest{
		Keywords:       "nurse",
		Location:       "Bristol",
		EmploymentType: domain.EmploymentTemporary,
		Page:           3,
		PageSize:       20,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if client.got.ResultsToTake != 20 || client.got.ResultsToSkip != 40 || !client.got.Temp {
		t.Errorf("unexpected params: %+v", client.got)
	}
	if page.TotalCount != 431 || page.IsEstimate {
		t.Errorf("total = %d estimate = %v", page.TotalCount, page.IsEstimate)
	}

	j := page.Jobs[0]
	if j.ID != "99" || j.SalaryDisplay != "£28,000+" || j.EmploymentType != "Temporary" {
		t.Errorf("unexpected job: %+v", j)
	}
	if j.PostedDisplay != "2 weeks ago" {
		t.Errorf("PostedDisplay = %q", j.PostedDisplay)
	}
	if j.PostedAt.IsZero() || j.RawPostedAt != "06/03/2025" {
		t.Errorf("posted = %v raw = %q", j.PostedAt, j.RawPostedAt)
	}

	bad := page.Jobs[1]
	if bad.ID == "" || bad.PostedDisplay != domain.RecentlyPosted || !bad.PostedAt.IsZero() {
		t.Errorf("unexpected fallback job: %+v", bad)
	}
}
