package adzuna

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/honeycarbs/jobscout/internal/domain"
	"github.com/honeycarbs/jobscout/pkg/adzuna"
	"github.com/honeycarbs/jobscout/pkg/apierr"
)

type fakeClient struct {
	country string
	resp    adzuna.SearchResponse
	err     error
	got     adzuna.SearchParams
}

func (f *fakeClient) SearchJobs(_ context.Context, params adzuna.SearchParams) (adzuna.SearchResponse, error) {
	f.got = params
	return f.resp, f.err
}

func (f *fakeClient) Country() string {
	return f.country
}

var now = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

func TestProviderSearchMapsPostings(t *testing.T) {
	client := &fakeClient{
		country: "gb",
		resp: adzuna.SearchResponse{
			Count: 5120,
			Results: []adzuna.Posting{
				{
					ID:           "3981",
					Title:        "Backend Engineer",
					Description:  "Build <strong>APIs</strong>",
					Created:      "2025-03-19T12:00:00Z",
					RedirectURL:  "https://adzuna.example/3981",
					ContractTime: "full_time",
					SalaryMin:    45000,
					SalaryMax:    60000,
				},
				{},
			},
		},
	}
	client.resp.Results[0].Company.DisplayName = "Monzo"
	client.resp.Results[0].Location.DisplayName = "London"
	client.resp.Results[0].Category.Label = "IT Jobs"

	p, err := NewProvider(client, func() time.Time { return now })
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	minSalary := 40000.0
	page, err := p.Search(context.Background(), domain.SearchRequest{
		Keywords:       "go",
		Location:       "London",
		MinSalary:      &minSalary,
		EmploymentType: domain.EmploymentPartTime,
		Page:           2,
		PageSize:       20,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if client.got.Page != 2 || client.got.ResultsPerPage != 20 || client.got.SalaryMin != 40000 || !client.got.PartTime {
		t.Errorf("unexpected params: %+v", client.got)
	}
	if page.TotalCount != 5120 || page.IsEstimate {
		t.Errorf("total = %d estimate = %v", page.TotalCount, page.IsEstimate)
	}
	if len(page.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(page.Jobs))
	}

	j := page.Jobs[0]
	if j.ID != "3981" || j.Company != "Monzo" || j.Location != "London" || j.Category != "IT Jobs" {
		t.Errorf("unexpected job: %+v", j)
	}
	if j.SalaryDisplay != "£45,000 - £60,000" {
		t.Errorf("SalaryDisplay = %q", j.SalaryDisplay)
	}
	if j.PostedDisplay != "Yesterday" {
		t.Errorf("PostedDisplay = %q", j.PostedDisplay)
	}
	if j.EmploymentType != "Full-time" || j.Source != domain.ProviderAdzuna {
		t.Errorf("EmploymentType = %q Source = %q", j.EmploymentType, j.Source)
	}
	if j.Description != "Build <strong>APIs</strong>" {
		t.Errorf("description should pass through, got %q", j.Description)
	}

	empty := page.Jobs[1]
	if empty.ID == "" || empty.Title != domain.DefaultTitle || empty.SalaryDisplay != domain.SalaryNotSpecified ||
		empty.PostedDisplay != domain.RecentlyPosted || empty.ApplyURL != domain.DefaultApplyURL {
		t.Errorf("defaults not applied: %+v", empty)
	}
}

func TestProviderSearchPropagatesErrors(t *testing.T) {
	client := &fakeClient{err: apierr.New("adzuna", apierr.ErrRateLimit, "slow down")}
	p, err := NewProvider(client, nil)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}

	_, err = p.Search(context.Background(), domain.SearchRequest{Page: 1, PageSize: 10})
	if !errors.Is(err, apierr.ErrRateLimit) {
		t.Fatalf("err = %v, want ErrRateLimit", err)
	}
}

func TestNewProviderRequiresClient(t *testing.T) {
	if _, err := NewProvider(nil, nil); err == nil {
		t.Fatal("expected error for nil client")
	}
}
