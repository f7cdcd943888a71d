package job

import (
	"errors"
	"testing"

	"github.com/honeycarbs/jobscout/internal/domain"
)

func TestWithDefaults(t *testing.T) {
	req := WithDefaults(domain.SearchRequest{Keywords: "go"})
	if req.Page != DefaultPage || req.PageSize != DefaultPageSize || req.SortKey != domain.SortRelevance {
		t.Fatalf("defaults not applied: %+v", req)
	}

	req = WithDefaults(domain.SearchRequest{Page: 3, PageSize: 5, SortKey: domain.SortDate})
	if req.Page != 3 || req.PageSize != 5 || req.SortKey != domain.SortDate {
		t.Fatalf("explicit values overwritten: %+v", req)
	}
}

func TestValidateRequest(t *testing.T) {
	valid := WithDefaults(domain.SearchRequest{})

	cases := []struct {
		name    string
		mutate  func(*domain.SearchRequest)
		wantErr bool
	}{
		{"defaults", func(*domain.SearchRequest) {}, false},
		{"negative page", func(r *domain.SearchRequest) { r.Page = -1 }, true},
		{"page size too large", func(r *domain.SearchRequest) { r.PageSize = 101 }, true},
		{"negative salary", func(r *domain.SearchRequest) { r.MinSalary = fptr(-5) }, true},
		{"max below min", func(r *domain.SearchRequest) { r.MinSalary, r.MaxSalary = fptr(100), fptr(50) }, true},
		{"max equals min", func(r *domain.SearchRequest) { r.MinSalary, r.MaxSalary = fptr(100), fptr(100) }, false},
		{"unknown employment", func(r *domain.SearchRequest) { r.EmploymentType = "gig" }, true},
		{"known employment", func(r *domain.SearchRequest) { r.EmploymentType = domain.EmploymentInternship }, false},
		{"unknown sort", func(r *domain.SearchRequest) { r.SortKey = "random" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			err := ValidateRequest(req)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidRequest) {
					t.Fatalf("expected ErrInvalidRequest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateProviderConfig(t *testing.T) {
	cases := []struct {
		name    string
		cfg     domain.ProviderConfig
		wantErr bool
	}{
		{"adzuna complete", domain.ProviderConfig{Name: "adzuna", AppID: "id", APIKey: "key"}, false},
		{"adzuna missing app id", domain.ProviderConfig{Name: "adzuna", APIKey: "key"}, true},
		{"jsearch key only", domain.ProviderConfig{Name: "jsearch", APIKey: "key"}, false},
		{"reed missing key", domain.ProviderConfig{Name: "reed"}, true},
		{"unknown provider", domain.ProviderConfig{Name: "indeed", APIKey: "key"}, true},
		{"bad base url", domain.ProviderConfig{Name: "reed", APIKey: "key", BaseURL: "::nope"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateProviderConfig(tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateProviderConfig() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
