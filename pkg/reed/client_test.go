package reed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/honeycarbs/jobscout/pkg/apierr"
)

func TestSearchJobsBuildsRequest(t *testing.T) {
	var (
		gotPath  string
		gotQuery url.Values
		gotUser  string
		gotPass  string
		gotAuth  bool
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotUser, gotPass, gotAuth = r.BasicAuth()
		_, _ = w.Write([]byte(`{"totalResults": 812, "results": [{"jobId": 5501, "employerName": "Tesco", "jobTitle": "Store Manager", "locationName": "Leeds", "minimumSalary": 30000, "maximumSalary": 35000, "currency": "GBP", "date": "14/03/2025", "jobDescription": "Run the store", "jobUrl": "https://www.reed.co.uk/jobs/5501"}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "reed-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.SearchJobs(context.Background(), SearchParams{
		Keywords:      "manager",
		LocationName:  "Leeds",
		MinimumSalary: 25000,
		ResultsToTake: 20,
		ResultsToSkip: 40,
		PartTime:      true,
	})
	if err != nil {
		t.Fatalf("SearchJobs: %v", err)
	}

	if gotPath != "/api/1.0/search" {
		t.Errorf("path = %q", gotPath)
	}
	if !gotAuth || gotUser != "reed-key" || gotPass != "" {
		t.Errorf("basic auth = %q/%q (%v)", gotUser, gotPass, gotAuth)
	}
	want := map[string]string{
		"keywords":      "manager",
		"locationName":  "Leeds",
		"minimumSalary": "25000",
		"resultsToTake": "20",
		"resultsToSkip": "40",
		"partTime":      "true",
	}
	for k, v := range want {
		if got := gotQuery.Get(k); got != v {
			t.Errorf("query %s = %q, want %q", k, got, v)
		}
	}
	if gotQuery.Has("fullTime") || gotQuery.Has("maximumSalary") {
		t.Errorf("unexpected query params: %v", gotQuery)
	}

	if resp.TotalResults != 812 || len(resp.Results) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Results[0].JobID != 5501 || resp.Results[0].Date != "14/03/2025" {
		t.Errorf("unexpected posting: %+v", resp.Results[0])
	}
}

func TestSearchJobsCapsResultsToTake(t *testing.T) {
	var take string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		take = r.URL.Query().Get("resultsToTake")
		_, _ = w.Write([]byte(`{"totalResults": 0, "results": []}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.SearchJobs(context.Background(), SearchParams{ResultsToTake: 500}); err != nil {
		t.Fatalf("SearchJobs: %v", err)
	}
	if take != "100" {
		t.Errorf("resultsToTake = %q, want 100", take)
	}
}

func TestSearchJobsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "bad", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.SearchJobs(context.Background(), SearchParams{}); !errors.Is(err, apierr.ErrAuth) {
		t.Fatalf("err = %v, want ErrAuth", err)
	}
}

func TestSearchJobsMissingResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalResults": 3}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.SearchJobs(context.Background(), SearchParams{}); !errors.Is(err, apierr.ErrProvider) {
		t.Fatalf("err = %v, want ErrProvider", err)
	}
}
