package jsearch

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestSearchJobsIntegration(t *testing.T) {
	apiKey := os.Getenv("JSEARCH_API_KEY")
	if apiKey == "" {
		t.Skip("JSEARCH_API_KEY must be set to run this test")
	}

	client, err := NewClient(Config{APIKey: apiKey, Host: os.Getenv("JSEARCH_HOST")})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resp, err := client.SearchJobs(ctx, SearchParams{Query: "golang developer in Portland", Page: 1, NumPages: 1})
	if err != nil {
		t.Fatalf("SearchJobs: %v", err)
	}

	for i, p := range resp.Data {
		if i >= 5 {
			break
		}
		t.Logf("Result %d: %s @ %s", i+1, p.JobTitle, p.EmployerName)
	}
	t.Logf("JSearch returned %d jobs", len(resp.Data))
}
