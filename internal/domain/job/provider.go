package job

import (
	"context"

	"github.com/honeycarbs/jobscout/internal/domain"
)

// Provider represents an external job data source (Adzuna, JSearch, Reed, demo data)
type Provider interface {
	// e.g. "adzuna" or "reed"
	Name() string

	// Search returns one page of normalized jobs for the request
	Search(ctx context.Context, req domain.SearchRequest) (domain.ProviderPage, error)
}
