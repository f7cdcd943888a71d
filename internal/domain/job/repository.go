package job

import (
	"context"

	"github.com/honeycarbs/jobscout/internal/domain"
)

// Archive keeps a copy of jobs returned by live providers
type Archive interface {
	// UpsertJobs creates or updates jobs based on Source + ID
	UpsertJobs(ctx context.Context, jobs []domain.Job) error

	// FindByIDs loads archived jobs for the given IDs
	FindByIDs(ctx context.Context, ids []string) ([]domain.Job, error)
}
