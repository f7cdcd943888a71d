package tools

import (
	"context"
	"errors"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobscout/internal/domain"
	"github.com/honeycarbs/jobscout/internal/domain/job"
	"github.com/honeycarbs/jobscout/pkg/logging"
)

// JobService is the search orchestrator surface the tools need
type JobService interface {
	ExecuteSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchResult, error)
	Resort(key domain.SortKey) ([]domain.Job, error)
	View(page, pageSize int) job.ViewPage
	FindJob(id string) (domain.Job, bool)
	Archive() job.Archive
}

// JobSearchParams defines the arguments for the job_search tool
type JobSearchParams struct {
	Keywords       string   `json:"keywords,omitempty" jsonschema:"Free text keywords, empty searches everything"`
	Location       string   `json:"location,omitempty" jsonschema:"City, region or Remote"`
	MinSalary      *float64 `json:"min_salary,omitempty" jsonschema:"Lower salary bound"`
	MaxSalary      *float64 `json:"max_salary,omitempty" jsonschema:"Upper salary bound"`
	EmploymentType string   `json:"employment_type,omitempty" jsonschema:"One of full_time, part_time, contract, internship, temporary, remote"`
	Page           int      `json:"page,omitempty" jsonschema:"Provider page, starting at 1"`
	PageSize       int      `json:"page_size,omitempty" jsonschema:"Results per provider page, at most 100"`
	SortKey        string   `json:"sort_key,omitempty" jsonschema:"relevance, date, salary or company"`
}

// JobsViewParams defines the arguments for the jobs_view tool
type JobsViewParams struct {
	SortKey  string `json:"sort_key,omitempty" jsonschema:"Re-sort the current results before paging"`
	Page     int    `json:"page,omitempty" jsonschema:"Display page, starting at 1"`
	PageSize int    `json:"page_size,omitempty" jsonschema:"Jobs per display page"`
}

// JobDetailsParams defines the arguments for the job_details tool
type JobDetailsParams struct {
	JobID string `json:"job_id" jsonschema:"Job identifier from a previous search"`
}

// JobDetailsResult is a job plus the user's tracking state for it
type JobDetailsResult struct {
	Job      domain.Job `json:"job"`
	Favorite bool       `json:"favorite"`
	Applied  bool       `json:"applied"`
}

type searchTools struct {
	jobs    JobService
	tracker Tracker
	logger  *logging.Logger
}

// WithJobSearch registers job_search, jobs_view and job_details. tracker may
// be nil, in which case favorites are not consulted for job_details.
func WithJobSearch(jobs JobService, tracker Tracker) Option {
	return func(reg *registry) {
		if jobs == nil {
			return
		}
		t := searchTools{jobs: jobs, tracker: tracker, logger: reg.logger}

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_search",
			Description: "Search the active job provider. Falls back to demo listings when no provider is configured or the provider fails.",
		}, t.search)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "jobs_view",
			Description: "Re-sort and page through the results of the most recent search",
		}, t.view)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_details",
			Description: "Return the full record for a job from the current results, the archive or favorites",
		}, t.details)
	}
}

func (t searchTools) search(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobSearchParams) (*sdkmcp.CallToolResult, any, error) {
	req := domain.SearchRequest{
		Keywords:       strings.TrimSpace(params.Keywords),
		Location:       strings.TrimSpace(params.Location),
		MinSalary:      params.MinSalary,
		MaxSalary:      params.MaxSalary,
		EmploymentType: domain.EmploymentType(params.EmploymentType),
		Page:           params.Page,
		PageSize:       params.PageSize,
		SortKey:        domain.SortKey(params.SortKey),
	}

	result, err := t.jobs.ExecuteSearch(ctx, req)
	if err != nil {
		if errors.Is(err, job.ErrInvalidRequest) {
			return errorResult("%v", err), nil, nil
		}
		return nil, nil, err
	}

	t.logger.Debug("job_search served", "source", result.Source, "jobs", len(result.Jobs), "fallback", result.Fallback)

	res, err := jsonResult(result)
	return res, result, err
}

func (t searchTools) view(_ context.Context, _ *sdkmcp.CallToolRequest, params JobsViewParams) (*sdkmcp.CallToolResult, any, error) {
	if params.SortKey != "" {
		if _, err := t.jobs.Resort(domain.SortKey(params.SortKey)); err != nil {
			return errorResult("%v", err), nil, nil
		}
	}

	page := params.Page
	if page < 1 {
		page = job.DefaultPage
	}
	size := params.PageSize
	if size < 1 {
		size = job.DefaultPageSize
	}

	view := t.jobs.View(page, size)
	res, err := jsonResult(view)
	return res, view, err
}

func (t searchTools) details(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobDetailsParams) (*sdkmcp.CallToolResult, any, error) {
	if strings.TrimSpace(params.JobID) == "" {
		return errorResult("job_id is required"), nil, nil
	}

	found, ok := lookupJob(ctx, t.jobs, t.tracker, t.logger, params.JobID)
	if !ok {
		return errorResult("job %q not found", params.JobID), nil, nil
	}

	result := JobDetailsResult{Job: found}
	if t.tracker != nil {
		result.Favorite = t.tracker.IsFavorite(found.ID)
		result.Applied = t.tracker.HasApplied(found.ID)
	}

	res, err := jsonResult(result)
	return res, result, err
}

// lookupJob resolves id from the current results, then the archive, then favorites
func lookupJob(ctx context.Context, jobs JobService, tracker Tracker, logger *logging.Logger, id string) (domain.Job, bool) {
	id = strings.TrimSpace(id)

	if jobs != nil {
		if j, ok := jobs.FindJob(id); ok {
			return j, true
		}
		if archive := jobs.Archive(); archive != nil {
			found, err := archive.FindByIDs(ctx, []string{id})
			if err != nil {
				logger.Warn("archive lookup failed", "job_id", id, "err", err)
			}
			for _, j := range found {
				if j.ID == id {
					return j, true
				}
			}
		}
	}

	if tracker != nil {
		for _, j := range tracker.Favorites() {
			if j.ID == id {
				return j, true
			}
		}
	}

	return domain.Job{}, false
}
