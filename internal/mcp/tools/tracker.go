package tools

import (
	"context"
	"errors"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/jobscout/internal/domain"
	"github.com/honeycarbs/jobscout/internal/domain/tracker"
	"github.com/honeycarbs/jobscout/pkg/logging"
)

// Tracker keeps favorites, the résumé and applications
type Tracker interface {
	Favorites() []domain.Job
	IsFavorite(jobID string) bool
	ToggleFavorite(ctx context.Context, job domain.Job) (bool, error)
	Applications() []tracker.Application
	HasApplied(jobID string) bool
	Apply(ctx context.Context, job domain.Job) (tracker.Application, error)
	SetResume(ctx context.Context, r tracker.Resume) (tracker.Resume, error)
	RemoveResume(ctx context.Context) error
	ExportApplications(ctx context.Context, exp tracker.Exporter, spreadsheetID, tab string) (int, error)
}

// JobRefParams identifies a job by ID
type JobRefParams struct {
	JobID string `json:"job_id" jsonschema:"Job identifier from a previous search"`
}

// EmptyParams is used by tools without arguments
type EmptyParams struct{}

// ResumeSetParams defines the arguments for the resume_set tool
type ResumeSetParams struct {
	Name string `json:"name" jsonschema:"File name of the résumé"`
	Size int64  `json:"size" jsonschema:"File size in bytes, at most 5 MiB"`
	Type string `json:"type" jsonschema:"MIME type: PDF, DOC or DOCX"`
}

// ApplicationsExportParams defines the arguments for the applications_export tool
type ApplicationsExportParams struct {
	SpreadsheetID string `json:"spreadsheet_id,omitempty" jsonschema:"Google Sheets document ID, defaults to the configured sheet"`
	Tab           string `json:"tab,omitempty" jsonschema:"Tab name, defaults to the configured tab"`
}

// FavoriteToggleResult reports the favorite state after a toggle
type FavoriteToggleResult struct {
	JobID    string `json:"job_id"`
	Favorite bool   `json:"favorite"`
	Count    int    `json:"count"`
}

// FavoritesResult lists saved jobs
type FavoritesResult struct {
	Jobs  []domain.Job `json:"jobs"`
	Count int          `json:"count"`
}

// ApplicationsResult lists applications
type ApplicationsResult struct {
	Applications []tracker.Application `json:"applications"`
	Count        int                   `json:"count"`
}

// ApplicationsExportResult summarizes a sheet export
type ApplicationsExportResult struct {
	SpreadsheetID string    `json:"spreadsheet_id"`
	Tab           string    `json:"tab"`
	WrittenRows   int       `json:"written_rows"`
	CompletedAt   time.Time `json:"completed_at"`
}

// SheetDefaults are used when applications_export omits the destination
type SheetDefaults struct {
	SpreadsheetID string
	Tab           string
}

type trackerTools struct {
	tracker Tracker
	jobs    JobService
	logger  *logging.Logger
}

// WithTracker registers the favorites, résumé and application tools. jobs
// resolves job IDs and may be nil, limiting lookups to favorites.
func WithTracker(t Tracker, jobs JobService) Option {
	return func(reg *registry) {
		if t == nil {
			return
		}
		tt := trackerTools{tracker: t, jobs: jobs, logger: reg.logger}

		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "favorite_toggle",
			Description: "Add a job to favorites, or remove it when it is already saved",
		}, tt.toggleFavorite)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "favorites_list",
			Description: "List saved jobs",
		}, tt.listFavorites)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "resume_set",
			Description: "Record the résumé used for applications. Accepts PDF, DOC or DOCX up to 5 MiB.",
		}, tt.setResume)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "resume_remove",
			Description: "Forget the stored résumé",
		}, tt.removeResume)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_apply",
			Description: "Apply to a job with the stored résumé. Each job can be applied to once.",
		}, tt.apply)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "applications_list",
			Description: "List submitted applications",
		}, tt.listApplications)
	}
}

// WithApplicationsExport registers applications_export. It is skipped when
// no exporter is configured.
func WithApplicationsExport(t Tracker, exp tracker.Exporter, defaults SheetDefaults) Option {
	return func(reg *registry) {
		if t == nil || exp == nil {
			return
		}
		handler := exportTool{tracker: t, exporter: exp, defaults: defaults, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "applications_export",
			Description: "Write all applications to a Google Sheets tab, replacing its contents",
		}, handler.handle)
	}
}

func (t trackerTools) toggleFavorite(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobRefParams) (*sdkmcp.CallToolResult, any, error) {
	if strings.TrimSpace(params.JobID) == "" {
		return errorResult("job_id is required"), nil, nil
	}

	j, ok := lookupJob(ctx, t.jobs, t.tracker, t.logger, params.JobID)
	if !ok {
		return errorResult("job %q not found", params.JobID), nil, nil
	}

	added, err := t.tracker.ToggleFavorite(ctx, j)
	if err != nil {
		return nil, nil, err
	}

	result := FavoriteToggleResult{JobID: j.ID, Favorite: added, Count: len(t.tracker.Favorites())}
	res, err := jsonResult(result)
	return res, result, err
}

func (t trackerTools) listFavorites(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
	favs := t.tracker.Favorites()
	result := FavoritesResult{Jobs: favs, Count: len(favs)}
	res, err := jsonResult(result)
	return res, result, err
}

func (t trackerTools) setResume(ctx context.Context, _ *sdkmcp.CallToolRequest, params ResumeSetParams) (*sdkmcp.CallToolResult, any, error) {
	saved, err := t.tracker.SetResume(ctx, tracker.Resume{
		Name: strings.TrimSpace(params.Name),
		Size: params.Size,
		Type: strings.TrimSpace(params.Type),
	})
	if err != nil {
		if errors.Is(err, tracker.ErrInvalidResume) {
			return errorResult("%v", err), nil, nil
		}
		return nil, nil, err
	}

	res, err := jsonResult(saved)
	return res, saved, err
}

func (t trackerTools) removeResume(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
	if err := t.tracker.RemoveResume(ctx); err != nil {
		return nil, nil, err
	}
	return textResult("resume removed"), nil, nil
}

func (t trackerTools) apply(ctx context.Context, _ *sdkmcp.CallToolRequest, params JobRefParams) (*sdkmcp.CallToolResult, any, error) {
	if strings.TrimSpace(params.JobID) == "" {
		return errorResult("job_id is required"), nil, nil
	}

	j, ok := lookupJob(ctx, t.jobs, t.tracker, t.logger, params.JobID)
	if !ok {
		return errorResult("job %q not found", params.JobID), nil, nil
	}

	app, err := t.tracker.Apply(ctx, j)
	switch {
	case errors.Is(err, tracker.ErrResumeRequired), errors.Is(err, tracker.ErrAlreadyApplied):
		return errorResult("%v", err), nil, nil
	case err != nil:
		return nil, nil, err
	}

	t.logger.Info("application submitted", "job_id", app.JobID, "application_id", app.ID)

	res, err := jsonResult(app)
	return res, app, err
}

func (t trackerTools) listApplications(_ context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
	apps := t.tracker.Applications()
	result := ApplicationsResult{Applications: apps, Count: len(apps)}
	res, err := jsonResult(result)
	return res, result, err
}

type exportTool struct {
	tracker  Tracker
	exporter tracker.Exporter
	defaults SheetDefaults
	logger   *logging.Logger
}

func (t exportTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params ApplicationsExportParams) (*sdkmcp.CallToolResult, any, error) {
	spreadsheetID := strings.TrimSpace(params.SpreadsheetID)
	if spreadsheetID == "" {
		spreadsheetID = t.defaults.SpreadsheetID
	}
	if spreadsheetID == "" {
		return errorResult("spreadsheet_id is required"), nil, nil
	}
	tab := strings.TrimSpace(params.Tab)
	if tab == "" {
		tab = t.defaults.Tab
	}

	written, err := t.tracker.ExportApplications(ctx, t.exporter, spreadsheetID, tab)
	if err != nil {
		t.logger.Warn("applications export failed", "spreadsheet_id", spreadsheetID, "err", err)
		return errorResult("export failed: %v", err), nil, nil
	}

	if tab == "" {
		tab = tracker.DefaultExportTab
	}
	result := ApplicationsExportResult{
		SpreadsheetID: spreadsheetID,
		Tab:           tab,
		WrittenRows:   written,
		CompletedAt:   time.Now().UTC(),
	}
	res, err := jsonResult(result)
	return res, result, err
}
