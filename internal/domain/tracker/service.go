package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/honeycarbs/jobscout/internal/domain"
	"github.com/honeycarbs/jobscout/internal/storage/kv"
	"github.com/honeycarbs/jobscout/pkg/logging"
)

var (
	ErrResumeRequired = errors.New("upload a resume before applying")
	ErrAlreadyApplied = errors.New("already applied to this job")
	ErrInvalidResume  = errors.New("invalid resume")
	ErrUnknownJob     = errors.New("job id is required")
)

var validate = validator.New()

// Exporter writes rows to a spreadsheet. *sheets.Client satisfies it.
type Exporter interface {
	ClearValues(ctx context.Context, spreadsheetID, rng string) error
	UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]any) error
}

// Option configures Service
type Option func(*Service)

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// Service keeps favorites, applications and résumé metadata in a kv.Store.
// State is read once on Load and written back after every mutation.
type Service struct {
	store  kv.Store
	logger *logging.Logger
	clock  func() time.Time

	mu           sync.RWMutex
	favorites    []domain.Job
	applications []Application
	resume       *Resume
}

// NewService builds a tracker over store and loads the persisted state
func NewService(ctx context.Context, store kv.Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("tracker: store is required")
	}

	s := &Service{
		store:  store,
		logger: logging.NewNop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("tracker")

	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces in-memory state with what the store holds. Missing keys
// yield empty state; corrupt documents are logged and treated as empty.
func (s *Service) Load(ctx context.Context) error {
	var (
		favorites    []domain.Job
		applications []Application
		resume       *Resume
	)

	if err := s.read(ctx, KeyFavorites, &favorites); err != nil {
		return err
	}
	if err := s.read(ctx, KeyApplications, &applications); err != nil {
		return err
	}
	if err := s.read(ctx, KeyResume, &resume); err != nil {
		return err
	}

	s.mu.Lock()
	s.favorites = favorites
	s.applications = applications
	s.resume = resume
	s.mu.Unlock()

	s.logger.Debug("tracker state loaded",
		"favorites", len(favorites),
		"applications", len(applications),
		"resume", resume != nil,
	)
	return nil
}

func (s *Service) read(ctx context.Context, key string, v any) error {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("tracker: load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.Warn("discarding corrupt tracker document", "key", key, "err", err)
	}
	return nil
}

func (s *Service) write(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("tracker: encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("tracker: save %s: %w", key, err)
	}
	return nil
}

// Favorites returns the bookmarked jobs, oldest first
func (s *Service) Favorites() []domain.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nonNil(slices.Clone(s.favorites))
}

// IsFavorite reports whether the job ID is bookmarked
func (s *Service) IsFavorite(jobID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.favorites, func(j domain.Job) bool { return j.ID == jobID })
}

// ToggleFavorite bookmarks job or removes the existing bookmark. It reports
// whether the job is a favorite afterwards.
func (s *Service) ToggleFavorite(ctx context.Context, job domain.Job) (bool, error) {
	if job.ID == "" {
		return false, ErrUnknownJob
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Clone(s.favorites)
	idx := slices.IndexFunc(next, func(j domain.Job) bool { return j.ID == job.ID })
	added := idx < 0
	if added {
		next = append(next, job)
	} else {
		next = slices.Delete(next, idx, idx+1)
	}

	if err := s.write(ctx, KeyFavorites, nonNil(next)); err != nil {
		return !added, err
	}
	s.favorites = next

	s.logger.Info("favorite toggled", "job_id", job.ID, "added", added)
	return added, nil
}

// Applications returns recorded applications, oldest first
func (s *Service) Applications() []Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nonNil(slices.Clone(s.applications))
}

// HasApplied reports whether an application exists for the job ID
func (s *Service) HasApplied(jobID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasApplied(jobID)
}

func (s *Service) hasApplied(jobID string) bool {
	return slices.ContainsFunc(s.applications, func(a Application) bool { return a.JobID == jobID })
}

// Apply records an application to job using the current résumé
func (s *Service) Apply(ctx context.Context, job domain.Job) (Application, error) {
	if job.ID == "" {
		return Application{}, ErrUnknownJob
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resume == nil {
		return Application{}, ErrResumeRequired
	}
	if s.hasApplied(job.ID) {
		return Application{}, ErrAlreadyApplied
	}

	app := Application{
		ID:         uuid.NewString(),
		JobID:      job.ID,
		JobTitle:   job.Title,
		Company:    job.Company,
		AppliedAt:  s.clock().UTC(),
		Status:     StatusApplied,
		ResumeName: s.resume.Name,
	}

	next := append(slices.Clone(s.applications), app)
	if err := s.write(ctx, KeyApplications, next); err != nil {
		return Application{}, err
	}
	s.applications = next

	s.logger.Info("application recorded", "job_id", job.ID, "application_id", app.ID)
	return app, nil
}

// Resume returns the stored résumé metadata
func (s *Service) Resume() (Resume, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.resume == nil {
		return Resume{}, false
	}
	return *s.resume, true
}

// SetResume validates and stores résumé metadata, replacing any previous one
func (s *Service) SetResume(ctx context.Context, r Resume) (Resume, error) {
	if err := validate.Struct(r); err != nil {
		return Resume{}, fmt.Errorf("%w: %v", ErrInvalidResume, err)
	}
	r.UploadedAt = s.clock().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(ctx, KeyResume, r); err != nil {
		return Resume{}, err
	}
	s.resume = &r

	s.logger.Info("resume stored", "name", r.Name, "size", r.Size)
	return r, nil
}

// RemoveResume deletes the stored résumé. Removing a missing résumé is a no-op.
func (s *Service) RemoveResume(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, KeyResume); err != nil {
		return fmt.Errorf("tracker: delete %s: %w", KeyResume, err)
	}
	s.resume = nil
	return nil
}

var exportHeader = []any{"Application ID", "Job ID", "Title", "Company", "Applied At", "Status", "Resume"}

// ExportApplications replaces the contents of tab with a header row and one
// row per application. It returns the number of application rows written.
func (s *Service) ExportApplications(ctx context.Context, exp Exporter, spreadsheetID, tab string) (int, error) {
	if exp == nil {
		return 0, fmt.Errorf("tracker: exporter is not configured")
	}
	if spreadsheetID == "" {
		return 0, fmt.Errorf("tracker: spreadsheet id is required")
	}
	if tab == "" {
		tab = DefaultExportTab
	}

	apps := s.Applications()
	values := make([][]any, 0, len(apps)+1)
	values = append(values, exportHeader)
	for _, a := range apps {
		values = append(values, []any{
			a.ID,
			a.JobID,
			a.JobTitle,
			a.Company,
			a.AppliedAt.Format(time.RFC3339),
			a.Status,
			a.ResumeName,
		})
	}

	if err := exp.ClearValues(ctx, spreadsheetID, fmt.Sprintf("%s!A1:Z", tab)); err != nil {
		return 0, fmt.Errorf("tracker: clear sheet: %w", err)
	}
	if err := exp.UpdateValues(ctx, spreadsheetID, fmt.Sprintf("%s!A1", tab), values); err != nil {
		return 0, fmt.Errorf("tracker: write sheet: %w", err)
	}

	s.logger.Info("applications exported", "spreadsheet_id", spreadsheetID, "tab", tab, "rows", len(apps))
	return len(apps), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
