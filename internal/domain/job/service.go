package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/failsafe-go/failsafe-go/fallback"
	"github.com/failsafe-go/failsafe-go/timeout"

	"github.com/honeycarbs/jobscout/internal/domain"
	"github.com/honeycarbs/jobscout/pkg/apierr"
	"github.com/honeycarbs/jobscout/pkg/logging"
)

const (
	defaultTimeout        = 15 * time.Second
	defaultArchiveTimeout = 5 * time.Second
)

// Recorder receives search metrics
type Recorder interface {
	ProviderCall(provider, outcome string)
	Fallback(reason string)
	SearchDuration(source string, d time.Duration)
}

// Option configures Service
type Option func(*config)

type config struct {
	providers []Provider
	configs   []domain.ProviderConfig
	fallback  Provider
	archive   Archive
	recorder  Recorder
	logger    *logging.Logger
	clock     func() time.Time
	timeout   time.Duration
	archiveTO time.Duration
	breaker   bool
}

// WithProviders registers the adapters that may become active
func WithProviders(providers ...Provider) Option {
	return func(c *config) {
		c.providers = append(c.providers, providers...)
	}
}

// WithProviderConfigs sets the ordered provider configuration used for selection
func WithProviderConfigs(configs []domain.ProviderConfig) Option {
	return func(c *config) {
		c.configs = configs
	}
}

// WithFallback sets the demo data source used in demo mode and on provider failure
func WithFallback(p Provider) Option {
	return func(c *config) {
		c.fallback = p
	}
}

// WithArchive stores successful live results
func WithArchive(a Archive) Option {
	return func(c *config) {
		c.archive = a
	}
}

// WithArchiveTimeout bounds each archive write made after a live search
func WithArchiveTimeout(d time.Duration) Option {
	return func(c *config) {
		c.archiveTO = d
	}
}

// WithRecorder sets the metrics sink
func WithRecorder(r Recorder) Option {
	return func(c *config) {
		c.recorder = r
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithTimeout bounds each provider call
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithCircuitBreaker short-circuits to demo data after repeated provider failures
func WithCircuitBreaker(enabled bool) Option {
	return func(c *config) {
		c.breaker = enabled
	}
}

// EventKind names a state transition
type EventKind string

const (
	EventSearchCompleted EventKind = "search_completed"
	EventSearchFallback  EventKind = "search_fallback"
	EventViewChanged     EventKind = "view_changed"
)

// Event is published to subscribers at defined transition points
type Event struct {
	Kind     EventKind
	Seq      uint64
	Provider string // provider that was dispatched, empty in demo mode
	Source   string // provider that produced the jobs
	Err      error  // provider failure for EventSearchFallback
	Count    int
	SortKey  domain.SortKey
	Page     int
}

// Snapshot is the orchestrator's current state
type Snapshot struct {
	Request domain.SearchRequest
	Result  domain.SearchResult
	SortKey domain.SortKey
	Ready   bool
}

// ViewPage is one display page of the current collection
type ViewPage struct {
	Jobs       []domain.Job   `json:"jobs"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
	TotalCount int            `json:"total_count"`
	IsEstimate bool           `json:"is_estimate"`
	SortKey    domain.SortKey `json:"sort_key"`
	Source     string         `json:"source"`
}

type state struct {
	request  domain.SearchRequest
	result   domain.SearchResult
	original []domain.Job // provider order, used to restore relevance
	sortKey  domain.SortKey
	ready    bool
}

// Service selects the active provider, runs searches with demo fallback and
// owns the current canonical collection
type Service struct {
	providers map[string]Provider
	fallback  Provider
	archive   Archive
	recorder  Recorder
	logger    *logging.Logger
	clock     func() time.Time
	timeout   time.Duration
	archiveTO time.Duration
	breaker   bool

	seq atomic.Uint64

	mu       sync.RWMutex
	active   string
	breakers map[string]circuitbreaker.CircuitBreaker[domain.ProviderPage]
	current  state

	subMu     sync.Mutex
	subs      map[int]func(Event)
	nextSubID int
}

// NewService builds Service from options
func NewService(opts ...Option) (*Service, error) {
	cfg := &config{
		clock:     time.Now,
		timeout:   defaultTimeout,
		archiveTO: defaultArchiveTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.fallback == nil {
		return nil, fmt.Errorf("job.Service: fallback provider is required")
	}
	if cfg.timeout <= 0 {
		cfg.timeout = defaultTimeout
	}
	if cfg.archiveTO <= 0 {
		cfg.archiveTO = defaultArchiveTimeout
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}
	if cfg.recorder == nil {
		cfg.recorder = nopRecorder{}
	}

	providers := make(map[string]Provider, len(cfg.providers))
	for _, p := range cfg.providers {
		if p == nil {
			continue
		}
		if _, dup := providers[p.Name()]; dup {
			return nil, fmt.Errorf("job.Service: provider %q registered twice", p.Name())
		}
		providers[p.Name()] = p
	}

	s := &Service{
		providers: providers,
		fallback:  cfg.fallback,
		archive:   cfg.archive,
		recorder:  cfg.recorder,
		logger:    cfg.logger.Named("search"),
		clock:     cfg.clock,
		timeout:   cfg.timeout,
		archiveTO: cfg.archiveTO,
		breaker:   cfg.breaker,
		subs:      make(map[int]func(Event)),
	}
	s.Reconfigure(cfg.configs)

	return s, nil
}

// Reconfigure re-runs provider selection. Searches already dispatched keep
// the provider they started with.
func (s *Service) Reconfigure(configs []domain.ProviderConfig) {
	active := SelectActive(configs)
	if active != NoActiveProvider {
		if _, ok := s.providers[active]; !ok {
			s.logger.Warn("selected provider has no adapter, running in demo mode", "provider", active)
			active = NoActiveProvider
		}
	}

	breakers := make(map[string]circuitbreaker.CircuitBreaker[domain.ProviderPage])
	if s.breaker && active != NoActiveProvider {
		breakers[active] = circuitbreaker.NewBuilder[domain.ProviderPage]().
			WithFailureThresholdRatio(5, 10).
			WithDelay(30 * time.Second).
			WithSuccessThreshold(1).
			Build()
	}

	s.mu.Lock()
	s.active = active
	s.breakers = breakers
	s.mu.Unlock()

	if active == NoActiveProvider {
		s.logger.Info("no active provider, demo mode")
	} else {
		s.logger.Info("active provider selected", "provider", active)
	}
}

// ActiveProvider returns the active provider name or NoActiveProvider
func (s *Service) ActiveProvider() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// ExecuteSearch runs one search. Provider failures never surface as errors:
// they degrade to demo data. The only error is ErrInvalidRequest.
func (s *Service) ExecuteSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchResult, error) {
	req = WithDefaults(req)
	if err := ValidateRequest(req); err != nil {
		return domain.SearchResult{}, err
	}

	seq := s.seq.Add(1)
	started := s.clock()

	s.mu.RLock()
	name := s.active
	provider := s.providers[name]
	cb := s.breakers[name]
	s.mu.RUnlock()

	var (
		page        domain.ProviderPage
		source      string
		providerErr error
	)

	if provider == nil {
		page = s.searchFallback(ctx, req)
		source = s.fallback.Name()
	} else {
		page, providerErr = s.searchProvider(ctx, provider, cb, req)
		source = provider.Name()
		if providerErr != nil {
			source = s.fallback.Name()
		}
	}

	jobs := page.Jobs
	if jobs == nil {
		jobs = []domain.Job{}
	}

	result := domain.SearchResult{
		Jobs:       Sort(jobs, req.SortKey),
		TotalCount: page.TotalCount,
		IsEstimate: page.IsEstimate,
		Source:     source,
		Fallback:   providerErr != nil,
		Seq:        seq,
	}
	if providerErr != nil {
		result.FallbackReason = apierr.Label(providerErr)
		s.recorder.Fallback(result.FallbackReason)
		s.logger.Warn("provider failed, serving demo data",
			"provider", name,
			"seq", seq,
			"kind", result.FallbackReason,
			"err", providerErr,
		)
		s.notify(Event{Kind: EventSearchFallback, Seq: seq, Provider: name, Source: source, Err: providerErr})
	}

	if provider != nil && providerErr == nil && s.archive != nil && len(jobs) > 0 {
		s.archiveJobs(ctx, name, jobs)
	}

	s.recorder.SearchDuration(source, s.clock().Sub(started))

	stored := false
	s.mu.Lock()
	if seq == s.seq.Load() {
		s.current = state{
			request:  req,
			result:   result,
			original: jobs,
			sortKey:  req.SortKey,
			ready:    true,
		}
		stored = true
	} else {
		result.Stale = true
	}
	s.mu.Unlock()

	if stored {
		s.logger.Info("search completed",
			"seq", seq,
			"source", source,
			"jobs", len(result.Jobs),
			"total", result.TotalCount,
			"estimate", result.IsEstimate,
		)
		s.notify(Event{Kind: EventSearchCompleted, Seq: seq, Provider: name, Source: source, Count: len(result.Jobs), SortKey: req.SortKey})
	} else {
		s.logger.Debug("discarding stale search result", "seq", seq, "source", source)
	}

	return result, nil
}

// archiveJobs writes jobs under its own deadline so a slow archive cannot
// hold a search past archiveTO
func (s *Service) archiveJobs(ctx context.Context, provider string, jobs []domain.Job) {
	actx, cancel := context.WithTimeout(ctx, s.archiveTO)
	defer cancel()

	if err := s.archive.UpsertJobs(actx, jobs); err != nil {
		s.logger.Warn("failed to archive jobs", "provider", provider, "count", len(jobs), "err", err)
	}
}

func (s *Service) searchProvider(
	ctx context.Context,
	p Provider,
	cb circuitbreaker.CircuitBreaker[domain.ProviderPage],
	req domain.SearchRequest,
) (domain.ProviderPage, error) {
	var providerErr error

	fb := fallback.NewWithFunc[domain.ProviderPage](func(exec failsafe.Execution[domain.ProviderPage]) (domain.ProviderPage, error) {
		providerErr = classify(p.Name(), exec.LastError())
		return s.searchFallback(ctx, req), nil
	})
	to := timeout.New[domain.ProviderPage](s.timeout)

	var executor failsafe.Executor[domain.ProviderPage]
	if cb != nil {
		executor = failsafe.With[domain.ProviderPage](fb, cb, to)
	} else {
		executor = failsafe.With[domain.ProviderPage](fb, to)
	}

	page, err := executor.WithContext(ctx).GetWithExecution(func(exec failsafe.Execution[domain.ProviderPage]) (domain.ProviderPage, error) {
		return p.Search(exec.Context(), req)
	})
	if err != nil {
		// the fallback itself never fails; keep the contract if it ever does
		providerErr = classify(p.Name(), err)
		page = domain.ProviderPage{Jobs: []domain.Job{}}
	}

	if providerErr != nil {
		s.recorder.ProviderCall(p.Name(), apierr.Label(providerErr))
	} else {
		s.recorder.ProviderCall(p.Name(), "success")
	}

	return page, providerErr
}

func (s *Service) searchFallback(ctx context.Context, req domain.SearchRequest) domain.ProviderPage {
	page, err := s.fallback.Search(ctx, req)
	if err != nil {
		s.logger.Error("fallback provider failed", "provider", s.fallback.Name(), "err", err)
		return domain.ProviderPage{Jobs: []domain.Job{}}
	}
	return page
}

// classify makes sure every provider failure carries an apierr kind
func classify(provider string, err error) error {
	switch {
	case err == nil:
		return nil
	case apierr.KindOf(err) != nil:
		return err
	case errors.Is(err, timeout.ErrExceeded), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apierr.Wrap(provider, apierr.ErrNetwork, err)
	default:
		return apierr.Wrap(provider, apierr.ErrProvider, err)
	}
}

// Current returns the stored state of the most recent search
func (s *Service) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Request: s.current.request,
		Result:  s.current.result,
		SortKey: s.current.sortKey,
		Ready:   s.current.ready,
	}
}

// Resort reorders the current collection and notifies subscribers
func (s *Service) Resort(key domain.SortKey) ([]domain.Job, error) {
	switch key {
	case domain.SortRelevance, domain.SortDate, domain.SortSalary, domain.SortCompany:
	default:
		return nil, fmt.Errorf("unknown sort key %q", key)
	}

	s.mu.Lock()
	s.current.sortKey = key
	s.current.result.Jobs = Sort(s.current.original, key)
	jobs := s.current.result.Jobs
	seq := s.current.result.Seq
	s.mu.Unlock()

	s.notify(Event{Kind: EventViewChanged, Seq: seq, SortKey: key, Count: len(jobs)})
	return jobs, nil
}

// View paginates the current collection and notifies subscribers
func (s *Service) View(page, pageSize int) ViewPage {
	s.mu.RLock()
	cur := s.current
	s.mu.RUnlock()

	view := ViewPage{
		Jobs:       Paginate(cur.result.Jobs, page, pageSize),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(len(cur.result.Jobs), pageSize),
		TotalCount: cur.result.TotalCount,
		IsEstimate: cur.result.IsEstimate,
		SortKey:    cur.sortKey,
		Source:     cur.result.Source,
	}

	s.notify(Event{Kind: EventViewChanged, Seq: cur.result.Seq, SortKey: cur.sortKey, Page: page, Count: len(view.Jobs)})
	return view
}

// FindJob looks up a job by ID in the current collection
func (s *Service) FindJob(id string) (domain.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.current.original {
		if j.ID == id {
			return j, true
		}
	}
	return domain.Job{}, false
}

// Archive returns the configured archive, nil when none is set
func (s *Service) Archive() Archive {
	return s.archive
}

// Subscribe registers fn for state change events and returns an unsubscribe func
func (s *Service) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Service) notify(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

type nopRecorder struct{}

func (nopRecorder) ProviderCall(string, string)          {}
func (nopRecorder) Fallback(string)                      {}
func (nopRecorder) SearchDuration(string, time.Duration) {}
