package job_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/honeycarbs/jobscout/internal/domain"
	"github.com/honeycarbs/jobscout/internal/domain/job"
	"github.com/honeycarbs/jobscout/internal/domain/job/providers/demo"
	"github.com/honeycarbs/jobscout/pkg/apierr"
)

var fixedNow = time.Date(2025, 9, 16, 0, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func ptr(v float64) *float64 { return &v }

type fakeProvider struct {
	name string
	err  error
	jobs []domain.Job

	started chan string   // receives the keywords of every call when set
	release chan struct{} // calls for "slow" block until closed
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(ctx context.Context, req domain.SearchRequest) (domain.ProviderPage, error) {
	if f.started != nil {
		f.started <- req.Keywords
	}
	if req.Keywords == "slow" && f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return domain.ProviderPage{}, ctx.Err()
		}
	}
	if req.Keywords == "hang" {
		<-ctx.Done()
		return domain.ProviderPage{}, ctx.Err()
	}
	if f.err != nil {
		return domain.ProviderPage{}, f.err
	}

	jobs := f.jobs
	if jobs == nil {
		jobs = []domain.Job{{ID: req.Keywords + "-1", Title: req.Keywords, Company: "Live", Source: f.name}}
	}
	return domain.ProviderPage{Jobs: jobs, TotalCount: 100}, nil
}

type eventLog struct {
	mu     sync.Mutex
	events []job.Event
}

func (l *eventLog) add(ev job.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) kinds() []job.EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]job.EventKind, len(l.events))
	for i, ev := range l.events {
		out[i] = ev.Kind
	}
	return out
}

func (l *eventLog) find(kind job.EventKind) (job.Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ev := range l.events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return job.Event{}, false
}

type fakeRecorder struct {
	mu        sync.Mutex
	calls     map[string]int
	fallbacks map[string]int
	durations int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{calls: map[string]int{}, fallbacks: map[string]int{}}
}

func (r *fakeRecorder) ProviderCall(provider, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[provider+"/"+outcome]++
}

func (r *fakeRecorder) Fallback(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks[reason]++
}

func (r *fakeRecorder) SearchDuration(string, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations++
}

type fakeArchive struct {
	mu   sync.Mutex
	jobs []domain.Job
}

func (a *fakeArchive) UpsertJobs(_ context.Context, jobs []domain.Job) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.jobs = append(a.jobs, jobs...)
	return nil
}

func (a *fakeArchive) FindByIDs(context.Context, []string) ([]domain.Job, error) {
	return nil, nil
}

func enabled(name string) []domain.ProviderConfig {
	return []domain.ProviderConfig{{Name: name, APIKey: "k", Enabled: true}}
}

func newService(t *testing.T, opts ...job.Option) *job.Service {
	t.Helper()
	base := []job.Option{
		job.WithFallback(demo.NewProvider(clock)),
		job.WithClock(clock),
	}
	svc, err := job.NewService(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNewServiceRequiresFallback(t *testing.T) {
	if _, err := job.NewService(); err == nil {
		t.Fatal("expected error without fallback provider")
	}
}

func TestExecuteSearchDemoMode(t *testing.T) {
	svc := newService(t)
	if svc.ActiveProvider() != job.NoActiveProvider {
		t.Fatalf("expected demo mode, got %q", svc.ActiveProvider())
	}

	res, err := svc.ExecuteSearch(context.Background(), domain.SearchRequest{
		Keywords:  "Data",
		MinSalary: ptr(60000),
		MaxSalary: ptr(120000),
	})
	if err != nil {
		t.Fatalf("ExecuteSearch: %v", err)
	}

	if len(res.Jobs) == 0 {
		t.Fatal("expected demo jobs")
	}
	if res.Source != domain.ProviderDemo || res.Fallback {
		t.Errorf("source = %q fallback = %v", res.Source, res.Fallback)
	}
	for _, j := range res.Jobs {
		if !strings.Contains(j.Title, "Data") {
			t.Errorf("title %q missing keyword", j.Title)
		}
		if *j.RawMinSalary < 60000 || *j.RawMaxSalary > 120000 {
			t.Errorf("%s outside salary bounds: %v-%v", j.ID, *j.RawMinSalary, *j.RawMaxSalary)
		}
	}

	snap := svc.Current()
	if !snap.Ready || snap.Result.Seq != res.Seq || snap.Request.PageSize != job.DefaultPageSize {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestExecuteSearchFallsBackOnRateLimit(t *testing.T) {
	provider := &fakeProvider{name: domain.ProviderJSearch, err: apierr.New("jsearch", apierr.ErrRateLimit, "quota")}
	rec := newFakeRecorder()
	log := &eventLog{}

	svc := newService(t,
		job.WithProviders(provider),
		job.WithProviderConfigs(enabled(domain.ProviderJSearch)),
		job.WithRecorder(rec),
	)
	svc.Subscribe(log.add)

	res, err := svc.ExecuteSearch(context.Background(), domain.SearchRequest{Keywords: "Go"})
	if err != nil {
		t.Fatalf("ExecuteSearch must not surface provider errors: %v", err)
	}

	if !res.Fallback || res.Source != domain.ProviderDemo || res.FallbackReason != "rate_limit" {
		t.Errorf("unexpected result: fallback=%v source=%q reason=%q", res.Fallback, res.Source, res.FallbackReason)
	}
	if len(res.Jobs) == 0 {
		t.Error("expected demo jobs after fallback")
	}

	ev, ok := log.find(job.EventSearchFallback)
	if !ok {
		t.Fatalf("no fallback event, got %v", log.kinds())
	}
	if !errors.Is(ev.Err, apierr.ErrRateLimit) || ev.Provider != domain.ProviderJSearch {
		t.Errorf("unexpected fallback event: %+v", ev)
	}
	if _, ok := log.find(job.EventSearchCompleted); !ok {
		t.Errorf("no completion event, got %v", log.kinds())
	}

	if rec.calls["jsearch/rate_limit"] != 1 || rec.fallbacks["rate_limit"] != 1 || rec.durations != 1 {
		t.Errorf("unexpected metrics: %+v %+v %d", rec.calls, rec.fallbacks, rec.durations)
	}
}

func TestExecuteSearchLiveSuccess(t *testing.T) {
	provider := &fakeProvider{name: domain.ProviderReed, jobs: []domain.Job{
		{ID: "1", Company: "Zeta"},
		{ID: "2", Company: "alpha"},
	}}
	archive := &fakeArchive{}
	rec := newFakeRecorder()

	svc := newService(t,
		job.WithProviders(provider),
		job.WithProviderConfigs(enabled(domain.ProviderReed)),
		job.WithArchive(archive),
		job.WithRecorder(rec),
	)

	res, err := svc.ExecuteSearch(context.Background(), domain.SearchRequest{Keywords: "x", SortKey: domain.SortCompany})
	if err != nil {
		t.Fatalf("ExecuteSearch: %v", err)
	}

	if res.Fallback || res.Source != domain.ProviderReed || res.TotalCount != 100 {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Jobs[0].ID != "2" {
		t.Errorf("result not sorted by company: %v", res.Jobs)
	}
	if len(archive.jobs) != 2 {
		t.Errorf("archive received %d jobs", len(archive.jobs))
	}
	if rec.calls["reed/success"] != 1 {
		t.Errorf("unexpected metrics: %+v", rec.calls)
	}
}

type stalledArchive struct {
	err chan error
}

func (a *stalledArchive) UpsertJobs(ctx context.Context, _ []domain.Job) error {
	<-ctx.Done()
	a.err <- ctx.Err()
	return ctx.Err()
}

func (a *stalledArchive) FindByIDs(context.Context, []string) ([]domain.Job, error) {
	return nil, nil
}

func TestExecuteSearchBoundsArchiveWrite(t *testing.T) {
	provider := &fakeProvider{name: domain.ProviderReed, jobs: []domain.Job{{ID: "1"}}}
	archive := &stalledArchive{err: make(chan error, 1)}

	svc := newService(t,
		job.WithProviders(provider),
		job.WithProviderConfigs(enabled(domain.ProviderReed)),
		job.WithArchive(archive),
		job.WithArchiveTimeout(20*time.Millisecond),
	)

	done := make(chan domain.SearchResult, 1)
	go func() {
		res, _ := svc.ExecuteSearch(context.Background(), domain.SearchRequest{Keywords: "x"})
		done <- res
	}()

	select {
	case res := <-done:
		if res.Fallback || len(res.Jobs) != 1 {
			t.Errorf("unexpected result: %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ExecuteSearch blocked on the archive")
	}

	if err := <-archive.err; !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("archive ctx err = %v, want deadline exceeded", err)
	}
}

func TestExecuteSearchTimeout(t *testing.T) {
	provider := &fakeProvider{name: domain.ProviderAdzuna}
	svc := newService(t,
		job.WithProviders(provider),
		job.WithProviderConfigs(enabled(domain.ProviderAdzuna)),
		job.WithTimeout(20*time.Millisecond),
	)

	res, err := svc.ExecuteSearch(context.Background(), domain.SearchRequest{Keywords: "hang"})
	if err != nil {
		t.Fatalf("ExecuteSearch: %v", err)
	}
	if !res.Fallback || res.FallbackReason != "network" {
		t.Errorf("expected network fallback, got fallback=%v reason=%q", res.Fallback, res.FallbackReason)
	}
}

func TestExecuteSearchDiscardsStaleResults(t *testing.T) {
	provider := &fakeProvider{
		name:    domain.ProviderJSearch,
		started: make(chan string, 2),
		release: make(chan struct{}),
	}
	svc := newService(t,
		job.WithProviders(provider),
		job.WithProviderConfigs(enabled(domain.ProviderJSearch)),
	)

	first := make(chan domain.SearchResult, 1)
	go func() {
		res, err := svc.ExecuteSearch(context.Background(), domain.SearchRequest{Keywords: "slow"})
		if err != nil {
			t.Errorf("first search: %v", err)
		}
		first <- res
	}()
	<-provider.started

	second, err := svc.ExecuteSearch(context.Background(), domain.SearchRequest{Keywords: "fast"})
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	<-provider.started
	close(provider.release)

	stale := <-first
	if !stale.Stale {
		t.Error("first search should be stale")
	}
	if second.Stale {
		t.Error("second search should not be stale")
	}

	snap := svc.Current()
	if snap.Result.Seq != second.Seq || snap.Request.Keywords != "fast" || snap.Result.Jobs[0].ID != "fast-1" {
		t.Errorf("current state is not the newest search: %+v", snap)
	}
}

func TestExecuteSearchInvalidRequest(t *testing.T) {
	svc := newService(t)
	log := &eventLog{}
	svc.Subscribe(log.add)

	_, err := svc.ExecuteSearch(context.Background(), domain.SearchRequest{PageSize: 1000})
	if !errors.Is(err, job.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
	if len(log.kinds()) != 0 {
		t.Errorf("invalid requests must not publish events: %v", log.kinds())
	}
	if svc.Current().Ready {
		t.Error("state must stay empty")
	}
}

func TestResortAndView(t *testing.T) {
	svc := newService(t)
	log := &eventLog{}
	unsubscribe := svc.Subscribe(log.add)

	if _, err := svc.ExecuteSearch(context.Background(), domain.SearchRequest{}); err != nil {
		t.Fatalf("ExecuteSearch: %v", err)
	}

	jobs, err := svc.Resort(domain.SortCompany)
	if err != nil {
		t.Fatalf("Resort: %v", err)
	}
	if jobs[0].Company != "DataFlow Solutions" {
		t.Errorf("first company = %q", jobs[0].Company)
	}

	view := svc.View(2, 2)
	if view.TotalPages != 3 || len(view.Jobs) != 2 || view.SortKey != domain.SortCompany || view.Page != 2 {
		t.Errorf("unexpected view: %+v", view)
	}

	if empty := svc.View(100, 20); len(empty.Jobs) != 0 {
		t.Errorf("out of range page returned %d jobs", len(empty.Jobs))
	}

	jobs, err = svc.Resort(domain.SortRelevance)
	if err != nil {
		t.Fatalf("Resort: %v", err)
	}
	if jobs[0].ID != "demo-1" {
		t.Errorf("relevance should restore provider order, got %q first", jobs[0].ID)
	}

	if _, err := svc.Resort("bogus"); err == nil {
		t.Error("expected error for unknown sort key")
	}

	want := []job.EventKind{
		job.EventSearchCompleted,
		job.EventViewChanged,
		job.EventViewChanged,
		job.EventViewChanged,
		job.EventViewChanged,
	}
	got := log.kinds()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	unsubscribe()
	svc.View(1, 2)
	if len(log.kinds()) != len(want) {
		t.Error("unsubscribed observer still receives events")
	}

	if j, ok := svc.FindJob("demo-3"); !ok || j.Title != "Junior Data Analyst" {
		t.Errorf("FindJob = %+v, %v", j, ok)
	}
}

func TestReconfigure(t *testing.T) {
	svc := newService(t, job.WithProviders(&fakeProvider{name: domain.ProviderReed}))

	svc.Reconfigure(enabled(domain.ProviderReed))
	if svc.ActiveProvider() != domain.ProviderReed {
		t.Errorf("active = %q", svc.ActiveProvider())
	}

	// enabled but no adapter registered
	svc.Reconfigure(enabled(domain.ProviderAdzuna))
	if svc.ActiveProvider() != job.NoActiveProvider {
		t.Errorf("active = %q, want demo mode", svc.ActiveProvider())
	}
}

func TestCircuitBreakerStillFallsBack(t *testing.T) {
	provider := &fakeProvider{name: domain.ProviderAdzuna, err: apierr.New("adzuna", apierr.ErrProvider, "boom")}
	svc := newService(t,
		job.WithProviders(provider),
		job.WithProviderConfigs(enabled(domain.ProviderAdzuna)),
		job.WithCircuitBreaker(true),
	)

	for i := 0; i < 12; i++ {
		res, err := svc.ExecuteSearch(context.Background(), domain.SearchRequest{Keywords: "x"})
		if err != nil {
			t.Fatalf("ExecuteSearch: %v", err)
		}
		if !res.Fallback || res.Source != domain.ProviderDemo {
			t.Fatalf("search %d did not fall back: %+v", i, res)
		}
	}
}
