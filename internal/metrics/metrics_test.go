package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSearchRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSearch(reg)

	m.ProviderCall("jsearch", "rate_limit")
	m.ProviderCall("jsearch", "rate_limit")
	m.ProviderCall("reed", "success")
	m.Fallback("rate_limit")
	m.SearchDuration("demo", 120*time.Millisecond)

	if got := testutil.ToFloat64(m.ProviderRequests.WithLabelValues("jsearch", "rate_limit")); got != 2 {
		t.Errorf("jsearch rate_limit = %v", got)
	}
	if got := testutil.ToFloat64(m.ProviderRequests.WithLabelValues("reed", "success")); got != 1 {
		t.Errorf("reed success = %v", got)
	}
	if got := testutil.ToFloat64(m.Fallbacks.WithLabelValues("rate_limit")); got != 1 {
		t.Errorf("fallbacks = %v", got)
	}

	expected := `
# HELP jobscout_search_fallbacks_total Searches served from demo data after a provider failure
# TYPE jobscout_search_fallbacks_total counter
jobscout_search_fallbacks_total{reason="rate_limit"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "jobscout_search_fallbacks_total"); err != nil {
		t.Error(err)
	}
	if n := testutil.CollectAndCount(m.Duration); n != 1 {
		t.Errorf("duration series = %d", n)
	}
}

func TestNewSearchWithoutRegistry(t *testing.T) {
	m := NewSearch(nil)
	m.Fallback("network")
	if got := testutil.ToFloat64(m.Fallbacks.WithLabelValues("network")); got != 1 {
		t.Errorf("fallbacks = %v", got)
	}
}
