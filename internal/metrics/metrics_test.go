package metrics_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/haikyu-team-builder/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder_Counts(t *testing.T) {
	r := metrics.NewRecorder()
	r.Command("assign", "ok")
	r.Command("assign", "ok")
	r.Command("move", "rejected")
	r.ImportMissing(3)
	r.ImportMissing(0)
	r.CacheHit()
	r.CacheMiss()
	r.CacheMiss()

	assert.Equal(t, 1, testutil.CollectAndCount(r.Registry(), "haikyu_builder_import_missing_characters_total"))

	body := scrape(t, r)
	assert.Contains(t, body, `haikyu_builder_builder_commands_total{action="assign",outcome="ok"} 2`)
	assert.Contains(t, body, `haikyu_builder_builder_commands_total{action="move",outcome="rejected"} 1`)
	assert.Contains(t, body, `haikyu_builder_import_missing_characters_total 3`)
	assert.Contains(t, body, `haikyu_builder_roster_cache_lookups_total{result="miss"} 2`)
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *metrics.Recorder
	assert.NotPanics(t, func() {
		r.Command("rotate", "ok")
		r.ImportMissing(1)
		r.CacheHit()
		r.SessionOpened()
		r.ObserveRequest("GET", "/health", 200, time.Millisecond)
	})
}

func scrape(t *testing.T, r *metrics.Recorder) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}
