package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New()
	m.AttemptCompleted("riasec")
	m.AttemptCompleted("riasec")
	m.CacheHit("report")
	m.CacheMiss("report")
	m.CacheMiss("report")
	m.ObserveHTTP("GET", "/health", "200", 5*time.Millisecond)
	m.ObserveReport(20 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attemptsCompleted.WithLabelValues("riasec")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheResults.WithLabelValues("report", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheResults.WithLabelValues("report", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/health", "200")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.AttemptCompleted("skills")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `careerpath_attempts_completed_total{instrument="skills"} 1`))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.AttemptCompleted("riasec")
	m.CacheHit("x")
	m.CacheMiss("x")
	m.ObserveHTTP("GET", "/", "200", time.Second)
	m.ObserveReport(time.Second)
	m.RegisterPool(nil)
	assert.Nil(t, m.Registry())
}
