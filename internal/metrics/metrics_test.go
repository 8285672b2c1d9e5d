package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New(nil)

	m.RecordArticle("specific", "regex-only", 5*time.Millisecond)
	m.RecordArticle("specific", "regex-only", 5*time.Millisecond)
	m.RecordRecords("regex", 3)
	m.RecordRecords("llm", 0)
	m.RecordLLMRequest("rate_limited", time.Second)
	m.RecordCache(true)
	m.RecordCache(false)
	m.RecordCache(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ArticlesTotal.WithLabelValues("specific", "regex-only")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RecordsTotal.WithLabelValues("regex")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RecordsTotal.WithLabelValues("llm")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LLMRequestsTotal.WithLabelValues("rate_limited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LLMCacheTotal.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LLMCacheTotal.WithLabelValues("miss")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordArticle("general", "failed", time.Second)
		m.RecordRecords("llm", 1)
		m.RecordLLMRequest("ok", time.Second)
		m.RecordCache(true)
	})
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.RecordCache(true)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `shoespec_llm_cache_total{result="hit"} 1`)
}
