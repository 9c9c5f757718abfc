package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.Upload("checklist")
	m.Upload("checklist")
	m.Rejection("category", "empty-file")
	m.GateDecision("admin", "wrong-role")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.uploads.WithLabelValues("checklist")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues("category", "empty-file")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gate.WithLabelValues("admin", "wrong-role")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.Upload("checklist")
	m.Rejection("checklist", "unsafe-name")
	m.GateDecision("client", "authorized")
	m.ReviewDecision("approved")
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ReviewDecision("approved")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `portal_review_decisions_total{decision="approved"} 1`))
}
