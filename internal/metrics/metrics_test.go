package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	assert.NotNil(t, r.RequestsTotal)
	assert.NotNil(t, r.RequestDuration)
	assert.NotNil(t, r.ModerationRequests)
	assert.NotNil(t, r.ModerationAttempts)
	assert.NotNil(t, r.ModerationDuration)

	// independent registries must not collide
	assert.NotPanics(t, func() { NewRegistry() })
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.ModerationRequests.WithLabelValues(OutcomeSuccess).Inc()
	r.ModerationAttempts.Add(3)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `qa_moderation_requests_total{outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), "qa_moderation_attempts_total 3")
	assert.Equal(t, 3.0, testutil.ToFloat64(r.ModerationAttempts))
}
