package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordPredictions(t *testing.T) {
	m := NewMetrics()
	m.ObservePrediction("MEDIUM", 2*time.Millisecond)
	m.ObservePrediction("MEDIUM", time.Millisecond)
	m.ObservePrediction("HIGH", time.Millisecond)
	m.ObserveError("model_unavailable")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Predictions.WithLabelValues("MEDIUM")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Predictions.WithLabelValues("HIGH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PredictionErrors.WithLabelValues("model_unavailable")))
}

func TestMetricsModelLoaded(t *testing.T) {
	m := NewMetrics()
	m.SetModelLoaded(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelLoaded))
	m.SetModelLoaded(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ModelLoaded))
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest(http.MethodPost, http.StatusOK, 5*time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `claimcost_http_requests_total{code="200",method="POST"} 1`)
}
