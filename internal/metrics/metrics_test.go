package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveTurn(OutcomeReply)
	m.ObserveTurn(OutcomeReply)
	m.ObserveTurn(OutcomeError)
	m.IncEmptyTranscript()
	m.IncPersistFailure()
	m.IncSynthesisFailure()
	m.ObserveReasoning(250 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Turns.WithLabelValues(OutcomeReply)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turns.WithLabelValues(OutcomeError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Turns.WithLabelValues(OutcomeCancelled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmptyTranscripts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SynthesisFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ReasoningLatency))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTurn(OutcomeReply)
		m.ObserveReasoning(time.Second)
		m.IncEmptyTranscript()
		m.IncPersistFailure()
		m.IncSynthesisFailure()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveTurn(OutcomeFallback)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `vivi_turns_total{outcome="fallback"} 1`)
}
