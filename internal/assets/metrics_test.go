package assets

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := NewPrometheusObserver("test", reg)
	require.NoError(t, err)

	obs.RecordIngest("image", OutcomeCreated, 10*time.Millisecond, 128)
	obs.RecordIngest("image", OutcomeReused, time.Millisecond, 0)
	obs.RecordIngest("image", OutcomeReused, time.Millisecond, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(obs.uploads.WithLabelValues("image", "created")))
	assert.Equal(t, 2.0, testutil.ToFloat64(obs.uploads.WithLabelValues("image", "reused")))
	assert.Equal(t, 128.0, testutil.ToFloat64(obs.storedBytes))
	assert.Equal(t, 2, testutil.CollectAndCount(obs.duration))
}

func TestPrometheusObserverReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPrometheusObserver("test", reg)
	require.NoError(t, err)
	second, err := NewPrometheusObserver("test", reg)
	require.NoError(t, err)

	second.RecordIngest("icon", OutcomeCreated, time.Millisecond, 10)
	assert.Equal(t, 1.0, testutil.ToFloat64(first.uploads.WithLabelValues("icon", "created")))
}

func TestNilPrometheusObserverIsSafe(t *testing.T) {
	var obs *PrometheusObserver
	assert.NotPanics(t, func() { obs.RecordIngest("image", OutcomeFailed, 0, 0) })
}
