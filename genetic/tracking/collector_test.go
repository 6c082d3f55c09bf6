package tracking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/evolution/genetic"
)

func report(id uuid.UUID, gen int, best, avg, worst float64, reconciled int) genetic.GenerationReport {
	return genetic.GenerationReport{
		RunID:      id,
		Generation: gen,
		Stats:      genetic.PopulationStats{Best: best, Average: avg, Worst: worst, Size: 4},
		Reconciled: reconciled,
	}
}

func TestCollector_TracksLatestReport(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	id := uuid.New()
	c.OnGeneration(report(id, 1, 5, 3, 1, 2))
	c.OnGeneration(report(id, 2, 7, 4, 2, 1))

	label := id.String()
	assert.Equal(t, 2.0, testutil.ToFloat64(c.generation.WithLabelValues(label)))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.best.WithLabelValues(label)))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.average.WithLabelValues(label)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.worst.WithLabelValues(label)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.generations))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.reconciled))
}

func TestCollector_SeparatesRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	a, b := uuid.New(), uuid.New()
	c.OnGeneration(report(a, 3, 10, 5, 0, 0))
	c.OnGeneration(report(b, 1, 2, 1, 0, 0))

	assert.Equal(t, 2, testutil.CollectAndCount(c.best))

	c.Forget(a)
	assert.Equal(t, 1, testutil.CollectAndCount(c.best))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.best.WithLabelValues(b.String())))
}

func TestCollector_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	require.NoError(t, err)
	second, err := NewCollector(reg)
	require.NoError(t, err)

	id := uuid.New()
	first.OnGeneration(report(id, 1, 1, 1, 1, 0))
	second.OnGeneration(report(id, 2, 1, 1, 1, 0))

	assert.Equal(t, 2.0, testutil.ToFloat64(first.generations))
	assert.Equal(t, 2.0, testutil.ToFloat64(second.generation.WithLabelValues(id.String())))
}
