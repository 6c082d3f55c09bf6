package tracking

import (
	"errors"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lixenwraith/evolution/genetic"
)

// Metric names
const (
	MetricGeneration       = "evolution_generation"
	MetricBestFitness      = "evolution_best_fitness"
	MetricAverageFitness   = "evolution_average_fitness"
	MetricWorstFitness     = "evolution_worst_fitness"
	MetricGenerationsTotal = "evolution_generations_total"
	MetricReconciledTotal  = "evolution_reconciled_total"
)

const labelRunID = "run_id"

// Collector exports generation reports as prometheus metrics
// Register it on an engine with genetic.WithObserver
type Collector struct {
	generation  *prometheus.GaugeVec
	best        *prometheus.GaugeVec
	average     *prometheus.GaugeVec
	worst       *prometheus.GaugeVec
	generations prometheus.Counter
	reconciled  prometheus.Counter
}

// NewCollector creates the metrics and registers them on reg
// An already registered metric of the same name is reused
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, []string{labelRunID})
	}

	c := &Collector{
		generation: gauge(MetricGeneration, "Latest completed generation of a run"),
		best:       gauge(MetricBestFitness, "Best fitness in the latest generation"),
		average:    gauge(MetricAverageFitness, "Average fitness in the latest generation"),
		worst:      gauge(MetricWorstFitness, "Worst fitness in the latest generation"),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricGenerationsTotal,
			Help: "Generations evolved across all runs",
		}),
		reconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricReconciledTotal,
			Help: "Offspring whose fitness was copied from an equivalent parent",
		}),
	}

	var err error
	if c.generation, err = registerVec(reg, c.generation); err != nil {
		return nil, err
	}
	if c.best, err = registerVec(reg, c.best); err != nil {
		return nil, err
	}
	if c.average, err = registerVec(reg, c.average); err != nil {
		return nil, err
	}
	if c.worst, err = registerVec(reg, c.worst); err != nil {
		return nil, err
	}
	if c.generations, err = registerCounter(reg, c.generations); err != nil {
		return nil, err
	}
	if c.reconciled, err = registerCounter(reg, c.reconciled); err != nil {
		return nil, err
	}

	return c, nil
}

func registerVec(reg prometheus.Registerer, v *prometheus.GaugeVec) (*prometheus.GaugeVec, error) {
	if err := reg.Register(v); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return v, nil
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

// OnGeneration implements genetic.Observer
func (c *Collector) OnGeneration(report genetic.GenerationReport) {
	id := report.RunID.String()
	c.generation.WithLabelValues(id).Set(float64(report.Generation))
	c.best.WithLabelValues(id).Set(report.Stats.Best)
	c.average.WithLabelValues(id).Set(report.Stats.Average)
	c.worst.WithLabelValues(id).Set(report.Stats.Worst)
	c.generations.Inc()
	c.reconciled.Add(float64(report.Reconciled))
}

// Forget drops the per-run series of a finished run
func (c *Collector) Forget(runID uuid.UUID) {
	id := runID.String()
	c.generation.DeleteLabelValues(id)
	c.best.DeleteLabelValues(id)
	c.average.DeleteLabelValues(id)
	c.worst.DeleteLabelValues(id)
}
