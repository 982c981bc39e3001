package observability

import (
	"time"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "protocolfill"

// Metrics groups the collectors recorded by the engine.
type Metrics struct {
	CellWrites     *prometheus.CounterVec
	MapperWarnings prometheus.Counter
	Calculations   *prometheus.CounterVec
	ProtocolErrors prometheus.Counter
	Generations    *prometheus.CounterVec
	GenerationTime prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CellWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cell_writes_total",
				Help:      "Cell writes by write case and status.",
			},
			[]string{"case", "status"},
		),
		MapperWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mapper_warnings_total",
			Help:      "Answers that could not be mapped to a cell.",
		}),
		Calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calculations_total",
				Help:      "Derived value calculations by outcome.",
			},
			[]string{"outcome"},
		),
		ProtocolErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Bounds violations reported as protocol errors.",
		}),
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Document generations by result.",
			},
			[]string{"result"},
		),
		GenerationTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time spent generating one document.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.CellWrites, m.MapperWarnings, m.Calculations, m.ProtocolErrors, m.Generations, m.GenerationTime)
	}
	return m
}

// ObserveReport counts every cell outcome of a write report.
func (m *Metrics) ObserveReport(report domain.WriteReport) {
	if m == nil {
		return
	}
	for _, o := range report.Outcomes {
		m.CellWrites.WithLabelValues(string(o.Case), string(o.Status)).Inc()
	}
}

// ObserveWarnings adds n mapper warnings.
func (m *Metrics) ObserveWarnings(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.MapperWarnings.Add(float64(n))
}

// ObserveCalculations counts results as valid, out_of_limits or invalid.
func (m *Metrics) ObserveCalculations(results []domain.CalculationResult) {
	if m == nil {
		return
	}
	for _, r := range results {
		m.Calculations.WithLabelValues(outcome(r)).Inc()
	}
}

func outcome(r domain.CalculationResult) string {
	switch {
	case !r.IsValid:
		return "invalid"
	case !r.IsWithinLimits:
		return "out_of_limits"
	default:
		return "valid"
	}
}

// ObserveProtocolErrors adds n protocol errors.
func (m *Metrics) ObserveProtocolErrors(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ProtocolErrors.Add(float64(n))
}

// ObserveGeneration records one generation that started at start.
func (m *Metrics) ObserveGeneration(start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Generations.WithLabelValues(result).Inc()
	m.GenerationTime.Observe(time.Since(start).Seconds())
}
