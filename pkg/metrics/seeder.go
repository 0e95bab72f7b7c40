package metrics

import "github.com/prometheus/client_golang/prometheus"

// SeederMetrics tracks workbook import outcomes per sheet.
type SeederMetrics struct {
	created *prometheus.CounterVec
	updated *prometheus.CounterVec
	skipped *prometheus.CounterVec
}

// NewSeederMetrics registers the seeder counters on the provided registerer.
func NewSeederMetrics(reg prometheus.Registerer) *SeederMetrics {
	if reg == nil {
		return &SeederMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fleetops",
		Name:      "seeder_rows_created",
		Help:      "Rows inserted by the workbook seeder.",
	}, []string{"sheet"})
	updated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fleetops",
		Name:      "seeder_rows_updated",
		Help:      "Rows updated by the workbook seeder.",
	}, []string{"sheet"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fleetops",
		Name:      "seeder_rows_skipped",
		Help:      "Rows skipped by the workbook seeder.",
	}, []string{"sheet"})
	reg.MustRegister(created, updated, skipped)
	return &SeederMetrics{created: created, updated: updated, skipped: skipped}
}

// ObserveSheet records the outcome counters for one parsed sheet.
func (s *SeederMetrics) ObserveSheet(sheet string, created, updated, skipped int) {
	if s == nil || s.created == nil {
		return
	}
	s.created.WithLabelValues(sheet).Add(float64(created))
	s.updated.WithLabelValues(sheet).Add(float64(updated))
	s.skipped.WithLabelValues(sheet).Add(float64(skipped))
}
