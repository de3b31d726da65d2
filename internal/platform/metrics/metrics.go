package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	AlliancesCreated prometheus.Counter
	AllianceJoins    prometheus.Counter
	ReportsSubmitted prometheus.Counter
	ReportsDropped   prometheus.Counter
	ScannerUpserts   prometheus.Counter
	ScannerDeletes   prometheus.Counter
}

// New creates and registers all Prometheus metrics. Call once per process.
func New() *Metrics {
	return &Metrics{
		AlliancesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aic_alliances_created_total",
			Help: "Total number of alliances founded",
		}),
		AllianceJoins: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aic_alliance_joins_total",
			Help: "Total number of successful alliance joins",
		}),
		ReportsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aic_reports_submitted_total",
			Help: "Total number of intel reports encrypted and stored",
		}),
		ReportsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aic_reports_dropped_total",
			Help: "Total number of report rows dropped as undecryptable during fetch",
		}),
		ScannerUpserts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aic_scanner_upserts_total",
			Help: "Total number of scanner entry writes",
		}),
		ScannerDeletes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aic_scanner_deletes_total",
			Help: "Total number of scanner entry deletions",
		}),
	}
}
