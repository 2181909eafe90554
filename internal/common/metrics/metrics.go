package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// Domain metrics.
var (
	ChartsDrawn = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "productlab_charts_drawn_total",
			Help: "Charts drawn per display surface",
		},
		[]string{"surface"},
	)

	ChartsDestroyed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "productlab_charts_destroyed_total",
			Help: "Charts destroyed per display surface",
		},
		[]string{"surface"},
	)

	ChartsLive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "productlab_charts_live",
			Help: "Charts currently alive per display surface; never above 1",
		},
		[]string{"surface"},
	)

	PersonaSelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "productlab_persona_selections_total",
			Help: "Persona catalogue lookups by key",
		},
		[]string{"persona"},
	)

	DiscoveryOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "productlab_discovery_outcomes_total",
			Help: "Discovery summaries by outcome",
		},
		[]string{"outcome"},
	)

	BoardOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "productlab_board_operations_total",
			Help: "Initiative board operations by action and store",
		},
		[]string{"action", "store"},
	)
)
