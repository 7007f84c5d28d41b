package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "saasfinder_pipeline_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"stage"},
	)

	PipelineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saasfinder_pipeline_runs_total",
			Help: "Total pipeline runs by outcome",
		},
		[]string{"stage", "status"},
	)

	UnitsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saasfinder_units_processed_total",
			Help: "Total text units run through pain point extraction",
		},
		[]string{"source_type"},
	)

	UnitsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saasfinder_units_skipped_total",
			Help: "Total text units skipped due to per-item failures",
		},
		[]string{"source_type"},
	)

	PainPointsExtracted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "saasfinder_pain_points_extracted_total",
			Help: "Total pain points extracted",
		},
	)

	OpportunitiesGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "saasfinder_opportunities_generated_total",
			Help: "Total opportunities generated and saved",
		},
	)

	ClassifierCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saasfinder_classifier_calls_total",
			Help: "Total sentiment classifier invocations",
		},
		[]string{"status"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saasfinder_cache_hits_total",
			Help: "Total NLP cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saasfinder_cache_misses_total",
			Help: "Total NLP cache misses",
		},
		[]string{"cache_type"},
	)

	PostsCollected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saasfinder_posts_collected_total",
			Help: "Total posts collected per subreddit",
		},
		[]string{"subreddit"},
	)
)

func Init() {
	prometheus.MustRegister(PipelineDuration)
	prometheus.MustRegister(PipelineRuns)
	prometheus.MustRegister(UnitsProcessed)
	prometheus.MustRegister(UnitsSkipped)
	prometheus.MustRegister(PainPointsExtracted)
	prometheus.MustRegister(OpportunitiesGenerated)
	prometheus.MustRegister(ClassifierCalls)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(PostsCollected)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
