package prometheus

import "github.com/prometheus/client_golang/prometheus"

// Monitor represents a Prometheus monitor
// It contains Prometheus registry and all available metrics
type Monitor struct {
	Registry *prometheus.Registry

	FetchDuration    *prometheus.HistogramVec
	FetchFailures    *prometheus.CounterVec
	ReportsGenerated *prometheus.CounterVec
	LastReport       *prometheus.GaugeVec
	AiInputTokens    *prometheus.CounterVec
	AiOutputTokens   *prometheus.CounterVec
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	reg := prometheus.NewRegistry()
	monitor := &Monitor{
		Registry: reg,

		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "advice_fetch_duration_seconds",
			Help:    "Duration of upstream data fetches",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),

		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advice_fetch_failures_total",
			Help: "Number of failed upstream data fetches",
		}, []string{"source"}),

		ReportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advice_reports_generated_total",
			Help: "Number of generated reports",
		}, []string{"location"}),

		LastReport: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "advice_last_report",
			Help: "Time of the last generated report",
		}, []string{"location"}),

		AiInputTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advice_ai_input_tokens",
			Help: "Number of input tokens sent to the model",
		}, []string{"provider"}),

		AiOutputTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "advice_ai_output_tokens",
			Help: "Number of output tokens received from the model",
		}, []string{"provider"}),
	}

	reg.MustRegister(
		monitor.FetchDuration,
		monitor.FetchFailures,
		monitor.ReportsGenerated,
		monitor.LastReport,
		monitor.AiInputTokens,
		monitor.AiOutputTokens,
	)

	return monitor
}
