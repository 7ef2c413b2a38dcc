package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agentgen_pipeline_runs_total",
		Help: "Pipeline runs by provider and final status (ok, config_error, failed).",
	}, []string{"provider", "status"})

	PipelineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agentgen_pipeline_duration_seconds",
		Help:    "Wall time of a full decompose, fan-out and aggregate run.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"provider"})

	DecompositionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agentgen_decomposition_fallbacks_total",
		Help: "Decompositions replaced by the synthetic error subtask.",
	})

	SubtaskOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agentgen_subtasks_total",
		Help: "Finished subtasks by outcome (success, failure).",
	}, []string{"outcome"})

	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agentgen_tool_calls_total",
		Help: "Tool invocations requested by workers.",
	}, []string{"tool"})

	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agentgen_llm_requests_total",
		Help: "Model calls by role and status (ok, error).",
	}, []string{"role", "status"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agentgen_http_requests_total",
		Help: "HTTP requests handled by the server, by route and status code.",
	}, []string{"route", "code"})
)

func OutcomeLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
