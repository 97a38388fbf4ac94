// Package metrics wires the Prometheus counters and timers the assistant
// emits: request received and completed by mode, task created, task
// completed, plus plain HTTP request accounting. Components receive a
// *Recorder rather than touching package globals.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the metric vectors and the registry they live in.
type Recorder struct {
	registry *prometheus.Registry

	aiRequests *prometheus.CounterVec
	aiDuration *prometheus.HistogramVec

	tasksCreated   prometheus.Counter
	tasksCompleted prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New builds a Recorder with its own registry, including the standard Go
// runtime collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Recorder{
		registry: reg,
		aiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests",
		}, []string{"type"}),
		aiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ai_response_time_seconds",
			Help:    "Time taken for AI to respond",
			Buckets: []float64{0.5, 1, 2, 3, 5, 7, 10, 15, 20, 30},
		}, []string{"type"}),
		tasksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasks_created_total",
			Help: "Total number of tasks created",
		}),
		tasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasks_completed_total",
			Help: "Total number of tasks completed",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.1, 0.3, 0.5, 0.7, 1, 3, 5, 7, 10},
		}, []string{"method", "path", "status"}),
	}
	reg.MustRegister(r.aiRequests, r.aiDuration, r.tasksCreated, r.tasksCompleted,
		r.httpRequests, r.httpDuration)
	return r
}

// AIRequest counts a generation or extraction request by mode.
func (r *Recorder) AIRequest(mode string) {
	r.aiRequests.WithLabelValues(mode).Inc()
}

// AIResponse records request completion latency by mode.
func (r *Recorder) AIResponse(mode string, elapsed time.Duration) {
	r.aiDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// TasksCreated counts n committed tasks.
func (r *Recorder) TasksCreated(n int) {
	r.tasksCreated.Add(float64(n))
}

// TaskCompleted counts one completed task.
func (r *Recorder) TaskCompleted() {
	r.tasksCompleted.Inc()
}

// HTTPRequest records one served request.
func (r *Recorder) HTTPRequest(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	r.httpRequests.WithLabelValues(method, path, code).Inc()
	r.httpDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

// Handler exposes the registry in Prometheus scrape format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
