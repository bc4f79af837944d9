package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry     *prom.Registry
	taskDuration *prom.HistogramVec
	taskResults  *prom.CounterVec
	removed      *prom.CounterVec
	commandExits *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg,
// or with a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.taskDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "relkit",
		Name:      "task_duration_seconds",
		Help:      "Duration of task invocations",
		Buckets:   prom.DefBuckets,
	}, []string{"task"})
	pr.taskResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "relkit",
		Name:      "task_results_total",
		Help:      "Task results by outcome",
	}, []string{"task", "result"})
	pr.removed = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "relkit",
		Name:      "clean_removed_total",
		Help:      "Paths removed by the workspace cleaner",
	}, []string{"kind"})
	pr.commandExits = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "relkit",
		Name:      "command_exits_total",
		Help:      "External command completions by program and exit code",
	}, []string{"command", "code"})
	reg.MustRegister(pr.taskDuration, pr.taskResults, pr.removed, pr.commandExits)
	return pr
}

// Registry returns the registry the metrics were registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

func (p *PrometheusRecorder) ObserveTaskDuration(task string, d time.Duration) {
	if p == nil || p.taskDuration == nil {
		return
	}
	p.taskDuration.WithLabelValues(task).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncTaskResult(task string, result ResultLabel) {
	if p == nil || p.taskResults == nil {
		return
	}
	p.taskResults.WithLabelValues(task, string(result)).Inc()
}

func (p *PrometheusRecorder) AddRemoved(kind RemovedKind, n int) {
	if p == nil || p.removed == nil || n <= 0 {
		return
	}
	p.removed.WithLabelValues(string(kind)).Add(float64(n))
}

func (p *PrometheusRecorder) IncCommandExit(command string, code int) {
	if p == nil || p.commandExits == nil {
		return
	}
	p.commandExits.WithLabelValues(command, strconv.Itoa(code)).Inc()
}

// WriteTextfile writes the registry to path in text exposition format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.registry)
}
