// Package metrics exports pool counters to prometheus. The collector reads
// the stats tracker at scrape time, so it can be registered before the pool
// starts and never lags behind the tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/viant/taskpool/stats"
)

// Namespace prefixes every metric exported by this package.
const Namespace = "taskpool"

// Collector bridges a stats tracker into a prometheus registry.
type Collector struct {
	tracker *stats.Stats

	workers   *prometheus.Desc
	queued    *prometheus.Desc
	running   *prometheus.Desc
	submitted *prometheus.Desc
	completed *prometheus.Desc
	failed    *prometheus.Desc
	abandoned *prometheus.Desc
}

// NewCollector returns a collector exporting the supplied tracker. Every
// metric carries a "pool" label with the tracker's pool name.
func NewCollector(tracker *stats.Stats) *Collector {
	labels := []string{"pool"}
	return &Collector{
		tracker: tracker,
		workers: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "workers"),
			"Current number of workers in the pool.", labels, nil),
		queued: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "queued_tasks"),
			"Tasks waiting for an idle worker.", labels, nil),
		running: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "running_tasks"),
			"Tasks currently executing on a worker.", labels, nil),
		submitted: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "submitted_tasks_total"),
			"Tasks accepted for execution.", labels, nil),
		completed: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "completed_tasks_total"),
			"Tasks that finished successfully.", labels, nil),
		failed: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "failed_tasks_total"),
			"Tasks that finished with an error.", labels, nil),
		abandoned: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "abandoned_tasks_total"),
			"Queued tasks dropped at shutdown.", labels, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.workers
	ch <- c.queued
	ch <- c.running
	ch <- c.submitted
	ch <- c.completed
	ch <- c.failed
	ch <- c.abandoned
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snapshot := c.tracker.Snapshot()
	pool := snapshot.Pool
	ch <- prometheus.MustNewConstMetric(c.workers, prometheus.GaugeValue, float64(snapshot.Workers), pool)
	ch <- prometheus.MustNewConstMetric(c.queued, prometheus.GaugeValue, float64(snapshot.QueuedTasks), pool)
	ch <- prometheus.MustNewConstMetric(c.running, prometheus.GaugeValue, float64(snapshot.RunningTasks), pool)
	ch <- prometheus.MustNewConstMetric(c.submitted, prometheus.CounterValue, float64(snapshot.SubmittedTasks), pool)
	ch <- prometheus.MustNewConstMetric(c.completed, prometheus.CounterValue, float64(snapshot.CompletedTasks), pool)
	ch <- prometheus.MustNewConstMetric(c.failed, prometheus.CounterValue, float64(snapshot.FailedTasks), pool)
	ch <- prometheus.MustNewConstMetric(c.abandoned, prometheus.CounterValue, float64(snapshot.AbandonedTasks), pool)
}

// NewRegistry returns a registry pre-populated with the pool collector and
// the standard go/process collectors.
func NewRegistry(tracker *stats.Stats) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(NewCollector(tracker))
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}

var _ prometheus.Collector = (*Collector)(nil)
