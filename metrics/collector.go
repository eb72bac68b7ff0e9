// Package metrics counts lifecycle transitions and hook dispatch outcomes.
// The collector is a labeled map, not a full metrics pipeline; Snapshot and
// Handler expose it to the status surfaces.
package metrics

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/blackroad/roadplugin/json"
)

// Metric kinds.
const (
	TypeCounter = "counter"
	TypeGauge   = "gauge"
)

// Metric is one collected series point.
type Metric struct {
	Type      string            `json:"type"`
	Value     float64           `json:"value"`
	Labels    map[string]string `json:"labels,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// Collector accumulates counters and gauges keyed by name and labels.
type Collector struct {
	metrics map[string]*Metric
	mu      sync.RWMutex
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		metrics: make(map[string]*Metric),
	}
}

// IncCounter adds one to a counter.
func (c *Collector) IncCounter(name string, labels map[string]string) {
	c.AddCounter(name, 1, labels)
}

// AddCounter adds value to a counter, creating it on first use.
func (c *Collector) AddCounter(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := buildKey(name, labels)
	if metric, exists := c.metrics[key]; exists {
		metric.Value += value
		metric.Timestamp = time.Now().Unix()
		return
	}
	c.metrics[key] = &Metric{
		Type:      TypeCounter,
		Value:     value,
		Labels:    labels,
		Timestamp: time.Now().Unix(),
	}
}

// SetGauge overwrites a gauge value.
func (c *Collector) SetGauge(name string, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics[buildKey(name, labels)] = &Metric{
		Type:      TypeGauge,
		Value:     value,
		Labels:    labels,
		Timestamp: time.Now().Unix(),
	}
}

// buildKey appends labels to the metric name in sorted order so the same
// label set always maps to the same series.
func buildKey(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	key := name
	for _, k := range keys {
		key += ":" + k + "=" + labels[k]
	}
	return key
}

// GetMetrics returns a copy of every series.
func (c *Collector) GetMetrics() map[string]Metric {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]Metric, len(c.metrics))
	for k, v := range c.metrics {
		result[k] = *v
	}
	return result
}

// Reset drops every series.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = make(map[string]*Metric)
}

// --- domain recorders ---

// RecordLoad counts a load attempt for a plugin.
func (c *Collector) RecordLoad(name string, ok bool) {
	labels := map[string]string{"plugin": name}
	if ok {
		c.IncCounter("plugin_loads_total", labels)
	} else {
		c.IncCounter("plugin_load_failures_total", labels)
	}
}

// RecordTransition counts a successful lifecycle transition
// (enable/disable/unload/reload).
func (c *Collector) RecordTransition(op, name string) {
	c.IncCounter("plugin_"+op+"s_total", map[string]string{"plugin": name})
}

// RecordExecution counts one hook dispatch and how many handlers ran.
func (c *Collector) RecordExecution(hookName string, handlers int) {
	labels := map[string]string{"hook": hookName}
	c.IncCounter("hook_executions_total", labels)
	c.AddCounter("hook_handlers_total", float64(handlers), labels)
}

// RecordFilter counts one filter chain dispatch.
func (c *Collector) RecordFilter(hookName string) {
	c.IncCounter("filter_executions_total", map[string]string{"hook": hookName})
}

// RecordHandlerError counts an isolated handler failure.
func (c *Collector) RecordHandlerError(hookName, owner string) {
	c.IncCounter("hook_handler_errors_total", map[string]string{
		"hook":  hookName,
		"owner": owner,
	})
}

// SetStateGauge records how many plugins sit in a lifecycle state.
func (c *Collector) SetStateGauge(state string, count int) {
	c.SetGauge("plugins_in_state", float64(count), map[string]string{"state": state})
}

// --- snapshot & export ---

// Snapshot is a point-in-time aggregation, counters and gauges summed per
// metric name across label sets.
type Snapshot struct {
	Timestamp time.Time          `json:"timestamp"`
	Counters  map[string]float64 `json:"counters"`
	Gauges    map[string]float64 `json:"gauges"`
}

// TakeSnapshot aggregates the collector for the status surfaces.
func (c *Collector) TakeSnapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		Timestamp: time.Now(),
		Counters:  make(map[string]float64),
		Gauges:    make(map[string]float64),
	}
	for key, metric := range c.metrics {
		name := key
		if i := strings.IndexByte(key, ':'); i >= 0 {
			name = key[:i]
		}
		switch metric.Type {
		case TypeCounter:
			snap.Counters[name] += metric.Value
		case TypeGauge:
			snap.Gauges[key] = metric.Value
		}
	}
	return snap
}

// Handler serves the raw series as JSON.
func (c *Collector) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		data, err := json.Marshal(c.GetMetrics())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	})
}

// Describe formats the snapshot counters for log output, one
// "name=value" per entry, sorted.
func (s Snapshot) Describe() []string {
	names := make([]string, 0, len(s.Counters))
	for name := range s.Counters {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, name+"="+strconv.FormatFloat(s.Counters[name], 'f', -1, 64))
	}
	return out
}
