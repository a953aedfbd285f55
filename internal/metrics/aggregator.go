// internal/metrics/aggregator.go
package metrics

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/logging"
)

const (
	// OperationGenerate labels text generation calls.
	OperationGenerate = "generate"
	// OperationEmbed labels embedding calls.
	OperationEmbed = "embed"
)

// Aggregator collects per-model call statistics for one process run.
type Aggregator struct {
	mutex   sync.Mutex
	metrics map[string]*ModelMetrics
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{metrics: make(map[string]*ModelMetrics)}
}

// Record updates the metrics for model/operation with one completed call.
func (a *Aggregator) Record(model, operation string, duration time.Duration, inputTokens, outputTokens int, err error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	key := operation + "|" + model
	m, exists := a.metrics[key]
	if !exists {
		m = &ModelMetrics{ModelName: model, Operation: operation}
		a.metrics[key] = m
	}

	m.LastUpdatedUTC = time.Now().UTC()
	m.Requests++
	if err != nil {
		m.Errors++
		return
	}
	updateRunningStat(&m.DurationMillis, float64(duration.Milliseconds()))
	updateRunningStat(&m.InputTokens, float64(inputTokens))
	updateRunningStat(&m.OutputTokens, float64(outputTokens))
}

// Snapshot returns a copy of the collected metrics ordered by operation and model.
func (a *Aggregator) Snapshot() []ModelMetrics {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	out := make([]ModelMetrics, 0, len(a.metrics))
	for _, m := range a.metrics {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Operation != out[j].Operation {
			return out[i].Operation < out[j].Operation
		}
		return out[i].ModelName < out[j].ModelName
	})
	return out
}

// Summary renders one line per model/operation.
func (a *Aggregator) Summary() string {
	snapshot := a.Snapshot()
	if len(snapshot) == 0 {
		return "no model calls recorded"
	}
	lines := make([]string, 0, len(snapshot))
	for _, m := range snapshot {
		lines = append(lines, fmt.Sprintf("%s %s: requests=%d errors=%d mean_ms=%.0f max_ms=%.0f stddev_ms=%.1f out_tokens_mean=%.1f",
			m.Operation, m.ModelName, m.Requests, m.Errors, m.DurationMillis.Mean, m.DurationMillis.Max,
			m.DurationMillis.StdDev(), m.OutputTokens.Mean))
	}
	return strings.Join(lines, "\n")
}

// Save writes the current metrics to path as indented JSON.
func (a *Aggregator) Save(path string) error {
	logging.LogEvent("[METRICS] Saving metrics to %s", path)
	data, err := json.MarshalIndent(a.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// StdDev returns the sample standard deviation.
func (rs RunningStat) StdDev() float64 {
	if rs.Count < 2 {
		return 0
	}
	return math.Sqrt(rs.M2 / float64(rs.Count-1))
}

// updateRunningStat updates a single running statistic using Welford's online algorithm.
func updateRunningStat(rs *RunningStat, value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}
