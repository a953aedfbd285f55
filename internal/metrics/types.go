// internal/metrics/types.go
package metrics

import "time"

// ModelMetrics is the aggregated data for one model and operation.
type ModelMetrics struct {
	ModelName      string      `json:"model_name"`
	Operation      string      `json:"operation"`
	LastUpdatedUTC time.Time   `json:"last_updated_utc"`
	Requests       int64       `json:"requests"`
	Errors         int64       `json:"errors"`
	DurationMillis RunningStat `json:"duration_ms"`
	InputTokens    RunningStat `json:"input_tokens"`
	OutputTokens   RunningStat `json:"output_tokens"`
}

// RunningStat holds the necessary values for online calculation of mean and range.
// It uses Welford's online algorithm.
type RunningStat struct {
	Count int64   `json:"-"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"-"` // Sum of squares of differences from the current mean
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}
