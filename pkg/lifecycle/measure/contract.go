// Package measure collects the duration of every stage reached by lifecycle runs.
package measure

import "time"

type Measure interface {
	AddMetric(stage string) Metric
	GetMetric(stage string) Metric
	AllMetrics() map[string]Metric
}

type Metric interface {
	// AddDuration records one execution of the unit producing the stage.
	AddDuration(elapsed time.Duration)
	// AddTransitionDuration records one execution reached from the previous stage.
	AddTransitionDuration(previousStage string, elapsed time.Duration)
	AVGDuration() time.Duration
	AVGTransitionDuration() map[string]time.Duration
	SetTotalDuration(total time.Duration)
	GetTotalDuration() time.Duration
	Count() int64
}
