package measure

import (
	"context"
	"time"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

type runMeasure struct {
	Measure
}

func (rm *runMeasure) BeforeRun(_ context.Context, m model.Model) error {
	rm.AddMetric(m.Base().CurrentState().String())

	return nil
}

func (rm *runMeasure) AfterUnit(_ context.Context, _ model.Model, from, to model.State, elapsed time.Duration) error {
	mt := rm.AddMetric(to.String())
	mt.AddDuration(elapsed)
	mt.AddTransitionDuration(from.String(), elapsed)

	return nil
}

func (rm *runMeasure) AfterRun(_ context.Context, m model.Model, elapsed time.Duration) error {
	rm.AddMetric(m.Base().CurrentState().String()).SetTotalDuration(elapsed)

	return nil
}

// RunMeasure records the stage durations of every run into measure.
func RunMeasure(measure Measure) model.RunOption {
	return &runMeasure{measure}
}
