package measure

import (
	"sync"
)

type DefaultMeasure struct {
	mu     sync.Mutex
	stages map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		stages: make(map[string]Metric),
	}
}

// AddMetric returns the metric of stage, creating it on first use.
func (m *DefaultMeasure) AddMetric(stage string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mt, ok := m.stages[stage]; ok {
		return mt
	}

	mt := &DefaultMetric{
		transitions: make(map[string]*transitionInfo),
	}
	m.stages[stage] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(stage string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.stages[stage]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make(map[string]Metric, len(m.stages))
	for name, mt := range m.stages {
		all[name] = mt
	}

	return all
}

var _ Measure = (*DefaultMeasure)(nil)
