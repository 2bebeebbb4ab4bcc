package measure

import (
	"sync"
	"time"
)

type transitionInfo struct {
	elapsed time.Duration
	total   int64
}

type DefaultMetric struct {
	mu            sync.Mutex
	transitions   map[string]*transitionInfo
	totalDuration time.Duration
	stageElapsed  time.Duration
	total         int64
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.stageElapsed += elapsed
}

func (mt *DefaultMetric) AddTransitionDuration(previousStage string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if mt.transitions[previousStage] == nil {
		mt.transitions[previousStage] = &transitionInfo{}
	}

	info := mt.transitions[previousStage]
	info.elapsed += elapsed
	info.total++
}

func (mt *DefaultMetric) SetTotalDuration(total time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.totalDuration = total
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.totalDuration
}

func (mt *DefaultMetric) Count() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.total
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if mt.total == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.stageElapsed) / float64(mt.total)))
}

func (mt *DefaultMetric) AVGTransitionDuration() map[string]time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	avg := make(map[string]time.Duration, len(mt.transitions))

	for name, info := range mt.transitions {
		if info.total == 0 {
			continue
		}

		avg[name] = round(time.Duration(float64(info.elapsed) / float64(info.total)))
	}

	return avg
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Millisecond)
	case d > time.Millisecond:
		d = d.Round(time.Microsecond)
	}

	return d
}

var _ Metric = (*DefaultMetric)(nil)
