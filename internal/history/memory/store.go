// Package memory is an in-memory run history, used by tests and when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askiada/go-ssdt-lifecycle/internal/history"
)

var _ history.Store = (*Store)(nil)

type Store struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*history.Run
}

func New() *Store {
	return &Store{runs: make(map[uuid.UUID]*history.Run)}
}

func (s *Store) CreateRun(_ context.Context, run history.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; ok {
		return errors.Errorf("run %s already exists", run.ID)
	}

	run.Stages = nil
	run.Finished = false
	s.runs[run.ID] = &run

	return nil
}

func (s *Store) AddStage(_ context.Context, runID uuid.UUID, stage history.Stage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return history.ErrRunNotFound
	}

	stage.Position = len(run.Stages) + 1
	run.Stages = append(run.Stages, stage)

	return nil
}

func (s *Store) FinishRun(_ context.Context, runID uuid.UUID, version, result string, elapsed time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return history.ErrRunNotFound
	}

	run.Version = version
	run.Result = result
	run.Elapsed = elapsed
	run.Finished = true

	return nil
}

func (s *Store) GetRun(_ context.Context, runID uuid.UUID) (history.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return history.Run{}, history.ErrRunNotFound
	}

	res := *run
	res.Stages = append([]history.Stage(nil), run.Stages...)

	return res, nil
}

func (s *Store) ListRuns(_ context.Context, limit int) ([]history.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]history.Run, 0, len(s.runs))
	for _, run := range s.runs {
		r := *run
		r.Stages = nil
		res = append(res, r)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].StartedAt.After(res[j].StartedAt)
	})

	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}

	return res, nil
}
