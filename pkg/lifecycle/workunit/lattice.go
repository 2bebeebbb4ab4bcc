package workunit

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

var (
	sharedPrefix = []model.State{
		model.Initialized,
		model.SqlProjectPropertiesLoaded,
		model.FormattedTargetVersionLoaded,
		model.FormattedTargetVersionValidated,
		model.PathsLoaded,
	}

	workflows = map[model.WorkflowKind][]model.State{
		model.Scaffolding: concat(sharedPrefix,
			model.TriedToBuildProject,
			model.TriedToCopyBuildResult,
			model.TriedToCopyDacpacToSharedDacpacRepository,
		),
		model.ScriptCreation: concat(sharedPrefix,
			model.PathsVerified,
			model.TriedToBuildProject,
			model.TriedToCopyBuildResult,
			model.TriedToCreateDeploymentFiles,
			model.ModifiedDeploymentScript,
			model.TriedToCopyDacpacToSharedDacpacRepository,
		),
	}
)

func concat(prefix []model.State, rest ...model.State) []model.State {
	out := make([]model.State, 0, len(prefix)+len(rest))
	out = append(out, prefix...)

	return append(out, rest...)
}

// Workflows lists the workflow kinds in a stable order.
func Workflows() []model.WorkflowKind {
	return []model.WorkflowKind{model.Scaffolding, model.ScriptCreation}
}

// Stages returns the ordered stages of a workflow.
func Stages(kind model.WorkflowKind) ([]model.State, error) {
	stages, ok := workflows[kind]
	if !ok {
		return nil, errors.Wrapf(model.ErrOutOfRange, "unknown workflow %s", kind)
	}

	return append([]model.State(nil), stages...), nil
}

// Lattice returns the stage graph of a workflow. Every stage points to the stage produced by
// the unit resolved for it.
func Lattice(kind model.WorkflowKind) (graph.Graph[model.State, model.State], error) {
	stages, err := Stages(kind)
	if err != nil {
		return nil, err
	}

	g := graph.New(func(s model.State) model.State { return s }, graph.Directed(), graph.Acyclic(), graph.PreventCycles())

	for _, s := range stages {
		err := g.AddVertex(s)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add stage %s", s)
		}
	}

	for i := 1; i < len(stages); i++ {
		if stages[i] <= stages[i-1] {
			return nil, errors.Wrapf(model.ErrOutOfRange, "stage %s cannot follow %s", stages[i], stages[i-1])
		}

		err := g.AddEdge(stages[i-1], stages[i])
		if err != nil {
			return nil, errors.Wrapf(err, "unable to link %s to %s", stages[i-1], stages[i])
		}
	}

	return g, nil
}

// validateLattice checks that a workflow runs from Initialized to the terminal stage and that
// every stage after Initialized has a unit producing it.
func validateLattice(kind model.WorkflowKind, producers map[model.State]func() WorkUnit) error {
	stages, err := Stages(kind)
	if err != nil {
		return err
	}

	g, err := Lattice(kind)
	if err != nil {
		return err
	}

	_, err = graph.ShortestPath(g, model.Initialized, kind.Terminal())
	if err != nil {
		return errors.Wrapf(err, "%s workflow cannot reach its terminal stage", kind)
	}

	for _, s := range stages[1:] {
		if producers[s] == nil {
			return errors.Wrapf(model.ErrOutOfRange, "no unit produces stage %s of the %s workflow", s, kind)
		}
	}

	return nil
}
