package workunit

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

func stateModel(m model.Model) (*model.StateModel, error) {
	if model.IsNil(m) {
		return nil, errors.Wrap(model.ErrInvalidArgument, "state model must be set")
	}

	return m.Base(), nil
}

func scriptCreationModel(m model.Model) (*model.ScriptCreationStateModel, error) {
	if model.IsNil(m) {
		return nil, errors.Wrap(model.ErrInvalidArgument, "state model must be set")
	}

	sc, ok := m.(*model.ScriptCreationStateModel)
	if !ok {
		return nil, errors.Wrapf(model.ErrOutOfRange, "unit does not support the %s workflow", m.Kind())
	}

	return sc, nil
}

func loadedPaths(b *model.StateModel) (*model.PathCollection, error) {
	if b.Paths == nil {
		return nil, errors.Wrap(model.ErrInvalidArgument, "paths must be loaded")
	}

	return b.Paths, nil
}
