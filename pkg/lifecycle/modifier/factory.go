package modifier

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

// Factory creates script modifiers with their collaborators wired in.
type Factory struct {
	dac    access.DacAccess
	logger access.Logger
}

// NewFactory creates a new modifier factory.
func NewFactory(dac access.DacAccess, logger access.Logger) (*Factory, error) {
	if dac == nil {
		return nil, errors.Wrap(model.ErrInvalidArgument, "dac access must be set")
	}

	if logger == nil {
		return nil, errors.Wrap(model.ErrInvalidArgument, "logger must be set")
	}

	return &Factory{dac: dac, logger: logger}, nil
}

// CreateScriptModifier returns the modifier implementing kind.
func (f *Factory) CreateScriptModifier(kind Kind) (ScriptModifier, error) {
	switch kind {
	case AddCustomHeader:
		return &CustomHeaderModifier{}, nil
	case AddCustomFooter:
		return &CustomFooterModifier{}, nil
	case TrackDacpacVersion:
		return &TrackDacpacVersionModifier{}, nil
	case CommentOutUnnamedDefaultConstraintDrops:
		return &CommentOutUnnamedDefaultConstraintDropsModifier{}, nil
	case ReplaceUnnamedDefaultConstraintDrops:
		return NewReplaceUnnamedDefaultConstraintDropsModifier(f.dac, f.logger), nil
	default:
		return nil, errors.Wrapf(model.ErrOutOfRange, "unknown script modifier %s", kind)
	}
}
