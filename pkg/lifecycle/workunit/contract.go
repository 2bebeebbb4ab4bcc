package workunit

import (
	"context"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/modifier"
)

// WorkUnit runs one stage of a workflow.
// Work returns an error only for a missing model or a model the unit does not support.
// Any other failure sets the model result to model.ResultFailed.
type WorkUnit interface {
	Work(ctx context.Context, m model.Model) error
}

// ModifierFactory creates the script modifiers run by ModifyDeploymentScriptUnit.
type ModifierFactory interface {
	CreateScriptModifier(kind modifier.Kind) (modifier.ScriptModifier, error)
}
