// Package modifier post-processes generated deployment scripts.
package modifier

import (
	"context"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

// Input is what a modifier needs to transform a script.
type Input struct {
	Script        string
	Project       *model.SqlProject
	Configuration model.Configuration
	Paths         *model.PathCollection
	// PreviousVersion and NewVersion are formatted with the configured pattern.
	PreviousVersion string
	NewVersion      string
}

// ScriptModifier transforms a script. On failure it returns the input script and false.
type ScriptModifier interface {
	Modify(ctx context.Context, in Input) (string, bool)
}
