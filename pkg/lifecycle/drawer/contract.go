// Package drawer renders the stage graph of the lifecycle workflows in the DOT language.
package drawer

import (
	"io"
	"time"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/measure"
)

// Drawer is an interface that defines the methods for drawing workflow stages.
type Drawer interface {
	// AddStage adds a stage. Adding a stage twice is a no-op.
	AddStage(name string) error
	// AddLink adds a link from parent to child. Adding a link twice is a no-op.
	AddLink(parentName, childName string) error
	// SetFillColor fills a stage with a hex colour.
	SetFillColor(name, hexColor string) error
	// SetTotalTime labels a stage with the total duration of the run.
	SetTotalTime(name string, total time.Duration) error
	// AddMeasure labels stages and links with their average durations.
	AddMeasure(msr measure.Measure) error
	// Draw writes the graph.
	Draw(w io.Writer) error
}
