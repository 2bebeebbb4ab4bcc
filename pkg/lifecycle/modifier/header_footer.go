package modifier

import (
	"context"
	"strings"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

// CustomHeaderModifier prepends the configured header.
type CustomHeaderModifier struct{}

func (*CustomHeaderModifier) Modify(_ context.Context, in Input) (string, bool) {
	header := expandPlaceholders(in.Configuration.CustomHeader, in)
	if header == "" {
		return in.Script, true
	}

	return header + "\n" + in.Script, true
}

// CustomFooterModifier appends the configured footer.
type CustomFooterModifier struct{}

func (*CustomFooterModifier) Modify(_ context.Context, in Input) (string, bool) {
	footer := expandPlaceholders(in.Configuration.CustomFooter, in)
	if footer == "" {
		return in.Script, true
	}

	script := in.Script
	if script != "" && !strings.HasSuffix(script, "\n") {
		script += "\n"
	}

	return script + footer, true
}

func expandPlaceholders(text string, in Input) string {
	return strings.NewReplacer(
		model.PreviousVersionPlaceholder, in.PreviousVersion,
		model.NextVersionPlaceholder, in.NewVersion,
	).Replace(text)
}

var (
	_ ScriptModifier = (*CustomHeaderModifier)(nil)
	_ ScriptModifier = (*CustomFooterModifier)(nil)
)
