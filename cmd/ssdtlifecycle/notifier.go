package main

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
)

// notifier prints blocking messages, there is no dialog on a terminal.
type notifier struct {
	zl  *zap.Logger
	out io.Writer
}

var _ access.Notifier = (*notifier)(nil)

func (n *notifier) ShowError(_ context.Context, message string) {
	n.zl.Error(message)
	fmt.Fprintln(n.out, message)
}
