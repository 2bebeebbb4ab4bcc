// ssdtlifecycle scaffolds database projects and creates their upgrade scripts.
//
// Usage:
//
//	ssdtlifecycle init <project.sqlproj>
//	ssdtlifecycle scaffold <project.sqlproj> --version=1.0.0.0
//	ssdtlifecycle create <project.sqlproj> [--previous=1.0.0.0] [--latest]
//	ssdtlifecycle versions <project.sqlproj>
//	ssdtlifecycle history [--limit=20] [--run=<id>]
//	ssdtlifecycle graph [-o lattice.dot]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
