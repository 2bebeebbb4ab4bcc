package lifecycle

import "github.com/pkg/errors"

// ErrAlreadyRunning is returned when a service is asked to start a second run.
var ErrAlreadyRunning = errors.New("a run is already in progress")
