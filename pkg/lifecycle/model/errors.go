package model

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument reports a missing or malformed required input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOutOfRange reports a stage, workflow or modifier kind outside of a declared table.
	ErrOutOfRange = errors.New("out of range")
)
