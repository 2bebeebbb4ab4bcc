// Package model provides the data structures shared by the lifecycle engine.
// It defines the version and path value objects, the user configuration snapshot,
// the stage enumeration and the state models that carry one run of a workflow
// from its first work unit to the last.
package model
