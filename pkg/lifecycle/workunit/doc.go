// Package workunit implements the stages of the scaffolding and script creation workflows.
//
// Each stage is produced by exactly one work unit. A unit reads the state model, calls its
// collaborators, advances the model to the stage it produces and records failures in the
// model result instead of returning them.
//
// The Factory resolves the unit to run from the current stage of a model. Both workflows
// share the stages up to TriedToCopyBuildResult:
//
//	Initialized -> SqlProjectPropertiesLoaded -> FormattedTargetVersionLoaded ->
//	FormattedTargetVersionValidated -> PathsLoaded -> [PathsVerified] -> TriedToBuildProject ->
//	TriedToCopyBuildResult -> [TriedToCreateDeploymentFiles -> ModifiedDeploymentScript] ->
//	TriedToCopyDacpacToSharedDacpacRepository
//
// Stages in brackets only belong to script creation.
package workunit
