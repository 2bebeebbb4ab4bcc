package model

import "strconv"

// State marks the progress of a run. Values are ordered along the shared stage sequence.
type State int

const (
	Undefined State = iota
	Initialized
	SqlProjectPropertiesLoaded
	FormattedTargetVersionLoaded
	FormattedTargetVersionValidated
	PathsLoaded
	PathsVerified
	TriedToBuildProject
	TriedToCopyBuildResult
	TriedToCreateDeploymentFiles
	ModifiedDeploymentScript
	TriedToCopyDacpacToSharedDacpacRepository
)

var stateNames = map[State]string{
	Undefined:                                 "Undefined",
	Initialized:                               "Initialized",
	SqlProjectPropertiesLoaded:                "SqlProjectPropertiesLoaded",
	FormattedTargetVersionLoaded:              "FormattedTargetVersionLoaded",
	FormattedTargetVersionValidated:           "FormattedTargetVersionValidated",
	PathsLoaded:                               "PathsLoaded",
	PathsVerified:                             "PathsVerified",
	TriedToBuildProject:                       "TriedToBuildProject",
	TriedToCopyBuildResult:                    "TriedToCopyBuildResult",
	TriedToCreateDeploymentFiles:              "TriedToCreateDeploymentFiles",
	ModifiedDeploymentScript:                  "ModifiedDeploymentScript",
	TriedToCopyDacpacToSharedDacpacRepository: "TriedToCopyDacpacToSharedDacpacRepository",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return "State(" + strconv.Itoa(int(s)) + ")"
}

// AllStates returns every declared stage in order.
func AllStates() []State {
	states := make([]State, 0, len(stateNames))
	for s := Undefined; s <= TriedToCopyDacpacToSharedDacpacRepository; s++ {
		states = append(states, s)
	}

	return states
}

// WorkflowKind selects the branch of the stage sequence a run follows.
type WorkflowKind int

const (
	Scaffolding WorkflowKind = iota + 1
	ScriptCreation
)

func (k WorkflowKind) String() string {
	switch k {
	case Scaffolding:
		return "scaffolding"
	case ScriptCreation:
		return "script creation"
	default:
		return "WorkflowKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Terminal returns the last stage of the workflow.
func (k WorkflowKind) Terminal() State {
	return TriedToCopyDacpacToSharedDacpacRepository
}

// Result is the outcome of a run. ResultPending means no unit has failed so far.
type Result int

const (
	ResultPending Result = iota
	ResultSucceeded
	ResultFailed
)

// ResultOf converts a success flag.
func ResultOf(ok bool) Result {
	if ok {
		return ResultSucceeded
	}

	return ResultFailed
}

func (r Result) String() string {
	switch r {
	case ResultPending:
		return "pending"
	case ResultSucceeded:
		return "succeeded"
	case ResultFailed:
		return "failed"
	default:
		return "Result(" + strconv.Itoa(int(r)) + ")"
	}
}
