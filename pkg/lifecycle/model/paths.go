package model

// DirectoryPaths are the directories a run reads from and writes to.
type DirectoryPaths struct {
	ProjectDirectory         string
	LatestArtifactsDirectory string
	NewArtifactsDirectory    string
}

// DeploySourcePaths are the inputs of the deployment file generation.
type DeploySourcePaths struct {
	NewDacpacPath      string
	PublishProfilePath string
	// PreviousDacpacPath is empty when scaffolding.
	PreviousDacpacPath string
}

// DeployTargetPaths are the generated files. Both are empty when scaffolding.
type DeployTargetPaths struct {
	DeployScriptPath string
	DeployReportPath string
}

// PathCollection groups all paths of a run. It is built once and only read afterwards.
type PathCollection struct {
	Directories  DirectoryPaths
	DeploySource DeploySourcePaths
	DeployTarget DeployTargetPaths
}
