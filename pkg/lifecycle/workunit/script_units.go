package workunit

import (
	"context"
	"fmt"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/modifier"
)

// CreateDeploymentFilesUnit compares the previous and the new package and writes the deploy
// script, and the deploy report when documentation is enabled.
type CreateDeploymentFilesUnit struct {
	dac    access.DacAccess
	fs     access.FileSystem
	logger access.Logger
}

func NewCreateDeploymentFilesUnit(dac access.DacAccess, fs access.FileSystem, logger access.Logger) *CreateDeploymentFilesUnit {
	return &CreateDeploymentFilesUnit{dac: dac, fs: fs, logger: logger}
}

func (u *CreateDeploymentFilesUnit) Work(ctx context.Context, m model.Model) error {
	sc, err := scriptCreationModel(m)
	if err != nil {
		return err
	}

	paths, err := loadedPaths(&sc.StateModel)
	if err != nil {
		return err
	}

	u.logger.Log(ctx, "Creating deployment files ...")

	createReport := sc.Configuration.CreateDocumentationWithScriptCreation

	files, err := u.dac.CreateDeployFiles(ctx,
		paths.DeploySource.PreviousDacpacPath,
		paths.DeploySource.NewDacpacPath,
		paths.DeploySource.PublishProfilePath,
		true, createReport)
	if err != nil {
		u.logger.Log(ctx, "ERROR: Failed to create deployment files: "+err.Error())
		sc.Result = model.ResultFailed

		return sc.Advance(model.TriedToCreateDeploymentFiles)
	}

	if len(files.Errors) > 0 {
		for _, e := range files.Errors {
			u.logger.Log(ctx, "ERROR: "+e)
		}

		sc.Result = model.ResultFailed

		return sc.Advance(model.TriedToCreateDeploymentFiles)
	}

	sc.PreDeploymentScript = files.PreDeploymentScript
	sc.PostDeploymentScript = files.PostDeploymentScript

	outputs := []deployOutput{{path: paths.DeployTarget.DeployScriptPath, content: files.Script}}
	if createReport {
		outputs = append(outputs, deployOutput{path: paths.DeployTarget.DeployReportPath, content: files.Report})
	}

	if !u.write(ctx, outputs) {
		sc.Result = model.ResultFailed
	}

	return sc.Advance(model.TriedToCreateDeploymentFiles)
}

type deployOutput struct {
	path    string
	content string
}

// write stores outputs in order. On the first failure the files already written are removed.
func (u *CreateDeploymentFilesUnit) write(ctx context.Context, outputs []deployOutput) bool {
	for i, out := range outputs {
		err := u.fs.WriteFile(out.path, out.content)
		if err == nil {
			continue
		}

		u.logger.Log(ctx, fmt.Sprintf("ERROR: Failed to write '%s': %v", out.path, err))

		for _, written := range outputs[:i] {
			err := u.fs.DeleteFile(written.path)
			if err != nil {
				u.logger.Log(ctx, fmt.Sprintf("ERROR: Failed to remove '%s': %v", written.path, err))
			}
		}

		return false
	}

	return true
}

// ModifyDeploymentScriptUnit runs the enabled script modifiers over the deploy script.
// A failing modifier leaves the script as it was before it ran and the remaining
// modifiers still run. The unit fails when any modifier failed.
type ModifyDeploymentScriptUnit struct {
	modifiers ModifierFactory
	fs        access.FileSystem
	logger    access.Logger
}

func NewModifyDeploymentScriptUnit(modifiers ModifierFactory, fs access.FileSystem, logger access.Logger) *ModifyDeploymentScriptUnit {
	return &ModifyDeploymentScriptUnit{modifiers: modifiers, fs: fs, logger: logger}
}

func (u *ModifyDeploymentScriptUnit) Work(ctx context.Context, m model.Model) error {
	sc, err := scriptCreationModel(m)
	if err != nil {
		return err
	}

	paths, err := loadedPaths(&sc.StateModel)
	if err != nil {
		return err
	}

	kinds := modifier.Enabled(sc.Configuration)
	if len(kinds) == 0 {
		return sc.Advance(model.ModifiedDeploymentScript)
	}

	modifiers := make([]modifier.ScriptModifier, 0, len(kinds))

	for _, kind := range kinds {
		mod, err := u.modifiers.CreateScriptModifier(kind)
		if err != nil {
			return err
		}

		modifiers = append(modifiers, mod)
	}

	u.logger.Log(ctx, "Modifying deployment script ...")

	script, err := u.fs.ReadFile(paths.DeployTarget.DeployScriptPath)
	if err != nil {
		u.logger.Log(ctx, "ERROR: Failed to read deployment script: "+err.Error())
		sc.Result = model.ResultFailed

		return sc.Advance(model.ModifiedDeploymentScript)
	}

	in := modifier.Input{
		Script:          script,
		Project:         sc.Project,
		Configuration:   sc.Configuration,
		Paths:           paths,
		PreviousVersion: sc.FormattedPreviousVersion,
		NewVersion:      sc.FormattedTargetVersion,
	}
	succeeded := true

	for i, mod := range modifiers {
		modified, ok := mod.Modify(ctx, in)
		if !ok {
			u.logger.Log(ctx, fmt.Sprintf("ERROR: Script modifier '%s' failed.", kinds[i]))
			succeeded = false

			continue
		}

		in.Script = modified
	}

	err = u.fs.WriteFile(paths.DeployTarget.DeployScriptPath, in.Script)
	if err != nil {
		u.logger.Log(ctx, "ERROR: Failed to write deployment script: "+err.Error())
		succeeded = false
	}

	if !succeeded {
		sc.Result = model.ResultFailed
	}

	return sc.Advance(model.ModifiedDeploymentScript)
}

var (
	_ WorkUnit = (*CreateDeploymentFilesUnit)(nil)
	_ WorkUnit = (*ModifyDeploymentScriptUnit)(nil)
)
