// Package project reads database project files and builds them.
package project

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

// ErrMissingProperty is returned when a project file lacks a required property.
var ErrMissingProperty = errors.New("missing project property")

var (
	_ access.ProjectService = (*Reader)(nil)
	_ access.BuildService   = (*Builder)(nil)
)

type propertyGroup struct {
	Condition     string `xml:"Condition,attr"`
	Name          string `xml:"Name"`
	SqlTargetName string `xml:"SqlTargetName"`
	OutputPath    string `xml:"OutputPath"`
	DacVersion    string `xml:"DacVersion"`
}

type projectFile struct {
	XMLName        xml.Name        `xml:"Project"`
	PropertyGroups []propertyGroup `xml:"PropertyGroup"`
}

// Reader reads the properties of a project file.
type Reader struct {
	// Configuration selects the conditional property groups, usually Debug or Release.
	Configuration string
}

func NewReader(configuration string) *Reader {
	return &Reader{Configuration: configuration}
}

// LoadProperties fills project.Properties from the project file.
// The target name falls back to the project name and the output path to bin/<configuration>.
func (r *Reader) LoadProperties(_ context.Context, project *model.SqlProject) error {
	if project == nil {
		return errors.Wrap(model.ErrInvalidArgument, "project is nil")
	}

	content, err := os.ReadFile(project.FullName)
	if err != nil {
		return errors.Wrapf(err, "unable to read %s", project.FullName)
	}

	props, err := r.parse(content, project.Name)
	if err != nil {
		return errors.Wrapf(err, "unable to parse %s", project.FullName)
	}

	if !filepath.IsAbs(props.BinaryDirectory) {
		props.BinaryDirectory = filepath.Join(project.Directory(), props.BinaryDirectory)
	}

	project.Properties = props

	return nil
}

func (r *Reader) parse(content []byte, projectName string) (model.ProjectProperties, error) {
	var file projectFile

	err := xml.Unmarshal(content, &file)
	if err != nil {
		return model.ProjectProperties{}, errors.Wrap(err, "invalid project xml")
	}

	var targetName, outputPath, dacVersion string

	for _, group := range file.PropertyGroups {
		if !r.matches(group.Condition) {
			continue
		}

		// Later groups override earlier ones, as msbuild evaluates them in order.
		targetName = override(targetName, group.SqlTargetName)
		outputPath = override(outputPath, group.OutputPath)
		dacVersion = override(dacVersion, group.DacVersion)

		if targetName == "" {
			targetName = strings.TrimSpace(group.Name)
		}
	}

	if targetName == "" {
		targetName = projectName
	}

	if outputPath == "" {
		outputPath = filepath.Join("bin", r.configuration())
	}

	if dacVersion == "" {
		return model.ProjectProperties{}, errors.Wrap(ErrMissingProperty, "DacVersion")
	}

	version, err := model.ParseVersion(dacVersion)
	if err != nil {
		return model.ProjectProperties{}, errors.Wrap(err, "DacVersion")
	}

	return model.ProjectProperties{
		SqlTargetName:   targetName,
		BinaryDirectory: filepath.Clean(filepath.FromSlash(strings.ReplaceAll(outputPath, `\`, "/"))),
		DacVersion:      version,
	}, nil
}

func (r *Reader) configuration() string {
	if r.Configuration == "" {
		return "Debug"
	}

	return r.Configuration
}

// matches accepts unconditional groups and groups conditioned on the selected configuration.
func (r *Reader) matches(condition string) bool {
	if strings.TrimSpace(condition) == "" {
		return true
	}

	return strings.Contains(condition, "'"+r.configuration()+"|") || strings.Contains(condition, "'"+r.configuration()+"'")
}

func override(current, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return current
	}

	return value
}

// Builder builds projects with an external command line, dotnet build by default.
type Builder struct {
	Command       string
	Configuration string
}

func NewBuilder(command, configuration string) *Builder {
	if command == "" {
		command = "dotnet"
	}

	return &Builder{Command: command, Configuration: configuration}
}

// Build runs the build command and returns its output on failure.
func (b *Builder) Build(ctx context.Context, project *model.SqlProject) error {
	if project == nil {
		return errors.Wrap(model.ErrInvalidArgument, "project is nil")
	}

	args := []string{"build", project.FullName, "--nologo"}
	if b.Configuration != "" {
		args = append(args, "--configuration", b.Configuration)
	}

	var out bytes.Buffer

	cmd := exec.CommandContext(ctx, b.Command, args...)
	cmd.Dir = project.Directory()
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err != nil {
		return errors.Wrapf(err, "%s %s: %s", b.Command, strings.Join(args, " "), strings.TrimSpace(out.String()))
	}

	return nil
}
