package model

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Version pattern keywords.
const (
	MajorKeyword    = "{MAJOR}"
	MinorKeyword    = "{MINOR}"
	BuildKeyword    = "{BUILD}"
	RevisionKeyword = "{REVISION}"
)

// Header and footer placeholders.
const (
	PreviousVersionPlaceholder = "{PREVIOUS_VERSION}"
	NextVersionPlaceholder     = "{NEXT_VERSION}"
)

// ErrInvalidConfiguration is returned when a configuration breaks one of its rules.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Configuration is the snapshot of the user settings for one project.
// A run keeps its own copy and never changes it.
type Configuration struct {
	ArtifactsPath                           string
	PublishProfilePath                      string
	VersionPattern                          string
	BuildBeforeScriptCreation               bool
	CreateDocumentationWithScriptCreation   bool
	CommentOutUnnamedDefaultConstraintDrops bool
	ReplaceUnnamedDefaultConstraintDrops    bool
	CustomHeader                            string
	CustomFooter                            string
	TrackDacpacVersion                      bool
	SharedDacpacRepositoryPath              string
}

// DefaultConfiguration returns the settings used when a project has no configuration file.
func DefaultConfiguration() Configuration {
	return Configuration{
		ArtifactsPath:                         "_Deployment",
		PublishProfilePath:                    "Database.publish.xml",
		VersionPattern:                        strings.Join([]string{MajorKeyword, MinorKeyword, BuildKeyword, RevisionKeyword}, "."),
		BuildBeforeScriptCreation:             true,
		CreateDocumentationWithScriptCreation: true,
	}
}

// Validate returns every broken rule, joined into one ErrInvalidConfiguration.
func (c Configuration) Validate() error {
	var problems []string

	if strings.TrimSpace(c.ArtifactsPath) == "" {
		problems = append(problems, "artifacts path must be set")
	}

	if strings.TrimSpace(c.PublishProfilePath) == "" {
		problems = append(problems, "publish profile path must be set")
	}

	problems = append(problems, validateVersionPattern(c.VersionPattern)...)

	if c.CommentOutUnnamedDefaultConstraintDrops && c.ReplaceUnnamedDefaultConstraintDrops {
		problems = append(problems, "unnamed default constraint drops cannot be commented out and replaced at the same time")
	}

	if len(problems) == 0 {
		return nil
	}

	return errors.Wrap(ErrInvalidConfiguration, strings.Join(problems, "; "))
}

func validateVersionPattern(pattern string) []string {
	segments := strings.FieldsFunc(pattern, func(r rune) bool { return r == '.' })
	if len(segments) == 0 {
		return []string{"version pattern must be set"}
	}

	var problems []string

	for _, s := range segments {
		switch s {
		case MajorKeyword, MinorKeyword, BuildKeyword, RevisionKeyword:
			continue
		}

		if n, err := strconv.Atoi(s); err != nil || n < 0 {
			problems = append(problems, "version pattern segment "+strconv.Quote(s)+" is neither a keyword nor a number")
		}
	}

	return problems
}
