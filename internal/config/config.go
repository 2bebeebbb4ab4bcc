// Package config loads and saves the lifecycle configuration of a project.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

const (
	// Directory holds the configuration file, relative to the project directory.
	Directory = "Properties"
	// FileName is the name of the configuration file.
	FileName = "ssdtlifecycle.json"
	// EnvPrefix prefixes the environment variables overriding configuration keys.
	EnvPrefix = "SSDTLC"
)

const (
	keyArtifactsPath                           = "ArtifactsPath"
	keyPublishProfilePath                      = "PublishProfilePath"
	keyVersionPattern                          = "VersionPattern"
	keyBuildBeforeScriptCreation               = "BuildBeforeScriptCreation"
	keyCreateDocumentationWithScriptCreation   = "CreateDocumentationWithScriptCreation"
	keyCommentOutUnnamedDefaultConstraintDrops = "CommentOutUnnamedDefaultConstraintDrops"
	keyReplaceUnnamedDefaultConstraintDrops    = "ReplaceUnnamedDefaultConstraintDrops"
	keyCustomHeader                            = "CustomHeader"
	keyCustomFooter                            = "CustomFooter"
	keyTrackDacpacVersion                      = "TrackDacpacVersion"
	keySharedDacpacRepositoryPath              = "SharedDacpacRepositoryPath"
)

// Path returns the configuration file of the project stored at projectPath.
func Path(projectPath string) string {
	return filepath.Join(filepath.Dir(projectPath), Directory, FileName)
}

// Loader reads configuration files. Environment variables win over the file.
type Loader struct {
	useEnv bool
}

type Option func(l *Loader)

// WithoutEnv ignores environment variables.
func WithoutEnv() Option {
	return func(l *Loader) {
		l.useEnv = false
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{useEnv: true}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads the configuration of the project stored at projectPath.
func (l *Loader) Load(projectPath string) (model.Configuration, error) {
	return l.LoadFile(Path(projectPath))
}

// LoadFile reads a configuration file. A missing file yields the default configuration.
// The result is validated.
func (l *Loader) LoadFile(path string) (model.Configuration, error) {
	v := l.newViper()

	_, err := os.Stat(path)

	switch {
	case err == nil:
		v.SetConfigFile(path)

		err = v.ReadInConfig()
		if err != nil {
			return model.Configuration{}, errors.Wrapf(err, "unable to read configuration %s", path)
		}
	case !errors.Is(err, os.ErrNotExist):
		return model.Configuration{}, errors.Wrapf(err, "unable to access configuration %s", path)
	}

	cfg := model.Configuration{
		ArtifactsPath:                           v.GetString(keyArtifactsPath),
		PublishProfilePath:                      v.GetString(keyPublishProfilePath),
		VersionPattern:                          v.GetString(keyVersionPattern),
		BuildBeforeScriptCreation:               v.GetBool(keyBuildBeforeScriptCreation),
		CreateDocumentationWithScriptCreation:   v.GetBool(keyCreateDocumentationWithScriptCreation),
		CommentOutUnnamedDefaultConstraintDrops: v.GetBool(keyCommentOutUnnamedDefaultConstraintDrops),
		ReplaceUnnamedDefaultConstraintDrops:    v.GetBool(keyReplaceUnnamedDefaultConstraintDrops),
		CustomHeader:                            v.GetString(keyCustomHeader),
		CustomFooter:                            v.GetString(keyCustomFooter),
		TrackDacpacVersion:                      v.GetBool(keyTrackDacpacVersion),
		SharedDacpacRepositoryPath:              v.GetString(keySharedDacpacRepositoryPath),
	}

	err = cfg.Validate()
	if err != nil {
		return model.Configuration{}, errors.Wrapf(err, "configuration %s", path)
	}

	return cfg, nil
}

func (l *Loader) newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")

	def := model.DefaultConfiguration()
	v.SetDefault(keyArtifactsPath, def.ArtifactsPath)
	v.SetDefault(keyPublishProfilePath, def.PublishProfilePath)
	v.SetDefault(keyVersionPattern, def.VersionPattern)
	v.SetDefault(keyBuildBeforeScriptCreation, def.BuildBeforeScriptCreation)
	v.SetDefault(keyCreateDocumentationWithScriptCreation, def.CreateDocumentationWithScriptCreation)
	v.SetDefault(keyCommentOutUnnamedDefaultConstraintDrops, def.CommentOutUnnamedDefaultConstraintDrops)
	v.SetDefault(keyReplaceUnnamedDefaultConstraintDrops, def.ReplaceUnnamedDefaultConstraintDrops)
	v.SetDefault(keyCustomHeader, def.CustomHeader)
	v.SetDefault(keyCustomFooter, def.CustomFooter)
	v.SetDefault(keyTrackDacpacVersion, def.TrackDacpacVersion)
	v.SetDefault(keySharedDacpacRepositoryPath, def.SharedDacpacRepositoryPath)

	if l.useEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	return v
}

// Save writes cfg as the configuration of the project stored at projectPath.
func Save(projectPath string, cfg model.Configuration) error {
	err := cfg.Validate()
	if err != nil {
		return err
	}

	path := Path(projectPath)

	err = os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", filepath.Dir(path))
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set(keyArtifactsPath, cfg.ArtifactsPath)
	v.Set(keyPublishProfilePath, cfg.PublishProfilePath)
	v.Set(keyVersionPattern, cfg.VersionPattern)
	v.Set(keyBuildBeforeScriptCreation, cfg.BuildBeforeScriptCreation)
	v.Set(keyCreateDocumentationWithScriptCreation, cfg.CreateDocumentationWithScriptCreation)
	v.Set(keyCommentOutUnnamedDefaultConstraintDrops, cfg.CommentOutUnnamedDefaultConstraintDrops)
	v.Set(keyReplaceUnnamedDefaultConstraintDrops, cfg.ReplaceUnnamedDefaultConstraintDrops)
	v.Set(keyCustomHeader, cfg.CustomHeader)
	v.Set(keyCustomFooter, cfg.CustomFooter)
	v.Set(keyTrackDacpacVersion, cfg.TrackDacpacVersion)
	v.Set(keySharedDacpacRepositoryPath, cfg.SharedDacpacRepositoryPath)

	err = v.WriteConfigAs(path)
	if err != nil {
		return errors.Wrapf(err, "unable to write configuration %s", path)
	}

	return nil
}
