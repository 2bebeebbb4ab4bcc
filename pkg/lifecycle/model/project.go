package model

import "path/filepath"

// SqlProject identifies a database project.
type SqlProject struct {
	// Name is the display name of the project.
	Name string
	// FullName is the path of the project file.
	FullName string
	// UniqueName identifies the project inside its solution.
	UniqueName string

	Properties ProjectProperties
}

// ProjectProperties are read from the project file before any artifact is produced.
type ProjectProperties struct {
	SqlTargetName   string
	BinaryDirectory string
	DacVersion      Version
}

// NewSqlProject returns a project whose name is derived from its file.
func NewSqlProject(fullName string) *SqlProject {
	base := filepath.Base(fullName)
	name := base[:len(base)-len(filepath.Ext(base))]

	return &SqlProject{
		Name:       name,
		FullName:   fullName,
		UniqueName: base,
	}
}

// Directory is the directory holding the project file.
func (p *SqlProject) Directory() string {
	return filepath.Dir(p.FullName)
}
