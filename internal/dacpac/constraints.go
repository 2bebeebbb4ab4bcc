package dacpac

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
)

const defaultConstraintType = "SqlDefaultConstraint"

type modelFile struct {
	Elements []element `xml:"Model>Element"`
}

type element struct {
	Type          string         `xml:"Type,attr"`
	Name          string         `xml:"Name,attr"`
	Relationships []relationship `xml:"Relationship"`
}

type relationship struct {
	Name       string      `xml:"Name,attr"`
	References []reference `xml:"Entry>References"`
}

type reference struct {
	Name string `xml:"Name,attr"`
}

// GetDefaultConstraints lists the default constraints of the package model.
// Elements that cannot be resolved to a table column are reported as errors and skipped.
func (a *Access) GetDefaultConstraints(_ context.Context, dacpacPath string) ([]access.DefaultConstraint, []string, error) {
	r, err := zip.OpenReader(dacpacPath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to open %s", dacpacPath)
	}
	defer r.Close()

	content, err := readEntry(&r.Reader, ModelEntry)
	if err != nil {
		return nil, nil, err
	}

	if content == "" {
		return nil, []string{"package " + dacpacPath + " has no " + ModelEntry}, nil
	}

	return parseDefaultConstraints([]byte(content))
}

func parseDefaultConstraints(content []byte) ([]access.DefaultConstraint, []string, error) {
	var m modelFile

	err := xml.Unmarshal(content, &m)
	if err != nil {
		return nil, nil, errors.Wrap(err, "invalid package model")
	}

	var (
		res      []access.DefaultConstraint
		problems []string
	)

	for _, e := range m.Elements {
		if e.Type != defaultConstraintType {
			continue
		}

		var table, column []string

		for _, rel := range e.Relationships {
			if len(rel.References) == 0 {
				continue
			}

			switch rel.Name {
			case "DefiningTable":
				table = splitName(rel.References[0].Name)
			case "ForColumn":
				column = splitName(rel.References[0].Name)
			}
		}

		if len(table) != 2 || len(column) != 3 {
			problems = append(problems, "cannot resolve the column of default constraint "+describe(e.Name))

			continue
		}

		c := access.DefaultConstraint{
			TableSchema: table[0],
			TableName:   table[1],
			ColumnName:  column[2],
		}

		if name := splitName(e.Name); len(name) > 0 {
			c.ConstraintName = name[len(name)-1]
		}

		res = append(res, c)
	}

	return res, problems, nil
}

// splitName turns "[dbo].[Author].[Id]" into its parts.
func splitName(name string) []string {
	var (
		parts   []string
		current strings.Builder
		open    bool
	)

	for i := 0; i < len(name); i++ {
		c := name[i]

		switch {
		case c == '[' && !open:
			open = true
		case c == ']' && open:
			if i+1 < len(name) && name[i+1] == ']' {
				current.WriteByte(']')
				i++

				continue
			}

			open = false

			parts = append(parts, current.String())
			current.Reset()
		case open:
			current.WriteByte(c)
		}
	}

	return parts
}

func describe(name string) string {
	if name == "" {
		return "(unnamed)"
	}

	return name
}
