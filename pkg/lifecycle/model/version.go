package model

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// UndefinedComponent marks a version component that was not given.
const UndefinedComponent = -1

// Version is a two to four component version number.
// Build and Revision are UndefinedComponent for shorter versions.
type Version struct {
	Major    int
	Minor    int
	Build    int
	Revision int
}

// NewVersion builds a version from two to four non-negative components.
func NewVersion(components ...int) (Version, error) {
	if len(components) < 2 || len(components) > 4 {
		return Version{}, errors.Wrapf(ErrInvalidArgument, "version needs 2 to 4 components, got %d", len(components))
	}

	parts := [4]int{UndefinedComponent, UndefinedComponent, UndefinedComponent, UndefinedComponent}

	for i, c := range components {
		if c < 0 {
			return Version{}, errors.Wrapf(ErrInvalidArgument, "version component %d is negative", i)
		}

		parts[i] = c
	}

	return Version{Major: parts[0], Minor: parts[1], Build: parts[2], Revision: parts[3]}, nil
}

// ParseVersion parses "major.minor[.build[.revision]]".
func ParseVersion(s string) (Version, error) {
	fields := strings.Split(strings.TrimSpace(s), ".")
	components := make([]int, 0, len(fields))

	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Version{}, errors.Wrapf(ErrInvalidArgument, "unable to parse version %q", s)
		}

		components = append(components, n)
	}

	return NewVersion(components...)
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}

	return v
}

func (v Version) String() string {
	var sb strings.Builder

	sb.WriteString(strconv.Itoa(v.Major))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(v.Minor))

	if v.Build != UndefinedComponent {
		sb.WriteByte('.')
		sb.WriteString(strconv.Itoa(v.Build))

		if v.Revision != UndefinedComponent {
			sb.WriteByte('.')
			sb.WriteString(strconv.Itoa(v.Revision))
		}
	}

	return sb.String()
}

// Compare returns -1, 0 or 1. An undefined component sorts before zero.
func (v Version) Compare(other Version) int {
	a := [4]int{v.Major, v.Minor, v.Build, v.Revision}
	b := [4]int{other.Major, other.Minor, other.Build, other.Revision}

	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}

	return 0
}
