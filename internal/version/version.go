// Package version renders project versions with the configured pattern.
package version

import (
	"strconv"
	"strings"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/access"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

// Service replaces the pattern keywords with the version components.
// Segments that are not keywords are kept as they are.
type Service struct{}

// New creates a new version service.
func New() *Service {
	return &Service{}
}

func (*Service) Format(v model.Version, pattern string) string {
	segments := strings.FieldsFunc(pattern, func(r rune) bool { return r == '.' })
	out := make([]string, 0, len(segments))

	for _, s := range segments {
		switch s {
		case model.MajorKeyword:
			s = strconv.Itoa(v.Major)
		case model.MinorKeyword:
			s = strconv.Itoa(v.Minor)
		case model.BuildKeyword:
			s = strconv.Itoa(v.Build)
		case model.RevisionKeyword:
			s = strconv.Itoa(v.Revision)
		}

		out = append(out, s)
	}

	return strings.Join(out, ".")
}

var _ access.VersionService = (*Service)(nil)
