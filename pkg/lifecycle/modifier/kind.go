package modifier

import (
	"strconv"
	"strings"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

// Kind identifies a script modifier.
type Kind int

const (
	Undefined Kind = iota
	AddCustomHeader
	AddCustomFooter
	TrackDacpacVersion
	CommentOutUnnamedDefaultConstraintDrops
	ReplaceUnnamedDefaultConstraintDrops
)

func (k Kind) String() string {
	switch k {
	case Undefined:
		return "Undefined"
	case AddCustomHeader:
		return "AddCustomHeader"
	case AddCustomFooter:
		return "AddCustomFooter"
	case TrackDacpacVersion:
		return "TrackDacpacVersion"
	case CommentOutUnnamedDefaultConstraintDrops:
		return "CommentOutUnnamedDefaultConstraintDrops"
	case ReplaceUnnamedDefaultConstraintDrops:
		return "ReplaceUnnamedDefaultConstraintDrops"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Enabled returns the kinds switched on by cfg, in the order they must run.
func Enabled(cfg model.Configuration) []Kind {
	var kinds []Kind

	if strings.TrimSpace(cfg.CustomHeader) != "" {
		kinds = append(kinds, AddCustomHeader)
	}

	if strings.TrimSpace(cfg.CustomFooter) != "" {
		kinds = append(kinds, AddCustomFooter)
	}

	if cfg.TrackDacpacVersion {
		kinds = append(kinds, TrackDacpacVersion)
	}

	if cfg.CommentOutUnnamedDefaultConstraintDrops {
		kinds = append(kinds, CommentOutUnnamedDefaultConstraintDrops)
	}

	if cfg.ReplaceUnnamedDefaultConstraintDrops {
		kinds = append(kinds, ReplaceUnnamedDefaultConstraintDrops)
	}

	return kinds
}
