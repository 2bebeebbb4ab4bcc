package drawer

import (
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

var (
	sharedColor     = [3]uint8{220, 220, 220}
	exclusiveColors = map[model.WorkflowKind][3]uint8{
		model.Scaffolding:    {173, 216, 230},
		model.ScriptCreation: {255, 218, 185},
	}
)

// AddWorkflows draws the stages of every workflow. Stages shared by all workflows are grey,
// the others take the colour of the only workflow using them.
func AddWorkflows(d Drawer, stages map[model.WorkflowKind][]model.State) error {
	usage := make(map[model.State][]model.WorkflowKind)

	for kind, list := range stages {
		for i, s := range list {
			err := d.AddStage(s.String())
			if err != nil {
				return err
			}

			usage[s] = append(usage[s], kind)

			if i > 0 {
				err = d.AddLink(list[i-1].String(), s.String())
				if err != nil {
					return err
				}
			}
		}
	}

	for s, kinds := range usage {
		rgb := sharedColor
		if len(kinds) == 1 {
			rgb = exclusiveColors[kinds[0]]
		}

		color, err := colors.RGB(rgb[0], rgb[1], rgb[2]) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		err = d.SetFillColor(s.String(), color.ToHEX().String())
		if err != nil {
			return err
		}
	}

	return nil
}
