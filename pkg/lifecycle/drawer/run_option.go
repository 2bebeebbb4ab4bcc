package drawer

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/measure"
	"github.com/askiada/go-ssdt-lifecycle/pkg/lifecycle/model"
)

type runDrawer struct {
	Drawer
	m        measure.Measure
	fileName string
}

func (rd *runDrawer) BeforeRun(_ context.Context, m model.Model) error {
	return rd.AddStage(m.Base().CurrentState().String())
}

func (rd *runDrawer) AfterUnit(_ context.Context, _ model.Model, from, to model.State, _ time.Duration) error {
	err := rd.AddStage(to.String())
	if err != nil {
		return err
	}

	return rd.AddLink(from.String(), to.String())
}

func (rd *runDrawer) AfterRun(_ context.Context, m model.Model, elapsed time.Duration) error {
	err := rd.SetTotalTime(m.Base().CurrentState().String(), elapsed)
	if err != nil {
		return errors.Wrap(err, "unable to set total time")
	}

	if rd.m != nil {
		err = rd.AddMeasure(rd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	file, err := os.Create(rd.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", rd.fileName)
	}
	defer file.Close()

	err = rd.Draw(file)
	if err != nil {
		return errors.Wrap(err, "unable to draw run")
	}

	return nil
}

// RunDrawer draws the stages reached by a run into fileName once it stopped.
// msr may be nil; when set, it must be registered before the drawer so that the last
// stage is measured when the graph is written.
func RunDrawer(drawer Drawer, msr measure.Measure, fileName string) model.RunOption {
	return &runDrawer{drawer, msr, fileName}
}
