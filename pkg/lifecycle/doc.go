/*
Package lifecycle runs the workflows of a database project.

A run starts from a state model built for one workflow, scaffolding or script creation, and
asks the work unit factory for the unit producing the next stage until the terminal stage is
reached:

	svc, err := lifecycle.New(factory, logger, measure.RunMeasure(msr))
	if err != nil {
		// ...
	}

	res, err := svc.CreateScript(ctx, project, cfg, previous, false, onProgress)

The returned error is only set for broken contracts, such as a nil model or a stage missing
from the dispatch table. Operational failures are reported in the output and through the
result, which is model.ResultFailed when a unit failed. A run that reached the terminal stage
without failure succeeded, even when the result is still model.ResultPending.

Options implement model.RunOption and observe every run of a service. Errors returned by an
option are logged as warnings.
*/
package lifecycle
