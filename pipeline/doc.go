// Package pipeline runs the load, clean, forecast and output stages in
// order, stopping at the first failure.
//
// Every failure is returned as a *StageError naming the stage, wrapping the
// underlying error so callers can still match it with errors.Is and
// errors.As:
//
//	p := &pipeline.Pipeline{Out: os.Stdout}
//	res, err := p.Run(ctx, cfg)
//	var stageErr *pipeline.StageError
//	if errors.As(err, &stageErr) {
//	    log.Printf("failed during %s", stageErr.Stage)
//	}
//
// Images and the optional workbook are rendered into memory first, so a
// failed run leaves no partial output files behind.
package pipeline
