package workflow

import (
	"context"
	"fmt"

	"payrun/internal/ingest"
	"payrun/internal/payout"
	"payrun/internal/stage"
)

func (r *Runner) ingestStage(inputPath string) stage.Stage {
	return stage.Stage{
		Title: "read input file",
		Run: func(ctx context.Context, run *payout.RunContext) error {
			logger := r.logger()
			logger.Info("parsing input file", "path", inputPath)

			records, err := ingest.ReadFile(inputPath, run.StartedAt)
			if err != nil {
				return err
			}
			run.Records = records
			logger.Info("input file parsed", "records", len(records))

			fmt.Fprintln(r.out(), renderPreviewTable(records))

			proceed, err := r.Prompt.Confirm("Continue?", true)
			if err != nil {
				return err
			}
			run.Continue = proceed
			logger.Info("ingest gate answered", "continue", run.Continue)
			return nil
		},
	}
}
