// Package stage provides the ordered pipeline executor the payout workflow
// is built on. Stages run strictly one at a time against the shared run
// context; the first failing stage aborts the whole pipeline.
package stage

import (
	"context"
	"fmt"
	"log/slog"

	"payrun/internal/payout"
)

// Stage is one step of the pipeline. Skip is evaluated before each run; when
// it reports true the action is not invoked and the pipeline advances. The
// executor has no retry or rollback of its own.
type Stage struct {
	Title string
	Skip  func(*payout.RunContext) bool
	Run   func(context.Context, *payout.RunContext) error
}

// Run executes the stages in order. Any stage error stops execution
// immediately and is returned wrapped with the stage title; no further
// stages run. Stage transitions are written to the audit log regardless of
// outcome.
func Run(ctx context.Context, logger *slog.Logger, run *payout.RunContext, stages []Stage) error {
	if logger == nil {
		logger = slog.Default()
	}
	for _, st := range stages {
		stageLogger := logger.With("stage", st.Title)
		if st.Skip != nil && st.Skip(run) {
			stageLogger.Info("stage skipped")
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		stageLogger.Info("stage started")
		if err := st.Run(ctx, run); err != nil {
			stageLogger.Error("stage failed", "error", err)
			return fmt.Errorf("%s: %w", st.Title, err)
		}
		stageLogger.Info("stage completed", "continue", run.Continue)
	}
	return nil
}
