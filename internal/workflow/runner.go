package workflow

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"payrun/internal/payout"
	"payrun/internal/prompt"
	"payrun/internal/stage"
)

// Ledger is the remote wallet and payment provider surface the pipeline
// consumes.
type Ledger interface {
	SpotBalance(ctx context.Context, asset string) (decimal.Decimal, error)
	FundingBalance(ctx context.Context, asset string) (decimal.Decimal, error)
	Transfer(ctx context.Context, asset string, amount decimal.Decimal) (int64, error)
	SubmitBatch(ctx context.Context, req payout.BatchRequest) (string, error)
	QueryBatch(ctx context.Context, requestID string) (*payout.BatchResult, error)
}

// Notifier delivers one rendered message to one recipient.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Runner wires the pipeline stages to their collaborators.
type Runner struct {
	Ledger   Ledger
	Notifier Notifier
	Prompt   prompt.Port
	Logger   *slog.Logger
	// Out receives operator-facing tables and progress lines.
	Out io.Writer
	// Poll controls the batch status polling loop.
	Poll PollPolicy
	// Now is the clock used for provider request ids; defaults to time.Now.
	Now func() time.Time
}

// Run executes the full pipeline against the run context. The caller owns
// cleanup: flushing the audit log and writing the output artifact happen
// regardless of the returned error.
func (r *Runner) Run(ctx context.Context, run *payout.RunContext, inputPath string) error {
	stages := []stage.Stage{
		r.ingestStage(inputPath),
		r.balanceStage(),
		r.transferStage(),
		r.batchStage(),
		r.notifyStage(),
	}
	return stage.Run(ctx, r.logger(), run, stages)
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return io.Discard
	}
	return r.Out
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
