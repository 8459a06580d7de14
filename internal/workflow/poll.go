package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"payrun/internal/payout"
)

// DefaultPollInterval is the wait between batch status queries.
const DefaultPollInterval = 2 * time.Minute

// PollPolicy controls the batch status polling loop. A zero MaxAttempts
// means no ceiling: the workflow has nothing useful to do while the batch is
// processing, and a batch can legitimately stay non-terminal for a long,
// unknown duration.
type PollPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

func (p PollPolicy) interval() time.Duration {
	if p.Interval <= 0 {
		return DefaultPollInterval
	}
	return p.Interval
}

// pollBatch queries the batch status until a terminal status arrives. Both
// transport failures and non-terminal responses wait one interval before
// the next attempt; transport failures never end the loop.
func (r *Runner) pollBatch(ctx context.Context, requestID string) (*payout.BatchResult, error) {
	logger := r.logger()
	attempt := 0
	for {
		attempt++
		result, err := r.Ledger.QueryBatch(ctx, requestID)
		switch {
		case err != nil:
			logger.Error("batch status query failed", "attempt", attempt, "error", err)
		case result.Status.Terminal():
			logger.Info("batch reached terminal status", "attempt", attempt, "status", string(result.Status))
			return result, nil
		default:
			logger.Info("batch still processing", "attempt", attempt, "status", string(result.Status))
		}

		if r.Poll.MaxAttempts > 0 && attempt >= r.Poll.MaxAttempts {
			return nil, fmt.Errorf("%w: no terminal status after %d attempts", payout.ErrBatchStillProcessing, attempt)
		}
		if err := sleep(ctx, r.Poll.interval()); err != nil {
			return nil, err
		}
	}
}

func logBatchOutcome(logger *slog.Logger, status payout.BatchStatus) {
	switch status {
	case payout.BatchSuccess:
		logger.Info("batch success")
	case payout.BatchFailed:
		logger.Info("batch failed")
	case payout.BatchPartSuccess:
		logger.Info("batch partially successful, some recipients could not receive funds")
	case payout.BatchCanceled:
		logger.Info("batch canceled by provider")
	}
}
