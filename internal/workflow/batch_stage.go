package workflow

import (
	"context"
	"fmt"
	"time"

	"payrun/internal/payout"
	"payrun/internal/stage"
)

func (r *Runner) batchStage() stage.Stage {
	return stage.Stage{
		Title: "execute payout batch",
		Skip:  func(run *payout.RunContext) bool { return !run.Continue },
		Run: func(ctx context.Context, run *payout.RunContext) error {
			logger := r.logger()

			req := buildBatchRequest(run, r.now())
			logger.Info("submitting payout batch",
				"request_id", req.RequestID,
				"batch_name", req.BatchName,
				"total", req.TotalAmount.String(),
				"recipients", len(req.Details),
			)

			requestID, err := r.Ledger.SubmitBatch(ctx, req)
			if err != nil {
				logger.Error("payout batch submission failed", "error", err)
				return fmt.Errorf("%w: %v", payout.ErrBatchSubmission, err)
			}
			logger.Info("payout batch accepted", "request_id", requestID)

			result, err := r.pollBatch(ctx, requestID)
			if err != nil {
				return err
			}
			// Re-check the invariant the polling loop is supposed to hold.
			if result == nil || !result.Status.Terminal() {
				return payout.ErrBatchStillProcessing
			}
			logBatchOutcome(logger, result.Status)
			run.BatchStatus = result.Status

			if err := reconcile(run, result); err != nil {
				logger.Error("reconciliation failed", "error", err)
				return err
			}
			run.HasOutput = true
			logger.Info("per-recipient statuses reconciled", "records", len(run.Records), "batch_status", string(result.Status))

			fmt.Fprintln(r.out(), renderStatusTable(run.Records))

			proceed, err := r.Prompt.Confirm("Notify investors?", true)
			if err != nil {
				return err
			}
			run.Continue = proceed
			logger.Info("payout gate answered", "continue", run.Continue)
			return nil
		},
	}
}

func buildBatchRequest(run *payout.RunContext, now time.Time) payout.BatchRequest {
	details := make([]payout.BatchDetail, 0, len(run.Records))
	for _, rec := range run.Records {
		details = append(details, payout.BatchDetail{
			MerchantSendID: rec.MerchantSendID,
			Email:          rec.BinanceEmail,
			Amount:         rec.Amount,
		})
	}
	poolName := ""
	if len(run.Records) > 0 {
		poolName = run.Records[0].PoolName
	}
	return payout.BatchRequest{
		RequestID:   fmt.Sprintf("BATCH_%d", now.UnixMilli()),
		BatchName:   fmt.Sprintf("%s %s", poolName, run.StartedAt.Format(time.RFC3339)),
		Currency:    run.Currency,
		TotalAmount: payout.Total(run.Records),
		Details:     details,
	}
}

// reconcile copies provider outcomes onto the run's records. Every submitted
// merchant send id must appear in the response; a missing recipient is a
// fatal inconsistency, never silently dropped.
func reconcile(run *payout.RunContext, result *payout.BatchResult) error {
	for _, rec := range run.Records {
		detail, ok := result.Detail(rec.MerchantSendID)
		if !ok {
			return fmt.Errorf("%w: %s (%s)", payout.ErrRecipientMissing, rec.Telegram, rec.MerchantSendID)
		}
		rec.Status = detail.Status
		rec.OrderID = detail.OrderID
	}
	return nil
}
