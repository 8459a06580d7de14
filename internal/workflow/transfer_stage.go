package workflow

import (
	"context"
	"fmt"

	"payrun/internal/payout"
	"payrun/internal/stage"
)

func (r *Runner) transferStage() stage.Stage {
	return stage.Stage{
		Title: "transfer spot to funding",
		Skip: func(run *payout.RunContext) bool {
			return !run.Continue || !run.TransferSpotToFunding
		},
		Run: func(ctx context.Context, run *payout.RunContext) error {
			logger := r.logger()
			logger.Info("starting spot to funding transfer", "amount", run.TransferAmount.String(), "currency", run.Currency)

			tranID, err := r.Ledger.Transfer(ctx, run.Currency, run.TransferAmount)
			if err != nil {
				logger.Error("spot to funding transfer failed", "error", err)
				return fmt.Errorf("%w: %v", payout.ErrTransferFailed, err)
			}
			logger.Info("spot to funding transfer confirmed", "transaction_id", tranID)
			fmt.Fprintf(r.out(), "Transferred %s %s to Funding (transaction %d)\n", run.TransferAmount.String(), run.Currency, tranID)

			proceed, err := r.Prompt.Confirm("Execute payout?", true)
			if err != nil {
				return err
			}
			run.Continue = proceed
			logger.Info("transfer gate answered", "continue", run.Continue)
			return nil
		},
	}
}
