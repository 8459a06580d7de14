package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"payrun/internal/payout"
	"payrun/internal/prompt"
	"payrun/internal/stage"
)

const (
	choiceTransferSpotFunding = "transfer_spot_funding"
	choiceUseFunding          = "use_funding"
	choiceExit                = "exit"
)

func (r *Runner) balanceStage() stage.Stage {
	return stage.Stage{
		Title: "check wallet balances",
		Skip:  func(run *payout.RunContext) bool { return !run.Continue },
		Run: func(ctx context.Context, run *payout.RunContext) error {
			logger := r.logger()

			run.RequiredTotal = payout.Total(run.Records)
			logger.Info("required total computed", "total", run.RequiredTotal.String(), "currency", run.Currency)

			spot, funding := r.queryBalances(ctx, run.Currency)
			run.SpotBalance = spot
			run.FundingBalance = funding

			fmt.Fprintln(r.out(), renderBalanceTable(spot, funding, run.Currency))

			required := run.RequiredTotal
			switch {
			case funding.Amount.GreaterThanOrEqual(required):
				return r.fundingSufficient(run, logger)
			case funding.Amount.Add(spot.Amount).LessThan(required):
				logger.Error("not enough balance to execute payout",
					"spot", spot.Amount.String(),
					"funding", funding.Amount.String(),
					"need", required.String(),
				)
				return fmt.Errorf("%w: %s, spot: %s, funding: %s, need: %s",
					payout.ErrInsufficientFunds, run.Currency,
					spot.Amount.String(), funding.Amount.String(), required.String())
			default:
				proceed, err := r.Prompt.Confirm("Transfer all Spot to Funding?", true)
				if err != nil {
					return err
				}
				run.Continue = proceed
				if proceed {
					run.TransferSpotToFunding = true
					run.TransferAmount = spot.Amount
				}
				logger.Info("balance gate answered", "continue", run.Continue, "transfer", run.TransferSpotToFunding)
				return nil
			}
		},
	}
}

// queryBalances fetches both wallet balances concurrently. A query failure
// is downgraded to a zero balance so the run can keep going, but it is
// recorded as an unknown balance rather than a confirmed empty wallet.
func (r *Runner) queryBalances(ctx context.Context, currency string) (spot, funding payout.Balance) {
	logger := r.logger()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		amount, err := r.Ledger.SpotBalance(gctx, currency)
		if err != nil {
			logger.Error("spot balance query failed, treating balance as 0", "error", err)
			spot = payout.UnknownBalance()
			return nil
		}
		spot = payout.KnownBalance(amount)
		logger.Info("spot balance", "balance", amount.String())
		return nil
	})
	g.Go(func() error {
		amount, err := r.Ledger.FundingBalance(gctx, currency)
		if err != nil {
			logger.Error("funding balance query failed, treating balance as 0", "error", err)
			funding = payout.UnknownBalance()
			return nil
		}
		funding = payout.KnownBalance(amount)
		logger.Info("funding balance", "balance", amount.String())
		return nil
	})
	_ = g.Wait()
	return spot, funding
}

func (r *Runner) fundingSufficient(run *payout.RunContext, logger *slog.Logger) error {
	message := fmt.Sprintf(
		"There is enough balance in Funding to execute payout (need %s %s), do you still want to transfer Spot to Funding anyway?",
		run.RequiredTotal.String(), run.Currency,
	)
	selection, err := r.Prompt.SelectOne(message, []prompt.Choice{
		{Value: choiceTransferSpotFunding, Label: "Yes, transfer all Spot to Funding"},
		{Value: choiceUseFunding, Label: "No, use current Funding balance"},
		{Value: choiceExit, Label: "Exit"},
	})
	if err != nil {
		return err
	}

	run.Continue = selection != choiceExit
	run.TransferSpotToFunding = selection == choiceTransferSpotFunding
	if run.TransferSpotToFunding {
		run.TransferAmount = run.SpotBalance.Amount
	}
	logger.Info("balance gate answered", "selection", selection, "continue", run.Continue)
	return nil
}
