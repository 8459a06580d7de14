package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"payrun/internal/payout"
	"payrun/internal/prompt"
)

func TestBalanceStageFundingExactlyCoversTotal(t *testing.T) {
	ledger := &fakeLedger{}
	knownBalances(ledger, "10", "150")
	script := &prompt.Script{Selections: []string{choiceUseFunding}}
	r := newTestRunner(ledger, nil, script)

	run := newRunContext(t, "100", "50")
	if err := r.balanceStage().Run(context.Background(), run); err != nil {
		t.Fatalf("balance stage failed: %v", err)
	}

	if len(script.Asked) != 1 {
		t.Fatalf("expected one prompt, got %v", script.Asked)
	}
	if !run.Continue {
		t.Error("expected run to continue")
	}
	if run.TransferSpotToFunding {
		t.Error("expected no transfer when using funding balance")
	}
	if !run.RequiredTotal.Equal(dec(t, "150")) {
		t.Errorf("required total = %s, want 150", run.RequiredTotal)
	}
}

func TestBalanceStageFundingSufficientTransferAnyway(t *testing.T) {
	ledger := &fakeLedger{}
	knownBalances(ledger, "25.5", "200")
	script := &prompt.Script{Selections: []string{choiceTransferSpotFunding}}
	r := newTestRunner(ledger, nil, script)

	run := newRunContext(t, "150")
	if err := r.balanceStage().Run(context.Background(), run); err != nil {
		t.Fatalf("balance stage failed: %v", err)
	}

	if !run.Continue || !run.TransferSpotToFunding {
		t.Fatalf("continue=%v transfer=%v, want both true", run.Continue, run.TransferSpotToFunding)
	}
	if !run.TransferAmount.Equal(dec(t, "25.5")) {
		t.Errorf("transfer amount = %s, want the full spot balance 25.5", run.TransferAmount)
	}
}

func TestBalanceStageFundingSufficientExit(t *testing.T) {
	ledger := &fakeLedger{}
	knownBalances(ledger, "10", "200")
	script := &prompt.Script{Selections: []string{choiceExit}}
	r := newTestRunner(ledger, nil, script)

	run := newRunContext(t, "150")
	if err := r.balanceStage().Run(context.Background(), run); err != nil {
		t.Fatalf("balance stage failed: %v", err)
	}
	if run.Continue {
		t.Error("expected exit to stop the run")
	}
	if run.TransferSpotToFunding {
		t.Error("expected no transfer after exit")
	}
}

func TestBalanceStageCombinedExactlyCoversTotal(t *testing.T) {
	ledger := &fakeLedger{}
	knownBalances(ledger, "60", "90")
	script := &prompt.Script{Confirms: []bool{true}}
	r := newTestRunner(ledger, nil, script)

	run := newRunContext(t, "150")
	if err := r.balanceStage().Run(context.Background(), run); err != nil {
		t.Fatalf("balance stage failed: %v", err)
	}

	if len(script.Asked) != 1 {
		t.Fatalf("expected the transfer confirmation, got %v", script.Asked)
	}
	if !run.TransferSpotToFunding {
		t.Fatal("expected a spot to funding transfer")
	}
	if !run.TransferAmount.Equal(dec(t, "60")) {
		t.Errorf("transfer amount = %s, want the full spot balance 60", run.TransferAmount)
	}
}

func TestBalanceStageCombinedCoversTotalDeclined(t *testing.T) {
	ledger := &fakeLedger{}
	knownBalances(ledger, "100", "90")
	script := &prompt.Script{Confirms: []bool{false}}
	r := newTestRunner(ledger, nil, script)

	run := newRunContext(t, "150")
	if err := r.balanceStage().Run(context.Background(), run); err != nil {
		t.Fatalf("balance stage failed: %v", err)
	}
	if run.Continue {
		t.Error("expected declined transfer to stop the run")
	}
	if run.TransferSpotToFunding {
		t.Error("expected no transfer after decline")
	}
}

func TestBalanceStageInsufficientFunds(t *testing.T) {
	ledger := &fakeLedger{}
	knownBalances(ledger, "60", "89.99")
	script := &prompt.Script{}
	r := newTestRunner(ledger, nil, script)

	run := newRunContext(t, "150")
	err := r.balanceStage().Run(context.Background(), run)
	if !errors.Is(err, payout.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if len(script.Asked) != 0 {
		t.Errorf("expected no prompts on a fatal shortfall, got %v", script.Asked)
	}
}

func TestBalanceStageUnknownBalancesTreatedAsZero(t *testing.T) {
	ledger := &fakeLedger{
		spot: func(context.Context, string) (decimal.Decimal, error) {
			return decimal.Zero, errors.New("spot endpoint down")
		},
		funding: func(context.Context, string) (decimal.Decimal, error) {
			return decimal.Zero, errors.New("funding endpoint down")
		},
	}
	r := newTestRunner(ledger, nil, &prompt.Script{})

	run := newRunContext(t, "150")
	err := r.balanceStage().Run(context.Background(), run)
	if !errors.Is(err, payout.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if run.SpotBalance.Known || run.FundingBalance.Known {
		t.Error("expected both balances to be recorded as unknown")
	}
	if !run.SpotBalance.Amount.IsZero() || !run.FundingBalance.Amount.IsZero() {
		t.Error("expected unknown balances to carry a zero amount")
	}
}
