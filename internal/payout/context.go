package payout

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is a wallet balance query result. Known is false when the provider
// could not be reached; the amount is then zero, which the reconciliation
// stage treats the same as a confirmed empty wallet but logs as a distinct
// condition.
type Balance struct {
	Amount decimal.Decimal
	Known  bool
}

// KnownBalance wraps a confirmed balance amount.
func KnownBalance(amount decimal.Decimal) Balance {
	return Balance{Amount: amount, Known: true}
}

// UnknownBalance is the zero-amount fallback for a failed balance query.
func UnknownBalance() Balance {
	return Balance{Amount: decimal.Zero}
}

// RunContext is the single mutable state record threaded through every
// pipeline stage. It lives for exactly one run and is never shared between
// goroutines: stages execute strictly one at a time.
type RunContext struct {
	RunID     string
	StartedAt time.Time
	Currency  string

	Records       []*Record
	RequiredTotal decimal.Decimal

	SpotBalance    Balance
	FundingBalance Balance

	TransferAmount        decimal.Decimal
	TransferSpotToFunding bool

	// Continue gates every downstream stage. Once false, no stage may touch
	// wallet or payment state; only the post-pipeline cleanup still runs.
	Continue bool

	MessageTemplate string

	// BatchStatus is the terminal provider status of the payout batch, set
	// once the polling loop finishes.
	BatchStatus BatchStatus

	// HasOutput marks that per-recipient statuses were resolved, so the
	// output artifact must be written even when the run later fails.
	HasOutput bool
}

// NewRunContext builds the context for a fresh run.
func NewRunContext(runID, currency string, startedAt time.Time) *RunContext {
	return &RunContext{
		RunID:          runID,
		StartedAt:      startedAt.UTC(),
		Currency:       currency,
		RequiredTotal:  decimal.Zero,
		TransferAmount: decimal.Zero,
		Continue:       true,
	}
}
