package workflow

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"payrun/internal/payout"
	"payrun/internal/prompt"
)

var errUnexpectedCall = errors.New("unexpected gateway call")

type fakeLedger struct {
	spot     func(ctx context.Context, asset string) (decimal.Decimal, error)
	funding  func(ctx context.Context, asset string) (decimal.Decimal, error)
	transfer func(ctx context.Context, asset string, amount decimal.Decimal) (int64, error)
	submit   func(ctx context.Context, req payout.BatchRequest) (string, error)
	query    func(ctx context.Context, requestID string) (*payout.BatchResult, error)

	transferCalls int
	submitCalls   int
	queryCalls    int
}

func (f *fakeLedger) SpotBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	if f.spot == nil {
		return decimal.Zero, errUnexpectedCall
	}
	return f.spot(ctx, asset)
}

func (f *fakeLedger) FundingBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	if f.funding == nil {
		return decimal.Zero, errUnexpectedCall
	}
	return f.funding(ctx, asset)
}

func (f *fakeLedger) Transfer(ctx context.Context, asset string, amount decimal.Decimal) (int64, error) {
	f.transferCalls++
	if f.transfer == nil {
		return 0, errUnexpectedCall
	}
	return f.transfer(ctx, asset, amount)
}

func (f *fakeLedger) SubmitBatch(ctx context.Context, req payout.BatchRequest) (string, error) {
	f.submitCalls++
	if f.submit == nil {
		return "", errUnexpectedCall
	}
	return f.submit(ctx, req)
}

func (f *fakeLedger) QueryBatch(ctx context.Context, requestID string) (*payout.BatchResult, error) {
	f.queryCalls++
	if f.query == nil {
		return nil, errUnexpectedCall
	}
	return f.query(ctx, requestID)
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []int64
	fails map[int64]error
}

func (f *fakeNotifier) Send(ctx context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, chatID)
	if err, ok := f.fails[chatID]; ok {
		return err
	}
	return nil
}

func (f *fakeNotifier) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestRunner(ledger *fakeLedger, notifier *fakeNotifier, script *prompt.Script) *Runner {
	return &Runner{
		Ledger:   ledger,
		Notifier: notifier,
		Prompt:   script,
		Logger:   slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		Out:      &bytes.Buffer{},
		Poll:     PollPolicy{Interval: time.Millisecond},
	}
}

func newRunContext(t *testing.T, amounts ...string) *payout.RunContext {
	t.Helper()
	startedAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	run := payout.NewRunContext("run-test", "USDT", startedAt)
	run.MessageTemplate = "{{.Telegram}}: {{.Amount}} {{.Currency}}"
	for i, amount := range amounts {
		email := string(rune('a'+i)) + "@example.com"
		run.Records = append(run.Records, &payout.Record{
			MerchantSendID: payout.MerchantSendID(email, startedAt),
			PoolName:       "Orion",
			PoolSlug:       "orion",
			Round:          1,
			Telegram:       "@user" + string(rune('a'+i)),
			BinanceEmail:   email,
			Amount:         decimal.RequireFromString(amount),
			ChatID:         int64(1000 + i),
		})
	}
	return run
}

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(value)
}

func knownBalances(ledger *fakeLedger, spot, funding string) {
	ledger.spot = func(context.Context, string) (decimal.Decimal, error) {
		return decimal.RequireFromString(spot), nil
	}
	ledger.funding = func(context.Context, string) (decimal.Decimal, error) {
		return decimal.RequireFromString(funding), nil
	}
}
