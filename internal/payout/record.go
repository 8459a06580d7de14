package payout

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SendStatus is the provider-reported outcome for a single recipient.
type SendStatus string

const (
	SendSuccess         SendStatus = "SUCCESS"
	SendFail            SendStatus = "FAIL"
	SendAwaitingReceipt SendStatus = "AWAITING_RECEIPT"
)

// BatchStatus is the provider-reported state of a submitted payout batch.
type BatchStatus string

const (
	BatchAccepted    BatchStatus = "ACCEPTED"
	BatchProcessing  BatchStatus = "PROCESSING"
	BatchSuccess     BatchStatus = "SUCCESS"
	BatchPartSuccess BatchStatus = "PART_SUCCESS"
	BatchFailed      BatchStatus = "FAILED"
	BatchCanceled    BatchStatus = "CANCELED"
)

// Terminal reports whether the batch has reached a final state. ACCEPTED and
// PROCESSING are the only non-terminal statuses; an empty status means the
// provider has not answered yet and is likewise non-terminal.
func (s BatchStatus) Terminal() bool {
	switch s {
	case BatchAccepted, BatchProcessing, "":
		return false
	}
	return true
}

// Record is one payout instruction from the input batch. Status and OrderID
// stay empty until the batch payout stage reconciles the provider response.
type Record struct {
	MerchantSendID string          `json:"merchantSendId"`
	PoolName       string          `json:"pool_name"`
	PoolSlug       string          `json:"pool_slug"`
	Round          int             `json:"round"`
	Telegram       string          `json:"telegram"`
	BinanceEmail   string          `json:"binance_email"`
	Amount         decimal.Decimal `json:"amount"`
	ChatID         int64           `json:"chat_id"`
	Status         SendStatus      `json:"status"`
	OrderID        string          `json:"orderId"`
}

// MerchantSendID derives the correlation key the provider echoes back in its
// per-recipient response. It combines the recipient email with the run start
// time, so it is unique per run and stable across the submit/query round
// trip.
func MerchantSendID(email string, startedAt time.Time) string {
	return fmt.Sprintf("TRANSFER_%s_%s", email, startedAt.UTC().Format(time.RFC3339))
}

// Total returns the exact decimal sum of all record amounts.
func Total(records []*Record) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(rec.Amount)
	}
	return total
}
