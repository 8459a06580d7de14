// Package binance is the remote ledger gateway: signed REST access to the
// exchange wallet endpoints (balances, spot-to-funding transfer) and to the
// pay endpoints (batch payout submission and status query).
package binance
