// Package ingest reads the tabular payout input file into domain records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"payrun/internal/payout"
)

var requiredColumns = []string{
	"pool_name",
	"pool_slug",
	"round",
	"telegram",
	"binance_email",
	"amount",
	"chat_id",
}

// ReadFile parses the CSV at path into payout records. A missing or
// unreadable file maps to payout.ErrInputUnavailable.
func ReadFile(path string, startedAt time.Time) ([]*payout.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", payout.ErrInputUnavailable, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", payout.ErrInputUnavailable, path, err)
	}
	defer file.Close()

	records, err := Read(file, startedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Read parses CSV content into payout records. The header row must carry
// every required column; extra columns are ignored.
func Read(r io.Reader, startedAt time.Time) ([]*payout.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("input file is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var records []*payout.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row, columns, startedAt)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, errors.New("input file has no payout rows")
	}
	return records, nil
}

func parseRow(row []string, columns map[string]int, startedAt time.Time) (*payout.Record, error) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	email := field("binance_email")
	if email == "" {
		return nil, errors.New("binance_email is empty")
	}

	round, err := strconv.Atoi(field("round"))
	if err != nil {
		return nil, fmt.Errorf("round %q: %w", field("round"), err)
	}

	chatID, err := strconv.ParseInt(field("chat_id"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("chat_id %q: %w", field("chat_id"), err)
	}

	amount, err := decimal.NewFromString(field("amount"))
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", field("amount"), err)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("amount %q must not be negative", field("amount"))
	}

	return &payout.Record{
		MerchantSendID: payout.MerchantSendID(email, startedAt),
		PoolName:       field("pool_name"),
		PoolSlug:       field("pool_slug"),
		Round:          round,
		Telegram:       field("telegram"),
		BinanceEmail:   email,
		Amount:         amount,
		ChatID:         chatID,
	}, nil
}
