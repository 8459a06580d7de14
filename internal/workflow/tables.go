package workflow

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"payrun/internal/payout"
)

func renderPreviewTable(records []*payout.Record) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{rec.PoolName, rec.Telegram, rec.Amount.String(), rec.BinanceEmail})
	}
	return renderTable(
		[]string{"Pool", "Investor", "Amount", "Binance email"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func renderBalanceTable(spot, funding payout.Balance, currency string) string {
	display := func(b payout.Balance) string {
		if !b.Known {
			return b.Amount.String() + " (unconfirmed)"
		}
		return b.Amount.String()
	}
	return renderTable(
		[]string{"Wallet", "Balance", "Currency"},
		[][]string{
			{"Spot", display(spot), currency},
			{"Funding", display(funding), currency},
		},
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	)
}

func renderStatusTable(records []*payout.Record) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{string(rec.Status), rec.PoolName, rec.Telegram, rec.Amount.String(), rec.BinanceEmail})
	}
	return renderTable(
		[]string{"Status", "Pool", "Investor", "Amount", "Binance email"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
