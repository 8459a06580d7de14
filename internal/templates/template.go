// Package templates manages the per-recipient notification message template.
package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"payrun/internal/payout"
)

// DefaultTemplate is written on first use when no template file exists yet.
const DefaultTemplate = `Hello {{.Telegram}},

Great news! Your payout of {{.Amount}} {{.Currency}} for the {{.PoolName}} pool has been sent and should arrive in your account shortly.

Transaction details:
- Amount: {{.Amount}} {{.Currency}}
- Order ID: {{.OrderID}}

Thank you for your investment!

Best regards,
The {{.PoolName}} Team
`

// Fields is the data a template render sees for one record.
type Fields struct {
	Telegram string
	Email    string
	PoolName string
	PoolSlug string
	Round    int
	Amount   string
	Currency string
	OrderID  string
	Status   string
}

// LoadOrCreate returns the template text at path, writing the default
// template there first when the file does not exist yet.
func LoadOrCreate(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err == nil {
		return string(content), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create template directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultTemplate), 0o644); err != nil {
		return "", fmt.Errorf("write default template: %w", err)
	}
	return DefaultTemplate, nil
}

// Parse compiles the template text.
func Parse(text string) (*template.Template, error) {
	tmpl, err := template.New("message").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse message template: %w", err)
	}
	return tmpl, nil
}

// Render produces the message for one record.
func Render(tmpl *template.Template, rec *payout.Record, currency string) (string, error) {
	var builder strings.Builder
	data := Fields{
		Telegram: rec.Telegram,
		Email:    rec.BinanceEmail,
		PoolName: rec.PoolName,
		PoolSlug: rec.PoolSlug,
		Round:    rec.Round,
		Amount:   rec.Amount.String(),
		Currency: currency,
		OrderID:  rec.OrderID,
		Status:   string(rec.Status),
	}
	if err := tmpl.Execute(&builder, data); err != nil {
		return "", fmt.Errorf("render message for %s: %w", rec.Telegram, err)
	}
	return builder.String(), nil
}
