package templates_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"payrun/internal/payout"
	"payrun/internal/templates"
)

func TestLoadOrCreateWritesDefaultOnFirstUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "template.tmpl")

	content, err := templates.LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate returned error: %v", err)
	}
	if content != templates.DefaultTemplate {
		t.Fatal("first load must return the default template")
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default template was not persisted: %v", err)
	}
	if string(onDisk) != templates.DefaultTemplate {
		t.Fatal("persisted template differs from default")
	}
}

func TestLoadOrCreateReturnsExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.tmpl")
	custom := "Hi {{.Telegram}}, you received {{.Amount}} {{.Currency}}."
	if err := os.WriteFile(path, []byte(custom), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	content, err := templates.LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate returned error: %v", err)
	}
	if content != custom {
		t.Fatalf("got %q, want custom template", content)
	}
}

func TestRenderSubstitutesRecordFields(t *testing.T) {
	tmpl, err := templates.Parse("{{.Telegram}} {{.Amount}} {{.Currency}} {{.PoolName}} {{.OrderID}}")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	rec := &payout.Record{
		Telegram:     "@alice",
		BinanceEmail: "alice@example.com",
		PoolName:     "Orion",
		Amount:       decimal.RequireFromString("50.5"),
		OrderID:      "order-9",
		Status:       payout.SendSuccess,
	}

	msg, err := templates.Render(tmpl, rec, "USDT")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if msg != "@alice 50.5 USDT Orion order-9" {
		t.Fatalf("unexpected render: %q", msg)
	}
}

func TestParseRejectsBrokenTemplate(t *testing.T) {
	if _, err := templates.Parse("{{.Telegram"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRenderFailsOnUnknownField(t *testing.T) {
	tmpl, err := templates.Parse("{{.Nope}}")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	rec := &payout.Record{Telegram: "@a", Amount: decimal.Zero}
	if _, err := templates.Render(tmpl, rec, "USDT"); err == nil {
		t.Fatal("expected render error for unknown field")
	}
}

func TestDefaultTemplateParsesAndRenders(t *testing.T) {
	tmpl, err := templates.Parse(templates.DefaultTemplate)
	if err != nil {
		t.Fatalf("default template must parse: %v", err)
	}
	rec := &payout.Record{
		Telegram: "@bob",
		PoolName: "Orion",
		Amount:   decimal.RequireFromString("100"),
		OrderID:  "order-1",
	}
	msg, err := templates.Render(tmpl, rec, "USDT")
	if err != nil {
		t.Fatalf("default template must render: %v", err)
	}
	for _, want := range []string{"@bob", "100 USDT", "Orion", "order-1"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("rendered message missing %q: %q", want, msg)
		}
	}
}
