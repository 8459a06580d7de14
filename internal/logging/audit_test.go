package logging_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"payrun/internal/logging"
)

func TestAuditLogWritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	historyPath := filepath.Join(dir, "history.log")

	audit, err := logging.Open(logging.Options{HistoryPath: historyPath})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	audit.Logger().Info("spot balance", "balance", "120.5")
	audit.Logger().Error("transfer failed", "error", "boom")

	if err := audit.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	file, err := os.Open(historyPath)
	if err != nil {
		t.Fatalf("open history file: %v", err)
	}
	defer file.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		lines = append(lines, entry)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan history file: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	for _, key := range []string{"time", "level", "msg"} {
		if _, ok := lines[0][key]; !ok {
			t.Fatalf("log line missing %q key: %v", key, lines[0])
		}
	}
	if lines[0]["level"] != "info" || lines[1]["level"] != "error" {
		t.Fatalf("unexpected levels: %v / %v", lines[0]["level"], lines[1]["level"])
	}
	if lines[1]["msg"] != "transfer failed" {
		t.Fatalf("unexpected message: %v", lines[1]["msg"])
	}
}

func TestAuditLogMirrorsToConsoleAboveLevel(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	audit, err := logging.Open(logging.Options{
		HistoryPath: filepath.Join(dir, "history.log"),
		Console:     &console,
		Level:       "error",
	})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer audit.Close()

	audit.Logger().Info("quiet")
	audit.Logger().Error("loud")

	out := console.String()
	if bytes.Contains([]byte(out), []byte("quiet")) {
		t.Fatalf("info line leaked to console at error level: %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("loud")) {
		t.Fatalf("error line missing from console: %q", out)
	}
}

func TestOpenRequiresHistoryPath(t *testing.T) {
	if _, err := logging.Open(logging.Options{}); err == nil {
		t.Fatal("expected error for missing history path")
	}
}
