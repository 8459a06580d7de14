package workflow

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"payrun/internal/payout"
)

func TestWriteArtifact(t *testing.T) {
	run := newRunContext(t, "100", "50")
	run.Records[0].Status = payout.SendSuccess
	run.Records[0].OrderID = "order-1"
	run.Records[1].Status = payout.SendFail
	run.Records[1].OrderID = "order-2"

	path := filepath.Join(t.TempDir(), "output_test.json")
	if err := WriteArtifact(path, run.Records); err != nil {
		t.Fatalf("WriteArtifact failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("artifact has %d records, want 2", len(decoded))
	}
	if got := decoded[0]["merchantSendId"]; got != run.Records[0].MerchantSendID {
		t.Errorf("merchantSendId = %v, want %s", got, run.Records[0].MerchantSendID)
	}
	if got := decoded[1]["status"]; got != "FAIL" {
		t.Errorf("status = %v, want FAIL", got)
	}
	if !strings.Contains(string(data), "order-1") {
		t.Error("artifact does not carry the provider order ids")
	}
}

func TestAcquireRunLockExclusive(t *testing.T) {
	dir := t.TempDir()

	release, err := AcquireRunLock(dir)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	if _, err := AcquireRunLock(dir); err == nil {
		t.Fatal("expected the second acquire to fail while the lock is held")
	}

	release()
	release2, err := AcquireRunLock(dir)
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	release2()
}
