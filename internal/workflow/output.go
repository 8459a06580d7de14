package workflow

import (
	"encoding/json"
	"fmt"
	"os"

	"payrun/internal/payout"
)

// WriteArtifact dumps the resolved records as a JSON array. It is called
// from the cleanup phase whenever the run produced output, regardless of
// whether notification succeeded.
func WriteArtifact(path string, records []*payout.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output artifact: %w", err)
	}
	return nil
}
