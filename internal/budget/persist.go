package budget

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ledgerSchemaVersion tags the on-disk format; a mismatch discards the file
const ledgerSchemaVersion = "v1"

type ledgerFile struct {
	SchemaVersion string  `json:"schema_version"`
	Entries       []Entry `json:"entries"`
}

// Save writes the ledger to path as a versioned JSON blob
func (l *Ledger) Save(path string) error {
	l.mu.Lock()
	blob := ledgerFile{
		SchemaVersion: ledgerSchemaVersion,
		Entries:       append([]Entry(nil), l.entries...),
	}
	l.mu.Unlock()

	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

// Load replaces the ledger's entries with those persisted at path. A
// missing file or schema mismatch leaves the ledger empty.
func (l *Ledger) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read ledger: %w", err)
	}

	var blob ledgerFile
	if err := json.Unmarshal(data, &blob); err != nil {
		return fmt.Errorf("unmarshal ledger: %w", err)
	}
	if blob.SchemaVersion != ledgerSchemaVersion {
		_ = os.Remove(path)
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = blob.Entries
	l.spent = 0
	for _, e := range l.entries {
		l.spent += e.Cost
	}
	return nil
}
