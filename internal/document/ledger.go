package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ledger maps stable shape identifiers to the original, pre-translation text
// of one processing run. It is persisted alongside the output document and
// overwritten wholesale on every full re-process; runs are never merged.
type Ledger struct {
	entries map[string]string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]string)}
}

// Record stores the original text for a shape identifier.
func (l *Ledger) Record(id, originalText string) {
	l.entries[id] = originalText
}

// Get returns the original text recorded for a shape identifier.
func (l *Ledger) Get(id string) (string, bool) {
	text, ok := l.entries[id]
	return text, ok
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns the underlying mapping.
func (l *Ledger) Entries() map[string]string {
	return l.entries
}

// Save writes the ledger as human-readable indented JSON.
func (l *Ledger) Save(path string) error {
	data, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("ledger: failed to encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("ledger: failed to write %s: %w", path, err)
	}
	return nil
}

// LoadLedger reads a previously saved ledger.
func LoadLedger(path string) (*Ledger, error) {
	data, err := os.ReadFile(path) //nolint:gosec // caller-provided artifact path
	if err != nil {
		return nil, fmt.Errorf("ledger: failed to read %s: %w", path, err)
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("ledger: failed to decode %s: %w", path, err)
	}
	return &Ledger{entries: entries}, nil
}

// LedgerPath derives the ledger side-artifact path from the output document
// path: the same base name with a .ledger.json extension.
func LedgerPath(outputPath string) string {
	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	return base + ".ledger.json"
}
