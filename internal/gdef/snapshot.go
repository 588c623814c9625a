package gdef

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dekarrin/chomsky/internal/grammar"
	"github.com/dekarrin/rezi"
)

// snapshotMagic starts every snapshot file.
var snapshotMagic = []byte("CNFS\x01")

// SaveSnapshot writes g to the file at path in binary form, replacing the file
// if it exists.
func SaveSnapshot(path string, g *grammar.Grammar) error {
	data := append([]byte{}, snapshotMagic...)
	data = append(data, rezi.EncBinary(g)...)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a grammar from a file created with SaveSnapshot.
func LoadSnapshot(path string) (*grammar.Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	if !bytes.HasPrefix(data, snapshotMagic) {
		return nil, fmt.Errorf("%q: not a grammar snapshot", path)
	}
	data = data[len(snapshotMagic):]

	g := &grammar.Grammar{}
	if _, err := rezi.DecBinary(data, g); err != nil {
		return nil, fmt.Errorf("%q: decode snapshot: %w", path, err)
	}
	return g, nil
}
