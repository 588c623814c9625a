// Package gdef has functions for loading grammars using the CNFC grammar
// definition file format, a TOML-based format that declares the symbols,
// start symbol, and production rules of one or more grammars.
//
// A file of type "GRAMMAR" holds definitions. A file of type "MANIFEST" lists
// other files, relative to itself, whose definitions are all loaded.
package gdef

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/chomsky/internal/grammar"
)

// MaxManifestRecursionDepth is how many manifests deep inclusion may go.
const MaxManifestRecursionDepth = 32

// FormatName is the value every definition file has for its 'format' key.
const FormatName = "CNFC"

var (
	// ErrManifestEmpty is the error returned when a manifest file is read
	// successfully but specifies no additional files to load.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is the error returned when the recursion level
	// of MaxManifestRecursionDepth is reached and an additional manifest is then
	// specified.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is the error returned when a manifest specifies
	// any series of files that with their own manifests refer back to the
	// original manifest.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")

	// ErrDuplicateName is the error returned when two definitions that are
	// loaded together have the same name.
	ErrDuplicateName = errors.New("duplicate grammar name")
)

// Definition is a single grammar as it was declared in a definition file.
type Definition struct {
	// Name identifies the grammar. It defaults to the name of the file it was
	// declared in.
	Name string

	// Source is the path of the file the definition was loaded from.
	Source string

	NonTerminals []string
	Terminals    []string
	Start        string

	// Rules is the rule text of the grammar in the format accepted by
	// grammar.ParseRules.
	Rules string
}

// Grammar builds the grammar model that the definition declares.
func (d Definition) Grammar() (*grammar.Grammar, error) {
	g, err := grammar.Parse(d.NonTerminals, d.Terminals, d.Start, d.Rules)
	if err != nil {
		return nil, fmt.Errorf("grammar %q: %w", d.Name, err)
	}
	return g, nil
}

// FileInfo contains the essential information all CNFC format files must
// contain.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// LoadFile loads every grammar definition from the given file. The file's type
// is auto-detected; if it is a manifest, every file it lists is loaded
// recursively. Every definition is checked by building its grammar before it
// is returned.
func LoadFile(path string) ([]Definition, error) {
	unmarshaled, err := recursiveUnmarshalResource(path, nil)
	if err != nil {
		return nil, err
	}

	return parseDefinitions(unmarshaled)
}

// LoadManifestFile loads the list of files from a manifest without loading
// any of them.
func LoadManifestFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	manif, err := unmarshalManifest(data)
	if err != nil {
		return nil, err
	}
	return manif.Files, nil
}

// ScanFileInfo reads the common header of a CNFC file from data. Keys other
// than the header are ignored, but data must be valid TOML.
func ScanFileInfo(data []byte) (FileInfo, error) {
	var info FileInfo
	err := toml.Unmarshal(data, &info)
	return info, err
}
