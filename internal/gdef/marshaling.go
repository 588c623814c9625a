package gdef

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// sourcedDef is a grammar declaration along with the file it came from and its
// position among the declarations of that file.
type sourcedDef struct {
	grammarDef
	source string
	index  int
	count  int
}

// manifStack is for two reasons ->
// * detect circular deps (not an error, but we need to know to avoid them)
// * avoid infinite recursion (allow up to MaxManifestRecursionDepth levels)
//
// Returns ErrManifestEmpty if and only if the first manifest in the stack is
// empty, otherwise it is not an error.
func recursiveUnmarshalResource(path string, manifStack []string) ([]sourcedDef, error) {
	path = filepath.Clean(path)

	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	fileInfo, err := ScanFileInfo(fileData)
	if err != nil {
		return nil, fmt.Errorf("%q: detecting file type: %w", path, err)
	}

	if strings.ToUpper(fileInfo.Format) != FormatName {
		return nil, fmt.Errorf("%q: file does not have a 'format = \"%s\"' entry", path, FormatName)
	}

	switch strings.ToUpper(fileInfo.Type) {
	case "GRAMMAR":
		unmarshaled, err := unmarshalGrammarData(fileData)
		if err != nil {
			return nil, fmt.Errorf("grammar file %q: %w", path, err)
		}

		decls := unmarshaled.defs()
		if len(decls) == 0 {
			return nil, fmt.Errorf("grammar file %q: does not declare any grammars", path)
		}

		defs := make([]sourcedDef, len(decls))
		for i := range decls {
			defs[i] = sourcedDef{grammarDef: decls[i], source: path, index: i, count: len(decls)}
		}
		return defs, nil
	case "MANIFEST":
		if len(manifStack) >= MaxManifestRecursionDepth {
			return nil, fmt.Errorf("manifest file %q: %w", path, ErrManifestStackOverflow)
		}
		for i := range manifStack {
			if manifStack[i] == path {
				return nil, fmt.Errorf("manifest file %q: %w", path, ErrManifestCircularRef)
			}
		}

		manif, err := unmarshalManifest(fileData)
		if err != nil {
			return nil, fmt.Errorf("manifest file %q: %w", path, err)
		}

		// an empty manifest is only a problem for the very first one.
		if len(manif.Files) < 1 && len(manifStack) == 0 {
			return nil, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}

		manifSubStack := make([]string, len(manifStack)+1)
		copy(manifSubStack, manifStack)
		manifSubStack[len(manifSubStack)-1] = path

		manifDir := filepath.Dir(path)

		var defs []sourcedDef
		processedFiles := 0

		for _, manifRelPath := range manif.Files {
			includedFilePath := filepath.Join(manifDir, manifRelPath)

			included, err := recursiveUnmarshalResource(includedFilePath, manifSubStack)
			if err != nil {
				// circular references are skipped, not followed.
				if errors.Is(err, ErrManifestCircularRef) {
					continue
				}

				return nil, fmt.Errorf("in file referred to by manifest file:\n    %q\n%w", path, err)
			}

			defs = append(defs, included...)
			processedFiles++
		}

		if len(manifStack) == 0 && processedFiles == 0 {
			return nil, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}
		return defs, nil

	default:
		return nil, fmt.Errorf("%q: file does not have 'type = ' entry set to either \"GRAMMAR\" or \"MANIFEST\"", path)
	}
}

// unmarshalGrammarData unmarshals grammar declarations from the given bytes.
// It does not parse or check them.
func unmarshalGrammarData(tomlData []byte) (topLevelGrammarData, error) {
	var top topLevelGrammarData
	if tomlErr := toml.Unmarshal(tomlData, &top); tomlErr != nil {
		return top, tomlErr
	}

	if strings.ToUpper(top.Format) != FormatName {
		return top, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", FormatName)
	}
	if strings.ToUpper(top.Type) != "GRAMMAR" {
		return top, fmt.Errorf("in header: 'type' must exist and be set to 'GRAMMAR'")
	}

	return top, nil
}

// unmarshalManifest unmarshals a manifest from the given bytes.
func unmarshalManifest(tomlData []byte) (topLevelManifest, error) {
	var manif topLevelManifest
	if tomlErr := toml.Unmarshal(tomlData, &manif); tomlErr != nil {
		return manif, tomlErr
	}

	if strings.ToUpper(manif.Format) != FormatName {
		return manif, fmt.Errorf("in header: 'format' key must exist and be set to '%s'", FormatName)
	}
	if strings.ToUpper(manif.Type) != "MANIFEST" {
		return manif, fmt.Errorf("in header: 'type' must exist and be set to 'MANIFEST'")
	}

	return manif, nil
}
