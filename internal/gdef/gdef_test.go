package gdef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/chomsky/internal/cnferr"
	"github.com/dekarrin/chomsky/internal/normalize"
	"github.com/stretchr/testify/assert"
)

const variant23File = `format = "CNFC"
type = "GRAMMAR"

name = "variant 23"
nonterminals = ["S", "A", "B", "C", "E"]
terminals = ["a", "b"]
start = "S"
rules = "S -> b A C | B, A -> a | a S | b C a C b, B -> A C | b S | a A a, C -> ε | A B, E -> B A"
`

const multiFile = `format = "CNFC"
type = "GRAMMAR"

[[grammar]]
nonterminals = ["S"]
terminals = ["a", "b"]
productions = [
	"S -> a S b",
	"S -> ε",
]

[[grammar]]
name = "units"
nonterminals = ["A", "B"]
terminals = ["a"]
rules = """
A -> B | a
B -> A
"""
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func Test_LoadFile(t *testing.T) {
	testCases := []struct {
		name        string
		files       map[string]string
		load        string
		expectNames []string
		expectErr   error
		expectAnErr bool
	}{
		{
			name:        "single grammar",
			files:       map[string]string{"v23.cnfc": variant23File},
			load:        "v23.cnfc",
			expectNames: []string{"variant 23"},
		},
		{
			name:        "grammar tables",
			files:       map[string]string{"multi.cnfc": multiFile},
			load:        "multi.cnfc",
			expectNames: []string{"multi#1", "units"},
		},
		{
			name: "manifest",
			files: map[string]string{
				"v23.cnfc":   variant23File,
				"multi.cnfc": multiFile,
				"all.cnfc": `format = "CNFC"
type = "MANIFEST"
files = ["v23.cnfc", "multi.cnfc", "all.cnfc"]
`,
			},
			load:        "all.cnfc",
			expectNames: []string{"variant 23", "multi#1", "units"},
		},
		{
			name: "empty manifest",
			files: map[string]string{
				"all.cnfc": `format = "CNFC"
type = "MANIFEST"
files = []
`,
			},
			load:      "all.cnfc",
			expectErr: ErrManifestEmpty,
		},
		{
			name: "duplicate names",
			files: map[string]string{
				"one.cnfc": variant23File,
				"two.cnfc": variant23File,
				"all.cnfc": `format = "CNFC"
type = "MANIFEST"
files = ["one.cnfc", "two.cnfc"]
`,
			},
			load:      "all.cnfc",
			expectErr: ErrDuplicateName,
		},
		{
			name: "malformed rule",
			files: map[string]string{"bad.cnfc": `format = "CNFC"
type = "GRAMMAR"
nonterminals = ["S"]
terminals = ["a"]
rules = "S a"
`},
			load:      "bad.cnfc",
			expectErr: cnferr.ErrMalformedRule,
		},
		{
			name: "rules and productions both given",
			files: map[string]string{"bad.cnfc": `format = "CNFC"
type = "GRAMMAR"
nonterminals = ["S"]
terminals = ["a"]
rules = "S -> a"
productions = ["S -> a"]
`},
			load:        "bad.cnfc",
			expectAnErr: true,
		},
		{
			name: "wrong format",
			files: map[string]string{"bad.cnfc": `format = "TUNA"
type = "GRAMMAR"
`},
			load:        "bad.cnfc",
			expectAnErr: true,
		},
		{
			name: "no grammars declared",
			files: map[string]string{"bad.cnfc": `format = "CNFC"
type = "GRAMMAR"
`},
			load:        "bad.cnfc",
			expectAnErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			dir := writeFiles(t, tc.files)

			defs, err := LoadFile(filepath.Join(dir, tc.load))

			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if tc.expectAnErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			var names []string
			for _, d := range defs {
				names = append(names, d.Name)
			}
			assert.Equal(tc.expectNames, names)
		})
	}
}

func Test_Definition_Grammar(t *testing.T) {
	assert := assert.New(t)

	dir := writeFiles(t, map[string]string{"multi.cnfc": multiFile})
	defs, err := LoadFile(filepath.Join(dir, "multi.cnfc"))
	if !assert.NoError(err) {
		return
	}

	g, err := defs[0].Grammar()
	if !assert.NoError(err) {
		return
	}
	assert.Equal("S", g.StartSymbol(), "start defaults to the first nonterminal")
	assert.Equal("S -> a S b | ε", g.String())

	g, err = defs[1].Grammar()
	if !assert.NoError(err) {
		return
	}
	assert.Equal("A -> B | a\nB -> A", g.String())
}

func Test_Snapshot(t *testing.T) {
	assert := assert.New(t)

	dir := writeFiles(t, map[string]string{"v23.cnfc": variant23File})
	defs, err := LoadFile(filepath.Join(dir, "v23.cnfc"))
	if !assert.NoError(err) {
		return
	}
	g, err := defs[0].Grammar()
	if !assert.NoError(err) {
		return
	}
	if !assert.NoError(normalize.Normalize(g)) {
		return
	}

	path := filepath.Join(dir, "v23.snap")
	if !assert.NoError(SaveSnapshot(path, g)) {
		return
	}

	loaded, err := LoadSnapshot(path)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(g.String(), loaded.String())
	assert.Equal(g.StartSymbol(), loaded.StartSymbol())
	assert.True(loaded.IsCNF())

	_, err = LoadSnapshot(filepath.Join(dir, "v23.cnfc"))
	assert.Error(err)
}
