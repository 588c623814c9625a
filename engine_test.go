package chomsky

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dekarrin/chomsky/internal/cnferr"
	"github.com/dekarrin/chomsky/internal/command"
	"github.com/stretchr/testify/assert"
)

const testGrammarFile = `format = "CNFC"
type = "GRAMMAR"

[[grammar]]
name = "balanced"
nonterminals = ["S"]
terminals = ["a", "b"]
rules = "S -> a S b | ε"

[[grammar]]
name = "units"
nonterminals = ["A", "B"]
terminals = ["a"]
rules = """
A -> B | a
B -> A
"""

[[grammar]]
name = "empty"
nonterminals = ["S", "A"]
terminals = ["a"]
rules = "S -> A, A -> A"
`

func writeGrammarFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.cnfc")
	if err := os.WriteFile(path, []byte(testGrammarFile), 0644); err != nil {
		t.Fatalf("write grammar file: %v", err)
	}
	return path
}

func newTestEngine(t *testing.T, input string) (*Engine, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	eng, err := New(strings.NewReader(input), &out, writeGrammarFile(t), true, nil)
	if err != nil {
		t.Fatalf("create engine: %v", err)
	}
	return eng, &out
}

func Test_Engine_Execute(t *testing.T) {
	testCases := []struct {
		name        string
		before      []command.Command
		cmd         command.Command
		expect      string
		expectErr   error
		expectAnErr bool
		contains    []string
	}{
		{
			name:   "show",
			cmd:    command.Command{Verb: "SHOW"},
			expect: "Grammar \"balanced\", start symbol S:\nS -> a S b | ε",
		},
		{
			name:   "normalize",
			cmd:    command.Command{Verb: "NORMALIZE"},
			expect: "Chomsky Normal Form:\nE1 -> ε\nN4 -> T2 S\nS -> N4 T3 | T2 T3\nS0 -> N4 T3 | T2 T3 | E1\nT2 -> a\nT3 -> b",
		},
		{
			name:     "normalize twice",
			before:   []command.Command{{Verb: "NORMALIZE"}},
			cmd:      command.Command{Verb: "NORMALIZE"},
			contains: []string{"already in Chomsky Normal Form"},
		},
		{
			name:      "normalize empty language",
			before:    []command.Command{{Verb: "USE", Args: []string{"EMPTY"}}},
			cmd:       command.Command{Verb: "NORMALIZE"},
			expectErr: cnferr.ErrEmptyLanguage,
		},
		{
			name:   "use then normalize",
			before: []command.Command{{Verb: "USE", Args: []string{"units"}}},
			cmd:    command.Command{Verb: "NORMALIZE"},
			expect: "Chomsky Normal Form:\nA -> a",
		},
		{
			name:   "accepts",
			cmd:    command.Command{Verb: "ACCEPTS", Args: []string{"a", "a", "b", "b"}},
			expect: "Yes, \"a a b b\" is in the language.",
		},
		{
			name:   "accepts empty string",
			cmd:    command.Command{Verb: "ACCEPTS", Args: []string{}},
			expect: "Yes, \"ε\" is in the language.",
		},
		{
			name:   "rejects",
			before: []command.Command{{Verb: "NORMALIZE"}},
			cmd:    command.Command{Verb: "ACCEPTS", Args: []string{"a", "b", "b"}},
			expect: "No, \"a b b\" is not in the language.",
		},
		{
			name:     "accepts unknown symbol",
			cmd:      command.Command{Verb: "ACCEPTS", Args: []string{"c"}},
			contains: []string{"not a terminal"},
		},
		{
			name:   "strings",
			cmd:    command.Command{Verb: "STRINGS", Count: 4},
			expect: "3 string(s) of length 4 or less:\n  ε\n  a a b b\n  a b",
		},
		{
			name:     "classify",
			cmd:      command.Command{Verb: "CLASSIFY"},
			contains: []string{"Type 2 (Context-Free)", "not in Chomsky Normal Form"},
		},
		{
			name:     "steps",
			before:   []command.Command{{Verb: "NORMALIZE"}},
			cmd:      command.Command{Verb: "STEPS"},
			contains: []string{"1. initial grammar:", "6. Chomsky Normal Form:", "Productions"},
		},
		{
			name:        "steps before normalize",
			cmd:         command.Command{Verb: "STEPS"},
			expectAnErr: true,
		},
		{
			name:   "reset",
			before: []command.Command{{Verb: "NORMALIZE"}, {Verb: "RESET"}},
			cmd:    command.Command{Verb: "SHOW"},
			expect: "Grammar \"balanced\", start symbol S:\nS -> a S b | ε",
		},
		{
			name:     "list",
			cmd:      command.Command{Verb: "LIST"},
			contains: []string{"balanced", "units", "empty", "*"},
		},
		{
			name:     "help",
			cmd:      command.Command{Verb: "HELP"},
			contains: []string{"NORMALIZE/CNF", "QUIT/EXIT/BYE"},
		},
		{
			name:     "help topic",
			cmd:      command.Command{Verb: "HELP", Args: []string{"CNF"}},
			contains: []string{"Chomsky Normal Form"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			eng, _ := newTestEngine(t, "")

			for _, cmd := range tc.before {
				_, err := eng.Execute(cmd)
				if !assert.NoError(err) {
					return
				}
			}

			actual, err := eng.Execute(tc.cmd)

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

			if tc.expect != "" {
				assert.Equal(tc.expect, actual)
			}
			for _, s := range tc.contains {
				assert.Contains(actual, s)
			}
		})
	}
}

func Test_Engine_NoGrammar(t *testing.T) {
	assert := assert.New(t)

	var out bytes.Buffer
	eng, err := New(strings.NewReader(""), &out, "", true, nil)
	if !assert.NoError(err) {
		return
	}

	_, err = eng.Execute(command.Command{Verb: "SHOW"})
	assert.Error(err)
	assert.Contains(cnferr.Message(err), "LOAD")

	_, err = eng.Execute(command.Command{Verb: "LIST"})
	assert.Error(err)
}

func Test_Engine_SaveAndOpen(t *testing.T) {
	assert := assert.New(t)
	eng, _ := newTestEngine(t, "")
	path := filepath.Join(t.TempDir(), "balanced.snap")

	_, err := eng.Execute(command.Command{Verb: "NORMALIZE"})
	if !assert.NoError(err) {
		return
	}
	expect := eng.Grammar().String()

	_, err = eng.Execute(command.Command{Verb: "SAVE", Args: []string{path}})
	if !assert.NoError(err) {
		return
	}
	_, err = eng.Execute(command.Command{Verb: "RESET"})
	if !assert.NoError(err) {
		return
	}
	_, err = eng.Execute(command.Command{Verb: "OPEN", Args: []string{path}})
	if !assert.NoError(err) {
		return
	}

	assert.Equal(expect, eng.Grammar().String())
	assert.True(eng.Grammar().IsCNF())
}

func Test_Engine_RunUntilQuit(t *testing.T) {
	assert := assert.New(t)

	eng, out := newTestEngine(t, "cnf\nfly\naccepts a b\nquit\nshow\n")
	defer eng.Close()

	err := eng.RunUntilQuit()
	if !assert.NoError(err) {
		return
	}

	output := out.String()
	assert.Contains(output, "Using grammar \"balanced\"")
	assert.Contains(output, "S0 -> N4 T3 | T2 T3 | E1")
	assert.Contains(output, "Try HELP")
	assert.Contains(output, "Yes, \"a b\" is in the language.")
	assert.True(strings.HasSuffix(output, "Goodbye\n"))
	assert.NotContains(output, "start symbol S:")
}

func Test_Engine_RunUntilEOF(t *testing.T) {
	assert := assert.New(t)

	eng, out := newTestEngine(t, "show")
	defer eng.Close()

	err := eng.RunUntilQuit()
	if !assert.NoError(err) {
		return
	}

	assert.Contains(out.String(), "S -> a S b | ε")
	assert.True(strings.HasSuffix(out.String(), "Goodbye\n"))
}

func Test_NormalizeFile(t *testing.T) {
	testCases := []struct {
		name      string
		content   string
		expect    string
		expectErr error
	}{
		{
			name: "two grammars",
			content: `format = "CNFC"
type = "GRAMMAR"

[[grammar]]
name = "right"
nonterminals = ["S"]
terminals = ["a", "b"]
rules = "S -> a S | b"

[[grammar]]
name = "units"
nonterminals = ["A", "B"]
terminals = ["a"]
rules = "A -> B | a, B -> A"
`,
			expect: "# right\nS -> T1 S | b\nS0 -> T1 S | b\nT1 -> a\n\n# units\nA -> a\n",
		},
		{
			name:      "empty language writes nothing",
			content:   testGrammarFile,
			expectErr: cnferr.ErrEmptyLanguage,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			path := filepath.Join(t.TempDir(), "g.cnfc")
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatalf("write grammar file: %v", err)
			}

			var out bytes.Buffer
			err := NormalizeFile(path, &out, nil)

			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				assert.Empty(out.String())
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, out.String())
		})
	}
}
