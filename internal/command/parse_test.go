package command

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseCommand(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Command
		expectErr bool
	}{
		{name: "blank", input: "   ", expect: Command{}},
		{name: "load keeps path case and spaces", input: "load My Grammars/v23.cnfc", expect: Command{Verb: "LOAD", Args: []string{"My Grammars/v23.cnfc"}}},
		{name: "load without path", input: "LOAD", expectErr: true},
		{name: "save", input: "SAVE out.snap", expect: Command{Verb: "SAVE", Args: []string{"out.snap"}}},
		{name: "open", input: "open out.snap", expect: Command{Verb: "OPEN", Args: []string{"out.snap"}}},
		{name: "show", input: "show", expect: Command{Verb: "SHOW"}},
		{name: "print alias", input: "Print", expect: Command{Verb: "SHOW"}},
		{name: "show with args", input: "SHOW S", expectErr: true},
		{name: "cnf alias", input: "cnf", expect: Command{Verb: "NORMALIZE"}},
		{name: "steps", input: "STEPS", expect: Command{Verb: "STEPS"}},
		{name: "accepts symbols", input: "accepts a b B", expect: Command{Verb: "ACCEPTS", Args: []string{"a", "b", "B"}}},
		{name: "accepts empty string", input: "TEST ε", expect: Command{Verb: "ACCEPTS", Args: []string{}}},
		{name: "accepts nothing", input: "ACCEPTS", expect: Command{Verb: "ACCEPTS", Args: []string{}}},
		{name: "strings default", input: "STRINGS", expect: Command{Verb: "STRINGS", Count: DefaultStringsLength}},
		{name: "strings with length", input: "strings 6", expect: Command{Verb: "STRINGS", Count: 6}},
		{name: "strings bad length", input: "STRINGS six", expectErr: true},
		{name: "strings negative length", input: "STRINGS -1", expectErr: true},
		{name: "classify", input: "classify", expect: Command{Verb: "CLASSIFY"}},
		{name: "list", input: "ls", expect: Command{Verb: "LIST"}},
		{name: "use", input: "use variant 23", expect: Command{Verb: "USE", Args: []string{"variant 23"}}},
		{name: "use without name", input: "SELECT", expectErr: true},
		{name: "reset", input: "RESET", expect: Command{Verb: "RESET"}},
		{name: "help", input: "?", expect: Command{Verb: "HELP"}},
		{name: "help topic", input: "help load", expect: Command{Verb: "HELP", Args: []string{"LOAD"}}},
		{name: "quit", input: "bye", expect: Command{Verb: "QUIT"}},
		{name: "quit with args", input: "EXIT now", expectErr: true},
		{name: "unknown verb", input: "fly away", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseCommand(tc.input)

			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_ExpandAliases(t *testing.T) {
	testCases := []struct {
		name   string
		tokens []string
		limit  int
		expect []string
	}{
		{name: "alias", tokens: []string{"CNF"}, limit: 1, expect: []string{"NORMALIZE"}},
		{name: "not an alias", tokens: []string{"LOAD", "X"}, limit: 2, expect: []string{"LOAD", "X"}},
		{name: "zero limit", tokens: []string{"CNF"}, limit: 0, expect: []string{"CNF"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := ExpandAliases(tc.tokens, tc.limit)

			assert.Equal(tc.expect, actual)
		})
	}
}

type lineReader struct {
	lines []string
}

func (lr *lineReader) ReadCommand() (string, error) {
	if len(lr.lines) == 0 {
		return "", io.EOF
	}
	line := lr.lines[0]
	lr.lines = lr.lines[1:]
	return line, nil
}

func (lr *lineReader) Close() error {
	return nil
}

func Test_Get(t *testing.T) {
	testCases := []struct {
		name         string
		lines        []string
		expect       Command
		expectErr    error
		expectOutput []string
	}{
		{
			name:         "skips unknown and blank lines",
			lines:        []string{"fly", "", "SHOW"},
			expect:       Command{Verb: "SHOW"},
			expectOutput: []string{"Try HELP"},
		},
		{
			name:         "reports what is missing",
			lines:        []string{"LOAD", "load v23.cnfc"},
			expect:       Command{Verb: "LOAD", Args: []string{"v23.cnfc"}},
			expectOutput: []string{"LOAD needs the path of a file", "Try HELP"},
		},
		{
			name:   "first line valid",
			lines:  []string{"normalize"},
			expect: Command{Verb: "NORMALIZE"},
		},
		{
			name:      "input ends before a valid command",
			lines:     []string{"   ", "fly"},
			expectErr: io.EOF,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			var out bytes.Buffer
			w := bufio.NewWriter(&out)

			cmd, err := Get(&lineReader{lines: tc.lines}, w)

			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, cmd)
			if len(tc.expectOutput) == 0 {
				assert.Empty(out.String())
			}
			for _, o := range tc.expectOutput {
				assert.True(strings.Contains(out.String(), o), "output %q does not contain %q", out.String(), o)
			}
		})
	}
}
