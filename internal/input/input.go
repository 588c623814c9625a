// Package input contains the readers the shell gets its command lines from,
// either a TTY driven through readline or any plain stream.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DefaultPrompt is shown before each command when reading interactively.
const DefaultPrompt = "cnf> "

// DirectCommandReader implements command.Reader and reads commands from any
// generic input stream directly. It does not sanitize the input of control
// and escape sequences.
//
// DirectCommandReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectCommandReader struct {
	r *bufio.Reader
}

// InteractiveCommandReader implements command.Reader and reads commands from
// stdin using readline, which keeps input clear of editing escape sequences
// and gives command history and completion of verbs. It should only be used
// when stdin is a TTY.
//
// InteractiveCommandReader should not be used directly; instead, create one
// with [NewInteractiveReader].
type InteractiveCommandReader struct {
	rl *readline.Instance
}

// NewDirectReader creates a DirectCommandReader that reads from r.
func NewDirectReader(r io.Reader) *DirectCommandReader {
	return &DirectCommandReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates an InteractiveCommandReader that completes the
// given verbs when tab is pressed. historyFile may be empty to keep history
// only in memory. Close must be called on the returned reader to tear down
// readline.
func NewInteractiveReader(verbs []string, historyFile string) (*InteractiveCommandReader, error) {
	items := make([]readline.PrefixCompleterInterface, len(verbs))
	for i := range verbs {
		items[i] = readline.PcItem(verbs[i])
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          DefaultPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "QUIT",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveCommandReader{rl: rl}, nil
}

// Close cleans up resources associated with the DirectCommandReader. It does
// not close the underlying stream.
func (dcr *DirectCommandReader) Close() error {
	return nil
}

// Close cleans up readline resources.
func (icr *InteractiveCommandReader) Close() error {
	return icr.rl.Close()
}

// ReadCommand reads the next non-blank line. The returned string will only be
// empty if there is an error; at end of input the error is io.EOF.
func (dcr *DirectCommandReader) ReadCommand() (string, error) {
	return readNonBlank(func() (string, error) {
		return dcr.r.ReadString('\n')
	})
}

// ReadCommand reads the next non-blank line from the terminal. The returned
// string will only be empty if there is an error; at end of input the error is
// io.EOF. Interrupting the line with Ctrl-C discards it.
func (icr *InteractiveCommandReader) ReadCommand() (string, error) {
	return readNonBlank(func() (string, error) {
		line, err := icr.rl.Readline()
		if err == readline.ErrInterrupt {
			return "\n", nil
		}
		return line, err
	})
}

// SetPrompt updates the prompt to the given text.
func (icr *InteractiveCommandReader) SetPrompt(p string) {
	icr.rl.SetPrompt(p)
}

func readNonBlank(readLine func() (string, error)) (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = readLine()
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			return "", err
		}

		line = strings.TrimSpace(line)
	}

	return line, nil
}
