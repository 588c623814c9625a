package command

import (
	"bufio"
	"fmt"

	"github.com/dekarrin/chomsky/internal/cnferr"
)

// Reader supplies lines of REPL input. ReadCommand blocks until a line is
// available and returns it, possibly blank. At end of input it returns "" and
// io.EOF. Close releases whatever the Reader holds, such as the
// terminal in interactive mode.
type Reader interface {
	ReadCommand() (string, error)
	Close() error
}

// Get reads lines from in until one parses to a command and returns it. Blank
// lines are skipped. A line that does not parse is reported to out along with
// a pointer to HELP, and reading continues; the grammar session is never
// interrupted by a typo.
//
// Get only checks syntax. Whether the command makes sense for the current
// grammar is up to the caller.
func Get(in Reader, out *bufio.Writer) (Command, error) {
	for {
		line, err := in.ReadCommand()
		if err != nil {
			return Command{}, fmt.Errorf("could not get input: %w", err)
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			if err := reportBadCommand(out, err); err != nil {
				return Command{}, err
			}
			continue
		}
		if cmd.Verb != "" {
			return cmd, nil
		}
	}
}

func reportBadCommand(out *bufio.Writer, parseErr error) error {
	if _, err := fmt.Fprintf(out, "%s\nTry HELP for valid commands\n", cnferr.Message(parseErr)); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}
