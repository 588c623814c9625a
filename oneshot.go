package chomsky

import (
	"fmt"
	"io"

	"github.com/baditaflorin/l"
	"github.com/dekarrin/chomsky/internal/gdef"
	"github.com/dekarrin/chomsky/internal/normalize"
)

// NormalizeFile loads every grammar in the given definition or manifest file,
// converts each to Chomsky Normal Form, and writes the results to w in the
// order they were declared. Nothing is written unless every grammar could be
// normalized. logger may be nil.
func NormalizeFile(path string, w io.Writer, logger l.Logger) error {
	defs, err := gdef.LoadFile(path)
	if err != nil {
		return err
	}

	var opts []normalize.Option
	if logger != nil {
		opts = append(opts, normalize.WithLogger(logger))
	}

	var output string
	for i, d := range defs {
		g, err := d.Grammar()
		if err != nil {
			return err
		}
		if err := normalize.New(g, opts...).Normalize(); err != nil {
			return fmt.Errorf("grammar %q: %w", d.Name, err)
		}

		if i > 0 {
			output += "\n"
		}
		output += "# " + d.Name + "\n" + g.String() + "\n"
	}

	if _, err := io.WriteString(w, output); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	return nil
}
