/*
Cnfi starts an interactive shell for converting context-free grammars to
Chomsky Normal Form.

It optionally reads in a CNFC grammar definition or manifest file and selects
the first grammar in it. The shell then reads commands from stdin and prints
results to stdout until the "QUIT" command is input or input ends.

Usage:

	cnfi [flags]

The flags are:

	-v, --version
		Give the current version of cnfi and then exit.

	-g, --grammar FILE
		Load the grammars in the given CNFC definition or manifest file at
		start.

	-n, --normalize
		Do not start a shell. Instead, convert every grammar in the file given
		with --grammar to Chomsky Normal Form, print the results, and exit.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading command input even if launched in
		a tty with stdin and stdout.

	--verbose
		Log every stage of normalization to stderr as JSON.

Once a session has started, type "HELP" for an explanation of the commands. To
exit the interpreter, type "QUIT".
*/
package main

import (
	"fmt"
	"os"

	"github.com/baditaflorin/l"
	"github.com/dekarrin/chomsky"
	"github.com/dekarrin/chomsky/internal/version"
	"github.com/spf13/pflag"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitRunError indicates an unsuccessful program execution due to a
	// problem while running commands.
	ExitRunError

	// ExitInitError indicates an unsuccessful program execution due to an issue
	// initializing the engine.
	ExitInitError
)

var (
	returnCode    int = ExitSuccess
	flagVersion       = pflag.BoolP("version", "v", false, "Give the current version and then exit.")
	flagGrammar       = pflag.StringP("grammar", "g", "", "The CNFC grammar definition or manifest file to load.")
	flagNormalize     = pflag.BoolP("normalize", "n", false, "Print the CNF of every grammar in the --grammar file and exit.")
	flagDirect        = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
	flagVerbose       = pflag.Bool("verbose", false, "Log every normalization stage to stderr.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	var logger l.Logger
	if *flagVerbose {
		var err error
		logger, err = l.NewStandardFactory().CreateLogger(l.Config{
			Output:     os.Stderr,
			JsonFormat: true,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: create logger: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		defer logger.Close()
	}

	if *flagNormalize {
		if *flagGrammar == "" {
			fmt.Fprintf(os.Stderr, "ERROR: --normalize needs a file given with --grammar\n")
			returnCode = ExitInitError
			return
		}
		if err := chomsky.NormalizeFile(*flagGrammar, os.Stdout, logger); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitRunError
		}
		return
	}

	eng, initErr := chomsky.New(os.Stdin, os.Stdout, *flagGrammar, *flagDirect, logger)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	err := eng.RunUntilQuit()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitRunError
		return
	}
}
