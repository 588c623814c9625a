// Package chomsky contains a CLI-driven engine that reads grammar commands
// from an input stream and applies them until the user quits.
package chomsky

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/baditaflorin/l"
	"github.com/dekarrin/chomsky/internal/cnferr"
	"github.com/dekarrin/chomsky/internal/command"
	"github.com/dekarrin/chomsky/internal/gdef"
	"github.com/dekarrin/chomsky/internal/grammar"
	"github.com/dekarrin/chomsky/internal/input"
	"github.com/dekarrin/chomsky/internal/normalize"
	"github.com/dekarrin/rosed"
)

const consoleOutputWidth = 80

var commandHelp = [][2]string{
	{"LOAD FILE", "load every grammar in a CNFC definition or manifest file and use the first"},
	{"LIST/LS", "list the loaded grammars"},
	{"USE NAME", "switch to the loaded grammar called NAME"},
	{"SHOW/PRINT", "print the current grammar"},
	{"NORMALIZE/CNF", "convert the current grammar to Chomsky Normal Form"},
	{"STEPS", "show the grammar after every stage of the last NORMALIZE"},
	{"ACCEPTS/TEST SYM...", "check whether the grammar generates the given terminals; give ε or nothing for the empty string"},
	{"STRINGS [N]", "list every string of the language up to length N (default " + strconv.Itoa(command.DefaultStringsLength) + ")"},
	{"CLASSIFY", "give the Chomsky hierarchy class of the grammar and whether it is in CNF"},
	{"SAVE FILE", "write the current grammar to a binary snapshot"},
	{"OPEN FILE", "read a grammar from a binary snapshot"},
	{"RESET", "undo normalization and go back to the grammar as loaded"},
	{"HELP/? [VERB]", "show this help, or help for one command"},
	{"QUIT/EXIT/BYE", "leave the shell"},
}

// stageSnapshot is the grammar as it stood after one stage of normalization.
type stageSnapshot struct {
	stage normalize.Stage
	g     *grammar.Grammar
}

// Engine contains the things needed to run an interactive grammar shell
// attached to an input stream and an output stream.
type Engine struct {
	in          command.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
	log         l.Logger

	defs []gdef.Definition

	// name of the grammar being worked on, "" if none is loaded.
	name     string
	original *grammar.Grammar
	current  *grammar.Grammar
	steps    []stageSnapshot
}

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and a
// buffered writer on the output stream.
//
// If nil is given for the input stream, stdin is used. If nil is given for the
// output stream, stdout is used. If grammarFilePath is not empty, the grammars
// in it are loaded and the first is selected. logger may be nil; if it is not,
// normalization stages are logged to it.
func New(inputStream io.Reader, outputStream io.Writer, grammarFilePath string, forceDirectInput bool, logger l.Logger) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	eng := &Engine{
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirectInput,
		log:         logger,
	}

	if grammarFilePath != "" {
		if _, err := eng.load(grammarFilePath); err != nil {
			return nil, err
		}
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout
	if useReadline {
		var err error
		eng.in, err = input.NewInteractiveReader(completionVerbs(), "")
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

func completionVerbs() []string {
	return []string{
		"LOAD", "LIST", "USE", "SHOW", "NORMALIZE", "STEPS", "ACCEPTS",
		"STRINGS", "CLASSIFY", "SAVE", "OPEN", "RESET", "HELP", "QUIT",
	}
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// RunUntilQuit begins reading commands from the streams and applying them to
// the current grammar until the QUIT command is received or input ends.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "Chomsky Normal Form Interpreter\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "===============================\n"
	if eng.name != "" {
		introMsg += fmt.Sprintf("Using grammar %q. Type HELP for commands.\n", eng.name)
	} else {
		introMsg += "No grammar loaded. Type HELP for commands.\n"
	}

	if err := eng.write(introMsg); err != nil {
		return err
	}

	eng.running = true
	defer func() {
		eng.running = false
	}()

	for eng.running {
		cmd, err := command.Get(eng.in, eng.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		if cmd.Verb == "QUIT" {
			eng.running = false
			break
		}

		output, err := eng.Execute(cmd)
		if err != nil {
			output = rosed.Edit(cnferr.Message(err)).Wrap(consoleOutputWidth).String()
		}
		if err := eng.write(output + "\n"); err != nil {
			return err
		}
	}

	return eng.write("Goodbye\n")
}

// Execute runs a single command against the engine and returns what is to be
// shown to the user. QUIT is not executed here; it is up to the caller to stop
// reading commands when it is received.
func (eng *Engine) Execute(cmd command.Command) (string, error) {
	switch cmd.Verb {
	case "LOAD":
		return eng.load(cmd.Arg())
	case "LIST":
		return eng.list()
	case "USE":
		return eng.use(cmd.Arg())
	case "HELP":
		return eng.help(cmd.Arg())
	case "OPEN":
		return eng.open(cmd.Arg())
	}

	if eng.current == nil {
		return "", cnferr.Interpreterf("There is no grammar to %s yet; LOAD a definition file or OPEN a snapshot first", strings.ToLower(cmd.Verb))
	}

	switch cmd.Verb {
	case "SHOW":
		return eng.show(), nil
	case "NORMALIZE":
		return eng.normalize()
	case "STEPS":
		return eng.listSteps()
	case "ACCEPTS":
		return eng.accepts(cmd.Args), nil
	case "STRINGS":
		return eng.listStrings(cmd.Count), nil
	case "CLASSIFY":
		return eng.classify(), nil
	case "SAVE":
		return eng.save(cmd.Arg())
	case "RESET":
		eng.current = eng.original.Copy()
		eng.steps = nil
		return fmt.Sprintf("Grammar %q is back to how it was loaded.", eng.name), nil
	default:
		return "", cnferr.Interpreterf("I don't know how to %q", cmd.Verb)
	}
}

// Grammar returns the grammar currently being worked on, or nil if there is
// none.
func (eng *Engine) Grammar() *grammar.Grammar {
	return eng.current
}

func (eng *Engine) load(path string) (string, error) {
	defs, err := gdef.LoadFile(path)
	if err != nil {
		return "", cnferr.WrapInterpreterf(err, "Could not load %s: %v", path, err)
	}

	eng.defs = defs
	if _, err := eng.selectDefinition(0); err != nil {
		return "", err
	}

	return fmt.Sprintf("Loaded %d grammar(s) from %s. Using %q.", len(defs), path, eng.name), nil
}

func (eng *Engine) selectDefinition(idx int) (string, error) {
	d := eng.defs[idx]
	g, err := d.Grammar()
	if err != nil {
		return "", cnferr.WrapInterpreterf(err, "Grammar %q is not valid: %v", d.Name, err)
	}

	eng.name = d.Name
	eng.original = g
	eng.current = g.Copy()
	eng.steps = nil

	return fmt.Sprintf("Using grammar %q.", d.Name), nil
}

func (eng *Engine) use(name string) (string, error) {
	for i := range eng.defs {
		if strings.EqualFold(eng.defs[i].Name, name) {
			return eng.selectDefinition(i)
		}
	}
	return "", cnferr.Interpreterf("There is no loaded grammar called %q; type LIST to see them", name)
}

func (eng *Engine) list() (string, error) {
	if len(eng.defs) < 1 {
		return "", cnferr.Interpreterf("No definition files are loaded; use LOAD to load one")
	}

	data := [][]string{{"", "Name", "Start", "Source"}}
	for _, d := range eng.defs {
		marker := ""
		if d.Name == eng.name {
			marker = "*"
		}
		start := d.Start
		if start == "" && len(d.NonTerminals) > 0 {
			start = d.NonTerminals[0]
		}
		data = append(data, []string{marker, d.Name, start, d.Source})
	}

	tableOpts := rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}

	return rosed.Edit("").InsertTableOpts(0, data, consoleOutputWidth, tableOpts).String(), nil
}

func (eng *Engine) show() string {
	header := fmt.Sprintf("Grammar %q, start symbol %s:\n", eng.name, eng.current.StartSymbol())
	return header + eng.current.String()
}

func (eng *Engine) normalize() (string, error) {
	var steps []stageSnapshot
	opts := []normalize.Option{
		normalize.WithStageHook(func(s normalize.Stage, g *grammar.Grammar) {
			steps = append(steps, stageSnapshot{stage: s, g: g})
		}),
	}
	if eng.log != nil {
		opts = append(opts, normalize.WithLogger(eng.log))
	}

	work := eng.current.Copy()
	if err := normalize.New(work, opts...).Normalize(); err != nil {
		if errors.Is(err, cnferr.ErrEmptyLanguage) {
			return "", cnferr.WrapInterpreterf(err, "Grammar %q generates no strings at all, so it has no Chomsky Normal Form", eng.name)
		}
		if errors.Is(err, cnferr.ErrInvalidGrammar) {
			return "", cnferr.WrapInterpreterf(err, "Grammar %q cannot be normalized: %s", eng.name, err.Error())
		}
		return "", err
	}

	eng.current = work
	eng.steps = steps

	if len(steps) == 1 {
		return "The grammar is already in Chomsky Normal Form:\n" + work.String(), nil
	}
	return "Chomsky Normal Form:\n" + work.String(), nil
}

func (eng *Engine) listSteps() (string, error) {
	if len(eng.steps) < 1 {
		return "", cnferr.Interpreterf("Nothing has been normalized yet; use NORMALIZE first")
	}

	data := [][]string{{"#", "Stage", "Nonterminals", "Productions"}}
	for i, st := range eng.steps {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			st.stage.String(),
			strconv.Itoa(len(st.g.NonTerminals())),
			strconv.Itoa(st.g.ProductionCount()),
		})
	}

	var sb strings.Builder
	for i, st := range eng.steps {
		sb.WriteString(fmt.Sprintf("\n%d. %s:\n", i+1, st.stage))
		sb.WriteString(st.g.String())
		sb.WriteRune('\n')
	}

	tableOpts := rosed.Options{TableHeaders: true}
	return rosed.Edit(strings.TrimSuffix(sb.String(), "\n")).
		InsertTableOpts(0, data, consoleOutputWidth, tableOpts).
		String(), nil
}

func (eng *Engine) accepts(symbols []string) string {
	shown := "ε"
	if len(symbols) > 0 {
		shown = strings.Join(symbols, " ")
	}

	for _, sym := range symbols {
		if !eng.current.IsTerminal(sym) {
			return fmt.Sprintf("No, %q is not a terminal of the grammar, so %q is not in its language.", sym, shown)
		}
	}

	if eng.current.Accepts(symbols) {
		return fmt.Sprintf("Yes, %q is in the language.", shown)
	}
	return fmt.Sprintf("No, %q is not in the language.", shown)
}

func (eng *Engine) listStrings(maxLen int) string {
	strs := eng.current.Strings(maxLen)
	if len(strs) < 1 {
		return fmt.Sprintf("The grammar generates no strings of length %d or less.", maxLen)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d string(s) of length %d or less:", len(strs), maxLen))
	for _, s := range strs {
		if s == "" {
			s = grammar.EpsilonSymbol
		}
		sb.WriteString("\n  ")
		sb.WriteString(s)
	}
	return sb.String()
}

func (eng *Engine) classify() string {
	msg := eng.current.Classify().String()
	if err := eng.current.CheckCNF(); err != nil {
		msg += "; not in Chomsky Normal Form (" + err.Error() + ")"
	} else {
		msg += "; in Chomsky Normal Form"
	}
	return rosed.Edit(msg).Wrap(consoleOutputWidth).String()
}

func (eng *Engine) save(path string) (string, error) {
	if err := gdef.SaveSnapshot(path, eng.current); err != nil {
		return "", cnferr.WrapInterpreterf(err, "Could not save to %s: %v", path, err)
	}
	return fmt.Sprintf("Saved grammar %q to %s.", eng.name, path), nil
}

func (eng *Engine) open(path string) (string, error) {
	g, err := gdef.LoadSnapshot(path)
	if err != nil {
		return "", cnferr.WrapInterpreterf(err, "Could not open %s: %v", path, err)
	}

	eng.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	eng.original = g
	eng.current = g.Copy()
	eng.steps = nil

	return fmt.Sprintf("Opened snapshot %s as %q.", path, eng.name), nil
}

func (eng *Engine) help(topic string) (string, error) {
	if topic != "" {
		for _, entry := range commandHelp {
			verbs := strings.Fields(entry[0])[0]
			for _, v := range strings.Split(verbs, "/") {
				if v == topic {
					return rosed.Edit("").
						WithOptions(rosed.Options{ParagraphSeparator: "\n"}).
						InsertDefinitionsTable(0, [][2]string{entry}, consoleOutputWidth).
						String(), nil
				}
			}
		}
		return "", cnferr.Interpreterf("There is no command %q; type HELP to see them all", topic)
	}

	return rosed.Edit("").
		WithOptions(rosed.Options{ParagraphSeparator: "\n"}).
		InsertDefinitionsTable(0, commandHelp, consoleOutputWidth).
		Insert(0, "Here are the commands you can use:\n").
		String(), nil
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}
