// Package normalize converts context-free grammars into Chomsky Normal Form.
//
// Conversion runs as a pipeline of passes that each preserve the language of
// the grammar: ε elimination, unit-rule elimination, removal of unreachable
// nonterminals, removal of non-productive nonterminals, and finally the CNF
// conversion proper, which isolates terminals and splits long alternatives.
package normalize

import (
	"errors"
	"fmt"

	"github.com/baditaflorin/l"
	"github.com/dekarrin/chomsky/internal/cnferr"
	"github.com/dekarrin/chomsky/internal/grammar"
	"github.com/dekarrin/chomsky/internal/util"
)

// Stage is a point in the normalization pipeline.
type Stage int

const (
	StageInitial Stage = iota
	StageEpsilon
	StageUnit
	StageReachable
	StageProductive
	StageCNF
)

// Stages is every Stage in the order the pipeline runs them.
var Stages = []Stage{StageInitial, StageEpsilon, StageUnit, StageReachable, StageProductive, StageCNF}

func (s Stage) String() string {
	switch s {
	case StageInitial:
		return "initial grammar"
	case StageEpsilon:
		return "ε productions removed"
	case StageUnit:
		return "unit productions removed"
	case StageReachable:
		return "inaccessible symbols removed"
	case StageProductive:
		return "non-productive symbols removed"
	case StageCNF:
		return "Chomsky Normal Form"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Option configures a Normalizer.
type Option func(n *Normalizer)

// WithLogger sets a logger that receives an event for each stage of the
// pipeline.
func WithLogger(logger l.Logger) Option {
	return func(n *Normalizer) {
		n.log = logger
	}
}

// WithStageHook sets a function that is called with a copy of the grammar as
// it stands before the first pass and after every pass.
func WithStageHook(hook func(Stage, *grammar.Grammar)) Option {
	return func(n *Normalizer) {
		n.hook = hook
	}
}

// Normalizer converts one grammar to CNF. It owns the counter used to name
// the nonterminals it creates, so a Normalizer must not be shared between
// goroutines. Create one with New.
type Normalizer struct {
	g *grammar.Grammar

	counter       int
	terminalUnits map[string]string
	pairs         map[string]string

	log  l.Logger
	hook func(Stage, *grammar.Grammar)
}

// New creates a Normalizer for g.
func New(g *grammar.Grammar, opts ...Option) *Normalizer {
	n := &Normalizer{
		g:             g,
		terminalUnits: map[string]string{},
		pairs:         map[string]string{},
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Normalize converts g to Chomsky Normal Form in place using a new
// Normalizer.
func Normalize(g *grammar.Grammar) error {
	return New(g).Normalize()
}

// Grammar returns the grammar the Normalizer operates on.
func (n *Normalizer) Grammar() *grammar.Grammar {
	return n.g
}

// Normalize converts the grammar to Chomsky Normal Form, replacing its
// contents. A grammar that is already in CNF with no useless nonterminals is
// left as it is. Each call starts with a fresh name counter and no remembered
// generated nonterminals, so calling it again after changing the grammar
// gives the same names a new Normalizer would. If the grammar generates no strings at all, an error that
// matches cnferr.ErrEmptyLanguage is returned and the grammar is not
// modified.
func (n *Normalizer) Normalize() (err error) {
	n.counter = 0
	n.terminalUnits = map[string]string{}
	n.pairs = map[string]string{}

	defer func() {
		if r := recover(); r != nil {
			if rErr, ok := r.(error); ok && errors.Is(rErr, cnferr.ErrNameCollision) {
				err = rErr
				n.logError(err)
				return
			}
			panic(r)
		}
	}()

	work := n.g.Copy()
	n.stage(StageInitial, work)

	if alreadyNormal(work) {
		n.debug("grammar already in Chomsky Normal Form")
		*n.g = *work
		return nil
	}

	work.EmptyPlaceholder = ""

	if err := n.removeEpsilons(work); err != nil {
		n.logError(err)
		return err
	}
	n.stage(StageEpsilon, work)

	removeUnits(work)
	n.stage(StageUnit, work)

	removeUnreachable(work)
	n.stage(StageReachable, work)

	if err := removeNonProductive(work); err != nil {
		n.logError(err)
		return err
	}
	n.stage(StageProductive, work)

	n.toCNF(work)
	n.stage(StageCNF, work)

	*n.g = *work
	return nil
}

// alreadyNormal returns whether g is in CNF and has no unreachable or
// non-productive nonterminals. If g has no recorded placeholder but has one in
// all but name, it is adopted as the placeholder.
func alreadyNormal(g *grammar.Grammar) bool {
	if g.EmptyPlaceholder == "" {
		if ph := findPlaceholder(g); ph != "" {
			g.EmptyPlaceholder = ph
			if !alreadyNormal(g) {
				g.EmptyPlaceholder = ""
				return false
			}
			return true
		}
	}

	if !g.IsCNF() {
		return false
	}

	all := util.StringSetOf(g.NonTerminals())
	return Reachable(g).Equal(all) && Productive(g).Equal(all)
}

// findPlaceholder returns the nonterminal whose only production is ε and that
// is produced only by the start symbol, alone, or "" if there isn't exactly
// one.
func findPlaceholder(g *grammar.Grammar) string {
	start := g.StartSymbol()

	var found string
	for _, r := range g.Rules() {
		if r.NonTerminal == start || len(r.Productions) != 1 || !r.Productions[0].IsEpsilon() {
			continue
		}
		if found != "" {
			return ""
		}
		found = r.NonTerminal
	}
	if found == "" {
		return ""
	}

	for _, r := range g.Rules() {
		for _, p := range r.Productions {
			if !p.HasSymbol(found) {
				continue
			}
			if r.NonTerminal != start || len(p) != 1 {
				return ""
			}
		}
	}

	return found
}

func (n *Normalizer) stage(s Stage, g *grammar.Grammar) {
	if n.log != nil {
		n.log.Info("Normalization stage complete",
			"stage", s.String(),
			"start", g.StartSymbol(),
			"nonterminals", len(g.NonTerminals()),
			"productions", g.ProductionCount(),
		)
	}
	if n.hook != nil {
		n.hook(s, g.Copy())
	}
}

func (n *Normalizer) debug(msg string) {
	if n.log != nil {
		n.log.Debug(msg)
	}
}

func (n *Normalizer) logError(err error) {
	if n.log != nil {
		n.log.Error("Normalization failed", "error", err)
	}
}
