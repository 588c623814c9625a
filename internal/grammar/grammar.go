// Package grammar holds the context-free grammar model that every stage of
// the normalizer operates on, along with the rule text parser and the
// canonical text rendering of a grammar.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/chomsky/internal/cnferr"
	"github.com/dekarrin/chomsky/internal/util"
)

// EpsilonSymbol is the sigil that denotes the empty string in rule text and in
// rendered grammars.
const EpsilonSymbol = "ε"

// Production is the right-hand side of a single alternative of a rule. It is
// either the empty-string marker Epsilon or a non-empty sequence of symbols.
type Production []string

// Epsilon is the production that derives the empty string.
var Epsilon = Production{EpsilonSymbol}

// Copy returns a deep-copied duplicate of this production.
func (p Production) Copy() Production {
	p2 := make(Production, len(p))
	copy(p2, p)

	return p2
}

// Equal returns whether p is equal to another value. It will not be equal if
// the other value cannot be cast to Production, *Production, or []string.
func (p Production) Equal(o any) bool {
	var other Production

	switch v := o.(type) {
	case Production:
		other = v
	case *Production:
		if v == nil {
			return false
		}
		other = *v
	case []string:
		other = Production(v)
	default:
		return false
	}

	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}

	return true
}

// IsEpsilon returns whether p is the empty-string marker.
func (p Production) IsEpsilon() bool {
	return len(p) == 1 && p[0] == EpsilonSymbol
}

// HasSymbol returns whether the production has the given symbol in it.
func (p Production) HasSymbol(sym string) bool {
	return util.InSlice(sym, p)
}

func (p Production) String() string {
	return strings.Join(p, " ")
}

// key gives a string that is distinct for every distinct production, for use
// in de-duplication maps.
func (p Production) key() string {
	return strings.Join(p, "\x00")
}

// Rule is every alternative of a single nonterminal.
type Rule struct {
	NonTerminal string
	Productions []Production
}

func (r Rule) String() string {
	var sb strings.Builder

	sb.WriteString(r.NonTerminal)
	sb.WriteString(" -> ")

	for i := range r.Productions {
		sb.WriteString(r.Productions[i].String())
		if i+1 < len(r.Productions) {
			sb.WriteString(" | ")
		}
	}

	return sb.String()
}

// Grammar is a context-free grammar. It holds the nonterminal and terminal
// sets, the productions of every nonterminal, and the start symbol, which is
// always a member of the nonterminal set.
//
// The zero value is not ready for use; create one with New or Parse.
type Grammar struct {
	nonTerminals util.StringSet
	terminals    util.StringSet

	// alternatives of each nonterminal in the order they were added. A
	// nonterminal in nonTerminals with no entry here has no productions.
	rules map[string][]Production

	start string

	// EmptyPlaceholder is the nonterminal whose only alternative is the empty
	// string once the grammar is in CNF. It is empty if the language of the
	// grammar does not contain the empty string or if the grammar has not been
	// normalized.
	EmptyPlaceholder string
}

// New creates a grammar with no productions over the given symbols. The two
// symbol sets must be disjoint and the start symbol must be one of the
// nonterminals.
func New(nonTerminals, terminals []string, start string) (*Grammar, error) {
	g := &Grammar{
		nonTerminals: util.NewStringSet(),
		terminals:    util.NewStringSet(),
		rules:        map[string][]Production{},
	}

	for _, nt := range nonTerminals {
		nt = normalizeSymbol(nt)
		if err := checkSymbolName(nt); err != nil {
			return nil, cnferr.New(fmt.Sprintf("nonterminal %q", nt), err, cnferr.ErrInvalidGrammar)
		}
		g.nonTerminals.Add(nt)
	}
	for _, t := range terminals {
		t = normalizeSymbol(t)
		if err := checkSymbolName(t); err != nil {
			return nil, cnferr.New(fmt.Sprintf("terminal %q", t), err, cnferr.ErrInvalidGrammar)
		}
		if g.nonTerminals.Has(t) {
			return nil, cnferr.New(fmt.Sprintf("symbol %q is declared as both a terminal and a nonterminal", t), cnferr.ErrInvalidGrammar)
		}
		g.terminals.Add(t)
	}

	start = normalizeSymbol(start)
	if !g.nonTerminals.Has(start) {
		return nil, cnferr.New(fmt.Sprintf("start symbol %q is not a declared nonterminal", start), cnferr.ErrInvalidGrammar)
	}
	g.start = start

	return g, nil
}

func checkSymbolName(s string) error {
	if s == "" {
		return fmt.Errorf("empty symbol name not allowed")
	}
	if isEpsilonSpelling(s) {
		return fmt.Errorf("%q is reserved for the empty string", s)
	}
	if strings.ContainsAny(s, " \t\r\n|,") || strings.Contains(s, "->") {
		return fmt.Errorf("symbol name contains a separator character")
	}
	return nil
}

// StartSymbol returns the start symbol of the grammar.
func (g *Grammar) StartSymbol() string {
	return g.start
}

// SetStart makes nt the start symbol. nt must already be a nonterminal of the
// grammar.
func (g *Grammar) SetStart(nt string) {
	if !g.nonTerminals.Has(nt) {
		panic(fmt.Sprintf("start symbol %q is not a nonterminal of the grammar", nt))
	}
	g.start = nt
}

// NonTerminals returns every nonterminal symbol, sorted.
func (g *Grammar) NonTerminals() []string {
	return g.nonTerminals.Elements()
}

// Terminals returns every terminal symbol, sorted.
func (g *Grammar) Terminals() []string {
	return g.terminals.Elements()
}

// IsTerminal returns whether sym is a terminal of the grammar.
func (g *Grammar) IsTerminal(sym string) bool {
	return g.terminals.Has(sym)
}

// IsNonTerminal returns whether sym is a nonterminal of the grammar.
func (g *Grammar) IsNonTerminal(sym string) bool {
	return g.nonTerminals.Has(sym)
}

// HasSymbol returns whether sym is a terminal or nonterminal of the grammar.
func (g *Grammar) HasSymbol(sym string) bool {
	return g.terminals.Has(sym) || g.nonTerminals.Has(sym)
}

// AddNonTerminal adds a new nonterminal with no productions. If the name is
// already a terminal or nonterminal of the grammar, an error that matches
// cnferr.ErrNameCollision is returned.
func (g *Grammar) AddNonTerminal(nt string) error {
	if g.HasSymbol(nt) {
		return cnferr.New(fmt.Sprintf("cannot add nonterminal %q", nt), cnferr.ErrNameCollision)
	}
	if err := checkSymbolName(nt); err != nil {
		return cnferr.New(fmt.Sprintf("cannot add nonterminal %q", nt), err, cnferr.ErrInvalidGrammar)
	}
	g.nonTerminals.Add(nt)
	return nil
}

// Alternatives returns the productions of nt. The returned slice is a copy but
// the productions within it are shared with the grammar and must not be
// modified.
func (g *Grammar) Alternatives(nt string) []Production {
	alts := g.rules[nt]
	if len(alts) == 0 {
		return nil
	}
	cp := make([]Production, len(alts))
	copy(cp, alts)
	return cp
}

// AddAlternative adds p as an alternative of nt unless nt already has it.
// Returns whether it was added. nt must be a nonterminal and every symbol of p
// must be a symbol of the grammar.
func (g *Grammar) AddAlternative(nt string, p Production) bool {
	g.mustBeRule(nt, p)

	for _, existing := range g.rules[nt] {
		if existing.Equal(p) {
			return false
		}
	}
	g.rules[nt] = append(g.rules[nt], p.Copy())
	return true
}

// RemoveAlternative removes p from the alternatives of nt. Returns whether it
// was present.
func (g *Grammar) RemoveAlternative(nt string, p Production) bool {
	alts := g.rules[nt]
	for i := range alts {
		if alts[i].Equal(p) {
			newAlts := make([]Production, 0, len(alts)-1)
			newAlts = append(newAlts, alts[:i]...)
			newAlts = append(newAlts, alts[i+1:]...)
			if len(newAlts) == 0 {
				delete(g.rules, nt)
			} else {
				g.rules[nt] = newAlts
			}
			return true
		}
	}
	return false
}

// SetAlternatives replaces every alternative of nt with the given ones.
// Duplicates are dropped, keeping the first occurrence.
func (g *Grammar) SetAlternatives(nt string, prods []Production) {
	delete(g.rules, nt)
	for _, p := range prods {
		g.AddAlternative(nt, p)
	}
}

// ReplaceRules replaces the entire production map of the grammar. Every key
// must be a nonterminal of the grammar. Nonterminals not in the map are kept
// but have no productions afterwards.
func (g *Grammar) ReplaceRules(rules map[string][]Production) {
	g.rules = map[string][]Production{}
	for _, nt := range util.OrderedKeys(rules) {
		g.SetAlternatives(nt, rules[nt])
	}
}

// RetainNonTerminals removes every nonterminal that is not in keep along with
// its productions. The start symbol cannot be removed.
func (g *Grammar) RetainNonTerminals(keep util.StringSet) {
	if !keep.Has(g.start) {
		panic(fmt.Sprintf("cannot remove start symbol %q", g.start))
	}
	for _, nt := range g.nonTerminals.Elements() {
		if !keep.Has(nt) {
			g.nonTerminals.Remove(nt)
			delete(g.rules, nt)
		}
	}
	if g.EmptyPlaceholder != "" && !keep.Has(g.EmptyPlaceholder) {
		g.EmptyPlaceholder = ""
	}
}

// ProducesSymbol returns whether sym appears in the right-hand side of any
// alternative of any rule.
func (g *Grammar) ProducesSymbol(sym string) bool {
	for _, alts := range g.rules {
		for _, p := range alts {
			if p.HasSymbol(sym) {
				return true
			}
		}
	}
	return false
}

// ProductionCount returns the total number of alternatives in the grammar.
func (g *Grammar) ProductionCount() int {
	var count int
	for _, alts := range g.rules {
		count += len(alts)
	}
	return count
}

// Rules returns the rule of every nonterminal that has at least one
// production, sorted by nonterminal.
func (g *Grammar) Rules() []Rule {
	var rules []Rule
	for _, nt := range util.OrderedKeys(g.rules) {
		if len(g.rules[nt]) == 0 {
			continue
		}
		rules = append(rules, Rule{NonTerminal: nt, Productions: g.Alternatives(nt)})
	}
	return rules
}

// Copy makes a duplicate deep copy of the grammar.
func (g *Grammar) Copy() *Grammar {
	g2 := &Grammar{
		nonTerminals:     g.nonTerminals.Copy(),
		terminals:        g.terminals.Copy(),
		rules:            make(map[string][]Production, len(g.rules)),
		start:            g.start,
		EmptyPlaceholder: g.EmptyPlaceholder,
	}

	for nt, alts := range g.rules {
		cp := make([]Production, len(alts))
		for i := range alts {
			cp[i] = alts[i].Copy()
		}
		g2.rules[nt] = cp
	}

	return g2
}

// String gives the canonical rendering of the grammar: one line per
// nonterminal that has at least one production, sorted by nonterminal, in the
// form "LHS -> alt1 | alt2".
func (g *Grammar) String() string {
	rules := g.Rules()
	lines := make([]string, len(rules))
	for i := range rules {
		lines[i] = rules[i].String()
	}
	return strings.Join(lines, "\n")
}

// Validate checks that the grammar's invariants hold: the symbol sets are
// disjoint, the start symbol is a nonterminal, every rule belongs to a
// nonterminal, and every symbol produced is declared.
func (g *Grammar) Validate() error {
	if !g.nonTerminals.Has(g.start) {
		return cnferr.New(fmt.Sprintf("start symbol %q is not a nonterminal", g.start), cnferr.ErrInvalidGrammar)
	}
	if !g.nonTerminals.DisjointWith(g.terminals) {
		overlap := g.nonTerminals.Intersection(g.terminals)
		return cnferr.New(fmt.Sprintf("symbols %s are both terminals and nonterminals", overlap), cnferr.ErrInvalidGrammar)
	}
	if g.EmptyPlaceholder != "" && !g.nonTerminals.Has(g.EmptyPlaceholder) {
		return cnferr.New(fmt.Sprintf("empty-string placeholder %q is not a nonterminal", g.EmptyPlaceholder), cnferr.ErrInvalidGrammar)
	}

	for _, nt := range util.OrderedKeys(g.rules) {
		if !g.nonTerminals.Has(nt) {
			return cnferr.New(fmt.Sprintf("rule for undeclared nonterminal %q", nt), cnferr.ErrInvalidGrammar)
		}
		for _, p := range g.rules[nt] {
			if err := g.checkProduction(p); err != nil {
				return cnferr.New(fmt.Sprintf("%s -> %s", nt, p), err, cnferr.ErrInvalidGrammar)
			}
		}
	}

	return nil
}

func (g *Grammar) checkProduction(p Production) error {
	if len(p) == 0 {
		return fmt.Errorf("empty production; use %s for the empty string", EpsilonSymbol)
	}
	if p.IsEpsilon() {
		return nil
	}
	for _, sym := range p {
		if sym == EpsilonSymbol {
			return fmt.Errorf("%s is only allowed as the sole symbol of an alternative", EpsilonSymbol)
		}
		if !g.HasSymbol(sym) {
			return fmt.Errorf("undeclared symbol %q", sym)
		}
	}
	return nil
}

func (g *Grammar) mustBeRule(nt string, p Production) {
	if !g.nonTerminals.Has(nt) {
		panic(fmt.Sprintf("%q is not a nonterminal of the grammar", nt))
	}
	if err := g.checkProduction(p); err != nil {
		panic(fmt.Sprintf("%s -> %s: %s", nt, p, err))
	}
}
