package normalize

import (
	"fmt"

	"github.com/dekarrin/chomsky/internal/cnferr"
	"github.com/dekarrin/chomsky/internal/grammar"
	"github.com/dekarrin/chomsky/internal/util"
)

// Productive returns the set of nonterminals of g that derive at least one
// terminal string.
func Productive(g *grammar.Grammar) util.StringSet {
	productive := util.NewStringSet()
	nts := g.NonTerminals()

	producesTerminals := func(p grammar.Production) bool {
		if p.IsEpsilon() {
			return true
		}
		for _, sym := range p {
			if !g.IsTerminal(sym) && !productive.Has(sym) {
				return false
			}
		}
		return true
	}

	changed := true
	for changed {
		changed = false

		for _, nt := range nts {
			if productive.Has(nt) {
				continue
			}
			for _, p := range g.Alternatives(nt) {
				if producesTerminals(p) {
					productive.Add(nt)
					changed = true
					break
				}
			}
		}
	}

	return productive
}

// removeNonProductive drops every non-productive nonterminal and every
// alternative that refers to one. If the start symbol is not productive, g is
// not modified and an error matching cnferr.ErrEmptyLanguage is returned.
func removeNonProductive(g *grammar.Grammar) error {
	productive := Productive(g)

	if !productive.Has(g.StartSymbol()) {
		return cnferr.New(fmt.Sprintf("start symbol %q has no finite derivation", g.StartSymbol()), cnferr.ErrEmptyLanguage)
	}

	newRules := map[string][]grammar.Production{}
	for _, nt := range productive.Elements() {
		for _, p := range g.Alternatives(nt) {
			keep := true
			for _, sym := range p {
				if g.IsNonTerminal(sym) && !productive.Has(sym) {
					keep = false
					break
				}
			}
			if keep {
				newRules[nt] = append(newRules[nt], p)
			}
		}
	}

	g.ReplaceRules(newRules)
	g.RetainNonTerminals(productive)
	return nil
}
