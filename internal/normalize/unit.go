package normalize

import (
	"github.com/dekarrin/chomsky/internal/grammar"
	"github.com/dekarrin/chomsky/internal/util"
)

// UnitClosure returns, for every nonterminal A of g, the set of nonterminals
// reachable from A by zero or more unit productions. A is always in its own
// set. A production of the empty-string placeholder alone is not counted as a
// unit production.
func UnitClosure(g *grammar.Grammar) map[string]util.StringSet {
	nts := g.NonTerminals()

	closure := make(map[string]util.StringSet, len(nts))
	for _, nt := range nts {
		closure[nt] = util.StringSetOf([]string{nt})
	}

	changed := true
	for changed {
		changed = false

		for _, a := range nts {
			for _, b := range closure[a].Elements() {
				for _, p := range g.Alternatives(b) {
					if isUnit(g, p) && !closure[a].Has(p[0]) {
						closure[a].Add(p[0])
						changed = true
					}
				}
			}
		}
	}

	return closure
}

// removeUnits replaces every unit production with the non-unit alternatives of
// the nonterminals it leads to. ε alternatives are kept only on the start
// symbol, which collects them from every member of its closure, and on the
// empty-string placeholder. Must not be called on a grammar that has ε on any
// other nonterminal unless that ε is meant to be dropped.
func removeUnits(g *grammar.Grammar) {
	closure := UnitClosure(g)
	start := g.StartSymbol()

	newRules := map[string][]grammar.Production{}
	for _, a := range g.NonTerminals() {
		members := append([]string{a}, closure[a].Difference(util.StringSetOf([]string{a})).Elements()...)

		var alts []grammar.Production
		for _, b := range members {
			for _, p := range g.Alternatives(b) {
				switch {
				case isUnit(g, p):
					continue
				case p.IsEpsilon():
					ownPlaceholder := a == b && a == g.EmptyPlaceholder
					if a == start || ownPlaceholder {
						alts = append(alts, p)
					}
				default:
					alts = append(alts, p)
				}
			}
		}

		if len(alts) > 0 {
			newRules[a] = alts
		}
	}

	g.ReplaceRules(newRules)
}

func isUnit(g *grammar.Grammar, p grammar.Production) bool {
	if len(p) != 1 || !g.IsNonTerminal(p[0]) {
		return false
	}
	return g.EmptyPlaceholder == "" || p[0] != g.EmptyPlaceholder
}
