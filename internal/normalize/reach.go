package normalize

import (
	"github.com/dekarrin/chomsky/internal/grammar"
	"github.com/dekarrin/chomsky/internal/util"
)

// Reachable returns the set of nonterminals of g that can be reached from its
// start symbol.
func Reachable(g *grammar.Grammar) util.StringSet {
	start := g.StartSymbol()
	reached := util.StringSetOf([]string{start})
	queue := []string{start}

	for len(queue) > 0 {
		nt := queue[0]
		queue = queue[1:]

		for _, p := range g.Alternatives(nt) {
			for _, sym := range p {
				if g.IsNonTerminal(sym) && !reached.Has(sym) {
					reached.Add(sym)
					queue = append(queue, sym)
				}
			}
		}
	}

	return reached
}

// removeUnreachable drops every nonterminal that cannot be reached from the
// start symbol along with its productions.
func removeUnreachable(g *grammar.Grammar) {
	g.RetainNonTerminals(Reachable(g))
}
