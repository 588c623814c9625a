package grammar

import (
	"github.com/dekarrin/chomsky/internal/util"
)

// Accepts returns whether the grammar derives the given string of terminal
// symbols. An empty slice tests for the empty string.
//
// On a grammar in CNF this runs the CYK algorithm. Any other grammar is
// checked by bounded enumeration of its language, which is much slower.
func (g *Grammar) Accepts(symbols []string) bool {
	for _, sym := range symbols {
		if !g.terminals.Has(sym) {
			return false
		}
	}

	if !g.IsCNF() {
		target := derivation(symbols).key()
		for _, s := range g.Strings(len(symbols)) {
			if s == target {
				return true
			}
		}
		return false
	}

	if len(symbols) == 0 {
		ph := g.EmptyPlaceholder
		if ph == "" {
			return false
		}
		for _, p := range g.rules[g.start] {
			if len(p) == 1 && p[0] == ph {
				return true
			}
		}
		return false
	}

	return g.cyk(symbols).Has(g.start)
}

// cyk fills the CYK table for symbols and returns the set of nonterminals that
// derive the whole string. The grammar must be in CNF.
func (g *Grammar) cyk(symbols []string) util.StringSet {
	n := len(symbols)

	// table[i][l-1] is the set of nonterminals deriving symbols[i:i+l].
	table := make([][]util.StringSet, n)
	for i := range table {
		table[i] = make([]util.StringSet, n-i)
		for j := range table[i] {
			table[i][j] = util.NewStringSet()
		}
	}

	rules := g.Rules()

	for i, sym := range symbols {
		for _, r := range rules {
			for _, p := range r.Productions {
				if len(p) == 1 && p[0] == sym {
					table[i][0].Add(r.NonTerminal)
				}
			}
		}
	}

	for l := 2; l <= n; l++ {
		for i := 0; i+l <= n; i++ {
			cell := table[i][l-1]
			for split := 1; split < l; split++ {
				left := table[i][split-1]
				right := table[i+split][l-split-1]
				if left.Empty() || right.Empty() {
					continue
				}
				for _, r := range rules {
					if cell.Has(r.NonTerminal) {
						continue
					}
					for _, p := range r.Productions {
						if len(p) == 2 && left.Has(p[0]) && right.Has(p[1]) {
							cell.Add(r.NonTerminal)
							break
						}
					}
				}
			}
		}
	}

	return table[0][n-1]
}
