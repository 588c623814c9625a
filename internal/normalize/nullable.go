package normalize

import (
	"github.com/dekarrin/chomsky/internal/grammar"
	"github.com/dekarrin/chomsky/internal/util"
)

// Nullable returns the set of nonterminals of g that derive the empty string.
func Nullable(g *grammar.Grammar) util.StringSet {
	nullable, _ := NullableScans(g)
	return nullable
}

// NullableScans is Nullable but also reports how many passes over the
// nonterminals it took to reach the fixed point. The count is never more than
// one plus the number of nonterminals.
func NullableScans(g *grammar.Grammar) (nullable util.StringSet, scans int) {
	nullable = util.NewStringSet()
	nts := g.NonTerminals()

	changed := true
	for changed {
		changed = false
		scans++

		for _, nt := range nts {
			if nullable.Has(nt) {
				continue
			}
			for _, p := range g.Alternatives(nt) {
				if p.IsEpsilon() || nullable.All(p) {
					nullable.Add(nt)
					changed = true
					break
				}
			}
		}
	}

	return nullable, scans
}
