package normalize

import (
	"fmt"
	"strings"

	"github.com/dekarrin/chomsky/internal/cnferr"
	"github.com/dekarrin/chomsky/internal/grammar"
	"github.com/dekarrin/chomsky/internal/util"
)

// MaxNullablePositions is the most nullable symbols a single alternative may
// contain. Epsilon elimination emits one variant per subset of them.
const MaxNullablePositions = 16

// removeEpsilons rewrites g so that no alternative is ε, except that when the
// start symbol is nullable a fresh start symbol is introduced whose only
// alternative is the old start, and the old start is given an explicit ε
// alternative. Nonterminals left with no alternatives stay in the grammar for
// the productivity pass to remove.
//
// The returned error matches cnferr.ErrInvalidGrammar if an alternative has
// more than MaxNullablePositions nullable symbols; g is unchanged in that case.
func (n *Normalizer) removeEpsilons(g *grammar.Grammar) error {
	nullable := Nullable(g)

	newRules := map[string][]grammar.Production{}
	for _, nt := range g.NonTerminals() {
		for _, p := range g.Alternatives(nt) {
			if p.IsEpsilon() {
				continue
			}
			variants, err := withoutNullables(p, nullable)
			if err != nil {
				return fmt.Errorf("nonterminal %s: %w", nt, err)
			}
			newRules[nt] = append(newRules[nt], variants...)
		}
	}
	g.ReplaceRules(newRules)

	if nullable.Has(g.StartSymbol()) {
		oldStart := g.StartSymbol()
		newStart := n.addFresh(g, prefixStart)

		g.AddAlternative(newStart, grammar.Production{oldStart})
		g.AddAlternative(oldStart, grammar.Epsilon)
		g.SetStart(newStart)
	}

	return nil
}

// withoutNullables returns every production obtained by deleting some subset
// of the nullable symbols of p, starting with p itself. Productions that would
// be empty are not included.
func withoutNullables(p grammar.Production, nullable util.StringSet) ([]grammar.Production, error) {
	var positions []int
	for i, sym := range p {
		if nullable.Has(sym) {
			positions = append(positions, i)
		}
	}

	if len(positions) > MaxNullablePositions {
		msg := fmt.Sprintf("%q: %d nullable symbols in one alternative; at most %d are supported", strings.Join(p, " "), len(positions), MaxNullablePositions)
		return nil, cnferr.New(msg, cnferr.ErrInvalidGrammar)
	}

	var out []grammar.Production
	for mask := 0; mask < 1<<len(positions); mask++ {
		drop := map[int]bool{}
		for bit, pos := range positions {
			if mask&(1<<bit) != 0 {
				drop[pos] = true
			}
		}

		var variant grammar.Production
		for i, sym := range p {
			if !drop[i] {
				variant = append(variant, sym)
			}
		}
		if len(variant) > 0 {
			out = append(out, variant)
		}
	}

	return out, nil
}
