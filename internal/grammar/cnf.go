package grammar

import (
	"fmt"
)

// IsCNF returns whether the grammar is in Chomsky Normal Form. See CheckCNF
// for the exact shape that is accepted.
func (g *Grammar) IsCNF() bool {
	return g.CheckCNF() == nil
}

// CheckCNF checks whether the grammar is in Chomsky Normal Form and returns an
// error describing the first violation found if it is not. Every alternative
// must be one of:
//
//   - two nonterminals, neither of which is the empty-string placeholder;
//   - a single terminal;
//   - ε, only as the sole alternative of the EmptyPlaceholder;
//   - the EmptyPlaceholder alone, only as an alternative of the start symbol.
//
// When the grammar has an EmptyPlaceholder, the start symbol must not appear
// on the right-hand side of any rule.
func (g *Grammar) CheckCNF() error {
	ph := g.EmptyPlaceholder

	if ph != "" {
		if !g.nonTerminals.Has(ph) {
			return fmt.Errorf("empty-string placeholder %q is not a nonterminal", ph)
		}
		alts := g.rules[ph]
		if len(alts) != 1 || !alts[0].IsEpsilon() {
			return fmt.Errorf("empty-string placeholder %q must have ε as its only alternative", ph)
		}
		if ph == g.start {
			return fmt.Errorf("empty-string placeholder %q cannot be the start symbol", ph)
		}
	}

	for _, r := range g.Rules() {
		for _, p := range r.Productions {
			if err := g.checkCNFProduction(r.NonTerminal, p); err != nil {
				return fmt.Errorf("%s -> %s: %w", r.NonTerminal, p, err)
			}
		}
	}

	return nil
}

func (g *Grammar) checkCNFProduction(nt string, p Production) error {
	ph := g.EmptyPlaceholder

	switch {
	case p.IsEpsilon():
		if ph == "" || nt != ph {
			return fmt.Errorf("ε is only allowed on the empty-string placeholder")
		}
	case len(p) == 1:
		if g.terminals.Has(p[0]) {
			return nil
		}
		if ph == "" || p[0] != ph {
			return fmt.Errorf("unit production")
		}
		if nt != g.start {
			return fmt.Errorf("only the start symbol may produce the empty-string placeholder")
		}
	case len(p) == 2:
		for _, sym := range p {
			if !g.nonTerminals.Has(sym) {
				return fmt.Errorf("binary production with terminal %q", sym)
			}
			if ph != "" && sym == ph {
				return fmt.Errorf("empty-string placeholder in a binary production")
			}
			if ph != "" && sym == g.start {
				return fmt.Errorf("start symbol on the right-hand side of a grammar that derives ε")
			}
		}
	default:
		return fmt.Errorf("production of length %d", len(p))
	}

	return nil
}
