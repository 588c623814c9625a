package normalize

import (
	"github.com/dekarrin/chomsky/internal/grammar"
)

// toCNF converts a grammar that has already had its ε and unit productions
// removed and its useless symbols pruned into Chomsky Normal Form.
func (n *Normalizer) toCNF(g *grammar.Grammar) {
	n.isolateStart(g)
	n.isolateEmpty(g)
	n.isolateTerminals(g)
	n.binarize(g)

	removeUnits(g)
	removeUnreachable(g)
}

// isolateStart gives the grammar a fresh start symbol if the current one
// appears on the right-hand side of any rule.
func (n *Normalizer) isolateStart(g *grammar.Grammar) {
	oldStart := g.StartSymbol()
	if !g.ProducesSymbol(oldStart) {
		return
	}

	newStart := n.addFresh(g, prefixStart)
	g.SetAlternatives(newStart, g.Alternatives(oldStart))
	g.SetStart(newStart)
}

// isolateEmpty moves an ε alternative of the start symbol onto a fresh
// placeholder nonterminal, which the start symbol then produces in its place.
func (n *Normalizer) isolateEmpty(g *grammar.Grammar) {
	start := g.StartSymbol()
	if !g.RemoveAlternative(start, grammar.Epsilon) {
		return
	}

	placeholder := n.addFresh(g, prefixPlaceholder)
	g.AddAlternative(placeholder, grammar.Epsilon)
	g.EmptyPlaceholder = placeholder
	g.AddAlternative(start, grammar.Production{placeholder})
}

// isolateTerminals replaces every terminal in an alternative of two or more
// symbols with a nonterminal whose only production is that terminal. One
// such nonterminal is created per terminal, and only for terminals that need
// it.
func (n *Normalizer) isolateTerminals(g *grammar.Grammar) {
	for _, nt := range g.NonTerminals() {
		alts := g.Alternatives(nt)
		modified := false

		for i, p := range alts {
			if len(p) < 2 {
				continue
			}

			var replaced grammar.Production
			for _, sym := range p {
				if g.IsTerminal(sym) {
					sym = n.terminalUnit(g, sym)
					modified = true
				}
				replaced = append(replaced, sym)
			}
			alts[i] = replaced
		}

		if modified {
			g.SetAlternatives(nt, alts)
		}
	}
}

func (n *Normalizer) terminalUnit(g *grammar.Grammar, t string) string {
	if unit, ok := n.terminalUnits[t]; ok {
		return unit
	}

	unit := n.addFresh(g, prefixTerminal)
	g.AddAlternative(unit, grammar.Production{t})
	n.terminalUnits[t] = unit
	return unit
}

// binarize splits every alternative of more than two symbols by repeatedly
// replacing its leftmost two symbols with a nonterminal that produces that
// pair. Pair nonterminals are shared across all rules.
func (n *Normalizer) binarize(g *grammar.Grammar) {
	for _, nt := range g.NonTerminals() {
		alts := g.Alternatives(nt)
		modified := false

		for i, p := range alts {
			if len(p) <= 2 {
				continue
			}

			p = p.Copy()
			for len(p) > 2 {
				pair := n.pairUnit(g, p[0], p[1])
				p = append(grammar.Production{pair}, p[2:]...)
			}
			alts[i] = p
			modified = true
		}

		if modified {
			g.SetAlternatives(nt, alts)
		}
	}
}

func (n *Normalizer) pairUnit(g *grammar.Grammar, left, right string) string {
	key := left + "\x00" + right
	if unit, ok := n.pairs[key]; ok {
		return unit
	}

	unit := n.addFresh(g, prefixPair)
	g.AddAlternative(unit, grammar.Production{left, right})
	n.pairs[key] = unit
	return unit
}
