package grammar

// Class is the place of a grammar in the Chomsky hierarchy.
type Class int

const (
	// ContextFree is a type-2 grammar.
	ContextFree Class = iota

	// Regular is a type-3 (right-linear) grammar.
	Regular
)

func (c Class) String() string {
	switch c {
	case Regular:
		return "Type 3 (Regular)"
	case ContextFree:
		return "Type 2 (Context-Free)"
	default:
		return "Unknown"
	}
}

// Classify gives the most restrictive class of the Chomsky hierarchy the
// grammar's rules fit into. A grammar is Regular when every alternative is ε,
// a single symbol, or a terminal followed by a nonterminal. Every other
// grammar this package can represent is ContextFree.
func (g *Grammar) Classify() Class {
	for _, alts := range g.rules {
		for _, p := range alts {
			switch {
			case p.IsEpsilon(), len(p) == 1:
				continue
			case len(p) == 2 && g.terminals.Has(p[0]) && g.nonTerminals.Has(p[1]):
				continue
			default:
				return ContextFree
			}
		}
	}
	return Regular
}
