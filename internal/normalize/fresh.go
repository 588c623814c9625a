package normalize

import (
	"fmt"

	"github.com/dekarrin/chomsky/internal/grammar"
)

// Prefixes of generated nonterminals.
const (
	prefixStart       = "S"
	prefixTerminal    = "T"
	prefixPair        = "N"
	prefixPlaceholder = "E"
)

// freshName returns the next name of the form prefix followed by the
// Normalizer's counter that is not yet a symbol of g. The counter advances
// past every candidate it considers.
func (n *Normalizer) freshName(g *grammar.Grammar, prefix string) string {
	for {
		name := fmt.Sprintf("%s%d", prefix, n.counter)
		n.counter++
		if !g.HasSymbol(name) {
			return name
		}
	}
}

// addFresh adds a new nonterminal to g with a generated name and returns the
// name. A collision with an existing symbol panics with an error that matches
// cnferr.ErrNameCollision; Normalize recovers it.
func (n *Normalizer) addFresh(g *grammar.Grammar, prefix string) string {
	name := n.freshName(g, prefix)
	if err := g.AddNonTerminal(name); err != nil {
		panic(err)
	}
	return name
}
