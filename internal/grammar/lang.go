package grammar

import (
	"sort"
	"strings"
)

// derivation is a terminal string derived from some nonterminal, held as its
// symbols.
type derivation []string

func (d derivation) key() string {
	return strings.Join(d, " ")
}

// Strings returns every terminal string of at most maxLen symbols that the
// start symbol derives, with symbols separated by a single space. The empty
// string is included as "" if the grammar derives it. The result is sorted.
//
// It is computed as a fixed point over the set of bounded strings derivable
// from each nonterminal, so it terminates for every grammar, including ones
// with unit cycles or left recursion.
func (g *Grammar) Strings(maxLen int) []string {
	if maxLen < 0 {
		return nil
	}

	derived := g.boundedDerivations(maxLen)

	var out []string
	for k := range derived[g.start] {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// boundedDerivations gives, for each nonterminal, the set of terminal strings
// it derives that are at most maxLen symbols long, keyed by the space-joined
// string.
func (g *Grammar) boundedDerivations(maxLen int) map[string]map[string]derivation {
	derived := map[string]map[string]derivation{}
	for nt := range g.nonTerminals {
		derived[nt] = map[string]derivation{}
	}

	nts := g.nonTerminals.Elements()

	changed := true
	for changed {
		changed = false

		for _, nt := range nts {
			for _, p := range g.rules[nt] {
				for _, d := range g.expand(p, derived, maxLen) {
					k := d.key()
					if _, ok := derived[nt][k]; !ok {
						derived[nt][k] = d
						changed = true
					}
				}
			}
		}
	}

	return derived
}

// expand gives every terminal string of at most maxLen symbols that p derives
// using the strings currently known for each nonterminal.
func (g *Grammar) expand(p Production, known map[string]map[string]derivation, maxLen int) []derivation {
	if p.IsEpsilon() {
		return []derivation{{}}
	}

	partials := []derivation{{}}
	for _, sym := range p {
		var next []derivation

		if g.terminals.Has(sym) {
			for _, d := range partials {
				if len(d)+1 > maxLen {
					continue
				}
				ext := make(derivation, len(d), len(d)+1)
				copy(ext, d)
				next = append(next, append(ext, sym))
			}
		} else {
			for _, d := range partials {
				for _, tail := range known[sym] {
					if len(d)+len(tail) > maxLen {
						continue
					}
					ext := make(derivation, len(d), len(d)+len(tail))
					copy(ext, d)
					next = append(next, append(ext, tail...))
				}
			}
		}

		if len(next) == 0 {
			return nil
		}
		partials = dedupe(next)
	}

	return partials
}

func dedupe(ds []derivation) []derivation {
	seen := make(map[string]bool, len(ds))
	out := ds[:0]
	for _, d := range ds {
		k := d.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out
}
