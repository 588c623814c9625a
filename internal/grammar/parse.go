package grammar

import (
	"strings"

	"github.com/dekarrin/chomsky/internal/cnferr"
	"github.com/dekarrin/chomsky/internal/util"
	"golang.org/x/text/unicode/norm"
)

// epsilonSpellings are the accepted ways of writing the empty string in rule
// text.
var epsilonSpellings = []string{EpsilonSymbol, "eps", "epsilon"}

// Parse creates a grammar from its declared symbols and rule text. See
// ParseRules for the format of the rule text.
func Parse(nonTerminals, terminals []string, start string, rules string) (*Grammar, error) {
	g, err := New(nonTerminals, terminals, start)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseRules(rules, nonTerminals, terminals)
	if err != nil {
		return nil, err
	}

	for _, r := range parsed {
		for _, p := range r.Productions {
			g.AddAlternative(r.NonTerminal, p)
		}
	}

	return g, nil
}

// ParseRules parses rule text against the declared symbol sets. Rules are
// separated by commas or newlines and have the form "LHS -> alt1 | alt2".
// Symbols within an alternative are separated by whitespace, and the empty
// string is written as "ε", "eps", or "epsilon", alone in its alternative.
// Blank rules are skipped. Multiple rules for the same nonterminal are merged
// in order of appearance.
//
// Every returned error matches cnferr.ErrMalformedRule.
func ParseRules(text string, nonTerminals, terminals []string) ([]Rule, error) {
	ntSet := util.NewStringSet()
	for _, nt := range nonTerminals {
		ntSet.Add(normalizeSymbol(nt))
	}
	tSet := util.NewStringSet()
	for _, t := range terminals {
		tSet.Add(normalizeSymbol(t))
	}

	var rules []Rule
	index := map[string]int{}

	text = strings.ReplaceAll(text, "\n", ",")
	for _, ruleText := range strings.Split(text, ",") {
		if strings.TrimSpace(ruleText) == "" {
			continue
		}

		r, err := parseRule(ruleText)
		if err != nil {
			return nil, err
		}

		if !ntSet.Has(r.NonTerminal) {
			if tSet.Has(r.NonTerminal) {
				return nil, cnferr.Malformed("%q: terminal %q cannot be the left-hand side of a rule", strings.TrimSpace(ruleText), r.NonTerminal)
			}
			return nil, cnferr.Malformed("%q: undeclared nonterminal %q", strings.TrimSpace(ruleText), r.NonTerminal)
		}

		for _, p := range r.Productions {
			if p.IsEpsilon() {
				continue
			}
			for _, sym := range p {
				if !ntSet.Has(sym) && !tSet.Has(sym) {
					return nil, cnferr.Malformed("%q: undeclared symbol %q", strings.TrimSpace(ruleText), sym)
				}
			}
		}

		if idx, ok := index[r.NonTerminal]; ok {
			rules[idx].Productions = append(rules[idx].Productions, r.Productions...)
		} else {
			index[r.NonTerminal] = len(rules)
			rules = append(rules, r)
		}
	}

	return rules, nil
}

// parseRule parses a single "LHS -> alt1 | alt2" rule without checking its
// symbols against any declaration.
func parseRule(r string) (Rule, error) {
	trimmed := strings.TrimSpace(r)

	sides := strings.Split(trimmed, "->")
	if len(sides) != 2 {
		if len(sides) < 2 {
			return Rule{}, cnferr.Malformed("%q: missing \"->\"", trimmed)
		}
		return Rule{}, cnferr.Malformed("%q: more than one \"->\"", trimmed)
	}

	lhsFields := strings.Fields(sides[0])
	if len(lhsFields) != 1 {
		return Rule{}, cnferr.Malformed("%q: left-hand side must be exactly one nonterminal", trimmed)
	}

	parsed := Rule{NonTerminal: normalizeSymbol(lhsFields[0])}

	for _, altText := range strings.Split(sides[1], "|") {
		fields := strings.Fields(altText)
		if len(fields) == 0 {
			return Rule{}, cnferr.Malformed("%q: empty alternative; write %s for the empty string", trimmed, EpsilonSymbol)
		}

		p := make(Production, len(fields))
		for i := range fields {
			p[i] = normalizeSymbol(fields[i])
		}

		if len(p) == 1 && isEpsilonSpelling(p[0]) {
			p = Epsilon.Copy()
		} else {
			for _, sym := range p {
				if isEpsilonSpelling(sym) {
					return Rule{}, cnferr.Malformed("%q: %s must be the only symbol of its alternative", trimmed, EpsilonSymbol)
				}
			}
		}

		parsed.Productions = append(parsed.Productions, p)
	}

	return parsed, nil
}

func isEpsilonSpelling(sym string) bool {
	return util.InSlice(strings.ToLower(sym), epsilonSpellings)
}

// normalizeSymbol puts an identifier into Unicode normalization form C so that
// visually identical identifiers compare equal.
func normalizeSymbol(sym string) string {
	return norm.NFC.String(strings.TrimSpace(sym))
}
