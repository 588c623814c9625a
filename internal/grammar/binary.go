package grammar

import (
	"fmt"

	"github.com/dekarrin/chomsky/internal/util"
	"github.com/dekarrin/rezi"
)

func (p Production) MarshalBinary() ([]byte, error) {
	data := rezi.EncInt(len(p))
	for _, sym := range p {
		data = append(data, rezi.EncString(sym)...)
	}
	return data, nil
}

func (p *Production) UnmarshalBinary(data []byte) error {
	count, bytesRead, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("decode symbol count: %w", err)
	}
	if count < 0 {
		return fmt.Errorf("decode symbol count: negative count %d", count)
	}
	data = data[bytesRead:]

	prod := make(Production, count)
	for i := 0; i < count; i++ {
		prod[i], bytesRead, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("decode symbol %d: %w", i, err)
		}
		data = data[bytesRead:]
	}

	*p = prod
	return nil
}

// MarshalBinary converts the grammar into a slice of bytes that can be decoded
// with UnmarshalBinary.
func (g *Grammar) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(g.start)...)
	data = append(data, rezi.EncString(g.EmptyPlaceholder)...)
	data = append(data, encStrings(g.nonTerminals.Elements())...)
	data = append(data, encStrings(g.terminals.Elements())...)

	rules := g.Rules()
	data = append(data, rezi.EncInt(len(rules))...)
	for _, r := range rules {
		data = append(data, rezi.EncString(r.NonTerminal)...)
		data = append(data, rezi.EncInt(len(r.Productions))...)
		for _, p := range r.Productions {
			data = append(data, rezi.EncBinary(p)...)
		}
	}

	return data, nil
}

// UnmarshalBinary decodes a grammar from a slice of bytes that was created
// with MarshalBinary. The decoded grammar is validated before it replaces the
// contents of g.
func (g *Grammar) UnmarshalBinary(data []byte) error {
	var err error
	var bytesRead int

	decoded := &Grammar{rules: map[string][]Production{}}

	decoded.start, bytesRead, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("decode start symbol: %w", err)
	}
	data = data[bytesRead:]

	decoded.EmptyPlaceholder, bytesRead, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("decode empty-string placeholder: %w", err)
	}
	data = data[bytesRead:]

	var nts []string
	nts, bytesRead, err = decStrings(data)
	if err != nil {
		return fmt.Errorf("decode nonterminals: %w", err)
	}
	data = data[bytesRead:]
	decoded.nonTerminals = util.StringSetOf(nts)

	var ts []string
	ts, bytesRead, err = decStrings(data)
	if err != nil {
		return fmt.Errorf("decode terminals: %w", err)
	}
	data = data[bytesRead:]
	decoded.terminals = util.StringSetOf(ts)

	var ruleCount int
	ruleCount, bytesRead, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("decode rule count: %w", err)
	}
	if ruleCount < 0 {
		return fmt.Errorf("decode rule count: negative count %d", ruleCount)
	}
	data = data[bytesRead:]

	for i := 0; i < ruleCount; i++ {
		var nt string
		nt, bytesRead, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("decode rule %d: %w", i, err)
		}
		data = data[bytesRead:]

		var altCount int
		altCount, bytesRead, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("decode rule %q: %w", nt, err)
		}
		if altCount < 0 {
			return fmt.Errorf("decode rule %q: negative alternative count %d", nt, altCount)
		}
		data = data[bytesRead:]

		alts := make([]Production, altCount)
		for j := range alts {
			bytesRead, err = rezi.DecBinary(data, &alts[j])
			if err != nil {
				return fmt.Errorf("decode rule %q alternative %d: %w", nt, j, err)
			}
			data = data[bytesRead:]
		}
		decoded.rules[nt] = alts
	}

	if err := decoded.Validate(); err != nil {
		return err
	}

	*g = *decoded
	return nil
}

func encStrings(sl []string) []byte {
	data := rezi.EncInt(len(sl))
	for _, s := range sl {
		data = append(data, rezi.EncString(s)...)
	}
	return data
}

func decStrings(data []byte) ([]string, int, error) {
	count, n, err := rezi.DecInt(data)
	if err != nil {
		return nil, 0, err
	}
	if count < 0 {
		return nil, 0, fmt.Errorf("negative count %d", count)
	}
	total := n
	data = data[n:]

	sl := make([]string, count)
	for i := range sl {
		sl[i], n, err = rezi.DecString(data)
		if err != nil {
			return nil, 0, fmt.Errorf("element %d: %w", i, err)
		}
		total += n
		data = data[n:]
	}

	return sl, total, nil
}
