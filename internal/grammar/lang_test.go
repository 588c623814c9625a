package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grammar_Strings(t *testing.T) {
	testCases := []struct {
		name   string
		nts    []string
		rules  string
		maxLen int
		expect []string
	}{
		{
			name:   "balanced with epsilon",
			nts:    []string{"S"},
			rules:  "S -> a S b | ε",
			maxLen: 4,
			expect: []string{"", "a a b b", "a b"},
		},
		{
			name:   "unit cycle",
			nts:    []string{"A", "B"},
			rules:  "A -> B | a, B -> A",
			maxLen: 3,
			expect: []string{"a"},
		},
		{
			name:   "left recursion",
			nts:    []string{"S"},
			rules:  "S -> S a | b",
			maxLen: 3,
			expect: []string{"b", "b a", "b a a"},
		},
		{
			name:   "no finite derivation",
			nts:    []string{"S"},
			rules:  "S -> a S",
			maxLen: 5,
			expect: nil,
		},
		{
			name:   "zero length bound",
			nts:    []string{"S"},
			rules:  "S -> a | ε",
			maxLen: 0,
			expect: []string{""},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := Parse(tc.nts, []string{"a", "b"}, tc.nts[0], tc.rules)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expect, g.Strings(tc.maxLen))
		})
	}
}

func Test_Grammar_Accepts(t *testing.T) {
	testCases := []struct {
		name        string
		nts         []string
		rules       string
		placeholder string
		input       string
		expect      bool
	}{
		{
			name:   "CNF: two symbols",
			nts:    []string{"S", "A", "B"},
			rules:  "S -> A B | a, A -> a, B -> b",
			input:  "a b",
			expect: true,
		},
		{
			name:   "CNF: single terminal",
			nts:    []string{"S", "A", "B"},
			rules:  "S -> A B | a, A -> a, B -> b",
			input:  "a",
			expect: true,
		},
		{
			name:   "CNF: rejected",
			nts:    []string{"S", "A", "B"},
			rules:  "S -> A B | a, A -> a, B -> b",
			input:  "a b b",
			expect: false,
		},
		{
			name:   "CNF: empty string without placeholder",
			nts:    []string{"S", "A", "B"},
			rules:  "S -> A B | a, A -> a, B -> b",
			input:  "",
			expect: false,
		},
		{
			name:        "CNF: empty string with placeholder",
			nts:         []string{"S0", "E0", "A", "B"},
			rules:       "S0 -> E0 | A B, E0 -> ε, A -> a, B -> b",
			placeholder: "E0",
			input:       "",
			expect:      true,
		},
		{
			name:   "CNF: recursive",
			nts:    []string{"S", "A", "B", "N0"},
			rules:  "S -> A N0 | A B, N0 -> S B, A -> a, B -> b",
			input:  "a a a b b b",
			expect: true,
		},
		{
			name:   "CNF: recursive unbalanced",
			nts:    []string{"S", "A", "B", "N0"},
			rules:  "S -> A N0 | A B, N0 -> S B, A -> a, B -> b",
			input:  "a a b b b",
			expect: false,
		},
		{
			name:   "not CNF: falls back to enumeration",
			nts:    []string{"S"},
			rules:  "S -> a S b | ε",
			input:  "a a b b",
			expect: true,
		},
		{
			name:   "not CNF: empty string",
			nts:    []string{"S"},
			rules:  "S -> a S b | ε",
			input:  "",
			expect: true,
		},
		{
			name:   "not CNF: rejected",
			nts:    []string{"S"},
			rules:  "S -> a S b | ε",
			input:  "a b b",
			expect: false,
		},
		{
			name:   "unknown terminal",
			nts:    []string{"S"},
			rules:  "S -> a",
			input:  "c",
			expect: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := Parse(tc.nts, []string{"a", "b"}, tc.nts[0], tc.rules)
			if !assert.NoError(err) {
				return
			}
			g.EmptyPlaceholder = tc.placeholder

			actual := g.Accepts(strings.Fields(tc.input))

			assert.Equal(tc.expect, actual)
		})
	}
}
