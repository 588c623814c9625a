package normalize

import (
	"fmt"
	"testing"

	"github.com/dekarrin/chomsky/internal/cnferr"
	"github.com/dekarrin/chomsky/internal/grammar"
	"github.com/dekarrin/chomsky/internal/util"
	"github.com/stretchr/testify/assert"
)

func mustParse(t *testing.T, nts, ts []string, rules string) *grammar.Grammar {
	t.Helper()
	g, err := grammar.Parse(nts, ts, nts[0], rules)
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	return g
}

func Test_Nullable(t *testing.T) {
	testCases := []struct {
		name   string
		nts    []string
		rules  string
		expect []string
	}{
		{
			name:   "direct epsilon",
			nts:    []string{"S", "A"},
			rules:  "S -> a A, A -> ε | a",
			expect: []string{"A"},
		},
		{
			name:   "derived through all-nullable alternative",
			nts:    []string{"S", "A", "B"},
			rules:  "S -> A B | a, A -> ε, B -> A A",
			expect: []string{"A", "B", "S"},
		},
		{
			name:   "terminal blocks nullability",
			nts:    []string{"S", "A"},
			rules:  "S -> A a, A -> ε",
			expect: []string{"A"},
		},
		{
			name:   "nothing nullable",
			nts:    []string{"S"},
			rules:  "S -> a S | a",
			expect: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := mustParse(t, tc.nts, []string{"a"}, tc.rules)

			actual := Nullable(g)

			assert.Equal(tc.expect, actual.Elements())
		})
	}
}

func Test_NullableScans_Bound(t *testing.T) {
	assert := assert.New(t)

	// A0 -> A1, A1 -> A2, ..., A9 -> ε needs one scan per nonterminal when
	// scanned in sorted order, plus one to see that nothing changed.
	var nts []string
	var rules string
	for i := 0; i < 10; i++ {
		nts = append(nts, fmt.Sprintf("A%d", i))
		if i < 9 {
			rules += fmt.Sprintf("A%d -> A%d, ", i, i+1)
		} else {
			rules += "A9 -> ε"
		}
	}
	g := mustParse(t, nts, nil, rules)

	nullable, scans := NullableScans(g)

	assert.Equal(10, nullable.Len())
	assert.LessOrEqual(scans, len(nts)+1)
	assert.Equal(len(nts)+1, scans)
}

func Test_withoutNullables(t *testing.T) {
	assert := assert.New(t)

	nullable := util.StringSetOf([]string{"A", "B"})

	actual, err := withoutNullables(grammar.Production{"A", "x", "B"}, nullable)

	expect := []grammar.Production{
		{"A", "x", "B"},
		{"x", "B"},
		{"A", "x"},
		{"x"},
	}
	assert.NoError(err)
	assert.Equal(expect, actual)

	actual, err = withoutNullables(grammar.Production{"A"}, nullable)
	assert.NoError(err)
	assert.Equal([]grammar.Production{{"A"}}, actual)
}

func Test_withoutNullables_Width(t *testing.T) {
	nullable := util.StringSetOf([]string{"A"})

	repeated := func(n int) grammar.Production {
		p := make(grammar.Production, n)
		for i := range p {
			p[i] = "A"
		}
		return p
	}

	t.Run("at limit", func(t *testing.T) {
		assert := assert.New(t)

		actual, err := withoutNullables(repeated(MaxNullablePositions), nullable)

		assert.NoError(err)
		assert.Len(actual, 1<<MaxNullablePositions-1)
	})

	t.Run("over limit", func(t *testing.T) {
		assert := assert.New(t)

		actual, err := withoutNullables(repeated(MaxNullablePositions+1), nullable)

		assert.ErrorIs(err, cnferr.ErrInvalidGrammar)
		assert.Nil(actual)
	})

	t.Run("wide alternatives with few nullables", func(t *testing.T) {
		assert := assert.New(t)

		p := repeated(MaxNullablePositions)
		for i := 0; i < 64; i++ {
			p = append(p, "x")
		}

		actual, err := withoutNullables(p, nullable)

		assert.NoError(err)
		assert.Len(actual, 1<<MaxNullablePositions)
	})
}

func Test_Normalizer_removeEpsilons(t *testing.T) {
	testCases := []struct {
		name        string
		nts         []string
		rules       string
		expect      string
		expectStart string
	}{
		{
			name:        "nullable inner symbol",
			nts:         []string{"S", "A"},
			rules:       "S -> A b | A, A -> a | ε",
			expect:      "A -> a\nS -> A b | b | A",
			expectStart: "S",
		},
		{
			name:        "nullable start",
			nts:         []string{"S"},
			rules:       "S -> a S b | ε",
			expect:      "S -> a S b | a b | ε\nS0 -> S",
			expectStart: "S0",
		},
		{
			name:        "nonterminal left without alternatives",
			nts:         []string{"S", "A"},
			rules:       "S -> a A, A -> ε",
			expect:      "S -> a A | a",
			expectStart: "S",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := mustParse(t, tc.nts, []string{"a", "b"}, tc.rules)

			err := New(g).removeEpsilons(g)

			assert.NoError(err)
			assert.Equal(tc.expect, g.String())
			assert.Equal(tc.expectStart, g.StartSymbol())
			assert.True(util.StringSetOf(g.NonTerminals()).All(tc.nts), "nonterminals were removed")
		})
	}
}

func Test_UnitClosure(t *testing.T) {
	assert := assert.New(t)

	g := mustParse(t,
		[]string{"A", "B", "C", "D"},
		[]string{"a", "c", "d"},
		"A -> B | a, B -> C, C -> A | c, D -> d",
	)

	actual := UnitClosure(g)

	assert.Equal([]string{"A", "B", "C"}, actual["A"].Elements())
	assert.Equal([]string{"A", "B", "C"}, actual["B"].Elements())
	assert.Equal([]string{"A", "B", "C"}, actual["C"].Elements())
	assert.Equal([]string{"D"}, actual["D"].Elements())
}

func Test_removeUnits(t *testing.T) {
	testCases := []struct {
		name   string
		nts    []string
		rules  string
		expect string
	}{
		{
			name:   "chain",
			nts:    []string{"S", "A", "B"},
			rules:  "S -> A | s, A -> a | B, B -> b",
			expect: "A -> a | b\nB -> b\nS -> s | a | b",
		},
		{
			name:   "cycle",
			nts:    []string{"A", "B"},
			rules:  "A -> B | a, B -> A",
			expect: "A -> a\nB -> a",
		},
		{
			name:   "epsilon collected onto start only",
			nts:    []string{"S0", "S"},
			rules:  "S0 -> S, S -> a S b | a b | ε",
			expect: "S -> a S b | a b\nS0 -> a S b | a b | ε",
		},
		{
			name:   "no unit rules is unchanged",
			nts:    []string{"S", "A"},
			rules:  "S -> A A | a, A -> a",
			expect: "A -> a\nS -> A A | a",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g := mustParse(t, tc.nts, []string{"a", "b", "s"}, tc.rules)

			removeUnits(g)

			assert.Equal(tc.expect, g.String())
		})
	}
}

func Test_Reachable(t *testing.T) {
	assert := assert.New(t)

	g := mustParse(t, []string{"S", "A", "B", "C"}, []string{"a", "b"}, "S -> A a, A -> a | C, B -> b, C -> C")

	assert.Equal([]string{"A", "C", "S"}, Reachable(g).Elements())

	removeUnreachable(g)
	assert.Equal([]string{"A", "C", "S"}, g.NonTerminals())
	assert.Equal("A -> a | C\nC -> C\nS -> A a", g.String())
}

func Test_Productive(t *testing.T) {
	assert := assert.New(t)

	g := mustParse(t, []string{"S", "A", "B"}, []string{"a", "b"}, "S -> A | B | A B, A -> a, B -> B b")

	assert.Equal([]string{"A", "S"}, Productive(g).Elements())

	err := removeNonProductive(g)
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]string{"A", "S"}, g.NonTerminals())
	assert.Equal("A -> a\nS -> A", g.String())
}
