package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grammar_MarshalBinary(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse(
		[]string{"S0", "E0", "A", "B", "Unused"},
		[]string{"a", "b"},
		"S0",
		"S0 -> E0 | A B, E0 -> ε, A -> a, B -> b",
	)
	if !assert.NoError(err) {
		return
	}
	g.EmptyPlaceholder = "E0"

	data, err := g.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	actual := &Grammar{}
	err = actual.UnmarshalBinary(data)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(g.String(), actual.String())
	assert.Equal("S0", actual.StartSymbol())
	assert.Equal("E0", actual.EmptyPlaceholder)
	assert.Equal(g.NonTerminals(), actual.NonTerminals())
	assert.Equal(g.Terminals(), actual.Terminals())
	assert.True(actual.IsCNF())
}

func Test_Grammar_UnmarshalBinary_Invalid(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse([]string{"S"}, []string{"a"}, "S", "S -> a")
	if !assert.NoError(err) {
		return
	}
	// a placeholder that is not a nonterminal does not survive validation
	g.EmptyPlaceholder = "E9"

	data, err := g.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	actual := &Grammar{}
	assert.Error(actual.UnmarshalBinary(data))
}
