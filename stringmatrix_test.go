package jcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ordinalOf(m *StringMatrix, s string) int {
	mask := m.Initial()
	for i, c := range []rune(s) {
		mask = m.Update(mask, i, c)
	}
	mask = m.Exact(mask, len([]rune(s)))
	return m.First(mask)
}

func TestStringMatrixCorrectness(t *testing.T) {
	names := []string{"id", "name", "identifier", "ids"}
	m := NewStringMatrix(names)

	cases := map[string]int{
		"id":         0,
		"name":       1,
		"identifier": 2,
		"ids":        3,
		"nope":       -1,
		"i":          -1,
		"idx":        -1,
	}
	for s, want := range cases {
		assert.Equalf(t, want, ordinalOf(m, s), "ordinal of %q", s)
	}
}

func TestStringMatrixSingleCandidate(t *testing.T) {
	m := NewStringMatrix([]string{"only"})
	assert.Equal(t, 0, ordinalOf(m, "only"))
	assert.Equal(t, -1, ordinalOf(m, "nope"))
}

func TestStringMatrixPrefixCandidates(t *testing.T) {
	// "a" is a proper prefix of "ab"; Exact must eliminate it when the
	// input is longer.
	m := NewStringMatrix([]string{"a", "ab"})
	assert.Equal(t, 0, ordinalOf(m, "a"))
	assert.Equal(t, 1, ordinalOf(m, "ab"))
}
