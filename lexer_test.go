package jcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexerBooleanLiterals(t *testing.T) {
	v, err := Decode("true", BoolDecoder)
	require.NoError(t, err)
	assert.True(t, v)

	v, err = Decode("false", BoolDecoder)
	require.NoError(t, err)
	assert.False(t, v)
}

func TestLexerSkipValueSkipsNestedStructures(t *testing.T) {
	r := newTextReader(`{"a":[1,2,{"b":"c"}],"d":null} rest`)
	require.Nil(t, lx.Char(nil, r, '{'))
	more, derr := lx.FirstObject(nil, r)
	require.Nil(t, derr)
	require.True(t, more)

	m := NewStringMatrix([]string{"a", "d"})
	ord, derr := lx.Field(nil, r, m)
	require.Nil(t, derr)
	assert.Equal(t, 0, ord)
	require.Nil(t, lx.SkipValue(nil, r, nil))

	more, derr = lx.NextObject(nil, r)
	require.Nil(t, derr)
	require.True(t, more)
	ord, derr = lx.Field(nil, r, m)
	require.Nil(t, derr)
	assert.Equal(t, 1, ord)
	require.Nil(t, lx.SkipValue(nil, r, nil))

	more, derr = lx.NextObject(nil, r)
	require.Nil(t, derr)
	require.False(t, more)
}

func TestLexerSkipValueEchoesNormalizedForm(t *testing.T) {
	r := newTextReader(`[1, 2,   3]`)
	w := &Writer{}
	require.Nil(t, lx.SkipValue(nil, r, w))
	assert.Equal(t, "[1,2,3]", w.String())
}

func TestLexerCharMismatchRaisesError(t *testing.T) {
	r := newTextReader("]")
	err := lx.Char(nil, r, '}')
	require.NotNil(t, err)
	assert.Equal(t, "(expected '}' got ']')", err.Error())
}

func TestLexerOrdinalUnmatchedReturnsNegativeOne(t *testing.T) {
	m := NewStringMatrix([]string{"known"})
	ord, derr := ordinalOfLexer(t, m, "unknown")
	require.Nil(t, derr)
	assert.Equal(t, -1, ord)
}

func ordinalOfLexer(t *testing.T, m *StringMatrix, key string) (int, *DecodeError) {
	t.Helper()
	r := newTextReader(`"` + key + `":`)
	return lx.Field(nil, r, m)
}
