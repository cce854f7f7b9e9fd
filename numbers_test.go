package jcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/jcodec/internal/config"
)

func TestDecodeIntPlainAndString(t *testing.T) {
	v, err := Decode("  42  ", IntDecoder)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	v, err = Decode(`"42"`, IntDecoder)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)
}

func TestDecodeIntRejectsFloat(t *testing.T) {
	_, err := Decode("4.2", IntDecoder)
	require.Error(t, err)
	assert.Equal(t, "(expected a Int)", err.Error())
}

func TestDecodeIntRejectsNonNumber(t *testing.T) {
	_, err := Decode(`"nope"`, IntDecoder)
	require.Error(t, err)
}

func TestDecodeExponentLeadingPlus(t *testing.T) {
	v, err := Decode("1e+2", DoubleDecoder)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)
}

func TestBigIntegerBitCap(t *testing.T) {
	old := config.NumberMaxBits()
	defer config.SetNumberMaxBits(old)
	config.SetNumberMaxBits(16)

	maxDigits := maxDigitsForBits(16)
	ok := make([]byte, maxDigits)
	for i := range ok {
		ok[i] = '9'
	}
	_, err := Decode(string(ok), BigIntegerDecoder)
	require.NoError(t, err)

	tooMany := make([]byte, maxDigits+1)
	for i := range tooMany {
		tooMany[i] = '9'
	}
	_, err = Decode(string(tooMany), BigIntegerDecoder)
	require.Error(t, err)
	assert.Equal(t, "(expected a BigInteger)", err.Error())
}

func TestRetractDisciplineAfterNumber(t *testing.T) {
	r := newTextReader("123x")
	v, derr := lx.Int(nil, r)
	require.Nil(t, derr)
	assert.Equal(t, int32(123), v)
	c, derr := r.ReadChar()
	require.Nil(t, derr)
	assert.Equal(t, 'x', c)
}
