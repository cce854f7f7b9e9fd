package jcodec

import (
	"io"
	"math/big"
)

// Decoder is the capability to consume a value of type A from a CharReader,
// threading an error trace through recursive descent, per spec.md §4.6.
// Composite decoders allocate one trace frame for each field or element
// they descend into.
// Missing is the fallback invoked by a record decoder for a field that was
// never present in the input; every Decoder except Option keeps the
// default behavior (raise "missing"), and Option overrides it.
type Decoder[A any] interface {
	Decode(trace *Trace, r CharReader) (A, *DecodeError)
	Missing(trace *Trace) (A, *DecodeError)
}

// FieldDecoder is a separate, narrower capability operating on an
// already-materialized string -- used to decode map keys, per spec.md §4.8.
type FieldDecoder[A any] interface {
	DecodeKey(trace *Trace, key string) (A, *DecodeError)
}

// decoderFunc adapts two plain functions to the Decoder interface. When
// missing is nil, Missing raises the default "missing" error.
type decoderFunc[A any] struct {
	decode  func(trace *Trace, r CharReader) (A, *DecodeError)
	missing func(trace *Trace) (A, *DecodeError)
}

func (d decoderFunc[A]) Decode(trace *Trace, r CharReader) (A, *DecodeError) {
	return d.decode(trace, r)
}

func (d decoderFunc[A]) Missing(trace *Trace) (A, *DecodeError) {
	if d.missing != nil {
		return d.missing(trace)
	}
	var zero A
	return zero, raise(trace, "missing")
}

// fieldDecoderFunc adapts a plain function to FieldDecoder.
type fieldDecoderFunc[A any] func(trace *Trace, key string) (A, *DecodeError)

func (f fieldDecoderFunc[A]) DecodeKey(trace *Trace, key string) (A, *DecodeError) {
	return f(trace, key)
}

var lx = Lexer{}

// Primitive decoders. Each wraps the matching Lexer numeric/string/boolean
// reader; none override Missing, so a missing primitive field always
// raises "missing" (Option is the one adapter that overrides this, see
// collections.go).
var (
	ByteDecoder  Decoder[int8]  = decoderFunc[int8]{decode: func(t *Trace, r CharReader) (int8, *DecodeError) { return lx.Byte(t, r) }}
	ShortDecoder Decoder[int16] = decoderFunc[int16]{decode: func(t *Trace, r CharReader) (int16, *DecodeError) { return lx.Short(t, r) }}
	IntDecoder   Decoder[int32] = decoderFunc[int32]{decode: func(t *Trace, r CharReader) (int32, *DecodeError) { return lx.Int(t, r) }}
	LongDecoder  Decoder[int64] = decoderFunc[int64]{decode: func(t *Trace, r CharReader) (int64, *DecodeError) { return lx.Long(t, r) }}

	FloatDecoder  Decoder[float32] = decoderFunc[float32]{decode: func(t *Trace, r CharReader) (float32, *DecodeError) { return lx.Float(t, r) }}
	DoubleDecoder Decoder[float64] = decoderFunc[float64]{decode: func(t *Trace, r CharReader) (float64, *DecodeError) { return lx.Double(t, r) }}

	StringDecoder Decoder[string] = decoderFunc[string]{decode: func(t *Trace, r CharReader) (string, *DecodeError) { return lx.String(t, r) }}
	BoolDecoder   Decoder[bool]   = decoderFunc[bool]{decode: func(t *Trace, r CharReader) (bool, *DecodeError) { return lx.Boolean(t, r) }}

	BigIntegerDecoder Decoder[*big.Int]   = decoderFunc[*big.Int]{decode: func(t *Trace, r CharReader) (*big.Int, *DecodeError) { return lx.BigInteger(t, r) }}
	BigDecimalDecoder Decoder[*big.Float] = decoderFunc[*big.Float]{decode: func(t *Trace, r CharReader) (*big.Float, *DecodeError) { return lx.BigDecimal(t, r) }}
)

// StringFieldDecoder decodes a map key verbatim; it is the FieldDecoder[K]
// to pass to NewMapDecoder for K=string.
var StringFieldDecoder FieldDecoder[string] = fieldDecoderFunc[string](func(_ *Trace, key string) (string, *DecodeError) {
	return key, nil
})

// IntFieldDecoder decodes a map key as a base-10 signed 32-bit integer,
// for NewMapDecoder over K=int32.
var IntFieldDecoder FieldDecoder[int32] = fieldDecoderFunc[int32](func(trace *Trace, key string) (int32, *DecodeError) {
	scan, derr := scanUnsafeNumber(trace, newTextReader(key+" "))
	if derr != nil {
		return 0, expectedTypeError(trace, "Int")
	}
	n, derr := parseInt64(trace, scan, "Int", 32)
	if derr != nil {
		return 0, derr
	}
	return int32(n), nil
})

// Decode parses text as a single JSON document of type A using dec,
// rendering any failure's trace into the returned error's message.
func Decode[A any](text string, dec Decoder[A]) (A, error) {
	r := newTextReader(text)
	v, derr := dec.Decode(nil, r)
	if derr != nil {
		var zero A
		return zero, derr
	}
	return v, nil
}

// DecodeBytes is Decode over a raw byte slice.
func DecodeBytes[A any](data []byte, dec Decoder[A]) (A, error) {
	return Decode(string(data), dec)
}

// DecodeReader parses a single JSON document streamed from r. Unlike
// Decode, this does not require the whole document to be buffered first.
func DecodeReader[A any](r io.Reader, dec Decoder[A]) (A, error) {
	sr := newStreamReader(r)
	v, derr := dec.Decode(nil, sr)
	if derr != nil {
		var zero A
		return zero, derr
	}
	return v, nil
}
