package jcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shape struct {
	isCircle bool
	radius   int32
	w, h     int32
}

func circleOf(radius int32) shape { return shape{isCircle: true, radius: radius} }
func rectOf(w, h int32) shape     { return shape{w: w, h: h} }

func shapeWrapperShape() SumShape[shape] {
	return SumShape[shape]{
		Variants: []SumVariant[shape]{
			{
				Tag: "Circle",
				Decoder: func(trace *Trace, r CharReader) (shape, *DecodeError) {
					n, err := IntDecoder.Decode(trace, r)
					return circleOf(n), err
				},
				Encoder: func(v shape, indent *int, w *Writer) { IntEncoder.Encode(v.radius, indent, w) },
				Match:   func(v shape) bool { return v.isCircle },
			},
			{
				Tag: "Rect",
				Decoder: func(trace *Trace, r CharReader) (shape, *DecodeError) {
					dec := NewRecordDecoder(RecordShape[shape]{
						Fields: []FieldSpec[shape]{
							Field[shape, int32]("w", IntDecoder, IntEncoder, func(s shape) int32 { return s.w }),
							Field[shape, int32]("h", IntDecoder, IntEncoder, func(s shape) int32 { return s.h }),
						},
						Construct: func(slots []any) (shape, *DecodeError) {
							return rectOf(slots[0].(int32), slots[1].(int32)), nil
						},
					})
					return dec.Decode(trace, r)
				},
				Encoder: func(v shape, indent *int, w *Writer) {
					enc := NewRecordEncoder(RecordShape[shape]{
						Fields: []FieldSpec[shape]{
							Field[shape, int32]("w", IntDecoder, IntEncoder, func(s shape) int32 { return s.w }),
							Field[shape, int32]("h", IntDecoder, IntEncoder, func(s shape) int32 { return s.h }),
						},
					})
					enc.Encode(v, indent, w)
				},
				Match: func(v shape) bool { return !v.isCircle },
			},
		},
	}
}

func TestSumWrapperDecode(t *testing.T) {
	dec := NewSumDecoder(shapeWrapperShape())
	v, err := Decode(`{"Circle":5}`, dec)
	require.NoError(t, err)
	assert.Equal(t, circleOf(5), v)

	v, err = Decode(`{"Rect":{"w":2,"h":3}}`, dec)
	require.NoError(t, err)
	assert.Equal(t, rectOf(2, 3), v)
}

func TestSumWrapperDecodeInvalidDisambiguator(t *testing.T) {
	dec := NewSumDecoder(shapeWrapperShape())
	_, err := Decode(`{"Triangle":1}`, dec)
	require.Error(t, err)
	assert.Equal(t, "(invalid disambiguator)", err.Error())
}

func TestSumWrapperEncodeRoundTrip(t *testing.T) {
	shape := shapeWrapperShape()
	enc := NewSumEncoder(shape)
	dec := NewSumDecoder(shape)

	want := circleOf(9)
	got, err := Decode(Encode(want, enc), dec)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func discriminatorShape() SumShape[shape] {
	s := shapeWrapperShape()
	s.Discriminator = "type"
	return s
}

func TestSumDiscriminatorDecode(t *testing.T) {
	dec := NewSumDecoder(discriminatorShape())
	v, err := Decode(`{"type":"Rect","w":4,"h":5}`, dec)
	require.NoError(t, err)
	assert.Equal(t, rectOf(4, 5), v)
}

func TestSumDiscriminatorDecodeFieldOrderIndependent(t *testing.T) {
	dec := NewSumDecoder(discriminatorShape())
	v, err := Decode(`{"w":4,"h":5,"type":"Rect"}`, dec)
	require.NoError(t, err)
	assert.Equal(t, rectOf(4, 5), v)
}

func TestSumDiscriminatorMissingDisambiguator(t *testing.T) {
	dec := NewSumDecoder(discriminatorShape())
	_, err := Decode(`{"w":4,"h":5}`, dec)
	require.Error(t, err)
	assert.Equal(t, "(missing disambiguator 'type')", err.Error())
}

func TestSumDiscriminatorEncodeRoundTrip(t *testing.T) {
	shape := discriminatorShape()
	enc := NewSumEncoder(shape)
	dec := NewSumDecoder(shape)

	want := rectOf(6, 7)
	got, err := Decode(Encode(want, enc), dec)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
