package jcodec

import (
	"math/big"
	"strconv"

	"github.com/xenking/jcodec/internal/scratch"
)

// Encoder pushes a value of type A onto a Writer. Encoders are total: valid
// Go values never fail to encode, per spec.md §4.9.
type Encoder[A any] interface {
	// Encode writes v to w. indent is nil for compact output, or the
	// current indentation depth (in levels) for pretty-printed output.
	Encode(v A, indent *int, w *Writer)
}

// EncoderFunc adapts a plain function to the Encoder interface.
type EncoderFunc[A any] func(v A, indent *int, w *Writer)

func (f EncoderFunc[A]) Encode(v A, indent *int, w *Writer) { f(v, indent, w) }

// Writer is a growable UTF-8 output buffer with amortized O(1) append,
// adapted from the teacher's internal/scratch.Scratch.
type Writer struct {
	buf scratch.Scratch
}

// Grow ensures the buffer can accept n more bytes without reallocating.
func (w *Writer) Grow(n int) { w.buf.Grow(n) }

// WriteByte appends a single raw byte.
func (w *Writer) WriteByte(c byte) { w.buf.Add(c) }

// WriteString appends s verbatim, with no escaping.
func (w *Writer) WriteString(s string) {
	w.buf.Grow(len(s))
	for i := 0; i < len(s); i++ {
		w.buf.Add(s[i])
	}
}

// WriteBytes appends b verbatim, with no escaping.
func (w *Writer) WriteBytes(b []byte) {
	w.buf.Grow(len(b))
	for _, c := range b {
		w.buf.Add(c)
	}
}

// AppendString writes s as a JSON string literal, escaping it the way
// EscapedString's decode-side table unescapes -- run in reverse.
func (w *Writer) AppendString(s string) {
	w.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			w.WriteString(`\"`)
		case '\\':
			w.WriteString(`\\`)
		case '\n':
			w.WriteString(`\n`)
		case '\r':
			w.WriteString(`\r`)
		case '\t':
			w.WriteString(`\t`)
		case '\b':
			w.WriteString(`\b`)
		case '\f':
			w.WriteString(`\f`)
		default:
			if r < 0x20 {
				w.WriteString(`\u00`)
				const hex = "0123456789abcdef"
				w.WriteByte(hex[(r>>4)&0xf])
				w.WriteByte(hex[r&0xf])
				continue
			}
			w.buf.AddRune(r)
		}
	}
	w.WriteByte('"')
}

// Indent, when non-nil, emits a newline and (level+1)*2 spaces -- the
// indentation for the next field/element at the given nesting level.
func (w *Writer) Indent(level int) {
	w.WriteByte('\n')
	for i := 0; i < (level+1)*2; i++ {
		w.WriteByte(' ')
	}
}

// IndentClose emits a newline and level*2 spaces -- the indentation for a
// closing brace/bracket at the given nesting level.
func (w *Writer) IndentClose(level int) {
	w.WriteByte('\n')
	for i := 0; i < level*2; i++ {
		w.WriteByte(' ')
	}
}

// Bytes returns the written contents.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// String returns the written contents as a string.
func (w *Writer) String() string { return string(w.buf.Bytes()) }

// childIndent returns the indent level one deeper than indent, or nil if
// indent is nil (compact mode).
func childIndent(indent *int) *int {
	if indent == nil {
		return nil
	}
	n := *indent + 1
	return &n
}

// writeFieldSep writes ',' plus, in indent mode, a newline to the next
// field's indentation; first controls whether the leading comma is
// skipped.
func writeFieldSep(w *Writer, indent *int, first bool) {
	if !first {
		w.WriteByte(',')
	}
	if indent != nil {
		w.Indent(*indent)
	}
}

// Primitive encoders, mirroring the primitive Decoder instances in
// decoder.go.

var (
	ByteEncoder  Encoder[int8]  = EncoderFunc[int8](func(v int8, _ *int, w *Writer) { w.WriteString(strconv.FormatInt(int64(v), 10)) })
	ShortEncoder Encoder[int16] = EncoderFunc[int16](func(v int16, _ *int, w *Writer) { w.WriteString(strconv.FormatInt(int64(v), 10)) })
	IntEncoder   Encoder[int32] = EncoderFunc[int32](func(v int32, _ *int, w *Writer) { w.WriteString(strconv.FormatInt(int64(v), 10)) })
	LongEncoder  Encoder[int64] = EncoderFunc[int64](func(v int64, _ *int, w *Writer) { w.WriteString(strconv.FormatInt(v, 10)) })

	FloatEncoder  Encoder[float32] = EncoderFunc[float32](func(v float32, _ *int, w *Writer) { w.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32)) })
	DoubleEncoder Encoder[float64] = EncoderFunc[float64](func(v float64, _ *int, w *Writer) { w.WriteString(strconv.FormatFloat(v, 'g', -1, 64)) })

	StringEncoder Encoder[string] = EncoderFunc[string](func(v string, _ *int, w *Writer) { w.AppendString(v) })
	BoolEncoder   Encoder[bool]   = EncoderFunc[bool](func(v bool, _ *int, w *Writer) {
		if v {
			w.WriteString("true")
		} else {
			w.WriteString("false")
		}
	})

	BigIntegerEncoder Encoder[*big.Int] = EncoderFunc[*big.Int](func(v *big.Int, _ *int, w *Writer) { w.WriteString(v.String()) })
	BigDecimalEncoder Encoder[*big.Float] = EncoderFunc[*big.Float](func(v *big.Float, _ *int, w *Writer) {
		w.WriteString(v.Text('g', -1))
	})
)

// Encode runs enc over a and returns the compact JSON text.
func Encode[A any](a A, enc Encoder[A]) string {
	w := &Writer{}
	enc.Encode(a, nil, w)
	return w.String()
}

// EncodeIndented runs enc over a and returns indented JSON text, two spaces
// per level.
func EncodeIndented[A any](a A, enc Encoder[A]) string {
	w := &Writer{}
	level := 0
	enc.Encode(a, &level, w)
	return w.String()
}
