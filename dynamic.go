package jcodec

import (
	"fmt"
	"sort"
)

// DynamicDecoder decodes any well-formed JSON value into Go's untyped
// any-tree (map[string]any / []any / string / float64 / bool / nil),
// without a user-supplied shape -- the same "decode into interface{}"
// capability the teacher's decoder.go provides, wired into the typed
// Decoder/Encoder protocol instead of bypassing it. cmd/jcodec's
// `roundtrip` subcommand exercises this to drive §4.9's round-trip
// invariant over arbitrary documents, not just ones with a hand-written
// shape.
var DynamicDecoder Decoder[any] = dynamicDecoder{}

type dynamicDecoder struct{}

func (dynamicDecoder) Decode(trace *Trace, r CharReader) (any, *DecodeError) {
	c, err := r.NextNonWhitespace()
	if err != nil {
		return nil, err
	}
	switch {
	case c == '"':
		r.Retract()
		return lx.String(trace, r)
	case c == '{':
		r.Retract()
		return decodeDynamicObject(trace, r)
	case c == '[':
		r.Retract()
		return decodeDynamicArray(trace, r)
	case c == 't' || c == 'f':
		r.Retract()
		return lx.Boolean(trace, r)
	case c == 'n':
		if err := lx.ReadChars(trace, r, "ull", "in literal null"); err != nil {
			return nil, err
		}
		return nil, nil
	case c == '-' || (c >= '0' && c <= '9'):
		r.Retract()
		return lx.Double(trace, r)
	default:
		return nil, raise(trace, "unexpected "+quoteRune(c))
	}
}

func (dynamicDecoder) Missing(trace *Trace) (any, *DecodeError) {
	return nil, raise(trace, "missing")
}

func decodeDynamicObject(trace *Trace, r CharReader) (any, *DecodeError) {
	if err := lx.Char(trace, r, '{'); err != nil {
		return nil, err
	}
	out := make(map[string]any)
	more, err := lx.FirstObject(trace, r)
	if err != nil {
		return nil, err
	}
	for more {
		key, err := lx.String(trace, r)
		if err != nil {
			return nil, err
		}
		if err := lx.Char(trace, r, ':'); err != nil {
			return nil, err
		}
		v, err := DynamicDecoder.Decode(trace.Field(key), r)
		if err != nil {
			return nil, err
		}
		out[key] = v
		more, err = lx.NextObject(trace, r)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decodeDynamicArray(trace *Trace, r CharReader) (any, *DecodeError) {
	if err := lx.Char(trace, r, '['); err != nil {
		return nil, err
	}
	out := []any{}
	more, err := lx.FirstArray(trace, r)
	if err != nil {
		return nil, err
	}
	for i := 0; more; i++ {
		v, err := DynamicDecoder.Decode(trace.Index(i), r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		more, err = lx.NextArray(trace, r)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DynamicEncoder is the encode-side mirror of DynamicDecoder.
var DynamicEncoder Encoder[any] = dynamicEncoder{}

type dynamicEncoder struct{}

func (dynamicEncoder) Encode(v any, indent *int, w *Writer) {
	switch val := v.(type) {
	case nil:
		w.WriteString("null")
	case string:
		w.AppendString(val)
	case bool:
		BoolEncoder.Encode(val, indent, w)
	case float64:
		DoubleEncoder.Encode(val, indent, w)
	case map[string]any:
		encodeDynamicObject(val, indent, w)
	case []any:
		encodeDynamicArray(val, indent, w)
	default:
		panic(fmt.Sprintf("jcodec: DynamicEncoder cannot encode %T", v))
	}
}

func encodeDynamicObject(v map[string]any, indent *int, w *Writer) {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w.WriteByte('{')
	for i, k := range keys {
		writeFieldSep(w, indent, i == 0)
		w.AppendString(k)
		w.WriteByte(':')
		DynamicEncoder.Encode(v[k], childIndent(indent), w)
	}
	if indent != nil && len(keys) > 0 {
		w.IndentClose(*indent)
	}
	w.WriteByte('}')
}

func encodeDynamicArray(v []any, indent *int, w *Writer) {
	w.WriteByte('[')
	for i, e := range v {
		writeFieldSep(w, indent, i == 0)
		DynamicEncoder.Encode(e, childIndent(indent), w)
	}
	if indent != nil && len(v) > 0 {
		w.IndentClose(*indent)
	}
	w.WriteByte(']')
}
