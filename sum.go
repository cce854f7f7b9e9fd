package jcodec

// SumVariant is one branch of a tagged union S: the wire tag, a decoder
// producing the full S value for that branch, an encoder rendering a full
// S value known to be that branch, and a Match predicate used at encode
// time to pick the variant for a given S.
type SumVariant[S any] struct {
	Tag     string
	Decoder func(trace *Trace, r CharReader) (S, *DecodeError)
	Encoder func(v S, indent *int, w *Writer)
	Match   func(v S) bool
}

// SumShape describes a tagged union, either as a wrapper object
// `{"Tag": value}` (Discriminator == "") or as a discriminator field
// `{"type": "Tag", ...fields}` (Discriminator == the field name), per
// spec.md §4.7.
type SumShape[S any] struct {
	Variants      []SumVariant[S]
	Discriminator string
}

func (s SumShape[S]) matrixNames() []string {
	names := make([]string, len(s.Variants))
	for i, v := range s.Variants {
		names[i] = v.Tag
	}
	return names
}

func (s SumShape[S]) selectVariant(v S) SumVariant[S] {
	for _, variant := range s.Variants {
		if variant.Match(v) {
			return variant
		}
	}
	panic("jcodec: no SumVariant matched the given value; every possible S must be covered by a Match predicate")
}

// --- wrapper-object form ---

type wrapperSumDecoder[S any] struct {
	shape  SumShape[S]
	matrix *StringMatrix
}

func newWrapperSumDecoder[S any](shape SumShape[S]) Decoder[S] {
	return &wrapperSumDecoder[S]{shape: shape, matrix: NewStringMatrix(shape.matrixNames())}
}

func (sd *wrapperSumDecoder[S]) Decode(trace *Trace, r CharReader) (S, *DecodeError) {
	var zero S
	if err := lx.Char(trace, r, '{'); err != nil {
		return zero, err
	}
	more, err := lx.FirstObject(trace, r)
	if err != nil {
		return zero, err
	}
	if !more {
		return zero, raise(trace, "expected non-empty object")
	}
	ord, err := lx.Field(trace, r, sd.matrix)
	if err != nil {
		return zero, err
	}
	if ord < 0 {
		return zero, raise(trace, "invalid disambiguator")
	}
	variant := sd.shape.Variants[ord]
	v, err := variant.Decoder(trace.Variant(variant.Tag), r)
	if err != nil {
		return zero, err
	}
	more, err = lx.NextObject(trace, r)
	if err != nil {
		return zero, err
	}
	if more {
		return zero, raise(trace, "invalid extra field")
	}
	return v, nil
}

func (*wrapperSumDecoder[S]) Missing(trace *Trace) (S, *DecodeError) {
	var zero S
	return zero, raise(trace, "missing")
}

type wrapperSumEncoder[S any] struct{ shape SumShape[S] }

func newWrapperSumEncoder[S any](shape SumShape[S]) Encoder[S] {
	return wrapperSumEncoder[S]{shape: shape}
}

func (se wrapperSumEncoder[S]) Encode(v S, indent *int, w *Writer) {
	variant := se.shape.selectVariant(v)
	w.WriteByte('{')
	if indent != nil {
		w.Indent(*indent)
	}
	w.AppendString(variant.Tag)
	w.WriteByte(':')
	variant.Encoder(v, childIndent(indent), w)
	if indent != nil {
		w.IndentClose(*indent)
	}
	w.WriteByte('}')
}

// --- discriminator-field form ---

type capturedField struct {
	key   string
	value []byte
}

type discriminatorSumDecoder[S any] struct {
	shape  SumShape[S]
	field  string
	matrix *StringMatrix
}

func newDiscriminatorSumDecoder[S any](shape SumShape[S]) Decoder[S] {
	return &discriminatorSumDecoder[S]{shape: shape, field: shape.Discriminator, matrix: NewStringMatrix(shape.matrixNames())}
}

func (dd *discriminatorSumDecoder[S]) Decode(trace *Trace, r CharReader) (S, *DecodeError) {
	var zero S
	if err := lx.Char(trace, r, '{'); err != nil {
		return zero, err
	}
	var captured []capturedField
	chosen := -1
	more, err := lx.FirstObject(trace, r)
	if err != nil {
		return zero, err
	}
	for more {
		key, err := lx.String(trace, r)
		if err != nil {
			return zero, err
		}
		if err := lx.Char(trace, r, ':'); err != nil {
			return zero, err
		}
		if key == dd.field {
			if chosen != -1 {
				return zero, raise(trace, "duplicate disambiguator '"+dd.field+"'")
			}
			ord, err := lx.Ordinal(trace, r, dd.matrix)
			if err != nil {
				return zero, err
			}
			if ord < 0 {
				return zero, raise(trace, "invalid disambiguator in '"+dd.field+"'")
			}
			chosen = ord
		} else {
			buf := &Writer{}
			if err := lx.SkipValue(trace, r, buf); err != nil {
				return zero, err
			}
			captured = append(captured, capturedField{key: key, value: append([]byte(nil), buf.Bytes()...)})
		}
		more, err = lx.NextObject(trace, r)
		if err != nil {
			return zero, err
		}
	}
	if chosen < 0 {
		return zero, raise(trace, "missing disambiguator '"+dd.field+"'")
	}
	variant := dd.shape.Variants[chosen]
	replay := &Writer{}
	replay.WriteByte('{')
	for i, f := range captured {
		if i > 0 {
			replay.WriteByte(',')
		}
		replay.AppendString(f.key)
		replay.WriteByte(':')
		replay.WriteBytes(f.value)
	}
	replay.WriteByte('}')
	rr := newTextReader(replay.String())
	return variant.Decoder(trace.Variant(variant.Tag), rr)
}

func (*discriminatorSumDecoder[S]) Missing(trace *Trace) (S, *DecodeError) {
	var zero S
	return zero, raise(trace, "missing")
}

type discriminatorSumEncoder[S any] struct{ shape SumShape[S] }

func newDiscriminatorSumEncoder[S any](shape SumShape[S]) Encoder[S] {
	return discriminatorSumEncoder[S]{shape: shape}
}

// Encode renders the variant's own object fields and splices the
// discriminator key/value into them, per spec.md §4.7's discriminator-field
// form -- an allocate-a-temporary-object approach, the encode-side mirror
// of the decode-side replay buffer used by discriminatorSumDecoder.
func (se discriminatorSumEncoder[S]) Encode(v S, indent *int, w *Writer) {
	variant := se.shape.selectVariant(v)
	body := &Writer{}
	variant.Encoder(v, indent, body)
	raw := body.Bytes()

	w.WriteByte('{')
	if indent != nil {
		w.Indent(*indent)
	}
	w.AppendString(se.shape.Discriminator)
	w.WriteByte(':')
	w.AppendString(variant.Tag)
	// raw is a full JSON object "{...}"; splice its fields in after the
	// discriminator key, skipping its own opening brace.
	if hasMoreFields(raw) {
		w.WriteByte(',')
		if indent != nil {
			w.Indent(*indent)
		}
		w.WriteBytes(raw[1 : len(raw)-1])
	}
	if indent != nil {
		w.IndentClose(*indent)
	}
	w.WriteByte('}')
}

// hasMoreFields reports whether raw (a full "{...}" object) has any
// content between its braces.
func hasMoreFields(raw []byte) bool {
	return len(raw) > 2
}

// NewSumDecoder dispatches to the wrapper-object or discriminator-field
// decoder depending on whether shape.Discriminator is set.
func NewSumDecoder[S any](shape SumShape[S]) Decoder[S] {
	if shape.Discriminator == "" {
		return newWrapperSumDecoder(shape)
	}
	return newDiscriminatorSumDecoder(shape)
}

// NewSumEncoder dispatches to the wrapper-object or discriminator-field
// encoder depending on whether shape.Discriminator is set.
func NewSumEncoder[S any](shape SumShape[S]) Encoder[S] {
	if shape.Discriminator == "" {
		return newWrapperSumEncoder(shape)
	}
	return newDiscriminatorSumEncoder(shape)
}
