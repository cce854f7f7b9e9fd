package jcodec

// anyFieldDecoder type-erases a Decoder[A] so record.go can hold a
// homogeneous []anyFieldDecoder across fields of differing Go types --
// the "uniform any-typed array" design spec.md §9 describes, adapted to
// Go's lack of a reflection-based derivation frontend (explicitly out of
// scope per spec.md §1): the caller supplies the per-field type via Field's
// own type parameter instead of a runtime tag walk.
type anyFieldDecoder interface {
	decodeAny(trace *Trace, r CharReader) (any, *DecodeError)
	missingAny(trace *Trace) (any, *DecodeError)
}

type typedFieldDecoder[A any] struct{ dec Decoder[A] }

func (t typedFieldDecoder[A]) decodeAny(trace *Trace, r CharReader) (any, *DecodeError) {
	return t.dec.Decode(trace, r)
}

func (t typedFieldDecoder[A]) missingAny(trace *Trace) (any, *DecodeError) {
	return t.dec.Missing(trace)
}

// anyFieldEncoder is the encode-side mirror of anyFieldDecoder.
type anyFieldEncoder interface {
	encodeAny(v any, indent *int, w *Writer)
}

type typedFieldEncoder[A any] struct{ enc Encoder[A] }

func (t typedFieldEncoder[A]) encodeAny(v any, indent *int, w *Writer) {
	t.enc.Encode(v.(A), indent, w)
}

// FieldSpec describes one field of record type R: its wire name, its
// Decoder/Encoder pair, and the extractor used to pull its value out of an
// already-built R for encoding -- the "constructor/destructor pair" spec.md
// §6 calls for, applied per-field.
type FieldSpec[R any] struct {
	name    string
	decoder anyFieldDecoder
	encoder anyFieldEncoder
	extract func(R) any
}

// Field builds a FieldSpec for wire name `name`, decoded/encoded as type A,
// extracted from R via get for encoding.
func Field[R, A any](name string, dec Decoder[A], enc Encoder[A], get func(R) A) FieldSpec[R] {
	return FieldSpec[R]{
		name:    name,
		decoder: typedFieldDecoder[A]{dec: dec},
		encoder: typedFieldEncoder[A]{enc: enc},
		extract: func(r R) any { return get(r) },
	}
}

// RenameField returns f with its wire name changed to wireName, leaving
// its decoder/encoder/extractor untouched -- the `field(rename)` shape
// annotation of spec.md §6.
func RenameField[R any](f FieldSpec[R], wireName string) FieldSpec[R] {
	f.name = wireName
	return f
}

// RecordShape is the "shape description" spec.md §6 asks callers to supply
// in place of the excluded reflection-based derivation frontend: field
// names/codecs plus a constructor assembling R from the decoded slots, in
// the same order as Fields.
type RecordShape[R any] struct {
	Fields    []FieldSpec[R]
	NoExtra   bool
	Construct func(slots []any) (R, *DecodeError)
}

type recordDecoder[R any] struct {
	shape  RecordShape[R]
	matrix *StringMatrix
}

// NewRecordDecoder builds a Decoder[R] implementing the spec.md §4.6
// six-step record algorithm: require '{', read fields by StringMatrix
// ordinal with duplicate/no-extra/missing handling via a filled-slot
// bitmask, then call shape.Construct.
func NewRecordDecoder[R any](shape RecordShape[R]) Decoder[R] {
	if len(shape.Fields) == 0 {
		panic("jcodec: RecordShape must have at least one field")
	}
	if len(shape.Fields) >= 64 {
		panic("jcodec: RecordShape supports at most 63 fields")
	}
	names := make([]string, len(shape.Fields))
	for i, f := range shape.Fields {
		names[i] = f.name
	}
	return &recordDecoder[R]{shape: shape, matrix: NewStringMatrix(names)}
}

func (rd *recordDecoder[R]) Decode(trace *Trace, r CharReader) (R, *DecodeError) {
	var zero R
	if err := lx.Char(trace, r, '{'); err != nil {
		return zero, err
	}
	slots := make([]any, len(rd.shape.Fields))
	var filled uint64
	more, err := lx.FirstObject(trace, r)
	if err != nil {
		return zero, err
	}
	for more {
		ord, err := lx.Field(trace, r, rd.matrix)
		if err != nil {
			return zero, err
		}
		if ord >= 0 {
			bit := uint64(1) << uint(ord)
			fieldTrace := trace.Field(rd.shape.Fields[ord].name)
			if filled&bit != 0 {
				return zero, raise(fieldTrace, "duplicate")
			}
			v, err := rd.shape.Fields[ord].decoder.decodeAny(fieldTrace, r)
			if err != nil {
				return zero, err
			}
			slots[ord] = v
			filled |= bit
		} else {
			if rd.shape.NoExtra {
				return zero, raise(trace, "invalid extra field")
			}
			if err := lx.SkipValue(trace, r, nil); err != nil {
				return zero, err
			}
		}
		more, err = lx.NextObject(trace, r)
		if err != nil {
			return zero, err
		}
	}
	for i, f := range rd.shape.Fields {
		bit := uint64(1) << uint(i)
		if filled&bit != 0 {
			continue
		}
		v, err := f.decoder.missingAny(trace.Field(f.name))
		if err != nil {
			return zero, err
		}
		slots[i] = v
	}
	return rd.shape.Construct(slots)
}

func (*recordDecoder[R]) Missing(trace *Trace) (R, *DecodeError) {
	var zero R
	return zero, raise(trace, "missing")
}

type recordEncoder[R any] struct {
	shape RecordShape[R]
}

// NewRecordEncoder builds an Encoder[R] writing each field in shape.Fields
// order as `"name":value`.
func NewRecordEncoder[R any](shape RecordShape[R]) Encoder[R] {
	return recordEncoder[R]{shape: shape}
}

func (re recordEncoder[R]) Encode(v R, indent *int, w *Writer) {
	w.WriteByte('{')
	for i, f := range re.shape.Fields {
		writeFieldSep(w, indent, i == 0)
		w.AppendString(f.name)
		w.WriteByte(':')
		f.encoder.encodeAny(f.extract(v), childIndent(indent), w)
	}
	if indent != nil && len(re.shape.Fields) > 0 {
		w.IndentClose(*indent)
	}
	w.WriteByte('}')
}
