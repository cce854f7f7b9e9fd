package jcodec

import "sort"

// Option represents a JSON value that may be absent (missing field or
// explicit null), per spec.md §4.8. The zero value is None.
type Option[A any] struct {
	Valid bool
	Value A
}

// Some wraps a present value.
func Some[A any](v A) Option[A] { return Option[A]{Valid: true, Value: v} }

// None is the absent Option of A.
func None[A any]() Option[A] { return Option[A]{} }

type optionDecoder[A any] struct{ inner Decoder[A] }

// NewOptionDecoder builds a Decoder[Option[A]]: a missing field or an
// explicit "null" both decode to None; any other value is retracted and
// decoded as A.
func NewOptionDecoder[A any](inner Decoder[A]) Decoder[Option[A]] {
	return optionDecoder[A]{inner: inner}
}

func (o optionDecoder[A]) Decode(trace *Trace, r CharReader) (Option[A], *DecodeError) {
	c, err := r.NextNonWhitespace()
	if err != nil {
		return Option[A]{}, err
	}
	if c == 'n' {
		if err := lx.ReadChars(trace, r, "ull", "in literal null"); err != nil {
			return Option[A]{}, err
		}
		return Option[A]{}, nil
	}
	r.Retract()
	v, err := o.inner.Decode(trace, r)
	if err != nil {
		return Option[A]{}, err
	}
	return Option[A]{Valid: true, Value: v}, nil
}

// Missing overrides the Decoder default: an absent field is None, not an
// error -- the one place spec.md §4.8 calls out explicitly.
func (o optionDecoder[A]) Missing(*Trace) (Option[A], *DecodeError) {
	return Option[A]{}, nil
}

type optionEncoder[A any] struct{ inner Encoder[A] }

// NewOptionEncoder builds an Encoder[Option[A]]: None encodes as "null".
func NewOptionEncoder[A any](inner Encoder[A]) Encoder[Option[A]] {
	return optionEncoder[A]{inner: inner}
}

func (o optionEncoder[A]) Encode(v Option[A], indent *int, w *Writer) {
	if !v.Valid {
		w.WriteString("null")
		return
	}
	o.inner.Encode(v.Value, indent, w)
}

// Either is a tagged union of two alternatives, decoded from the
// wrapper-object candidate field names {a, Left, left} / {b, Right, right}
// per spec.md §4.8.
type Either[L, R any] struct {
	IsLeft bool
	Left   L
	Right  R
}

// LeftOf constructs a Left-tagged Either.
func LeftOf[L, R any](v L) Either[L, R] { return Either[L, R]{IsLeft: true, Left: v} }

// RightOf constructs a Right-tagged Either.
func RightOf[L, R any](v R) Either[L, R] { return Either[L, R]{Right: v} }

var eitherCandidateNames = []string{"a", "Left", "left", "b", "Right", "right"}

type eitherDecoder[L, R any] struct {
	matrix *StringMatrix
	left   Decoder[L]
	right  Decoder[R]
}

// NewEitherDecoder builds a Decoder[Either[L,R]] per spec.md §4.8: missing
// both candidate keys is an error, both present is "ambiguous either, both
// present", and exactly one present decodes the corresponding side.
func NewEitherDecoder[L, R any](left Decoder[L], right Decoder[R]) Decoder[Either[L, R]] {
	return eitherDecoder[L, R]{matrix: NewStringMatrix(eitherCandidateNames), left: left, right: right}
}

func (e eitherDecoder[L, R]) Decode(trace *Trace, r CharReader) (Either[L, R], *DecodeError) {
	var zero Either[L, R]
	if err := lx.Char(trace, r, '{'); err != nil {
		return zero, err
	}
	var haveLeft, haveRight bool
	more, err := lx.FirstObject(trace, r)
	if err != nil {
		return zero, err
	}
	for more {
		ord, err := lx.Field(trace, r, e.matrix)
		if err != nil {
			return zero, err
		}
		switch {
		case ord >= 0 && ord < 3:
			if haveLeft {
				return zero, raise(trace, "duplicate")
			}
			v, err := e.left.Decode(trace.Variant("Left"), r)
			if err != nil {
				return zero, err
			}
			zero.Left, zero.IsLeft, haveLeft = v, true, true
		case ord >= 3:
			if haveRight {
				return zero, raise(trace, "duplicate")
			}
			v, err := e.right.Decode(trace.Variant("Right"), r)
			if err != nil {
				return zero, err
			}
			zero.Right, haveRight = v, true
		default:
			if err := lx.SkipValue(trace, r, nil); err != nil {
				return zero, err
			}
		}
		more, err = lx.NextObject(trace, r)
		if err != nil {
			return zero, err
		}
	}
	switch {
	case haveLeft && haveRight:
		return zero, raise(trace, "ambiguous either, both present")
	case !haveLeft && !haveRight:
		return zero, raise(trace, "missing")
	}
	return zero, nil
}

func (eitherDecoder[L, R]) Missing(trace *Trace) (Either[L, R], *DecodeError) {
	var zero Either[L, R]
	return zero, raise(trace, "missing")
}

type eitherEncoder[L, R any] struct {
	left  Encoder[L]
	right Encoder[R]
}

// NewEitherEncoder builds an Encoder[Either[L,R]], always using the "left"
// / "right" wrapper keys.
func NewEitherEncoder[L, R any](left Encoder[L], right Encoder[R]) Encoder[Either[L, R]] {
	return eitherEncoder[L, R]{left: left, right: right}
}

func (e eitherEncoder[L, R]) Encode(v Either[L, R], indent *int, w *Writer) {
	w.WriteByte('{')
	if indent != nil {
		w.Indent(*indent)
	}
	if v.IsLeft {
		w.AppendString("left")
		w.WriteByte(':')
		e.left.Encode(v.Left, childIndent(indent), w)
	} else {
		w.AppendString("right")
		w.WriteByte(':')
		e.right.Encode(v.Right, childIndent(indent), w)
	}
	if indent != nil {
		w.IndentClose(*indent)
	}
	w.WriteByte('}')
}

// listDecoder decodes a JSON array into a []A, tracing each element with
// an Index(i) frame.
type listDecoder[A any] struct{ elem Decoder[A] }

// NewListDecoder builds a Decoder[[]A] over a JSON array.
func NewListDecoder[A any](elem Decoder[A]) Decoder[[]A] {
	return listDecoder[A]{elem: elem}
}

func (d listDecoder[A]) Decode(trace *Trace, r CharReader) ([]A, *DecodeError) {
	if err := lx.Char(trace, r, '['); err != nil {
		return nil, err
	}
	var out []A
	more, err := lx.FirstArray(trace, r)
	if err != nil {
		return nil, err
	}
	for i := 0; more; i++ {
		v, err := d.elem.Decode(trace.Index(i), r)
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

func (listDecoder[A]) Missing(trace *Trace) ([]A, *DecodeError) {
	return nil, raise(trace, "missing")
}

type listEncoder[A any] struct{ elem Encoder[A] }

// NewListEncoder builds an Encoder[[]A].
func NewListEncoder[A any](elem Encoder[A]) Encoder[[]A] {
	return listEncoder[A]{elem: elem}
}

func (e listEncoder[A]) Encode(v []A, indent *int, w *Writer) {
	w.WriteByte('[')
	for i, elem := range v {
		writeFieldSep(w, indent, i == 0)
		e.elem.Encode(elem, childIndent(indent), w)
	}
	if indent != nil && len(v) > 0 {
		w.IndentClose(*indent)
	}
	w.WriteByte(']')
}

// mapDecoder decodes a JSON object into a map[K]V, per spec.md §4.8: each
// key is parsed as a JSON string, decoded via a FieldDecoder[K], then ':'
// and the value via Decoder[V].
type mapDecoder[K comparable, V any] struct {
	key FieldDecoder[K]
	val Decoder[V]
}

// NewMapDecoder builds a Decoder[map[K]V].
func NewMapDecoder[K comparable, V any](key FieldDecoder[K], val Decoder[V]) Decoder[map[K]V] {
	return mapDecoder[K, V]{key: key, val: val}
}

func (d mapDecoder[K, V]) Decode(trace *Trace, r CharReader) (map[K]V, *DecodeError) {
	if err := lx.Char(trace, r, '{'); err != nil {
		return nil, err
	}
	out := make(map[K]V)
	more, err := lx.FirstObject(trace, r)
	if err != nil {
		return nil, err
	}
	for more {
		keyText, err := lx.String(trace, r)
		if err != nil {
			return nil, err
		}
		if err := lx.Char(trace, r, ':'); err != nil {
			return nil, err
		}
		k, err := d.key.DecodeKey(trace.Field(keyText), keyText)
		if err != nil {
			return nil, err
		}
		v, err := d.val.Decode(trace.Field(keyText), r)
		if err != nil {
			return nil, err
		}
		out[k] = v
		more, err = lx.NextObject(trace, r)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (mapDecoder[K, V]) Missing(trace *Trace) (map[K]V, *DecodeError) {
	return nil, raise(trace, "missing")
}

// FieldEncoder renders a key of type K as a JSON string.
type FieldEncoder[K any] interface {
	EncodeKey(k K) string
}

type fieldEncoderFunc[K any] func(K) string

func (f fieldEncoderFunc[K]) EncodeKey(k K) string { return f(k) }

// StringFieldEncoder renders a string key verbatim.
var StringFieldEncoder FieldEncoder[string] = fieldEncoderFunc[string](func(s string) string { return s })

type mapEncoder[K comparable, V any] struct {
	key FieldEncoder[K]
	val Encoder[V]
	// order, when non-nil, fixes iteration order for deterministic output
	// (e.g. sorted maps); nil means Go's randomized map order.
	order func(keys []K)
}

// NewMapEncoder builds an Encoder[map[K]V] with unspecified key order.
func NewMapEncoder[K comparable, V any](key FieldEncoder[K], val Encoder[V]) Encoder[map[K]V] {
	return mapEncoder[K, V]{key: key, val: val}
}

func (e mapEncoder[K, V]) Encode(v map[K]V, indent *int, w *Writer) {
	keys := make([]K, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	if e.order != nil {
		e.order(keys)
	}
	w.WriteByte('{')
	for i, k := range keys {
		writeFieldSep(w, indent, i == 0)
		w.AppendString(e.key.EncodeKey(k))
		w.WriteByte(':')
		e.val.Encode(v[k], childIndent(indent), w)
	}
	if indent != nil && len(keys) > 0 {
		w.IndentClose(*indent)
	}
	w.WriteByte('}')
}

// Ordering compares two keys of type K for SortedMap, ascending.
type Ordering[K any] func(a, b K) bool

// NewSortedMapEncoder builds an Encoder[map[K]V] whose keys are written in
// the order given by less -- the "map(keylist) post-processor" spec.md
// §4.8 names but does not build out.
func NewSortedMapEncoder[K comparable, V any](key FieldEncoder[K], val Encoder[V], less Ordering[K]) Encoder[map[K]V] {
	return mapEncoder[K, V]{key: key, val: val, order: func(keys []K) {
		sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	}}
}

// NewSortedMapDecoder builds a Decoder[map[K]V] identical to
// NewMapDecoder; sortedness is purely an encode-side property (decode
// order never matters for an associative structure).
func NewSortedMapDecoder[K comparable, V any](key FieldDecoder[K], val Decoder[V]) Decoder[map[K]V] {
	return NewMapDecoder[K, V](key, val)
}

// setDecoder decodes a JSON array into a map[A]struct{}, deduplicating by
// equality -- the "map(list) post-processor" spec.md §4.8 names.
type setDecoder[A comparable] struct{ elem Decoder[A] }

// NewSetDecoder builds a Decoder[map[A]struct{}] over a JSON array,
// dropping duplicate elements.
func NewSetDecoder[A comparable](elem Decoder[A]) Decoder[map[A]struct{}] {
	return setDecoder[A]{elem: elem}
}

func (d setDecoder[A]) Decode(trace *Trace, r CharReader) (map[A]struct{}, *DecodeError) {
	if err := lx.Char(trace, r, '['); err != nil {
		return nil, err
	}
	out := make(map[A]struct{})
	more, err := lx.FirstArray(trace, r)
	if err != nil {
		return nil, err
	}
	for i := 0; more; i++ {
		v, err := d.elem.Decode(trace.Index(i), r)
		if err != nil {
			return nil, err
		}
		out[v] = struct{}{}
		more, err = lx.NextArray(trace, r)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (setDecoder[A]) Missing(trace *Trace) (map[A]struct{}, *DecodeError) {
	return nil, raise(trace, "missing")
}

type setEncoder[A comparable] struct {
	elem Encoder[A]
	less func(a, b A) bool // optional, for deterministic output
}

// NewSetEncoder builds an Encoder[map[A]struct{}] over a JSON array.
// less, if non-nil, fixes a deterministic element order.
func NewSetEncoder[A comparable](elem Encoder[A], less func(a, b A) bool) Encoder[map[A]struct{}] {
	return setEncoder[A]{elem: elem, less: less}
}

func (e setEncoder[A]) Encode(v map[A]struct{}, indent *int, w *Writer) {
	keys := make([]A, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	if e.less != nil {
		sort.Slice(keys, func(i, j int) bool { return e.less(keys[i], keys[j]) })
	}
	w.WriteByte('[')
	for i, k := range keys {
		writeFieldSep(w, indent, i == 0)
		e.elem.Encode(k, childIndent(indent), w)
	}
	if indent != nil && len(keys) > 0 {
		w.IndentClose(*indent)
	}
	w.WriteByte(']')
}
