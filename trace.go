package jcodec

import "strings"

// frameKind identifies which of the four breadcrumb variants a trace frame
// carries.
type frameKind byte

const (
	frameField frameKind = iota
	frameIndex
	frameVariant
	frameMessage
)

// Trace is a reversed stack of path breadcrumbs describing where a decode
// failure occurred. It is built tip-first: each composite decoder prepends
// its own frame in O(1) and never mutates a Trace it did not just create.
// A nil *Trace denotes "no trace," which only ever appears before a failure
// has happened.
type Trace struct {
	kind    frameKind
	field   string
	index   int
	variant string
	message string
	next    *Trace
}

// Field prepends a `.name` frame.
func (t *Trace) Field(name string) *Trace {
	return &Trace{kind: frameField, field: name, next: t}
}

// Index prepends a `[i]` frame.
func (t *Trace) Index(i int) *Trace {
	return &Trace{kind: frameIndex, index: i, next: t}
}

// Variant prepends a `{tag}` frame.
func (t *Trace) Variant(tag string) *Trace {
	return &Trace{kind: frameVariant, variant: tag, next: t}
}

// Message prepends a `(text)` frame. Message frames are normally the head
// of a freshly-raised error and are not themselves further prepended to.
func (t *Trace) Message(text string) *Trace {
	return &Trace{kind: frameMessage, message: text, next: t}
}

// Render walks the trace once, in root-to-tip order, producing the
// jq-style path string, e.g. ".rows[0].elements[0].distance.value(missing)".
func (t *Trace) Render() string {
	if t == nil {
		return ""
	}
	frames := make([]*Trace, 0, 8)
	for f := t; f != nil; f = f.next {
		frames = append(frames, f)
	}
	var b strings.Builder
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		switch f.kind {
		case frameField:
			b.WriteByte('.')
			b.WriteString(f.field)
		case frameIndex:
			b.WriteByte('[')
			b.WriteString(itoa(f.index))
			b.WriteByte(']')
		case frameVariant:
			b.WriteByte('{')
			b.WriteString(f.variant)
			b.WriteByte('}')
		case frameMessage:
			b.WriteByte('(')
			b.WriteString(f.message)
			b.WriteByte(')')
		}
	}
	return b.String()
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// DecodeError is the error kind raised by every composite decoder: a
// non-empty Trace whose head is always a Message frame. Errors are raised
// at the deepest site and carry the full trace built by prepending at each
// composite decoder on the way back out; there is no local recovery.
type DecodeError struct {
	Trace *Trace
}

func (e *DecodeError) Error() string {
	if e == nil || e.Trace == nil {
		return "unsafe json"
	}
	return e.Trace.Render()
}

// raise constructs a DecodeError whose head is a Message frame built from
// trace, keeping the failure path cold and the happy path allocation-free.
func raise(trace *Trace, message string) *DecodeError {
	return &DecodeError{Trace: trace.Message(message)}
}

// ErrUnexpectedEnd is returned by CharReader implementations at EOF; it is
// the only failure mode for readers, as all syntactic errors are raised by
// the Lexer layer above them.
var ErrUnexpectedEnd = &DecodeError{Trace: (*Trace)(nil).Message("unexpected end of input")}
