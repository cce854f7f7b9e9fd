package jcodec

import (
	"unicode/utf16"

	"github.com/xenking/jcodec/internal/scratch"
)

// EscapedString presents the logical, unescaped contents of a JSON string
// read character-at-a-time from a CharReader positioned just after the
// opening quote. read returns successive codepoints; done=true signals
// the closing quote was consumed.
//
// Resolves spec.md's open question (a): letter escapes (\n \t \r \b \f)
// return the actual control character, the RFC-conformant behavior, rather
// than the literal escape letter the original implementation returned.
// Resolves open question (c): surrogate pairs are combined, grounded on
// the teacher's own utf16.DecodeRune handling in decoder.go's string().
type EscapedString struct {
	r     CharReader
	trace *Trace

	// pending holds a character already consumed from r during surrogate
	// lookahead that read() must reprocess before asking r for anything
	// else -- CharReader only guarantees one level of Retract (reader.go),
	// so a two-character lookahead that needs to undo both characters
	// buffers the first here instead of attempting a second Retract.
	pending    rune
	hasPending bool
}

// NewEscapedString wraps r, which must be positioned just after a JSON
// string's opening '"'.
func NewEscapedString(trace *Trace, r CharReader) *EscapedString {
	return &EscapedString{r: r, trace: trace}
}

// ReadAll materializes the full string contents into buf (reset first),
// stopping at the closing quote.
func (e *EscapedString) ReadAll(buf *scratch.Scratch) *DecodeError {
	buf.Reset()
	for {
		r, done, err := e.read()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		buf.AddRune(r)
	}
}

// read returns the next logical codepoint, or done=true once the closing
// quote has been consumed.
func (e *EscapedString) read() (r rune, done bool, err *DecodeError) {
	var c rune
	if e.hasPending {
		c = e.pending
		e.hasPending = false
	} else {
		var derr *DecodeError
		c, derr = e.r.ReadChar()
		if derr != nil {
			return 0, false, derr
		}
	}
	switch {
	case c == '"':
		return 0, true, nil
	case c == '\\':
		return e.readEscape()
	case c < 0x20:
		return 0, false, raise(e.trace, "invalid control in string")
	default:
		return c, false, nil
	}
}

func (e *EscapedString) readEscape() (rune, bool, *DecodeError) {
	c, err := e.r.ReadChar()
	if err != nil {
		return 0, false, err
	}
	switch c {
	case '"':
		return '"', false, nil
	case '\\':
		return '\\', false, nil
	case '/':
		return '/', false, nil
	case 'b':
		return '\b', false, nil
	case 'f':
		return '\f', false, nil
	case 'n':
		return '\n', false, nil
	case 'r':
		return '\r', false, nil
	case 't':
		return '\t', false, nil
	case 'u':
		return e.readUnicodeEscape()
	default:
		return 0, false, raise(e.trace, "invalid '\\"+string(c)+"' in string")
	}
}

func (e *EscapedString) readUnicodeEscape() (rune, bool, *DecodeError) {
	hi, err := e.readHex4()
	if err != nil {
		return 0, false, err
	}
	if !utf16.IsSurrogate(hi) {
		return hi, false, nil
	}

	// Look ahead for a following \uXXXX low surrogate to combine into a
	// single supplementary codepoint. Any other continuation must be
	// reprocessed normally by the caller; the high surrogate is returned
	// alone, per spec.md §4.2's "two consecutive \u yield two separate
	// codepoints" fallback. The first lookahead character is undone with
	// a plain Retract (legal: it's the most recent read); if a second
	// lookahead character was also consumed and turns out not to start a
	// low-surrogate escape, the '\\' cannot be Retracted a second time, so
	// it's buffered in e.pending for read() to reprocess instead.
	c, derr := e.r.ReadChar()
	if derr != nil {
		return hi, false, nil
	}
	if c != '\\' {
		e.r.Retract()
		return hi, false, nil
	}
	c, derr = e.r.ReadChar()
	if derr != nil {
		e.pending, e.hasPending = '\\', true
		return hi, false, nil
	}
	if c != 'u' {
		e.r.Retract()
		e.pending, e.hasPending = '\\', true
		return hi, false, nil
	}
	lo, err := e.readHex4()
	if err != nil {
		return 0, false, err
	}
	if combined := utf16.DecodeRune(hi, lo); combined != utf8Replacement {
		return combined, false, nil
	}
	return hi, false, nil
}

const utf8Replacement = '�'

// readHex4 consumes exactly four hex digits and returns the numeric
// codepoint, raising "invalid charcode in string" on malformed hex.
func (e *EscapedString) readHex4() (rune, *DecodeError) {
	var v rune
	for i := 0; i < 4; i++ {
		c, err := e.r.ReadChar()
		if err != nil {
			return 0, err
		}
		var digit rune
		switch {
		case c >= '0' && c <= '9':
			digit = c - '0'
		case c >= 'a' && c <= 'f':
			digit = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			digit = c - 'A' + 10
		default:
			return 0, raise(e.trace, "invalid charcode in string")
		}
		v = v<<4 | digit
	}
	return v, nil
}
