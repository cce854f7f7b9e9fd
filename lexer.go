package jcodec

import (
	"math/big"

	"github.com/xenking/jcodec/internal/scratch"
)

// Lexer implements the token-level JSON grammar primitives of spec.md §4.5.
// It carries no state of its own; every operation takes the Trace and
// CharReader it needs explicitly, so a single Lexer value can be shared
// across decoders the same way a StringMatrix can.
type Lexer struct{}

// quoteRune renders c the way spec.md §7's error strings expect: a
// single-quoted character literal.
func quoteRune(c rune) string {
	return "'" + string(c) + "'"
}

// FirstObject expects '"' or '}' after whitespace. On '"' it retracts
// (leaving the quote for the next field read) and returns true; on '}' it
// returns false.
func (Lexer) FirstObject(trace *Trace, r CharReader) (bool, *DecodeError) {
	c, err := r.NextNonWhitespace()
	if err != nil {
		return false, err
	}
	switch c {
	case '"':
		r.Retract()
		return true, nil
	case '}':
		return false, nil
	default:
		return false, raise(trace, "expected string or '}' got "+quoteRune(c))
	}
}

// NextObject expects ',' (more fields follow) or '}' (object is done).
func (Lexer) NextObject(trace *Trace, r CharReader) (bool, *DecodeError) {
	c, err := r.NextNonWhitespace()
	if err != nil {
		return false, err
	}
	switch c {
	case ',':
		return true, nil
	case '}':
		return false, nil
	default:
		return false, raise(trace, "expected ',' or '}' got "+quoteRune(c))
	}
}

// FirstArray expects a value or ']' after whitespace.
func (Lexer) FirstArray(trace *Trace, r CharReader) (bool, *DecodeError) {
	c, err := r.NextNonWhitespace()
	if err != nil {
		return false, err
	}
	if c == ']' {
		return false, nil
	}
	r.Retract()
	return true, nil
}

// NextArray expects ',' (more elements follow) or ']' (array is done).
func (Lexer) NextArray(trace *Trace, r CharReader) (bool, *DecodeError) {
	c, err := r.NextNonWhitespace()
	if err != nil {
		return false, err
	}
	switch c {
	case ',':
		return true, nil
	case ']':
		return false, nil
	default:
		return false, raise(trace, "expected ',' or ']' got "+quoteRune(c))
	}
}

// ordinalMatch streams the contents of a JSON string (positioned just
// after its opening quote) through m without materializing it, returning
// the matched candidate ordinal or -1.
func (Lexer) ordinalMatch(trace *Trace, r CharReader, m *StringMatrix) (int, *DecodeError) {
	es := NewEscapedString(trace, r)
	mask := m.Initial()
	length := 0
	for {
		c, done, err := es.read()
		if err != nil {
			return -1, err
		}
		if done {
			break
		}
		mask = m.Update(mask, length, c)
		length++
	}
	mask = m.Exact(mask, length)
	return m.First(mask), nil
}

// expectOpeningQuote skips whitespace and requires '"', leaving the reader
// positioned just after the quote.
func (lx Lexer) expectOpeningQuote(trace *Trace, r CharReader) *DecodeError {
	c, err := r.NextNonWhitespace()
	if err != nil {
		return err
	}
	if c != '"' {
		return raise(trace, "expected string or '}' got "+quoteRune(c))
	}
	return nil
}

// Ordinal reads a string via the streaming matcher and returns its
// candidate ordinal, or -1 if it matches none. It does not consume ':'.
func (lx Lexer) Ordinal(trace *Trace, r CharReader, m *StringMatrix) (int, *DecodeError) {
	if err := lx.expectOpeningQuote(trace, r); err != nil {
		return -1, err
	}
	return lx.ordinalMatch(trace, r, m)
}

// Field reads a string, consumes ':', and returns the matched ordinal or
// -1.
func (lx Lexer) Field(trace *Trace, r CharReader, m *StringMatrix) (int, *DecodeError) {
	ord, err := lx.Ordinal(trace, r, m)
	if err != nil {
		return -1, err
	}
	if err := lx.Char(trace, r, ':'); err != nil {
		return -1, err
	}
	return ord, nil
}

// String reads a full JSON string and returns its materialized contents.
func (lx Lexer) String(trace *Trace, r CharReader) (string, *DecodeError) {
	if err := lx.Char(trace, r, '"'); err != nil {
		return "", err
	}
	buf := &scratch.Scratch{}
	es := NewEscapedString(trace, r)
	if err := es.ReadAll(buf); err != nil {
		return "", err
	}
	return string(buf.Bytes()), nil
}

// Boolean matches "true" or "false".
func (lx Lexer) Boolean(trace *Trace, r CharReader) (bool, *DecodeError) {
	c, err := r.NextNonWhitespace()
	if err != nil {
		return false, err
	}
	switch c {
	case 't':
		if err := lx.ReadChars(trace, r, "rue", "unexpected "+quoteRune(c)); err != nil {
			return false, err
		}
		return true, nil
	case 'f':
		if err := lx.ReadChars(trace, r, "alse", "unexpected "+quoteRune(c)); err != nil {
			return false, err
		}
		return false, nil
	default:
		return false, raise(trace, "unexpected "+quoteRune(c))
	}
}

// Char skips whitespace and requires c.
func (Lexer) Char(trace *Trace, r CharReader, want rune) *DecodeError {
	c, err := r.NextNonWhitespace()
	if err != nil {
		return err
	}
	if c != want {
		return raise(trace, "expected "+quoteRune(want)+" got "+quoteRune(c))
	}
	return nil
}

// CharOnly requires c with no whitespace skip.
func (Lexer) CharOnly(trace *Trace, r CharReader, want rune) *DecodeError {
	c, err := r.ReadChar()
	if err != nil {
		return err
	}
	if c != want {
		return raise(trace, "expected "+quoteRune(want)+" got "+quoteRune(c))
	}
	return nil
}

// ReadChars verbatim-matches expected, raising msg on the first mismatch.
func (Lexer) ReadChars(trace *Trace, r CharReader, expected string, msg string) *DecodeError {
	for _, want := range expected {
		c, err := r.ReadChar()
		if err != nil {
			return err
		}
		if c != want {
			return raise(trace, msg)
		}
	}
	return nil
}

func (lx Lexer) numberScan(trace *Trace, r CharReader) (*unsafeNumberScan, *DecodeError) {
	c, err := r.NextNonWhitespace()
	if err != nil {
		return nil, err
	}
	if c == '"' {
		scan, err := scanUnsafeNumber(trace, r)
		if err != nil {
			return nil, err
		}
		if err := lx.CharOnly(trace, r, '"'); err != nil {
			return nil, err
		}
		return scan, nil
	}
	if c != '-' && (c < '0' || c > '9') {
		return nil, raise(trace, "expected a number, got "+quoteRune(c))
	}
	r.Retract()
	return scanUnsafeNumber(trace, r)
}

// Byte reads an 8-bit signed integer.
func (lx Lexer) Byte(trace *Trace, r CharReader) (int8, *DecodeError) {
	scan, err := lx.numberScan(trace, r)
	if err != nil {
		return 0, err
	}
	n, err := parseInt64(trace, scan, "Byte", 8)
	if err != nil {
		return 0, err
	}
	return int8(n), nil
}

// Short reads a 16-bit signed integer.
func (lx Lexer) Short(trace *Trace, r CharReader) (int16, *DecodeError) {
	scan, err := lx.numberScan(trace, r)
	if err != nil {
		return 0, err
	}
	n, err := parseInt64(trace, scan, "Short", 16)
	if err != nil {
		return 0, err
	}
	return int16(n), nil
}

// Int reads a 32-bit signed integer.
func (lx Lexer) Int(trace *Trace, r CharReader) (int32, *DecodeError) {
	scan, err := lx.numberScan(trace, r)
	if err != nil {
		return 0, err
	}
	n, err := parseInt64(trace, scan, "Int", 32)
	if err != nil {
		return 0, err
	}
	return int32(n), nil
}

// Long reads a 64-bit signed integer.
func (lx Lexer) Long(trace *Trace, r CharReader) (int64, *DecodeError) {
	scan, err := lx.numberScan(trace, r)
	if err != nil {
		return 0, err
	}
	return parseInt64(trace, scan, "Long", 64)
}

// BigInteger reads an arbitrary-precision integer, capped at
// config.NumberMaxBits of precision.
func (lx Lexer) BigInteger(trace *Trace, r CharReader) (*big.Int, *DecodeError) {
	scan, err := lx.numberScan(trace, r)
	if err != nil {
		return nil, err
	}
	return parseBigInt(trace, scan)
}

// Float reads a 32-bit IEEE-754 float.
func (lx Lexer) Float(trace *Trace, r CharReader) (float32, *DecodeError) {
	scan, err := lx.numberScan(trace, r)
	if err != nil {
		return 0, err
	}
	n, err := parseFloatKind(trace, scan, "Float", 32)
	if err != nil {
		return 0, err
	}
	return float32(n), nil
}

// Double reads a 64-bit IEEE-754 float.
func (lx Lexer) Double(trace *Trace, r CharReader) (float64, *DecodeError) {
	scan, err := lx.numberScan(trace, r)
	if err != nil {
		return 0, err
	}
	return parseFloatKind(trace, scan, "Double", 64)
}

// BigDecimal reads an arbitrary-precision decimal, capped at
// config.NumberMaxBits of precision.
func (lx Lexer) BigDecimal(trace *Trace, r CharReader) (*big.Float, *DecodeError) {
	scan, err := lx.numberScan(trace, r)
	if err != nil {
		return nil, err
	}
	return parseBigDecimal(trace, scan)
}

// sink receives normalized bytes during SkipValue; *Writer satisfies it.
type sink interface {
	WriteByte(c byte)
	WriteString(s string)
}

// SkipValue recursively consumes one JSON value, optionally echoing a
// normalized form (whitespace dropped, commas reinserted between elements,
// string bytes passed through verbatim) to out. out may be nil.
func (lx Lexer) SkipValue(trace *Trace, r CharReader, out sink) *DecodeError {
	c, err := r.NextNonWhitespace()
	if err != nil {
		return err
	}
	switch {
	case c == '"':
		if out != nil {
			out.WriteByte('"')
		}
		return lx.skipStringBody(trace, r, out)
	case c == '-' || (c >= '0' && c <= '9'):
		r.Retract()
		scan, err := scanUnsafeNumber(trace, r)
		if err != nil {
			return err
		}
		if out != nil {
			out.WriteString(string(scan.text))
		}
		return nil
	case c == 't':
		if err := lx.ReadChars(trace, r, "rue", "in literal true"); err != nil {
			return err
		}
		if out != nil {
			out.WriteString("true")
		}
		return nil
	case c == 'f':
		if err := lx.ReadChars(trace, r, "alse", "in literal false"); err != nil {
			return err
		}
		if out != nil {
			out.WriteString("false")
		}
		return nil
	case c == 'n':
		if err := lx.ReadChars(trace, r, "ull", "in literal null"); err != nil {
			return err
		}
		if out != nil {
			out.WriteString("null")
		}
		return nil
	case c == '[':
		return lx.skipArray(trace, r, out)
	case c == '{':
		return lx.skipObject(trace, r, out)
	default:
		return raise(trace, "unexpected "+quoteRune(c))
	}
}

// skipString requires an opening '"' and copies a full JSON string
// (quotes, body, and any escapes) verbatim to out.
func (lx Lexer) skipString(trace *Trace, r CharReader, out sink) *DecodeError {
	if err := lx.expectOpeningQuote(trace, r); err != nil {
		return err
	}
	if out != nil {
		out.WriteByte('"')
	}
	return lx.skipStringBody(trace, r, out)
}

// skipStringBody copies the body and closing quote of a JSON string
// verbatim, assuming the reader is positioned just past the opening quote.
// It tracks backslash state to find the true terminating quote without
// interpreting escapes.
func (lx Lexer) skipStringBody(trace *Trace, r CharReader, out sink) *DecodeError {
	escaped := false
	for {
		c, err := r.ReadChar()
		if err != nil {
			return err
		}
		if !escaped && c < 0x20 {
			return raise(trace, "invalid control in string")
		}
		if out != nil {
			out.WriteString(string(c))
		}
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			return nil
		}
	}
}

func (lx Lexer) skipArray(trace *Trace, r CharReader, out sink) *DecodeError {
	if out != nil {
		out.WriteByte('[')
	}
	more, err := lx.FirstArray(trace, r)
	if err != nil {
		return err
	}
	for more {
		if err := lx.SkipValue(trace, r, out); err != nil {
			return err
		}
		more, err = lx.NextArray(trace, r)
		if err != nil {
			return err
		}
		if more && out != nil {
			out.WriteByte(',')
		}
	}
	if out != nil {
		out.WriteByte(']')
	}
	return nil
}

func (lx Lexer) skipObject(trace *Trace, r CharReader, out sink) *DecodeError {
	if out != nil {
		out.WriteByte('{')
	}
	more, err := lx.FirstObject(trace, r)
	if err != nil {
		return err
	}
	for more {
		if err := lx.skipString(trace, r, out); err != nil {
			return err
		}
		if out != nil {
			out.WriteByte(':')
		}
		if err := lx.Char(trace, r, ':'); err != nil {
			return err
		}
		if err := lx.SkipValue(trace, r, out); err != nil {
			return err
		}
		more, err = lx.NextObject(trace, r)
		if err != nil {
			return err
		}
		if more && out != nil {
			out.WriteByte(',')
		}
	}
	if out != nil {
		out.WriteByte('}')
	}
	return nil
}
