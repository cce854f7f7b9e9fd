package jcodec

import (
	"io"

	"github.com/spf13/afero"
)

// ChunkerBuilder configures a Chunker per spec.md §4.10.
type ChunkerBuilder struct {
	maxDocBytes int
	strict      bool
}

// NewChunkerBuilder starts a ChunkerBuilder with the given per-document
// byte cap and strictness. maxDocBytes <= 0 means unbounded.
func NewChunkerBuilder(maxDocBytes int, strict bool) *ChunkerBuilder {
	return &ChunkerBuilder{maxDocBytes: maxDocBytes, strict: strict}
}

// Build constructs a Chunker invoking cb with the byte slice of each
// completed top-level JSON document.
func (b *ChunkerBuilder) Build(cb func(doc []byte) error) *Chunker {
	return &Chunker{maxDocBytes: b.maxDocBytes, strict: b.strict, cb: cb}
}

// Chunker assembles whole top-level JSON documents out of an arbitrarily
// segmented byte stream, per spec.md §3/§4.10: it tracks brace/bracket
// nesting depth and in-string/escape state across Accept calls, invoking
// its callback whenever depth returns to zero outside a string.
//
// Not safe for concurrent Accept calls, per spec.md §5; a single Chunker
// must be driven from one goroutine at a time.
type Chunker struct {
	maxDocBytes int
	strict      bool
	cb          func(doc []byte) error

	buf        []byte
	docStart   int // offset into buf where the in-progress document begins
	depth      int
	inString   bool
	escaped    bool
	sawContent bool // whether any non-whitespace byte has been seen since docStart
	primitive  bool // top-level value open so far has no bracket/quote delimiter
}

// Accept appends buf[:n] to the stream. Call with n == -1 to signal
// end-of-stream: any unterminated document is an error in strict mode and
// silently discarded otherwise.
func (c *Chunker) Accept(buf []byte, n int) error {
	if n == -1 {
		return c.finish()
	}
	for _, b := range buf[:n] {
		c.buf = append(c.buf, b)
		if err := c.step(b); err != nil {
			return err
		}
		if c.maxDocBytes > 0 && len(c.buf)-c.docStart > c.maxDocBytes {
			return raise(nil, "document exceeds max_doc_bytes")
		}
	}
	return nil
}

func (c *Chunker) step(b byte) error {
	if c.inString {
		switch {
		case c.escaped:
			c.escaped = false
		case b == '\\':
			c.escaped = true
		case b == '"':
			c.inString = false
			if c.depth == 0 {
				return c.emitBracketed()
			}
		}
		return nil
	}
	switch b {
	case '"':
		if c.depth == 0 && !c.sawContent {
			c.primitive = false
		}
		c.inString = true
		c.sawContent = true
		return nil
	case '{', '[':
		if c.depth == 0 {
			c.primitive = false
		}
		c.depth++
		c.sawContent = true
		return nil
	case '}', ']':
		c.depth--
		if c.depth < 0 {
			return raise(nil, "unexpected closing delimiter")
		}
		if c.depth == 0 {
			return c.emitBracketed()
		}
		return nil
	case ' ', '\t', '\r', '\n':
		if c.depth == 0 {
			if !c.sawContent {
				// whitespace between documents: advance docStart past it.
				c.docStart = len(c.buf)
				return nil
			}
			if c.primitive {
				return c.emitPrimitive(len(c.buf) - 1)
			}
		}
		return nil
	default:
		if c.depth == 0 && !c.sawContent {
			c.primitive = true
		}
		c.sawContent = true
		return nil
	}
}

// emitBracketed fires the callback for a document whose outermost form is
// an object, array, or string, now that its closing delimiter has just
// been consumed.
func (c *Chunker) emitBracketed() error {
	doc := c.buf[c.docStart:len(c.buf)]
	if err := c.cb(doc); err != nil {
		return err
	}
	c.docStart = len(c.buf)
	c.sawContent = false
	c.primitive = false
	return nil
}

// emitPrimitive fires the callback for a bare top-level primitive
// (number/true/false/null) whose end was just proven by a following
// whitespace byte at buf[end].
func (c *Chunker) emitPrimitive(end int) error {
	doc := c.buf[c.docStart:end]
	if err := c.cb(doc); err != nil {
		return err
	}
	c.docStart = len(c.buf)
	c.sawContent = false
	c.primitive = false
	return nil
}

func (c *Chunker) finish() error {
	if c.inString || c.depth != 0 {
		if c.strict {
			return raise(nil, "unclosed value at end of stream")
		}
		return nil
	}
	if c.sawContent && c.docStart < len(c.buf) {
		doc := c.buf[c.docStart:len(c.buf)]
		if err := c.cb(doc); err != nil {
			return err
		}
		c.docStart = len(c.buf)
	}
	return nil
}

// NewFileChunker opens path via fs, reads it in 64 KiB segments -- the
// concrete "line-delimited JSON over a 64 KiB file reader" instantiation
// spec.md §1 describes in prose -- and drives a Chunker built from
// maxDocBytes/strict, invoking cb per framed document.
func NewFileChunker(fs afero.Fs, path string, maxDocBytes int, strict bool, cb func(doc []byte) error) error {
	f, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	chunker := NewChunkerBuilder(maxDocBytes, strict).Build(cb)
	buf := make([]byte, 64*1024)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if aerr := chunker.Accept(buf, n); aerr != nil {
				return aerr
			}
		}
		if rerr == io.EOF {
			return chunker.Accept(nil, -1)
		}
		if rerr != nil {
			return rerr
		}
	}
}
