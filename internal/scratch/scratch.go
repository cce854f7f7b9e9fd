package scratch

import (
	"unicode/utf8"
)

type Scratch struct {
	Data []byte
	fill int
}

// reset scratch buffer
func (s *Scratch) Reset() { s.fill = 0 }

// bytes returns the written contents of scratch buffer
func (s *Scratch) Bytes() []byte { return s.Data[0:s.fill] }

// Len returns the number of bytes written so far.
func (s *Scratch) Len() int { return s.fill }

// Grow ensures the buffer can accept n more bytes without reallocating.
func (s *Scratch) Grow(n int) {
	if s.Data == nil {
		s.Data = make([]byte, 64)
	}
	for s.fill+n >= cap(s.Data) {
		s.grow()
	}
}

// grow scratch buffer
func (s *Scratch) grow() {
	size := cap(s.Data) * 2
	if size == 0 {
		size = 64
	}
	ndata := make([]byte, size)
	copy(ndata, s.Data[:])
	s.Data = ndata
}

// append single byte to scratch buffer
func (s *Scratch) Add(c byte) {
	if s.fill+1 >= cap(s.Data) {
		s.grow()
	}

	s.Data[s.fill] = c
	s.fill++
}

// append encoded rune to scratch buffer
func (s *Scratch) AddRune(r rune) int {
	if s.fill+utf8.UTFMax >= cap(s.Data) {
		s.grow()
	}

	n := utf8.EncodeRune(s.Data[s.fill:], r)
	s.fill += n
	return n
}
