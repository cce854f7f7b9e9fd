package jcodec

import "math/bits"

// StringMatrix matches an incoming character stream against up to 63
// candidate strings in O(field-length) time without ever materializing the
// field as a string: a dense codepoint table plus a 64-bit active-candidate
// bitmask, per spec.md §3/§4.4. It is immutable after construction and may
// be shared across goroutines.
type StringMatrix struct {
	names   []string
	width   int
	height  int
	lengths []int
	initial uint64
	// table[charIndex][stringIndex] is the rune expected at that position
	// for that candidate, or -1 if the candidate is shorter than charIndex.
	table [][]int32
}

// NewStringMatrix builds a StringMatrix over xs, which must contain
// between 1 and 63 non-empty candidate names.
func NewStringMatrix(xs []string) *StringMatrix {
	width := len(xs)
	if width == 0 || width > 63 {
		panic("jcodec: StringMatrix requires 1..=63 candidates")
	}
	height := 0
	lengths := make([]int, width)
	for i, s := range xs {
		if len(s) == 0 {
			panic("jcodec: StringMatrix candidate names must be non-empty")
		}
		n := len([]rune(s))
		lengths[i] = n
		if n > height {
			height = n
		}
	}
	table := make([][]int32, height)
	for c := 0; c < height; c++ {
		row := make([]int32, width)
		for s, name := range xs {
			runes := []rune(name)
			if c < len(runes) {
				row[s] = runes[c]
			} else {
				row[s] = -1
			}
		}
		table[c] = row
	}
	names := make([]string, width)
	copy(names, xs)
	return &StringMatrix{
		names:   names,
		width:   width,
		height:  height,
		lengths: lengths,
		initial: (uint64(1) << uint(width)) - 1,
		table:   table,
	}
}

// Initial is the mask with every candidate bit set.
func (m *StringMatrix) Initial() uint64 { return m.initial }

// Update clears the bit of every candidate whose character at charIndex
// differs from c, returning the narrowed mask. charIndex must be called
// with strictly increasing values starting at 0 across a single match.
func (m *StringMatrix) Update(mask uint64, charIndex int, c rune) uint64 {
	if mask == 0 || charIndex >= m.height {
		return 0
	}
	if mask == m.initial {
		// Fast, branch-predictable path: dense iteration over every
		// candidate, since nothing has been eliminated yet.
		var next uint64
		row := m.table[charIndex]
		for s := 0; s < m.width; s++ {
			if row[s] == int32(c) {
				next |= uint64(1) << uint(s)
			}
		}
		return next
	}
	var next uint64
	row := m.table[charIndex]
	for mask != 0 {
		s := bits.TrailingZeros64(mask)
		bit := uint64(1) << uint(s)
		mask &^= bit
		if row[s] == int32(c) {
			next |= bit
		}
	}
	return next
}

// Exact clears the bits of candidates whose length differs from length,
// removing candidates that are proper prefixes of the matched input.
func (m *StringMatrix) Exact(mask uint64, length int) uint64 {
	var next uint64
	for mask != 0 {
		s := bits.TrailingZeros64(mask)
		bit := uint64(1) << uint(s)
		mask &^= bit
		if m.lengths[s] == length {
			next |= bit
		}
	}
	return next
}

// First returns the lowest set bit's candidate index, or -1 if mask is
// empty.
func (m *StringMatrix) First(mask uint64) int {
	if mask == 0 {
		return -1
	}
	return bits.TrailingZeros64(mask)
}

// Name returns the candidate name at ordinal i.
func (m *StringMatrix) Name(i int) string { return m.names[i] }

// Len returns the number of candidates.
func (m *StringMatrix) Len() int { return m.width }
