package jcodec

import (
	"math"
	"math/big"
	"strconv"

	"github.com/xenking/jcodec/internal/config"
)

// unsafeNumberScan holds the raw digit text and derived shape of a number
// scanned from a CharReader, before it has been validated against its
// target numberKind. Splitting scan from validation lets the digit count
// be tracked while scanning -- not after -- per spec.md §4.3's design
// rationale.
type unsafeNumberScan struct {
	text    []byte
	isFloat bool
	digits  int // count of [0-9] digits seen, excluding sign/./e/E/+-
}

// scanUnsafeNumber consumes characters matching the JSON number grammar
// `[-]digit+(.digit+)?([eE][+-]?digit+)?` from r, tolerating a redundant
// leading '+' on the exponent (spec.md §6 decode-side extension). It
// over-reads by one character to find the end of the number and retracts
// that character itself before returning, so the caller does not Retract;
// at end of input nothing is over-read.
func scanUnsafeNumber(trace *Trace, r CharReader) (*unsafeNumberScan, *DecodeError) {
	scan := &unsafeNumberScan{text: make([]byte, 0, 24)}

	c, err := r.ReadChar()
	if err != nil {
		return nil, err
	}
	if c == '-' {
		scan.text = append(scan.text, '-')
		c, err = r.ReadChar()
		if err != nil {
			return nil, err
		}
	}
	if c < '0' || c > '9' {
		return nil, raise(trace, "expected a number, got "+string(c))
	}
	for c >= '0' && c <= '9' {
		scan.text = append(scan.text, byte(c))
		scan.digits++
		c, err = r.ReadChar()
		if err != nil {
			return scan, nil
		}
	}

	if c == '.' {
		scan.isFloat = true
		scan.text = append(scan.text, '.')
		c, err = r.ReadChar()
		if err != nil {
			return nil, err
		}
		if c < '0' || c > '9' {
			return nil, raise(trace, "expected a number")
		}
		for c >= '0' && c <= '9' {
			scan.text = append(scan.text, byte(c))
			scan.digits++
			c, err = r.ReadChar()
			if err != nil {
				return scan, nil
			}
		}
	}

	if c == 'e' || c == 'E' {
		scan.isFloat = true
		scan.text = append(scan.text, byte(c))
		c, err = r.ReadChar()
		if err != nil {
			return nil, err
		}
		if c == '+' || c == '-' {
			scan.text = append(scan.text, byte(c))
			c, err = r.ReadChar()
			if err != nil {
				return nil, err
			}
		}
		if c < '0' || c > '9' {
			return nil, raise(trace, "expected a number")
		}
		for c >= '0' && c <= '9' {
			scan.text = append(scan.text, byte(c))
			scan.digits++
			c, err = r.ReadChar()
			if err != nil {
				return scan, nil
			}
		}
	}

	r.Retract()
	return scan, nil
}

// maxDigitsForBits is spec.md §8 property 6's bound: ceil(k*log10(2))+1.
func maxDigitsForBits(bits int) int {
	return int(math.Ceil(float64(bits)*math.Log10(2))) + 1
}

func expectedTypeError(trace *Trace, typeName string) *DecodeError {
	return raise(trace, "expected a "+typeName)
}

func parseInt64(trace *Trace, scan *unsafeNumberScan, typeName string, bitSize int) (int64, *DecodeError) {
	if scan.isFloat {
		return 0, expectedTypeError(trace, typeName)
	}
	n, err := strconv.ParseInt(string(scan.text), 10, bitSize)
	if err != nil {
		return 0, expectedTypeError(trace, typeName)
	}
	return n, nil
}

func parseBigInt(trace *Trace, scan *unsafeNumberScan) (*big.Int, *DecodeError) {
	if scan.isFloat {
		return nil, expectedTypeError(trace, "BigInteger")
	}
	maxDigits := maxDigitsForBits(config.NumberMaxBits())
	if scan.digits > maxDigits {
		return nil, expectedTypeError(trace, "BigInteger")
	}
	n, ok := new(big.Int).SetString(string(scan.text), 10)
	if !ok {
		return nil, expectedTypeError(trace, "BigInteger")
	}
	return n, nil
}

func parseFloatKind(trace *Trace, scan *unsafeNumberScan, typeName string, bitSize int) (float64, *DecodeError) {
	n, err := strconv.ParseFloat(string(scan.text), bitSize)
	if err != nil {
		return 0, expectedTypeError(trace, typeName)
	}
	return n, nil
}

func parseBigDecimal(trace *Trace, scan *unsafeNumberScan) (*big.Float, *DecodeError) {
	maxDigits := maxDigitsForBits(config.NumberMaxBits())
	if scan.digits > maxDigits {
		return nil, expectedTypeError(trace, "BigDecimal")
	}
	prec := uint(config.NumberMaxBits())
	f, _, err := big.ParseFloat(string(scan.text), 10, prec, big.ToNearestEven)
	if err != nil {
		return nil, expectedTypeError(trace, "BigDecimal")
	}
	return f, nil
}
