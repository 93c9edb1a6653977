package common

import (
	"math"
	"strconv"
	"sync"

	"github.com/squareup/strata/errors"
)

// maxShortestFloatLength bounds the output of DoubleConverter.AppendShortest. Values never exceed it; crossing it
// is reported as a CannotPrintFloat error.
const maxShortestFloatLength = 32

// DoubleConverter writes the shortest decimal string that parses back to exactly the same float.
// Numbers whose decimal exponent lies in [DecimalInShortestLow, DecimalInShortestHigh) are written in plain
// notation, all others in exponential notation.
type DoubleConverter struct {
	InfinitySymbol           string
	NaNSymbol                string
	ExponentCharacter        byte
	DecimalInShortestLow     int
	DecimalInShortestHigh    int
	EmitPositiveExponentSign bool
}

var (
	doubleConverterOnce sync.Once
	doubleConverter     *DoubleConverter
)

// ShortestDoubleConverter returns the process wide converter used by every text and JSON float serialization.
func ShortestDoubleConverter() *DoubleConverter {
	doubleConverterOnce.Do(func() {
		doubleConverter = &DoubleConverter{
			InfinitySymbol:           "inf",
			NaNSymbol:                "nan",
			ExponentCharacter:        'e',
			DecimalInShortestLow:     -6,
			DecimalInShortestHigh:    21,
			EmitPositiveExponentSign: true,
		}
	})
	return doubleConverter
}

// AppendShortest appends the shortest representation of x to dst. bitSize is 32 for values that were float32,
// in which case the shortest string round tripping through float32 is produced.
func (c *DoubleConverter) AppendShortest(dst []byte, x float64, bitSize int) ([]byte, error) {
	start := len(dst)
	switch {
	case math.IsNaN(x):
		return append(dst, c.NaNSymbol...), nil
	case math.IsInf(x, 1):
		return append(dst, c.InfinitySymbol...), nil
	case math.IsInf(x, -1):
		dst = append(dst, '-')
		return append(dst, c.InfinitySymbol...), nil
	case x == 0:
		if math.Signbit(x) {
			dst = append(dst, '-')
		}
		return append(dst, '0'), nil
	}

	var scratch [32]byte
	s := strconv.AppendFloat(scratch[:0], x, 'e', -1, bitSize)
	if s[0] == '-' {
		dst = append(dst, '-')
		s = s[1:]
	}
	// s is d[.ddd]e±xx
	ePos := 0
	for ePos < len(s) && s[ePos] != 'e' {
		ePos++
	}
	if ePos == len(s) {
		return nil, errors.NewCannotPrintFloatError(bitSize)
	}
	var digits [24]byte
	n := 0
	for _, ch := range s[:ePos] {
		if ch != '.' {
			digits[n] = ch
			n++
		}
	}
	exponent, err := strconv.Atoi(string(s[ePos+1:]))
	if err != nil {
		return nil, errors.NewCannotPrintFloatError(bitSize)
	}

	if c.DecimalInShortestLow <= exponent && exponent < c.DecimalInShortestHigh {
		dst = appendDecimalRepresentation(dst, digits[:n], exponent+1)
	} else {
		dst = c.appendExponentialRepresentation(dst, digits[:n], exponent)
	}
	if len(dst)-start > maxShortestFloatLength {
		return nil, errors.NewCannotPrintFloatError(bitSize)
	}
	return dst, nil
}

func appendDecimalRepresentation(dst []byte, digits []byte, decimalPoint int) []byte {
	switch {
	case decimalPoint <= 0:
		dst = append(dst, '0', '.')
		for i := 0; i < -decimalPoint; i++ {
			dst = append(dst, '0')
		}
		return append(dst, digits...)
	case decimalPoint >= len(digits):
		dst = append(dst, digits...)
		for i := len(digits); i < decimalPoint; i++ {
			dst = append(dst, '0')
		}
		return dst
	default:
		dst = append(dst, digits[:decimalPoint]...)
		dst = append(dst, '.')
		return append(dst, digits[decimalPoint:]...)
	}
}

func (c *DoubleConverter) appendExponentialRepresentation(dst []byte, digits []byte, exponent int) []byte {
	dst = append(dst, digits[0])
	if len(digits) > 1 {
		dst = append(dst, '.')
		dst = append(dst, digits[1:]...)
	}
	dst = append(dst, c.ExponentCharacter)
	if exponent < 0 {
		dst = append(dst, '-')
		exponent = -exponent
	} else if c.EmitPositiveExponentSign {
		dst = append(dst, '+')
	}
	return strconv.AppendInt(dst, int64(exponent), 10)
}
