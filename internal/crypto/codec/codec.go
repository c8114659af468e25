// Package codec converts between little-endian byte strings and big integers,
// and parses the prefixed binary arguments accepted by the eid tools.
package codec

import (
	"encoding/base64"
	"encoding/hex"
	"math/big"
	"strconv"

	"github.com/smallyu/go-eddystone-eid/pkg/eid"
)

// Binary argument prefixes.
const (
	PrefixASCII   = 'a'
	PrefixHex     = 'h'
	PrefixBase64  = 'b'
	PrefixDecimal = 'd'
)

// ToBinary encodes x as a little-endian byte string of exactly length bytes,
// zero-padded on the high-order side.
func ToBinary(x *big.Int, length int) ([]byte, error) {
	if x == nil || x.Sign() < 0 {
		return nil, eid.Errorf("to binary", eid.ErrEncoding, "value must be a non-negative integer")
	}
	if length < 0 || x.BitLen() > 8*length {
		return nil, eid.Errorf("to binary", eid.ErrEncoding, "value needs %d bits, have %d bytes", x.BitLen(), length)
	}
	out := x.FillBytes(make([]byte, length))
	reverse(out)
	return out, nil
}

// FromBinary interprets b as a little-endian unsigned integer.
func FromBinary(b []byte) *big.Int {
	// big.Int wants big-endian.
	buf := make([]byte, len(b))
	copy(buf, b)
	reverse(buf)
	return new(big.Int).SetBytes(buf)
}

// ParseBinaryArgument decodes text according to its first character:
//
//	a  the rest is taken literally
//	h  the rest is hex
//	b  the rest is standard base64
//	d  the rest is a decimal integer, encoded little-endian to requiredLength bytes
//
// A requiredLength of zero or less means any length is accepted, in which case
// the decimal form is unavailable.
func ParseBinaryArgument(text string, requiredLength int) ([]byte, error) {
	const op = "parse binary argument"
	if text == "" {
		return nil, eid.Errorf(op, eid.ErrInputFormat, "empty argument")
	}

	var (
		out []byte
		err error
	)
	rest := text[1:]
	switch text[0] {
	case PrefixASCII:
		out = []byte(rest)
	case PrefixHex:
		out, err = hex.DecodeString(rest)
		if err != nil {
			return nil, eid.NewError(op, eid.ErrInputFormat, "invalid hex", err)
		}
	case PrefixBase64:
		out, err = base64.StdEncoding.DecodeString(rest)
		if err != nil {
			return nil, eid.NewError(op, eid.ErrInputFormat, "invalid base64", err)
		}
	case PrefixDecimal:
		if requiredLength <= 0 {
			return nil, eid.Errorf(op, eid.ErrInputFormat, "decimal form needs a fixed length")
		}
		n, ok := new(big.Int).SetString(rest, 10)
		if !ok || n.Sign() < 0 {
			return nil, eid.Errorf(op, eid.ErrInputFormat, "invalid decimal %q", rest)
		}
		out, err = ToBinary(n, requiredLength)
		if err != nil {
			return nil, eid.NewError(op, eid.ErrInputFormat, "decimal value too large", err)
		}
	default:
		return nil, eid.Errorf(op, eid.ErrInputFormat, "unknown prefix %q", text[0])
	}

	if requiredLength > 0 && len(out) != requiredLength {
		return nil, eid.Errorf(op, eid.ErrInputFormat, "binary data must have %d bytes, got %d", requiredLength, len(out))
	}
	return out, nil
}

// ParseInteger parses a decimal integer, or a hex one written as 0x1234.
func ParseInteger(text string) (uint64, error) {
	v, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		return 0, eid.NewError("parse integer", eid.ErrInputFormat, "", err)
	}
	return v, nil
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
