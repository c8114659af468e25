// Package field implements arithmetic modulo P = 2^255 - 19.
//
// Two backends satisfy the same Field interface: a math/big one that follows
// the textbook formulas, and a fixed-width one backed by
// filippo.io/edwards25519/field. The curve code only sees the interfaces.
package field

import (
	"math/big"
)

// P is the field prime 2^255 - 19.
var P = func() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 255)
	return p.Sub(p, big.NewInt(19))
}()

// Size is the length of an encoded element.
const Size = 32

// Element is a value in GF(P). Elements are immutable; every operation returns
// a new Element. Mixing elements from different backends panics.
type Element interface {
	// Add returns e + o mod P.
	Add(o Element) Element

	// Sub returns e - o mod P.
	Sub(o Element) Element

	// Mul returns e * o mod P.
	Mul(o Element) Element

	// Invert returns 1/e mod P. Zero has no inverse and yields ErrArithmetic.
	Invert() (Element, error)

	// IsZero reports whether e is 0 mod P.
	IsZero() bool

	// Bytes returns the canonical 32-byte little-endian encoding, in [0, P).
	Bytes() []byte
}

// Field creates elements and performs operations that span two of them.
type Field interface {
	// Name identifies the backend.
	Name() string

	// Zero returns the additive identity.
	Zero() Element

	// One returns the multiplicative identity.
	One() Element

	// FromUint64 returns v mod P.
	FromUint64(v uint64) Element

	// SetBytes decodes a 32-byte little-endian value. Bit 255 is ignored and
	// non-canonical values are reduced.
	SetBytes(b []byte) (Element, error)

	// Swap returns (b, a) when cond is 1 and (a, b) when cond is 0,
	// without branching on cond.
	Swap(a, b Element, cond int) (Element, Element)
}

// ByName returns the backend registered under name. The empty name selects
// the default big-integer backend.
func ByName(name string) (Field, bool) {
	switch name {
	case "", BigName:
		return NewBig(), true
	case FixedName:
		return NewFixed(), true
	}
	return nil, false
}
