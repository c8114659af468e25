package curves

import (
	"errors"

	"github.com/smallyu/go-eddystone-eid/internal/crypto/field"
	"github.com/smallyu/go-eddystone-eid/pkg/eid"
)

// a24 is (A - 2) / 4 for Curve25519, A = 486662.
const a24 = 121665

// BasePoint is the u-coordinate of the Curve25519 generator.
var BasePoint = [32]byte{9}

// X25519 is Curve25519 in Montgomery form, with a pluggable field backend.
type X25519 struct {
	f   field.Field
	a24 field.Element
}

// NewX25519 returns the curve computed over f.
func NewX25519(f field.Field) *X25519 {
	return &X25519{f: f, a24: f.FromUint64(a24)}
}

func (c *X25519) Name() string {
	return "X25519/" + c.f.Name()
}

// Clamp turns 32 arbitrary bytes into a private scalar: the low three bits
// are cleared, bit 255 is cleared and bit 254 is set.
func Clamp(source [32]byte) [32]byte {
	source[0] &= 248
	source[31] &= 127
	source[31] |= 64
	return source
}

func (c *X25519) ScalarBaseMult(scalar [32]byte) [32]byte {
	return c.ScalarMult(scalar, BasePoint)
}

// ScalarMult clamps scalar and multiplies point by it. Bit 255 of point is
// ignored. Degenerate points are accepted and may produce all zeros.
func (c *X25519) ScalarMult(scalar, point [32]byte) [32]byte {
	k := Clamp(scalar)
	f := c.f

	x1, err := f.SetBytes(point[:])
	if err != nil {
		// Unreachable: point is always 32 bytes.
		panic(err)
	}

	// (x2 : z2) tracks k' * P and (x3 : z3) tracks (k' + 1) * P,
	// where k' is the prefix of k consumed so far.
	x2, z2 := f.One(), f.Zero()
	x3, z3 := x1, f.One()

	swap := 0
	for i := 255; i >= 0; i-- {
		bit := int(k[i/8]>>(uint(i)%8)) & 1
		swap ^= bit
		x2, x3 = f.Swap(x2, x3, swap)
		z2, z3 = f.Swap(z2, z3, swap)
		swap = bit
		x2, z2, x3, z3 = c.ladderStep(x1, x2, z2, x3, z3)
	}
	x2, _ = f.Swap(x2, x3, swap)
	z2, _ = f.Swap(z2, z3, swap)

	return c.affine(x2, z2)
}

// ladderStep returns 2*(x2 : z2) and (x2 : z2) + (x3 : z3), given that their
// difference has u-coordinate x1.
func (c *X25519) ladderStep(x1, x2, z2, x3, z3 field.Element) (field.Element, field.Element, field.Element, field.Element) {
	a := x2.Add(z2)
	aa := a.Mul(a)
	b := x2.Sub(z2)
	bb := b.Mul(b)
	e := aa.Sub(bb)
	cc := x3.Add(z3)
	d := x3.Sub(z3)
	da := d.Mul(a)
	cb := cc.Mul(b)

	sum := da.Add(cb)
	diff := da.Sub(cb)
	x3 = sum.Mul(sum)
	z3 = x1.Mul(diff.Mul(diff))
	x2 = aa.Mul(bb)
	z2 = e.Mul(aa.Add(c.a24.Mul(e)))
	return x2, z2, x3, z3
}

// affine converts (x : z) to x/z. The point at infinity, z = 0, encodes as zero.
func (c *X25519) affine(x, z field.Element) [32]byte {
	var out [32]byte
	zInv, err := z.Invert()
	if errors.Is(err, eid.ErrArithmetic) {
		return out
	}
	copy(out[:], x.Mul(zInv).Bytes())
	return out
}
