package field

import (
	"encoding/binary"

	fe "filippo.io/edwards25519/field"

	"github.com/smallyu/go-eddystone-eid/pkg/eid"
)

// FixedName is the name of the fixed-width backend.
const FixedName = "fixed"

type fixedField struct{}

// NewFixed returns a backend built on the 51-bit limb arithmetic of
// filippo.io/edwards25519/field.
func NewFixed() Field {
	return fixedField{}
}

func (fixedField) Name() string { return FixedName }

func (fixedField) Zero() Element {
	e := &FixedElement{}
	e.v.Zero()
	return e
}

func (fixedField) One() Element {
	e := &FixedElement{}
	e.v.One()
	return e
}

func (f fixedField) FromUint64(v uint64) Element {
	var buf [Size]byte
	binary.LittleEndian.PutUint64(buf[:8], v)
	e, _ := f.SetBytes(buf[:])
	return e
}

func (fixedField) SetBytes(b []byte) (Element, error) {
	e := &FixedElement{}
	if _, err := e.v.SetBytes(b); err != nil {
		return nil, eid.NewError("field set bytes", eid.ErrInvalidKeyLength, "", err)
	}
	return e, nil
}

func (fixedField) Swap(a, b Element, cond int) (Element, Element) {
	x, y := &FixedElement{}, &FixedElement{}
	x.v.Set(&mustFixed(a).v)
	y.v.Set(&mustFixed(b).v)
	x.v.Swap(&y.v, cond)
	return x, y
}

// FixedElement implements Element with filippo.io/edwards25519/field.Element.
type FixedElement struct {
	v fe.Element
}

func (e *FixedElement) Add(o Element) Element {
	r := &FixedElement{}
	r.v.Add(&e.v, &mustFixed(o).v)
	return r
}

func (e *FixedElement) Sub(o Element) Element {
	r := &FixedElement{}
	r.v.Subtract(&e.v, &mustFixed(o).v)
	return r
}

func (e *FixedElement) Mul(o Element) Element {
	r := &FixedElement{}
	r.v.Multiply(&e.v, &mustFixed(o).v)
	return r
}

func (e *FixedElement) Invert() (Element, error) {
	if e.IsZero() {
		return nil, eid.Errorf("field invert", eid.ErrArithmetic, "zero has no inverse")
	}
	r := &FixedElement{}
	r.v.Invert(&e.v)
	return r, nil
}

func (e *FixedElement) IsZero() bool {
	var zero fe.Element
	zero.Zero()
	return e.v.Equal(&zero) == 1
}

func (e *FixedElement) Bytes() []byte {
	return e.v.Bytes()
}

func mustFixed(e Element) *FixedElement {
	f, ok := e.(*FixedElement)
	if !ok {
		panic("type mismatch")
	}
	return f
}
