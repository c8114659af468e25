package field

import (
	"math/big"

	"github.com/smallyu/go-eddystone-eid/internal/crypto/codec"
	"github.com/smallyu/go-eddystone-eid/pkg/eid"
)

// BigName is the name of the math/big backend.
const BigName = "big"

var pMinus2 = new(big.Int).Sub(P, big.NewInt(2))

type bigField struct{}

// NewBig returns the math/big backend. Values are kept reduced into [0, P).
func NewBig() Field {
	return bigField{}
}

func (bigField) Name() string { return BigName }

func (bigField) Zero() Element { return &BigElement{v: new(big.Int)} }

func (bigField) One() Element { return &BigElement{v: big.NewInt(1)} }

func (bigField) FromUint64(v uint64) Element {
	return reduce(new(big.Int).SetUint64(v))
}

func (bigField) SetBytes(b []byte) (Element, error) {
	if len(b) != Size {
		return nil, eid.Errorf("field set bytes", eid.ErrInvalidKeyLength, "got %d bytes, want %d", len(b), Size)
	}
	v := codec.FromBinary(b)
	v.SetBit(v, 255, 0)
	return reduce(v), nil
}

func (bigField) Swap(a, b Element, cond int) (Element, Element) {
	x := mustBig(a).v.FillBytes(make([]byte, Size))
	y := mustBig(b).v.FillBytes(make([]byte, Size))
	mask := byte(-cond)
	for i := range x {
		t := mask & (x[i] ^ y[i])
		x[i] ^= t
		y[i] ^= t
	}
	return &BigElement{v: new(big.Int).SetBytes(x)}, &BigElement{v: new(big.Int).SetBytes(y)}
}

// BigElement implements Element on top of math/big.
type BigElement struct {
	v *big.Int
}

// Int returns a copy of the element's value.
func (e *BigElement) Int() *big.Int {
	return new(big.Int).Set(e.v)
}

func (e *BigElement) Add(o Element) Element {
	return reduce(new(big.Int).Add(e.v, mustBig(o).v))
}

func (e *BigElement) Sub(o Element) Element {
	return reduce(new(big.Int).Sub(e.v, mustBig(o).v))
}

func (e *BigElement) Mul(o Element) Element {
	return reduce(new(big.Int).Mul(e.v, mustBig(o).v))
}

// Invert uses Fermat's little theorem, a^(P-2) = a^-1 mod P.
func (e *BigElement) Invert() (Element, error) {
	if e.v.Sign() == 0 {
		return nil, eid.Errorf("field invert", eid.ErrArithmetic, "zero has no inverse")
	}
	return &BigElement{v: new(big.Int).Exp(e.v, pMinus2, P)}, nil
}

func (e *BigElement) IsZero() bool {
	return e.v.Sign() == 0
}

func (e *BigElement) Bytes() []byte {
	out, err := codec.ToBinary(e.v, Size)
	if err != nil {
		// Unreachable: elements are always below P.
		panic(err)
	}
	return out
}

func reduce(v *big.Int) *BigElement {
	// Mod is Euclidean, so negative differences land in [0, P).
	return &BigElement{v: v.Mod(v, P)}
}

func mustBig(e Element) *BigElement {
	b, ok := e.(*BigElement)
	if !ok {
		panic("type mismatch")
	}
	return b
}
