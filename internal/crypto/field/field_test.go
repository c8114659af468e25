package field

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-eddystone-eid/internal/crypto/codec"
	"github.com/smallyu/go-eddystone-eid/pkg/eid"
)

func backends() []Field {
	return []Field{NewBig(), NewFixed()}
}

func mustSet(t *testing.T, f Field, v *big.Int) Element {
	t.Helper()
	b, err := codec.ToBinary(v, Size)
	require.NoError(t, err)
	e, err := f.SetBytes(b)
	require.NoError(t, err)
	return e
}

func toInt(e Element) *big.Int {
	return codec.FromBinary(e.Bytes())
}

func TestArithmetic(t *testing.T) {
	a, _ := new(big.Int).SetString("57896044618658097711785492504343953926634992332820282019728792003956564819940", 10) // P - 9
	b := big.NewInt(123456789)

	for _, f := range backends() {
		t.Run(f.Name(), func(t *testing.T) {
			ea, eb := mustSet(t, f, a), mustSet(t, f, b)

			sum := new(big.Int).Add(a, b)
			assert.Equal(t, sum.Mod(sum, P), toInt(ea.Add(eb)))

			diff := new(big.Int).Sub(b, a)
			assert.Equal(t, diff.Mod(diff, P), toInt(eb.Sub(ea)))

			prod := new(big.Int).Mul(a, b)
			assert.Equal(t, prod.Mod(prod, P), toInt(ea.Mul(eb)))

			inv, err := ea.Invert()
			require.NoError(t, err)
			assert.Equal(t, big.NewInt(1), toInt(inv.Mul(ea)))

			assert.True(t, ea.Mul(f.Zero()).IsZero())
			assert.Equal(t, toInt(ea), toInt(ea.Mul(f.One())))
		})
	}
}

func TestInvertZero(t *testing.T) {
	for _, f := range backends() {
		t.Run(f.Name(), func(t *testing.T) {
			_, err := f.Zero().Invert()
			assert.ErrorIs(t, err, eid.ErrArithmetic)

			// P itself reduces to zero.
			p, err := f.SetBytes(mustBytes(t, P))
			require.NoError(t, err)
			_, err = p.Invert()
			assert.ErrorIs(t, err, eid.ErrArithmetic)
		})
	}
}

func TestSetBytes(t *testing.T) {
	for _, f := range backends() {
		t.Run(f.Name(), func(t *testing.T) {
			// Bit 255 is ignored.
			b := make([]byte, Size)
			b[0] = 9
			b[31] = 0x80
			e, err := f.SetBytes(b)
			require.NoError(t, err)
			assert.Equal(t, big.NewInt(9), toInt(e))

			// P + 1 is non-canonical and reduces to 1.
			e, err = f.SetBytes(mustBytes(t, new(big.Int).Add(P, big.NewInt(1))))
			require.NoError(t, err)
			assert.Equal(t, big.NewInt(1), toInt(e))

			_, err = f.SetBytes(make([]byte, 31))
			assert.ErrorIs(t, err, eid.ErrInvalidKeyLength)
		})
	}
}

func TestFromUint64(t *testing.T) {
	for _, f := range backends() {
		e := f.FromUint64(121665)
		assert.Equal(t, big.NewInt(121665), toInt(e), f.Name())
	}
}

func TestSwap(t *testing.T) {
	for _, f := range backends() {
		t.Run(f.Name(), func(t *testing.T) {
			a, b := f.FromUint64(1), f.FromUint64(2)

			x, y := f.Swap(a, b, 0)
			assert.True(t, bytes.Equal(a.Bytes(), x.Bytes()))
			assert.True(t, bytes.Equal(b.Bytes(), y.Bytes()))

			x, y = f.Swap(a, b, 1)
			assert.True(t, bytes.Equal(b.Bytes(), x.Bytes()))
			assert.True(t, bytes.Equal(a.Bytes(), y.Bytes()))

			// Inputs are left untouched.
			assert.Equal(t, big.NewInt(1), toInt(a))
		})
	}
}

func TestBackendsAgree(t *testing.T) {
	big1, fixed := NewBig(), NewFixed()
	seed := []byte("field backends must agree on every operation")
	for i := 0; i < 32; i++ {
		in := make([]byte, Size)
		for j := range in {
			in[j] = seed[(i+j)%len(seed)] ^ byte(i*j)
		}
		a1, err := big1.SetBytes(in)
		require.NoError(t, err)
		a2, err := fixed.SetBytes(in)
		require.NoError(t, err)
		assert.Equal(t, a1.Bytes(), a2.Bytes())

		sq1, sq2 := a1.Mul(a1).Sub(big1.One()), a2.Mul(a2).Sub(fixed.One())
		assert.Equal(t, sq1.Bytes(), sq2.Bytes())
		assert.Equal(t, toInt(sq2), sq1.(*BigElement).Int())
	}
}

func TestByName(t *testing.T) {
	f, ok := ByName("")
	require.True(t, ok)
	assert.Equal(t, BigName, f.Name())

	f, ok = ByName(FixedName)
	require.True(t, ok)
	assert.Equal(t, FixedName, f.Name())

	_, ok = ByName("montgomery")
	assert.False(t, ok)
}

func mustBytes(t *testing.T, v *big.Int) []byte {
	t.Helper()
	b, err := codec.ToBinary(v, Size)
	require.NoError(t, err)
	return b
}

func TestMixedBackendsPanic(t *testing.T) {
	assert.Panics(t, func() {
		NewBig().One().Add(NewFixed().One())
	})
}
