package curves

import (
	"github.com/smallyu/go-eddystone-eid/internal/crypto/field"
)

// Curve defines the Diffie-Hellman operations needed by the eid protocol.
type Curve interface {
	// Name returns the name of the curve.
	Name() string

	// ScalarBaseMult computes scalar * G, where G is the curve's generator.
	ScalarBaseMult(scalar [32]byte) [32]byte

	// ScalarMult computes scalar * point.
	ScalarMult(scalar, point [32]byte) [32]byte
}

var defaultCurve = NewX25519(field.NewBig())

// Default returns the X25519 curve running on the big-integer field backend.
func Default() Curve {
	return defaultCurve
}

// ScalarBaseMult computes scalar * G on the default curve.
func ScalarBaseMult(scalar [32]byte) [32]byte {
	return defaultCurve.ScalarBaseMult(scalar)
}

// ScalarMult computes scalar * point on the default curve.
func ScalarMult(scalar, point [32]byte) [32]byte {
	return defaultCurve.ScalarMult(scalar, point)
}
