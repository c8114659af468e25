package eid

import (
	"crypto/subtle"
	"encoding/hex"
)

// Sizes of the key material handled by the library, in bytes.
const (
	PrivateKeySize   = 32
	PublicKeySize    = 32
	SharedSecretSize = 32
	IdentityKeySize  = 16
	TemporaryKeySize = 16
	EphemeralIDSize  = 8
)

// MaxScaler is the largest rotation exponent. An EID rotates every 2^scaler seconds.
const MaxScaler = 15

// PrivateKey is a clamped Curve25519 scalar.
type PrivateKey [PrivateKeySize]byte

// PublicKey is the little-endian u-coordinate of a Curve25519 point.
// Any 32 bytes are accepted; no point validation is performed.
type PublicKey [PublicKeySize]byte

// SharedSecret is the output of the X25519 key agreement.
type SharedSecret [SharedSecretSize]byte

// IdentityKey is the long-lived beacon secret derived at registration.
type IdentityKey [IdentityKeySize]byte

// TemporaryKey is derived from the IdentityKey and the top 16 bits of beacon time.
type TemporaryKey [TemporaryKeySize]byte

// EphemeralID is the 8-byte identifier broadcast by the beacon.
type EphemeralID [EphemeralIDSize]byte

func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

func (id EphemeralID) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether the shared secret is all zero, which happens when the
// peer public key is a low-order or otherwise degenerate point.
// The result is a valid computation that callers must warn about.
func (s SharedSecret) IsZero() bool {
	var zero SharedSecret
	return subtle.ConstantTimeCompare(s[:], zero[:]) == 1
}

// Equal compares two identifiers in constant time.
func (id EphemeralID) Equal(other EphemeralID) bool {
	return subtle.ConstantTimeCompare(id[:], other[:]) == 1
}

// ValidateScaler checks that scaler is a valid rotation exponent.
func ValidateScaler(scaler int) error {
	if scaler < 0 || scaler > MaxScaler {
		return Errorf("validate scaler", ErrInvalidParameter, "rotation exponent %d out of range [0, %d]", scaler, MaxScaler)
	}
	return nil
}

// PrivateKeyFromBytes copies b into a PrivateKey. The bytes are not clamped.
func PrivateKeyFromBytes(b []byte) (PrivateKey, error) {
	var k PrivateKey
	if err := checkLength("private key", b, PrivateKeySize); err != nil {
		return k, err
	}
	copy(k[:], b)
	return k, nil
}

// PublicKeyFromBytes copies b into a PublicKey.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var k PublicKey
	if err := checkLength("public key", b, PublicKeySize); err != nil {
		return k, err
	}
	copy(k[:], b)
	return k, nil
}

// SharedSecretFromBytes copies b into a SharedSecret.
func SharedSecretFromBytes(b []byte) (SharedSecret, error) {
	var s SharedSecret
	if err := checkLength("shared secret", b, SharedSecretSize); err != nil {
		return s, err
	}
	copy(s[:], b)
	return s, nil
}

// IdentityKeyFromBytes copies b into an IdentityKey.
func IdentityKeyFromBytes(b []byte) (IdentityKey, error) {
	var k IdentityKey
	if err := checkLength("identity key", b, IdentityKeySize); err != nil {
		return k, err
	}
	copy(k[:], b)
	return k, nil
}

func checkLength(what string, b []byte, want int) error {
	if len(b) != want {
		return Errorf("decode "+what, ErrInvalidKeyLength, "got %d bytes, want %d", len(b), want)
	}
	return nil
}
