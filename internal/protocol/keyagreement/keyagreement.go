// Package keyagreement generates beacon key pairs and computes X25519 shared
// secrets with a service.
package keyagreement

import (
	"crypto/rand"
	"io"

	"github.com/smallyu/go-eddystone-eid/internal/crypto/curves"
	"github.com/smallyu/go-eddystone-eid/pkg/eid"
)

// KeyPair is a clamped private key and its public key.
type KeyPair struct {
	Private eid.PrivateKey
	Public  eid.PublicKey
}

// Agreement performs key agreement on a given curve.
type Agreement struct {
	curve curves.Curve
}

// New returns an Agreement on curve. A nil curve selects curves.Default().
func New(curve curves.Curve) *Agreement {
	if curve == nil {
		curve = curves.Default()
	}
	return &Agreement{curve: curve}
}

// GenerateKeyPair clamps source into a private key and derives its public key.
// source must come from a cryptographically secure generator; it is not checked.
func (a *Agreement) GenerateKeyPair(source [32]byte) KeyPair {
	priv := curves.Clamp(source)
	return KeyPair{
		Private: priv,
		Public:  a.curve.ScalarBaseMult(priv),
	}
}

// NewKeyPair draws 32 bytes from random and generates a key pair from them.
// A nil random uses crypto/rand.
func (a *Agreement) NewKeyPair(random io.Reader) (KeyPair, error) {
	if random == nil {
		random = rand.Reader
	}
	var source [32]byte
	if _, err := io.ReadFull(random, source[:]); err != nil {
		return KeyPair{}, eid.NewError("generate key pair", nil, "reading randomness", err)
	}
	return a.GenerateKeyPair(source), nil
}

// ComputeSharedSecret computes private * peer. An all-zero result means the
// peer key is degenerate; it is returned without error.
func (a *Agreement) ComputeSharedSecret(private eid.PrivateKey, peer eid.PublicKey) eid.SharedSecret {
	return a.curve.ScalarMult(private, peer)
}

var defaultAgreement = New(nil)

// GenerateKeyPair uses the default curve.
func GenerateKeyPair(source [32]byte) KeyPair {
	return defaultAgreement.GenerateKeyPair(source)
}

// NewKeyPair uses the default curve.
func NewKeyPair(random io.Reader) (KeyPair, error) {
	return defaultAgreement.NewKeyPair(random)
}

// ComputeSharedSecret uses the default curve.
func ComputeSharedSecret(private eid.PrivateKey, peer eid.PublicKey) eid.SharedSecret {
	return defaultAgreement.ComputeSharedSecret(private, peer)
}
