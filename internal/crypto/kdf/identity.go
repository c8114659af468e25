// Package kdf derives the beacon identity key from an X25519 shared secret.
package kdf

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/smallyu/go-eddystone-eid/pkg/eid"
)

// okmSize is how much HKDF output is expanded; only the first
// eid.IdentityKeySize bytes are kept.
const okmSize = 32

// Derivation holds the intermediate values of an identity key derivation.
type Derivation struct {
	Salt        []byte // servicePublic || beaconPublic
	PRK         []byte // HKDF-Extract output
	IdentityKey eid.IdentityKey
}

// Derive runs HKDF-SHA256 with salt = servicePublic || beaconPublic, an empty
// info string, and keeps the first 16 bytes of a 32-byte expansion.
// All three inputs must be 32 bytes long.
func Derive(sharedSecret, servicePublic, beaconPublic []byte) (*Derivation, error) {
	const op = "derive identity key"
	for _, in := range []struct {
		name string
		b    []byte
	}{
		{"shared secret", sharedSecret},
		{"service public key", servicePublic},
		{"beacon public key", beaconPublic},
	} {
		if len(in.b) != 32 {
			return nil, eid.Errorf(op, eid.ErrInvalidKeyLength, "%s has %d bytes, want 32", in.name, len(in.b))
		}
	}

	// The order of the public keys is fixed; both sides must agree on it.
	salt := make([]byte, 0, 64)
	salt = append(salt, servicePublic...)
	salt = append(salt, beaconPublic...)

	prk := hkdf.Extract(sha256.New, sharedSecret, salt)
	okm := make([]byte, okmSize)
	// HKDF-SHA256 can expand up to 255*32 bytes, so this read does not fail.
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, prk, nil), okm); err != nil {
		return nil, eid.NewError(op, nil, "hkdf expand", err)
	}

	d := &Derivation{Salt: salt, PRK: prk}
	copy(d.IdentityKey[:], okm[:eid.IdentityKeySize])
	return d, nil
}

// DeriveIdentityKey returns only the identity key of Derive.
func DeriveIdentityKey(sharedSecret, servicePublic, beaconPublic []byte) (eid.IdentityKey, error) {
	d, err := Derive(sharedSecret, servicePublic, beaconPublic)
	if err != nil {
		return eid.IdentityKey{}, err
	}
	return d.IdentityKey, nil
}
