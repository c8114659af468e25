// Package ephemeral computes the temporary key and the rotating ephemeral
// identifier broadcast by a beacon.
//
// Both values are a single AES-128 block encryption of a 16-byte input:
//
//	temporary key block:  00 x11 | ff | 00 00 | t[31:24] t[23:16]
//	ephemeral id block:   00 x11 | scaler | q[31:24] q[23:16] q[15:8] q[7:0]
//
// where t is the beacon time in seconds and q is t with its low scaler bits
// cleared. The time fields are big-endian.
package ephemeral

import (
	"crypto/aes"
	"encoding/binary"

	"github.com/smallyu/go-eddystone-eid/pkg/eid"
)

const (
	blockSize = aes.BlockSize

	// tkMarker is the byte that separates temporary key blocks from EID blocks.
	tkMarker = 0xff
	// markerOffset is where tkMarker, or the scaler, sits in a block.
	markerOffset = 11
)

// Result holds every intermediate value of an EID computation.
type Result struct {
	TemporaryKeyBlock [blockSize]byte
	TemporaryKey      eid.TemporaryKey
	QuantizedTime     uint64
	EphemeralIDBlock  [blockSize]byte
	EphemeralID       eid.EphemeralID
}

// Quantize clears the low scaler bits of timestamp.
func Quantize(scaler uint8, timestamp uint64) uint64 {
	return (timestamp >> scaler) << scaler
}

// TemporaryKeyBlock lays out the input block of the temporary key. Only bits
// 16 to 31 of timestamp are used.
func TemporaryKeyBlock(timestamp uint64) [blockSize]byte {
	var b [blockSize]byte
	b[markerOffset] = tkMarker
	b[14] = byte(timestamp >> 24)
	b[15] = byte(timestamp >> 16)
	return b
}

// EphemeralIDBlock lays out the input block of the ephemeral identifier.
// timestamp is quantized before use.
func EphemeralIDBlock(scaler uint8, timestamp uint64) [blockSize]byte {
	var b [blockSize]byte
	b[markerOffset] = scaler
	binary.BigEndian.PutUint32(b[12:], uint32(Quantize(scaler, timestamp)))
	return b
}

// ComputeTemporaryKey encrypts the temporary key block under ik.
func ComputeTemporaryKey(ik eid.IdentityKey, timestamp uint64) (eid.TemporaryKey, error) {
	var tk eid.TemporaryKey
	block := TemporaryKeyBlock(timestamp)
	if err := encryptBlock(ik[:], tk[:], block[:]); err != nil {
		return tk, err
	}
	return tk, nil
}

// ComputeEphemeralID returns the identifier broadcast at timestamp by a beacon
// with identity key ik and rotation exponent scaler.
func ComputeEphemeralID(ik eid.IdentityKey, scaler uint8, timestamp uint64) (eid.EphemeralID, error) {
	r, err := Compute(ik, scaler, timestamp)
	if err != nil {
		return eid.EphemeralID{}, err
	}
	return r.EphemeralID, nil
}

// Compute is ComputeEphemeralID that also reports the intermediate blocks and keys.
func Compute(ik eid.IdentityKey, scaler uint8, timestamp uint64) (*Result, error) {
	if err := eid.ValidateScaler(int(scaler)); err != nil {
		return nil, err
	}

	r := &Result{
		TemporaryKeyBlock: TemporaryKeyBlock(timestamp),
		QuantizedTime:     Quantize(scaler, timestamp),
		EphemeralIDBlock:  EphemeralIDBlock(scaler, timestamp),
	}
	if err := encryptBlock(ik[:], r.TemporaryKey[:], r.TemporaryKeyBlock[:]); err != nil {
		return nil, err
	}

	var out [blockSize]byte
	if err := encryptBlock(r.TemporaryKey[:], out[:], r.EphemeralIDBlock[:]); err != nil {
		return nil, err
	}
	copy(r.EphemeralID[:], out[:eid.EphemeralIDSize])
	return r, nil
}

// encryptBlock is AES in ECB mode over exactly one block.
func encryptBlock(key, dst, src []byte) error {
	c, err := aes.NewCipher(key)
	if err != nil {
		return eid.NewError("aes", eid.ErrInvalidKeyLength, "", err)
	}
	c.Encrypt(dst, src)
	return nil
}
