package keyagreement

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/curve25519"

	"github.com/smallyu/go-eddystone-eid/internal/crypto/curves"
	"github.com/smallyu/go-eddystone-eid/internal/crypto/field"
	"github.com/smallyu/go-eddystone-eid/pkg/eid"
)

func seq(start byte) [32]byte {
	var b [32]byte
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}

func TestGenerateKeyPairVector(t *testing.T) {
	kp := GenerateKeyPair(seq(1))
	assert.Equal(t, "0002030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f60", hex.EncodeToString(kp.Private[:]))
	assert.Equal(t, "07a37cbc142093c8b755dc1b10e86cb426374ad16aa853ed0bdfc0b2b86d1c7c", kp.Public.String())
}

func TestSharedSecretAgrees(t *testing.T) {
	service := GenerateKeyPair(seq(1))
	beacon := GenerateKeyPair(seq(0x40))

	s1 := ComputeSharedSecret(beacon.Private, service.Public)
	s2 := ComputeSharedSecret(service.Private, beacon.Public)
	assert.Equal(t, s1, s2)
	assert.Equal(t, "ae4440cc8d7faddb2894172b78e3d745cafa0098bcc10d7ee0fda08fa85a9a2e", hex.EncodeToString(s1[:]))
	assert.False(t, s1.IsZero())
}

func TestSharedSecretMatchesReference(t *testing.T) {
	a := New(curves.NewX25519(field.NewFixed()))
	for i := 0; i < 4; i++ {
		mine, err := a.NewKeyPair(nil)
		require.NoError(t, err)
		peer, err := a.NewKeyPair(rand.Reader)
		require.NoError(t, err)

		want, err := curve25519.X25519(mine.Private[:], peer.Public[:])
		require.NoError(t, err)
		got := a.ComputeSharedSecret(mine.Private, peer.Public)
		assert.Equal(t, want, got[:])
	}
}

func TestDegeneratePeerKey(t *testing.T) {
	beacon := GenerateKeyPair(seq(0x40))
	s := ComputeSharedSecret(beacon.Private, eid.PublicKey{})
	assert.True(t, s.IsZero())
}

func TestNewKeyPairIsClamped(t *testing.T) {
	src := bytes.Repeat([]byte{0xff}, 32)
	kp, err := NewKeyPair(bytes.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, byte(0xf8), kp.Private[0])
	assert.Equal(t, byte(0x7f), kp.Private[31])
}

func TestNewKeyPairShortRead(t *testing.T) {
	_, err := NewKeyPair(bytes.NewReader(make([]byte, 10)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	var eidErr *eid.Error
	require.True(t, errors.As(err, &eidErr))
	assert.Equal(t, "generate key pair", eidErr.Op)
	assert.Nil(t, eidErr.Kind)
}
