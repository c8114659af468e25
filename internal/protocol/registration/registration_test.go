package registration

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-eddystone-eid/internal/crypto/curves"
	"github.com/smallyu/go-eddystone-eid/internal/crypto/field"
	"github.com/smallyu/go-eddystone-eid/internal/protocol/keyagreement"
	"github.com/smallyu/go-eddystone-eid/pkg/eid"
)

func seq(start byte) []byte {
	b := make([]byte, 32)
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}

func servicePair() keyagreement.KeyPair {
	var src [32]byte
	copy(src[:], seq(1))
	return keyagreement.GenerateKeyPair(src)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestRegisterReproducible(t *testing.T) {
	service := servicePair()

	for _, f := range []field.Field{field.NewBig(), field.NewFixed()} {
		t.Run(f.Name(), func(t *testing.T) {
			reg, err := New(
				WithRandom(bytes.NewReader(seq(0x40))),
				WithLogger(discardLogger()),
				WithCurve(curves.NewX25519(f)),
			).Register(service.Public, 10, 1234567890)
			require.NoError(t, err)

			assert.Equal(t, "404142434445464748494a4b4c4d4e4f505152535455565758595a5b5c5d5e5f", hex.EncodeToString(reg.BeaconPrivate[:]))
			assert.Equal(t, "79a631eede1bf9c98f12032cdeadd0e7a079398fc786b88cc846ec89af85a51a", reg.BeaconPublic.String())
			assert.Equal(t, "ae4440cc8d7faddb2894172b78e3d745cafa0098bcc10d7ee0fda08fa85a9a2e", hex.EncodeToString(reg.SharedSecret[:]))
			assert.Equal(t, "586b49c76224119308d8545077f30cf6", hex.EncodeToString(reg.IdentityKey[:]))
			assert.Equal(t, "145555d16f6200b7", reg.InitialEphemeralID.String())
			assert.Equal(t, service.Public, reg.ServicePublic)
			assert.Equal(t, uint8(10), reg.Scaler)
			assert.Equal(t, uint64(1234567890), reg.BeaconTimeSeconds)
		})
	}
}

func TestServiceSeesSameSecret(t *testing.T) {
	service := servicePair()
	reg, err := New(WithLogger(discardLogger())).Register(service.Public, 4, 1000)
	require.NoError(t, err)

	shared := keyagreement.ComputeSharedSecret(service.Private, reg.BeaconPublic)
	assert.Equal(t, reg.SharedSecret, shared)
}

func TestRegisterDegenerateServiceKey(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	reg, err := New(WithLogger(logger)).Register(eid.PublicKey{}, 0, 0)
	require.NoError(t, err)
	assert.True(t, reg.SharedSecret.IsZero())
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "shared secret is all zero")
}

func TestRegisterRejectsScaler(t *testing.T) {
	random := bytes.NewReader(seq(0))
	_, err := New(WithRandom(random), WithLogger(discardLogger())).Register(servicePair().Public, 16, 0)
	assert.ErrorIs(t, err, eid.ErrInvalidParameter)
	// No randomness was consumed.
	assert.Equal(t, 32, random.Len())
}

func TestRegisterShortRandom(t *testing.T) {
	_, err := New(WithRandom(bytes.NewReader(nil)), WithLogger(discardLogger())).Register(servicePair().Public, 0, 0)
	assert.Error(t, err)
}

func TestRegisterWithKeyPair(t *testing.T) {
	var src [32]byte
	copy(src[:], seq(0x40))
	kp := keyagreement.GenerateKeyPair(src)

	reg, err := New(WithLogger(discardLogger())).RegisterWithKeyPair(kp, servicePair().Public, 10, 1234567890)
	require.NoError(t, err)
	assert.Equal(t, "145555d16f6200b7", reg.InitialEphemeralID.String())
}

func TestRequest(t *testing.T) {
	reg, err := New(
		WithRandom(bytes.NewReader(seq(0x40))),
		WithLogger(discardLogger()),
	).Register(servicePair().Public, 10, 1234567890)
	require.NoError(t, err)

	body, err := reg.MarshalRequest([]byte{0x01, 0x02})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "ACTIVE", got["status"])

	adv := got["advertisedId"].(map[string]interface{})
	assert.Equal(t, "EDDYSTONE", adv["type"])
	assert.Equal(t, "AQI=", adv["id"])

	reqEID := got["ephemeralIdRegistration"].(map[string]interface{})
	assert.Equal(t, "eaYx7t4b+cmPEgMs3q3Q56B5OY/HhriMyEbsia+FpRo=", reqEID["beaconEcdhPublicKey"])
	assert.Equal(t, "B6N8vBQgk8i3VdwbEOhstCY3StFqqFPtC9/AsrhtHHw=", reqEID["serviceEcdhPublicKey"])
	assert.Equal(t, float64(1234567890), reqEID["initialClockValue"])
	assert.Equal(t, float64(10), reqEID["rotationPeriodExponent"])
	assert.Equal(t, "FFVV0W9iALc=", reqEID["initialEid"])
}
