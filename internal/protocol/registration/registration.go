// Package registration produces everything a new beacon needs to register its
// ephemeral identifiers with a service: a key pair, the shared secret, the
// identity key and the first ephemeral identifier.
package registration

import (
	"encoding/hex"
	"io"
	"log/slog"

	"github.com/smallyu/go-eddystone-eid/internal/crypto/curves"
	"github.com/smallyu/go-eddystone-eid/internal/crypto/ephemeral"
	"github.com/smallyu/go-eddystone-eid/internal/crypto/kdf"
	"github.com/smallyu/go-eddystone-eid/internal/protocol/keyagreement"
	"github.com/smallyu/go-eddystone-eid/pkg/eid"
)

// Registration is the outcome of registering one beacon.
type Registration struct {
	BeaconPrivate      eid.PrivateKey
	BeaconPublic       eid.PublicKey
	ServicePublic      eid.PublicKey
	SharedSecret       eid.SharedSecret
	IdentityKey        eid.IdentityKey
	Scaler             uint8
	BeaconTimeSeconds  uint64
	InitialEphemeralID eid.EphemeralID
}

// Registrar runs registrations.
type Registrar struct {
	random    io.Reader
	logger    *slog.Logger
	agreement *keyagreement.Agreement
}

// Option configures a Registrar.
type Option func(*Registrar)

// WithRandom sets the source of the beacon key pair. Defaults to crypto/rand.
func WithRandom(r io.Reader) Option {
	return func(reg *Registrar) { reg.random = r }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(reg *Registrar) { reg.logger = l }
}

// WithCurve sets the curve used for key agreement.
func WithCurve(c curves.Curve) Option {
	return func(reg *Registrar) { reg.agreement = keyagreement.New(c) }
}

// New creates a Registrar.
func New(opts ...Option) *Registrar {
	r := &Registrar{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.agreement == nil {
		r.agreement = keyagreement.New(nil)
	}
	return r
}

// Register generates a beacon key pair, agrees on a shared secret with
// servicePublic, derives the identity key and computes the EID at
// beaconTimeSeconds. An all-zero shared secret is logged as a warning and the
// registration continues.
func (r *Registrar) Register(servicePublic eid.PublicKey, scaler uint8, beaconTimeSeconds uint64) (*Registration, error) {
	if err := eid.ValidateScaler(int(scaler)); err != nil {
		return nil, err
	}

	kp, err := r.agreement.NewKeyPair(r.random)
	if err != nil {
		return nil, err
	}
	return r.complete(kp, servicePublic, scaler, beaconTimeSeconds)
}

// RegisterWithKeyPair is Register with a caller-supplied beacon key pair.
func (r *Registrar) RegisterWithKeyPair(kp keyagreement.KeyPair, servicePublic eid.PublicKey, scaler uint8, beaconTimeSeconds uint64) (*Registration, error) {
	if err := eid.ValidateScaler(int(scaler)); err != nil {
		return nil, err
	}
	return r.complete(kp, servicePublic, scaler, beaconTimeSeconds)
}

func (r *Registrar) complete(kp keyagreement.KeyPair, servicePublic eid.PublicKey, scaler uint8, beaconTimeSeconds uint64) (*Registration, error) {
	shared := r.agreement.ComputeSharedSecret(kp.Private, servicePublic)
	if shared.IsZero() {
		r.logger.Warn("shared secret is all zero; the service public key is invalid",
			"service_public_key", servicePublic.String())
	}

	ik, err := kdf.DeriveIdentityKey(shared[:], servicePublic[:], kp.Public[:])
	if err != nil {
		return nil, err
	}

	id, err := ephemeral.ComputeEphemeralID(ik, scaler, beaconTimeSeconds)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("beacon registered",
		"beacon_public_key", kp.Public.String(),
		"scaler", scaler,
		"beacon_time", beaconTimeSeconds,
		"initial_eid", hex.EncodeToString(id[:]))

	return &Registration{
		BeaconPrivate:      kp.Private,
		BeaconPublic:       kp.Public,
		ServicePublic:      servicePublic,
		SharedSecret:       shared,
		IdentityKey:        ik,
		Scaler:             scaler,
		BeaconTimeSeconds:  beaconTimeSeconds,
		InitialEphemeralID: id,
	}, nil
}

// Register runs a registration with default options.
func Register(servicePublic eid.PublicKey, scaler uint8, beaconTimeSeconds uint64) (*Registration, error) {
	return New().Register(servicePublic, scaler, beaconTimeSeconds)
}
