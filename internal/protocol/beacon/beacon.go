// Package beacon tracks a registered beacon's clock and computes the
// identifier it is broadcasting at a given moment.
package beacon

import (
	"encoding/hex"
	"log/slog"
	"math"
	"time"

	"github.com/smallyu/go-eddystone-eid/internal/crypto/ephemeral"
	"github.com/smallyu/go-eddystone-eid/pkg/eid"
)

// LookupPrefix is the resource prefix for looking a beacon up by its current
// EID. 4 is the advertised-id type of an ephemeral identifier.
const LookupPrefix = "/v1beta1/beacons/4!"

// MaxWindow bounds how many quanta Match scans on each side.
const MaxWindow = 1024

// Clock relates beacon time to wall-clock time. The beacon counted
// BeaconInitial seconds at the Unix time ServiceInitial.
type Clock struct {
	BeaconInitial  uint64
	ServiceInitial uint64
}

// BeaconTime returns the beacon's clock at now.
func (c Clock) BeaconTime(now time.Time) (uint64, error) {
	unix := now.Unix()
	if unix < 0 {
		return 0, eid.Errorf("beacon time", eid.ErrInvalidParameter, "negative unix time %d", unix)
	}
	wall := uint64(unix)
	if wall < c.ServiceInitial && c.ServiceInitial-wall > c.BeaconInitial {
		return 0, eid.Errorf("beacon time", eid.ErrInvalidParameter,
			"now is %ds before the service registration time", c.ServiceInitial-wall)
	}
	return c.BeaconInitial + wall - c.ServiceInitial, nil
}

// Snapshot is the beacon's state at one point of its clock.
type Snapshot struct {
	BeaconTime   uint64
	Quantum      uint64
	QuantumStart uint64
	QuantumEnd   uint64 // exclusive
	TemporaryKey eid.TemporaryKey
	EphemeralID  eid.EphemeralID
}

// Beacon holds the long-lived parameters of a registered beacon.
type Beacon struct {
	ik     eid.IdentityKey
	scaler uint8
	clock  Clock
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Beacon.
type Option func(*Beacon)

// WithNow replaces time.Now.
func WithNow(now func() time.Time) Option {
	return func(b *Beacon) { b.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Beacon) { b.logger = l }
}

// New returns a Beacon with identity key ik and rotation exponent scaler.
func New(ik eid.IdentityKey, scaler uint8, clock Clock, opts ...Option) (*Beacon, error) {
	if err := eid.ValidateScaler(int(scaler)); err != nil {
		return nil, err
	}
	b := &Beacon{ik: ik, scaler: scaler, clock: clock}
	for _, opt := range opts {
		opt(b)
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b, nil
}

// Period returns the rotation period in seconds.
func (b *Beacon) Period() uint64 {
	return 1 << b.scaler
}

// At returns the snapshot at beacon time t.
func (b *Beacon) At(t uint64) (*Snapshot, error) {
	r, err := ephemeral.Compute(b.ik, b.scaler, t)
	if err != nil {
		return nil, err
	}
	quantum := t >> b.scaler
	return &Snapshot{
		BeaconTime:   t,
		Quantum:      quantum,
		QuantumStart: quantum << b.scaler,
		QuantumEnd:   (quantum + 1) << b.scaler,
		TemporaryKey: r.TemporaryKey,
		EphemeralID:  r.EphemeralID,
	}, nil
}

// Current returns the snapshot at the beacon's current clock.
func (b *Beacon) Current() (*Snapshot, error) {
	t, err := b.clock.BeaconTime(b.now())
	if err != nil {
		return nil, err
	}
	return b.At(t)
}

// Match looks for id among the quanta within window periods of beacon time t.
// It returns the start of the matching quantum. The window is cut at quantum 0
// and at the last quantum representable in a uint64 beacon time.
func (b *Beacon) Match(id eid.EphemeralID, t uint64, window int) (uint64, bool, error) {
	if window < 0 || window > MaxWindow {
		return 0, false, eid.Errorf("match", eid.ErrInvalidParameter, "window %d out of range [0, %d]", window, MaxWindow)
	}

	center := t >> b.scaler
	last := uint64(math.MaxUint64) >> b.scaler
	for off := 0; off <= window; off++ {
		for _, q := range candidates(center, uint64(off), last) {
			start := q << b.scaler
			got, err := ephemeral.ComputeEphemeralID(b.ik, b.scaler, start)
			if err != nil {
				return 0, false, err
			}
			if got.Equal(id) {
				if off != 0 {
					b.logger.Debug("eid matched outside the expected quantum",
						"eid", id.String(), "offset", off, "quantum_start", start)
				}
				return start, true, nil
			}
		}
	}
	return 0, false, nil
}

// candidates returns the quanta at distance off from center, nearest first,
// staying within [0, last].
func candidates(center, off, last uint64) []uint64 {
	if off == 0 {
		return []uint64{center}
	}
	out := make([]uint64, 0, 2)
	if center >= off {
		out = append(out, center-off)
	}
	if last-center >= off {
		out = append(out, center+off)
	}
	return out
}

// LookupPath returns the resource path used to look up a beacon by the EID it
// is currently broadcasting.
func LookupPath(id eid.EphemeralID) string {
	return LookupPrefix + hex.EncodeToString(id[:])
}
