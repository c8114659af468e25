package registration

import (
	"encoding/base64"
	"encoding/json"
)

// RegisterPath is the service endpoint that accepts RegisterRequest bodies.
const RegisterPath = "/v1beta1/beacons:register"

// AdvertisedID identifies the beacon frame type and its advertised id.
type AdvertisedID struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// EphemeralIDRegistration carries the values the service needs to recompute
// the beacon's identifiers.
type EphemeralIDRegistration struct {
	BeaconEcdhPublicKey    string `json:"beaconEcdhPublicKey"`
	ServiceEcdhPublicKey   string `json:"serviceEcdhPublicKey"`
	InitialClockValue      uint64 `json:"initialClockValue"`
	RotationPeriodExponent uint8  `json:"rotationPeriodExponent"`
	InitialEid             string `json:"initialEid"`
}

// RegisterRequest is the body of a beacon registration call.
type RegisterRequest struct {
	AdvertisedID            AdvertisedID            `json:"advertisedId"`
	Status                  string                  `json:"status"`
	EphemeralIDRegistration EphemeralIDRegistration `json:"ephemeralIdRegistration"`
}

// Request builds the registration body. advertisedID is the beacon's own id as
// it appears in its frames. Binary values are standard base64.
func (r *Registration) Request(advertisedID []byte) RegisterRequest {
	enc := base64.StdEncoding.EncodeToString
	return RegisterRequest{
		AdvertisedID: AdvertisedID{
			Type: "EDDYSTONE",
			ID:   enc(advertisedID),
		},
		Status: "ACTIVE",
		EphemeralIDRegistration: EphemeralIDRegistration{
			BeaconEcdhPublicKey:    enc(r.BeaconPublic[:]),
			ServiceEcdhPublicKey:   enc(r.ServicePublic[:]),
			InitialClockValue:      r.BeaconTimeSeconds,
			RotationPeriodExponent: r.Scaler,
			InitialEid:             enc(r.InitialEphemeralID[:]),
		},
	}
}

// MarshalRequest returns the JSON encoding of Request(advertisedID).
func (r *Registration) MarshalRequest(advertisedID []byte) ([]byte, error) {
	return json.Marshal(r.Request(advertisedID))
}
