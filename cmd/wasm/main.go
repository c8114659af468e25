//go:build js && wasm

package main

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"syscall/js"
	"time"

	"github.com/smallyu/go-eddystone-eid/internal/crypto/codec"
	"github.com/smallyu/go-eddystone-eid/internal/crypto/ephemeral"
	"github.com/smallyu/go-eddystone-eid/internal/protocol/beacon"
	"github.com/smallyu/go-eddystone-eid/internal/protocol/registration"
	"github.com/smallyu/go-eddystone-eid/pkg/eid"
)

func main() {
	c := make(chan struct{}, 0)

	fmt.Println("Go Eddystone EID WASM Initialized")

	// Expose Go functions to JS
	js.Global().Set("GoEID", map[string]interface{}{
		"Register":    js.FuncOf(Register),
		"EphemeralID": js.FuncOf(EphemeralID),
		"Beacon":      js.FuncOf(Beacon),
	})

	<-c
}

// Register generates a beacon key pair and registers it.
// Arguments:
// 0: JSON string {"servicePublicKey": "b...", "scaler": "10", "beaconTime": "0", "advertisedId": "hex"}
// Returns:
// JSON string with the registration and the request body, or "error: ..."
func Register(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (jsonParams)"
	}

	type ParamsInput struct {
		ServicePublicKey string `json:"servicePublicKey"`
		Scaler           string `json:"scaler"`
		BeaconTime       string `json:"beaconTime"`
		AdvertisedID     string `json:"advertisedId"`
	}

	var input ParamsInput
	if err := json.Unmarshal([]byte(args[0].String()), &input); err != nil {
		return fmt.Sprintf("error: invalid json: %v", err)
	}

	raw, err := codec.ParseBinaryArgument(input.ServicePublicKey, eid.PublicKeySize)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	servicePublic, err := eid.PublicKeyFromBytes(raw)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	scaler, beaconTime, err := parseScalerAndTime(input.Scaler, input.BeaconTime)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	advertised, err := hex.DecodeString(input.AdvertisedID)
	if err != nil {
		return fmt.Sprintf("error: invalid advertisedId: %v", err)
	}

	reg, err := registration.Register(servicePublic, scaler, beaconTime)
	if err != nil {
		return fmt.Sprintf("error: registration failed: %v", err)
	}

	enc := base64.StdEncoding.EncodeToString
	resp := map[string]interface{}{
		"beaconPublicKey":  enc(reg.BeaconPublic[:]),
		"identityKey":      enc(reg.IdentityKey[:]),
		"initialEid":       reg.InitialEphemeralID.String(),
		"sharedSecretZero": reg.SharedSecret.IsZero(),
		"request":          reg.Request(advertised),
		"requestPath":      registration.RegisterPath,
	}
	return marshal(resp)
}

// EphemeralID computes the EID for an identity key at a beacon time.
// Arguments:
// 0: identity key (binary argument, e.g. "b<base64>")
// 1: scaler
// 2: beacon time in seconds
// Returns:
// JSON string with the intermediate blocks and the EID
func EphemeralID(this js.Value, args []js.Value) interface{} {
	if len(args) != 3 {
		return "error: expected 3 arguments (identityKey, scaler, beaconTime)"
	}
	ik, err := parseIdentityKey(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	scaler, beaconTime, err := parseScalerAndTime(args[1].String(), args[2].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	r, err := ephemeral.Compute(ik, scaler, beaconTime)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return marshal(map[string]interface{}{
		"temporaryKeyData": hex.EncodeToString(r.TemporaryKeyBlock[:]),
		"temporaryKey":     hex.EncodeToString(r.TemporaryKey[:]),
		"eidData":          hex.EncodeToString(r.EphemeralIDBlock[:]),
		"eid":              r.EphemeralID.String(),
	})
}

// Beacon computes the EID a registered beacon is broadcasting now.
// Arguments:
// 0: identity key
// 1: scaler
// 2: beacon time at registration
// 3: service unix time at registration
func Beacon(this js.Value, args []js.Value) interface{} {
	if len(args) != 4 {
		return "error: expected 4 arguments (identityKey, scaler, beaconInitialTime, serviceInitialTime)"
	}
	ik, err := parseIdentityKey(args[0].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	scaler, beaconInitial, err := parseScalerAndTime(args[1].String(), args[2].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	serviceInitial, err := codec.ParseInteger(args[3].String())
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	b, err := beacon.New(ik, scaler, beacon.Clock{BeaconInitial: beaconInitial, ServiceInitial: serviceInitial})
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	snap, err := b.Current()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return marshal(map[string]interface{}{
		"beaconTime":   snap.BeaconTime,
		"quantum":      snap.Quantum,
		"quantumStart": snap.QuantumStart,
		"quantumEnd":   snap.QuantumEnd,
		"eid":          snap.EphemeralID.String(),
		"lookupPath":   beacon.LookupPath(snap.EphemeralID),
		"computedAt":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Helpers

func parseIdentityKey(s string) (eid.IdentityKey, error) {
	raw, err := codec.ParseBinaryArgument(s, eid.IdentityKeySize)
	if err != nil {
		return eid.IdentityKey{}, err
	}
	return eid.IdentityKeyFromBytes(raw)
}

func parseScalerAndTime(scalerText, timeText string) (uint8, uint64, error) {
	scaler, err := codec.ParseInteger(scalerText)
	if err != nil {
		return 0, 0, err
	}
	if scaler > eid.MaxScaler {
		return 0, 0, eid.Errorf("parse scaler", eid.ErrInvalidParameter, "rotation exponent %d out of range [0, %d]", scaler, eid.MaxScaler)
	}
	t, err := codec.ParseInteger(timeText)
	if err != nil {
		return 0, 0, err
	}
	return uint8(scaler), t, nil
}

func marshal(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: marshal result failed: %v", err)
	}
	return string(b)
}
