// Package config loads the parameters of a beacon registration from YAML and
// the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/smallyu/go-eddystone-eid/internal/crypto/codec"
	"github.com/smallyu/go-eddystone-eid/internal/crypto/curves"
	"github.com/smallyu/go-eddystone-eid/internal/crypto/field"
	"github.com/smallyu/go-eddystone-eid/internal/protocol/beacon"
	"github.com/smallyu/go-eddystone-eid/pkg/eid"
)

// DefaultPaths are tried in order when no explicit path is given.
var DefaultPaths = []string{
	"configs/eid.yaml",
	"eid.yaml",
}

// Config holds the parameters of a beacon. Binary values use the prefixed
// argument format of codec.ParseBinaryArgument, e.g. "b<base64>" or "h<hex>".
type Config struct {
	ServicePublicKey   string `yaml:"servicePublicKey"`
	IdentityKey        string `yaml:"identityKey"`
	RotationExponent   int    `yaml:"rotationExponent"`
	BeaconTimeSeconds  uint64 `yaml:"beaconTimeSeconds"`
	ServiceTimeSeconds uint64 `yaml:"serviceTimeSeconds"`
	Field              string `yaml:"field"`
	LogLevel           string `yaml:"logLevel"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		RotationExponent: 10,
		Field:            field.BigName,
		LogLevel:         "info",
	}
}

// Parse decodes YAML data on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	// Keys missing from data keep their default values.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, eid.NewError("parse config", eid.ErrInputFormat, "invalid yaml", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path, then applies environment overrides.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	if err := ApplyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// LoadFromPath loads configPath, or the first readable file of DefaultPaths
// when configPath is empty. With no file found, Default plus environment
// overrides is returned.
func LoadFromPath(configPath string) (Config, error) {
	if configPath != "" {
		return Load(configPath)
	}
	for _, path := range DefaultPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return Load(path)
	}

	cfg := Default()
	if err := ApplyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnvOverrides reads EID_SERVICE_PUBLIC_KEY, EID_IDENTITY_KEY,
// EID_ROTATION_EXPONENT, EID_BEACON_TIME, EID_SERVICE_TIME, EID_FIELD and
// EID_LOG_LEVEL. Integers may be decimal or 0x-prefixed hex.
func ApplyEnvOverrides(cfg *Config) error {
	if v := env("EID_SERVICE_PUBLIC_KEY"); v != "" {
		cfg.ServicePublicKey = v
	}
	if v := env("EID_IDENTITY_KEY"); v != "" {
		cfg.IdentityKey = v
	}
	if v := env("EID_FIELD"); v != "" {
		cfg.Field = v
	}
	if v := env("EID_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	ints := []struct {
		name string
		set  func(uint64)
	}{
		{"EID_ROTATION_EXPONENT", func(n uint64) { cfg.RotationExponent = int(n) }},
		{"EID_BEACON_TIME", func(n uint64) { cfg.BeaconTimeSeconds = n }},
		{"EID_SERVICE_TIME", func(n uint64) { cfg.ServiceTimeSeconds = n }},
	}
	for _, i := range ints {
		raw := env(i.name)
		if raw == "" {
			continue
		}
		n, err := codec.ParseInteger(raw)
		if err != nil {
			return fmt.Errorf("config: %s: %w", i.name, err)
		}
		i.set(n)
	}
	return nil
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

// Validate checks the fields that do not need decoding.
func (c Config) Validate() error {
	if err := eid.ValidateScaler(c.RotationExponent); err != nil {
		return err
	}
	if _, ok := field.ByName(c.Field); !ok {
		return eid.Errorf("validate config", eid.ErrInvalidParameter, "unknown field backend %q", c.Field)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Scaler returns the rotation exponent.
func (c Config) Scaler() uint8 {
	return uint8(c.RotationExponent)
}

// ServicePublic decodes ServicePublicKey.
func (c Config) ServicePublic() (eid.PublicKey, error) {
	if c.ServicePublicKey == "" {
		return eid.PublicKey{}, eid.Errorf("config", eid.ErrInputFormat, "servicePublicKey is not set")
	}
	b, err := codec.ParseBinaryArgument(c.ServicePublicKey, eid.PublicKeySize)
	if err != nil {
		return eid.PublicKey{}, err
	}
	return eid.PublicKeyFromBytes(b)
}

// Identity decodes IdentityKey. ok is false when no identity key is configured.
func (c Config) Identity() (ik eid.IdentityKey, ok bool, err error) {
	if c.IdentityKey == "" {
		return ik, false, nil
	}
	b, err := codec.ParseBinaryArgument(c.IdentityKey, eid.IdentityKeySize)
	if err != nil {
		return ik, false, err
	}
	ik, err = eid.IdentityKeyFromBytes(b)
	return ik, err == nil, err
}

// Clock relates the configured beacon time to the service time it was read at.
func (c Config) Clock() beacon.Clock {
	return beacon.Clock{
		BeaconInitial:  c.BeaconTimeSeconds,
		ServiceInitial: c.ServiceTimeSeconds,
	}
}

// Beacon returns the registered beacon described by IdentityKey. ok is false
// when no identity key is configured.
func (c Config) Beacon(opts ...beacon.Option) (b *beacon.Beacon, ok bool, err error) {
	ik, ok, err := c.Identity()
	if err != nil || !ok {
		return nil, false, err
	}
	b, err = beacon.New(ik, c.Scaler(), c.Clock(), opts...)
	return b, err == nil, err
}

// Curve returns X25519 over the configured field backend.
func (c Config) Curve() (curves.Curve, error) {
	f, ok := field.ByName(c.Field)
	if !ok {
		return nil, eid.Errorf("config", eid.ErrInvalidParameter, "unknown field backend %q", c.Field)
	}
	return curves.NewX25519(f), nil
}

// Logger returns a text logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return slog.Level(n), nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, eid.NewError("validate config", eid.ErrInvalidParameter, "log level", err)
	}
	return level, nil
}
