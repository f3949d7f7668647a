package redsession

import (
	"errors"
	"time"

	"github.com/valkode/redsession/codec"
)

// Built-in record encodings selectable by name through Config.Encoding.
// A custom [codec.Codec] assigned to Config.Codec takes precedence.
const (
	// EncodingJSON is the portable text encoding and the default.
	EncodingJSON = "json"
	// EncodingGob is the Go-native binary encoding. Compact, but records
	// written with it cannot be read by non-Go consumers.
	EncodingGob = "gob"
	// EncodingCBOR is the portable binary encoding.
	EncodingCBOR = "cbor"
)

// MigrationConfig selects which storage-key forms participate in reads and
// writes. At least one read flag and one write flag must be enabled;
// [Config.Validate] rejects anything else before first use.
//
// A typical migration runs in three phases: write both / read both, then
// write private / read both, then private only. Rolling back a phase is safe
// because reads always try the private form first and fall back to public.
type MigrationConfig struct {
	ReadPrivate  bool
	ReadPublic   bool
	WritePrivate bool
	WritePublic  bool
}

// Config carries the construction-time settings of a [Store].
//
// Config instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise.
type Config struct {
	// Prefix namespaces every storage key.
	Prefix string

	// DefaultTTL is the expiration applied to written records when a call
	// does not override it. Zero means records do not expire.
	DefaultTTL time.Duration

	Migration MigrationConfig

	// Encoding names a built-in record codec. Ignored when Codec is set.
	Encoding string

	// Codec overrides Encoding with a caller-supplied implementation of the
	// two-operation serialization contract.
	Codec codec.Codec

	// OnDown, when non-nil, is invoked with the connectivity error each time
	// a store interaction fails open. Panicking inside the handler converts
	// the fail-open into a hard failure.
	OnDown func(error)

	// OnDecodeError, when non-nil, is invoked after a corrupt record has
	// been dropped, with the decode error and the presented identifier.
	OnDecodeError func(err error, identifier string)

	Metrics MetricsConfig
}

// DefaultConfig returns the settings used by [New] before any WithConfig
// call: private-first reads with public fallback, private-only writes, JSON
// encoding, no expiration.
func DefaultConfig() Config {
	return Config{
		Prefix:   "session:",
		Encoding: EncodingJSON,
		Migration: MigrationConfig{
			ReadPrivate:  true,
			ReadPublic:   true,
			WritePrivate: true,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Validate checks the configuration for combinations that would leave the
// Store without a readable or writable key form, or with an unknown
// encoding. It is called by [Builder.Build]; misconfiguration fails there,
// never at request time.
func (c *Config) Validate() error {
	if c.Prefix == "" {
		return errors.New("Prefix must not be empty")
	}

	if c.DefaultTTL < 0 {
		return errors.New("DefaultTTL must be >= 0")
	}

	if !c.Migration.ReadPrivate && !c.Migration.ReadPublic {
		return errors.New("Migration must enable at least one read key form")
	}
	if !c.Migration.WritePrivate && !c.Migration.WritePublic {
		return errors.New("Migration must enable at least one write key form")
	}

	if c.Codec == nil {
		switch c.Encoding {
		case "", EncodingJSON, EncodingGob, EncodingCBOR:
			// valid
		default:
			return errors.New("Encoding must be 'json', 'gob', or 'cbor'")
		}
	}

	return nil
}

// activeCodec resolves the configured serializer. Validate has already
// rejected unknown encoding names.
func (c *Config) activeCodec() codec.Codec {
	if c.Codec != nil {
		return c.Codec
	}
	switch c.Encoding {
	case EncodingGob:
		return codec.Gob{}
	case EncodingCBOR:
		return codec.CBOR{}
	default:
		return codec.JSON{}
	}
}
