package redsession

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/valkode/redsession/codec"
)

// Builder assembles a [Store]. Configure it with the With* methods and call
// Build once; a Builder must not be reused.
type Builder struct {
	config Config
	client redis.UniversalClient
	pool   Pool

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the Builder's configuration wholesale.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets a single long-lived client as the store backend. Mutually
// exclusive with WithPool.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.client = client
	return b
}

// WithPool sets a checkout/return pool as the store backend. Mutually
// exclusive with WithRedis.
func (b *Builder) WithPool(pool Pool) *Builder {
	b.pool = pool
	return b
}

// WithCodec sets a custom record serializer, overriding Config.Encoding.
func (b *Builder) WithCodec(c codec.Codec) *Builder {
	b.config.Codec = c
	return b
}

// WithOnDown registers the handler invoked when a store interaction fails
// open due to a connectivity error.
func (b *Builder) WithOnDown(fn func(error)) *Builder {
	b.config.OnDown = fn
	return b
}

// WithOnDecodeError registers the handler invoked after a corrupt record has
// been dropped.
func (b *Builder) WithOnDecodeError(fn func(err error, identifier string)) *Builder {
	b.config.OnDecodeError = fn
	return b
}

// WithMetricsEnabled toggles counter collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and returns the Store. All
// configuration errors — missing backend, flag combinations leaving no
// readable or writable key, unknown encoding names — surface here, never at
// request time.
func (b *Builder) Build() (*Store, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if b.client == nil && b.pool == nil {
		return nil, errors.New("redis client or pool required")
	}
	if b.client != nil && b.pool != nil {
		return nil, errors.New("provide either a redis client or a pool, not both")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool := b.pool
	if pool == nil {
		pool = singlePool{client: b.client}
	}

	metrics := NewMetrics(cfg.Metrics)

	store := &Store{
		cfg:   cfg,
		codec: cfg.activeCodec(),
		conn: &connector{
			pool:    pool,
			onDown:  cfg.OnDown,
			metrics: metrics,
		},
		metrics: metrics,
	}

	b.built = true

	return store, nil
}
