package redsession

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Pool hands out store clients for the duration of one unit of work. A
// checked-out client is returned on every exit path — normal completion,
// operation error, or connectivity failure.
//
// Most deployments do not need this: go-redis pools connections internally,
// and [Builder.WithRedis] wraps a single long-lived client. WithPool exists
// for hosts that multiplex several clients or meter checkouts themselves.
type Pool interface {
	Checkout(ctx context.Context) (redis.UniversalClient, error)
	Return(client redis.UniversalClient)
}

// singlePool adapts one long-lived client to the Pool contract.
type singlePool struct {
	client redis.UniversalClient
}

func (p singlePool) Checkout(context.Context) (redis.UniversalClient, error) {
	return p.client, nil
}

func (p singlePool) Return(redis.UniversalClient) {}

// connector is the single chokepoint for store access. Every Redis
// interaction in this package goes through withClient, so degrade-to-fallback
// behavior is uniform across Find, Write, and Delete.
type connector struct {
	pool    Pool
	onDown  func(error)
	metrics *Metrics
}

func (c *connector) down(err error) {
	c.metrics.inc(MetricStoreDown)
	if c.onDown != nil {
		c.onDown(fmt.Errorf("%w: %v", ErrStoreUnavailable, err))
	}
}

// withClient checks out a client, runs op, and returns the client on every
// exit path. A connectivity failure — at checkout or from op — is reported
// through the OnDown handler and yields fallback instead of op's result.
// Only store errors are recovered here; decoding and all other application
// logic stay outside the unit of work.
func withClient[T any](ctx context.Context, c *connector, fallback T, op func(client redis.UniversalClient) (T, error)) T {
	client, err := c.pool.Checkout(ctx)
	if err != nil {
		c.down(err)
		return fallback
	}
	defer c.pool.Return(client)

	out, err := op(client)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// A miss, not a failure. Ops normally translate redis.Nil
			// themselves before returning.
			return fallback
		}
		// go-redis surfaces transport failures as net errors or
		// closed-client sentinels, but a command error of any other kind
		// still means the reply cannot be trusted; both are treated as the
		// store being unavailable.
		c.down(err)
		return fallback
	}

	return out
}
