package redsession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/valkode/redsession/codec"
	"github.com/valkode/redsession/internal"
)

// Record is a session's in-memory representation: string keys mapped to
// serializable values. It is stored as one opaque encoded blob per resolved
// key.
type Record map[string]any

// WriteOptions adjusts a single Write call.
type WriteOptions struct {
	// ExpireAfter overrides Config.DefaultTTL for this write. Nil keeps the
	// default; pointing at zero stores the record without expiration.
	ExpireAfter *time.Duration
}

// DeleteOptions adjusts a single Delete call.
type DeleteOptions struct {
	// Drop terminates the session outright: no replacement identifier is
	// generated.
	Drop bool
}

// Store implements the session-store contract a host framework drives once
// per request: Find, Write, Delete. Build one through [Builder]; it is safe
// for concurrent use and holds no per-session state of its own.
type Store struct {
	cfg     Config
	codec   codec.Codec
	conn    *connector
	metrics *Metrics
}

// Find loads the record for a presented identifier, consulting the enabled
// key forms private-first and stopping at the first key holding data.
//
// Whenever no usable record exists — identifier absent, no key populated,
// record corrupt, or store unreachable — Find fails open: it generates a
// fresh identifier, marks it in state so the next Write can guard against
// creation races, and returns it with an empty record. It never returns an
// error; outages surface only through the OnDown handler.
func (s *Store) Find(ctx context.Context, state *RequestState, id string) (string, Record) {
	s.metrics.inc(MetricFind)

	keys := s.readKeys(id)
	if len(keys) == 0 {
		return s.freshSession(state)
	}

	// One checkout covers the whole read sequence, so an unreachable store
	// reports through OnDown once per Find, not once per key form.
	data := withClient(ctx, s.conn, []byte(nil), func(client redis.UniversalClient) ([]byte, error) {
		for _, key := range keys {
			b, err := client.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return nil, err
			}
			if len(b) > 0 {
				return b, nil
			}
		}
		return nil, nil
	})

	if len(data) == 0 {
		s.metrics.inc(MetricFindMiss)
		return s.freshSession(state)
	}

	v, decErr := s.codec.Decode(data)
	var rec map[string]any
	if decErr == nil {
		var ok bool
		if rec, ok = v.(map[string]any); !ok {
			decErr = fmt.Errorf("decoded %T, want map[string]any", v)
		}
	}
	if decErr != nil {
		return s.discardCorrupt(ctx, state, id, decErr)
	}

	s.metrics.inc(MetricFindHit)
	return id, Record(rec)
}

// Write persists the record under every enabled write key form.
//
// The stored operation depends on two bits: whether an expiration applies
// (per-call override, else the configured default) and whether state carries
// the fresh-identifier marker from Find. When the marker is set the write is
// conditional on the key being absent, which is what resolves two requests
// racing to create the same identifier: the loser's write is simply refused.
// No retry is attempted on a refused write.
//
// The returned bool reports acceptance. With both write forms enabled the
// private-form write is authoritative; a refused or failed-open public write
// does not veto the result, and a failure on one key never aborts the write
// to the other.
func (s *Store) Write(ctx context.Context, state *RequestState, id string, rec Record, opts WriteOptions) (string, bool) {
	if id == "" {
		return "", false
	}

	keys := s.writeKeys(id)
	if len(keys) == 0 {
		// Defensive: Build rejects flag sets with no write form.
		return "", false
	}

	data, err := s.codec.Encode(map[string]any(rec))
	if err != nil {
		return "", false
	}

	ttl := s.cfg.DefaultTTL
	if opts.ExpireAfter != nil {
		ttl = *opts.ExpireAfter
	}

	fresh := false
	if state != nil {
		fresh = state.consumeFresh(id)
	}

	accepted := false
	for i, key := range keys {
		ok := s.setRecord(ctx, key, data, ttl, fresh)
		if i == 0 {
			accepted = ok
		}
	}

	if !accepted {
		s.metrics.inc(MetricWriteRejected)
		return "", false
	}

	s.metrics.inc(MetricWrite)
	return id, true
}

// setRecord issues the exact store operation implied by the (ttl, fresh)
// pair. The four combinations are distinct Redis commands and are kept
// explicit: collapsing them would silently lose either the expiration or
// the existence guard.
func (s *Store) setRecord(ctx context.Context, key string, data []byte, ttl time.Duration, fresh bool) bool {
	return withClient(ctx, s.conn, false, func(client redis.UniversalClient) (bool, error) {
		switch {
		case ttl > 0 && fresh:
			return client.SetNX(ctx, key, data, ttl).Result()
		case ttl > 0:
			err := client.Set(ctx, key, data, ttl).Err()
			return err == nil, err
		case fresh:
			return client.SetNX(ctx, key, data, 0).Result()
		default:
			err := client.Set(ctx, key, data, 0).Err()
			return err == nil, err
		}
	})
}

// Delete removes the record under every key implicated by either the read
// or the write flags, then hands the caller a replacement identifier so it
// still holds a valid session handle — unless opts.Drop asks for outright
// termination, in which case the returned bool is false and no replacement
// is made.
//
// Deletion is best-effort: an unreachable store no-ops the affected key and
// the record ages out through its TTL.
func (s *Store) Delete(ctx context.Context, state *RequestState, id string, opts DeleteOptions) (string, bool) {
	if id != "" {
		for _, key := range s.cleanupKeys(id) {
			withClient(ctx, s.conn, int64(0), func(client redis.UniversalClient) (int64, error) {
				return client.Del(ctx, key).Result()
			})
		}
		s.metrics.inc(MetricDelete)
	}

	if opts.Drop {
		return "", false
	}

	s.metrics.inc(MetricSessionCreated)
	return internal.NewToken(), true
}

// Metrics returns a point-in-time copy of the Store's counters.
func (s *Store) Metrics() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// freshSession generates a new identifier, records it in state for the
// upcoming Write's existence guard, and pairs it with an empty record.
func (s *Store) freshSession(state *RequestState) (string, Record) {
	id := internal.NewToken()
	if state != nil {
		state.markFresh(id)
	}
	s.metrics.inc(MetricSessionCreated)
	return id, Record{}
}

// discardCorrupt drops an undecodable record under every key either
// migration side could have written it to, reports it, and falls through to
// the no-session branch. A pure drop: nothing is written in its place here.
func (s *Store) discardCorrupt(ctx context.Context, state *RequestState, id string, decErr error) (string, Record) {
	s.metrics.inc(MetricDecodeFailure)

	for _, key := range s.cleanupKeys(id) {
		withClient(ctx, s.conn, int64(0), func(client redis.UniversalClient) (int64, error) {
			return client.Del(ctx, key).Result()
		})
	}

	if s.cfg.OnDecodeError != nil {
		s.cfg.OnDecodeError(fmt.Errorf("%w: %v", ErrRecordCorrupt, decErr), id)
	}

	return s.freshSession(state)
}
