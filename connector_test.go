package redsession

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// countingPool tracks checkout/return pairing so tests can assert scoped
// acquisition on every exit path.
type countingPool struct {
	client      redis.UniversalClient
	checkoutErr error

	checkouts int
	returns   int
}

func (p *countingPool) Checkout(context.Context) (redis.UniversalClient, error) {
	if p.checkoutErr != nil {
		return nil, p.checkoutErr
	}
	p.checkouts++
	return p.client, nil
}

func (p *countingPool) Return(redis.UniversalClient) {
	p.returns++
}

func newConnectorTest(t *testing.T) (*countingPool, *connector, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	pool := &countingPool{client: rdb}
	conn := &connector{pool: pool, metrics: NewMetrics(MetricsConfig{Enabled: true})}
	return pool, conn, mr
}

func TestWithClientReturnsOperationResult(t *testing.T) {
	pool, conn, _ := newConnectorTest(t)
	ctx := context.Background()

	got := withClient(ctx, conn, "fallback", func(client redis.UniversalClient) (string, error) {
		if err := client.Set(ctx, "k", "v", 0).Err(); err != nil {
			return "", err
		}
		return client.Get(ctx, "k").Result()
	})
	if got != "v" {
		t.Fatalf("got %q, want %q", got, "v")
	}
	if pool.checkouts != 1 || pool.returns != 1 {
		t.Fatalf("checkout/return = %d/%d, want 1/1", pool.checkouts, pool.returns)
	}
}

func TestWithClientReturnsClientOnFailure(t *testing.T) {
	pool, conn, mr := newConnectorTest(t)
	var downErrs []error
	conn.onDown = func(err error) { downErrs = append(downErrs, err) }

	mr.Close()

	got := withClient(context.Background(), conn, 42, func(client redis.UniversalClient) (int, error) {
		return 0, client.Get(context.Background(), "k").Err()
	})
	if got != 42 {
		t.Fatalf("got %d, want fallback 42", got)
	}
	if pool.checkouts != 1 || pool.returns != 1 {
		t.Fatalf("client leaked on failure path: checkout/return = %d/%d", pool.checkouts, pool.returns)
	}
	if len(downErrs) != 1 || !errors.Is(downErrs[0], ErrStoreUnavailable) {
		t.Fatalf("OnDown = %v, want one ErrStoreUnavailable", downErrs)
	}
	if conn.metrics.Get(MetricStoreDown) != 1 {
		t.Fatal("store-down counter not incremented")
	}
}

func TestWithClientFallsBackWhenCheckoutFails(t *testing.T) {
	pool, conn, _ := newConnectorTest(t)
	pool.checkoutErr = errors.New("pool exhausted")

	var downCount int
	conn.onDown = func(error) { downCount++ }

	got := withClient(context.Background(), conn, "fallback", func(redis.UniversalClient) (string, error) {
		t.Fatal("operation must not run without a client")
		return "", nil
	})
	if got != "fallback" {
		t.Fatalf("got %q, want fallback", got)
	}
	if downCount != 1 {
		t.Fatalf("OnDown invoked %d times, want 1", downCount)
	}
	if pool.returns != 0 {
		t.Fatal("nothing was checked out, nothing should be returned")
	}
}

func TestWithClientTreatsNilReplyAsMiss(t *testing.T) {
	pool, conn, _ := newConnectorTest(t)

	var downCount int
	conn.onDown = func(error) { downCount++ }

	got := withClient(context.Background(), conn, "fallback", func(client redis.UniversalClient) (string, error) {
		return client.Get(context.Background(), "missing").Result()
	})
	if got != "fallback" {
		t.Fatalf("got %q, want fallback", got)
	}
	if downCount != 0 {
		t.Fatal("a key miss must not be reported as an outage")
	}
	if pool.checkouts != 1 || pool.returns != 1 {
		t.Fatalf("checkout/return = %d/%d, want 1/1", pool.checkouts, pool.returns)
	}
}

func TestStoreWorksThroughCallerSuppliedPool(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	pool := &countingPool{client: rdb}
	store, err := New().WithPool(pool).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	ctx := context.Background()
	state := &RequestState{}
	id, _ := store.Find(ctx, state, "")
	if _, ok := store.Write(ctx, state, id, Record{"a": "1"}, WriteOptions{}); !ok {
		t.Fatal("write failed")
	}
	if _, rec := store.Find(ctx, &RequestState{}, id); rec["a"] != "1" {
		t.Fatalf("round trip through pool failed: %v", rec)
	}

	if pool.checkouts == 0 || pool.checkouts != pool.returns {
		t.Fatalf("unbalanced pool usage: checkout/return = %d/%d", pool.checkouts, pool.returns)
	}
}
