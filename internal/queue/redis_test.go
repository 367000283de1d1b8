package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestQueue(t *testing.T) (*RedisPriorityQueue, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	low, normal, high := LanesFor("content:queue", "content:processing")
	q := NewRedisPriorityQueue(rdb, "content:processing:map", low, normal, high)
	q.slot = 20 * time.Millisecond
	return q, mr, rdb
}

func TestRedisQueueClaimsHighestLaneFirst(t *testing.T) {
	ctx := context.Background()
	q, _, _ := newTestQueue(t)

	_ = q.Enqueue(ctx, "a-low", 0)
	_ = q.Enqueue(ctx, "b-normal", 1)
	_ = q.Enqueue(ctx, "c-high", 2)

	for _, want := range []string{"c-high", "b-normal", "a-low"} {
		id, err := q.Claim(ctx, 500*time.Millisecond)
		if err != nil {
			t.Fatalf("claim: %v", err)
		}
		if id != want {
			t.Fatalf("got %q want %q", id, want)
		}
	}
}

func TestRedisQueueClaimTimesOut(t *testing.T) {
	q, _, _ := newTestQueue(t)
	_, err := q.Claim(context.Background(), 50*time.Millisecond)
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestRedisQueueAckClearsProcessing(t *testing.T) {
	ctx := context.Background()
	q, _, rdb := newTestQueue(t)

	_ = q.Enqueue(ctx, "job-1", 1)
	id, err := q.Claim(ctx, 500*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := rdb.LLen(ctx, q.normal.ProcessingKey).Result(); n != 1 {
		t.Fatalf("expected claimed id in processing, got %d", n)
	}

	if err := q.Ack(ctx, id); err != nil {
		t.Fatalf("ack: %v", err)
	}
	if n, _ := rdb.LLen(ctx, q.normal.ProcessingKey).Result(); n != 0 {
		t.Fatalf("processing not cleared, len=%d", n)
	}
	if ok, _ := rdb.HExists(ctx, q.claimedAtKey, id).Result(); ok {
		t.Fatalf("claim time not cleared")
	}
}

func TestRedisQueueRequeuesOnlyStaleClaims(t *testing.T) {
	ctx := context.Background()
	q, _, rdb := newTestQueue(t)

	_ = q.Enqueue(ctx, "fresh", 2)
	_ = q.Enqueue(ctx, "stale", 1)
	for i := 0; i < 2; i++ {
		if _, err := q.Claim(ctx, 500*time.Millisecond); err != nil {
			t.Fatal(err)
		}
	}

	old := time.Now().Add(-time.Hour).UnixMilli()
	if err := rdb.HSet(ctx, q.claimedAtKey, "stale", old).Err(); err != nil {
		t.Fatal(err)
	}

	moved, err := q.RequeueStale(ctx, 10*time.Minute, 100)
	if err != nil {
		t.Fatalf("requeue: %v", err)
	}
	if moved != 1 {
		t.Fatalf("expected 1 moved, got %d", moved)
	}

	if n, _ := rdb.LLen(ctx, q.high.ProcessingKey).Result(); n != 1 {
		t.Fatalf("fresh claim must stay in processing")
	}
	id, err := q.Claim(ctx, 500*time.Millisecond)
	if err != nil || id != "stale" {
		t.Fatalf("expected stale job to be redelivered, got %q %v", id, err)
	}
}

func TestRedisQueueUnstampedClaimGetsGracePeriod(t *testing.T) {
	ctx := context.Background()
	q, _, rdb := newTestQueue(t)

	// id moved into processing whose claim time was never written
	if err := rdb.LPush(ctx, q.normal.ProcessingKey, "in-flight").Err(); err != nil {
		t.Fatal(err)
	}

	moved, err := q.RequeueStale(ctx, 10*time.Minute, 100)
	if err != nil {
		t.Fatalf("requeue: %v", err)
	}
	if moved != 0 {
		t.Fatalf("unstamped claim must not be requeued on first sight, moved=%d", moved)
	}
	if ok, _ := rdb.HExists(ctx, q.claimedAtKey, "in-flight").Result(); !ok {
		t.Fatalf("expected claim time to be stamped")
	}
	if n, _ := rdb.LLen(ctx, q.normal.QueueKey).Result(); n != 0 {
		t.Fatalf("queue must stay empty, len=%d", n)
	}

	// stamp ages out: the claim is treated as abandoned
	old := time.Now().Add(-time.Hour).UnixMilli()
	if err := rdb.HSet(ctx, q.claimedAtKey, "in-flight", old).Err(); err != nil {
		t.Fatal(err)
	}
	moved, err = q.RequeueStale(ctx, 10*time.Minute, 100)
	if err != nil || moved != 1 {
		t.Fatalf("expected abandoned claim to be requeued, moved=%d err=%v", moved, err)
	}
}

func TestRedisQueueStampSkipsAckedIDs(t *testing.T) {
	ctx := context.Background()
	q, _, rdb := newTestQueue(t)

	keys := []string{q.normal.ProcessingKey, q.claimedAtKey}
	n, err := stampScript.Run(ctx, rdb, keys, "gone", time.Now().UnixMilli()).Int64()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("id not in processing must not be stamped")
	}
	if ok, _ := rdb.HExists(ctx, q.claimedAtKey, "gone").Result(); ok {
		t.Fatalf("stray claim time written")
	}
}
