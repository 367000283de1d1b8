package queue

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLocalQueueClaimsByPriority(t *testing.T) {
	ctx := context.Background()
	q := NewLocalQueue(8)

	_ = q.Enqueue(ctx, "low", 0)
	_ = q.Enqueue(ctx, "normal", 1)
	_ = q.Enqueue(ctx, "high", 2)
	_ = q.Enqueue(ctx, "clamped-high", 7)

	var got []string
	for i := 0; i < 4; i++ {
		id, err := q.Claim(ctx, 10*time.Millisecond)
		if err != nil {
			t.Fatalf("claim %d: %v", i, err)
		}
		got = append(got, id)
	}

	want := []string{"high", "clamped-high", "normal", "low"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestLocalQueueClaimTimesOut(t *testing.T) {
	q := NewLocalQueue(1)
	_, err := q.Claim(context.Background(), 5*time.Millisecond)
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestLocalQueueClaimHonoursContext(t *testing.T) {
	q := NewLocalQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := q.Claim(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLocalQueueBlockingClaimReceivesLaterEnqueue(t *testing.T) {
	q := NewLocalQueue(1)
	go func() {
		time.Sleep(5 * time.Millisecond)
		_ = q.Enqueue(context.Background(), "late", 1)
	}()

	id, err := q.Claim(context.Background(), time.Second)
	if err != nil || id != "late" {
		t.Fatalf("got %q %v", id, err)
	}
	if q.Len() != 0 {
		t.Fatalf("expected empty queue, got %d", q.Len())
	}
}

func TestLocalQueueEnqueueOnFullLaneFailsFast(t *testing.T) {
	ctx := context.Background()
	q := NewLocalQueue(1)

	if err := q.Enqueue(ctx, "first", 1); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- q.Enqueue(ctx, "second", 1) }()

	select {
	case err := <-done:
		if !errors.Is(err, ErrFull) {
			t.Fatalf("expected ErrFull, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("enqueue blocked on a full lane")
	}

	// другие lanes не затронуты
	if err := q.Enqueue(ctx, "urgent", 2); err != nil {
		t.Fatalf("high lane enqueue: %v", err)
	}
	if q.Len() != 2 {
		t.Fatalf("expected 2 queued, got %d", q.Len())
	}
}
