package queue

import (
	"context"
	"time"
)

// LocalQueue is the fallback queue used when Redis is not configured.
// Ids live only in memory: jobs queued here are lost on restart.
type LocalQueue struct {
	lanes [3]chan string // index = priority
}

func NewLocalQueue(bufferSize int) *LocalQueue {
	if bufferSize <= 0 {
		bufferSize = 512
	}
	q := &LocalQueue{}
	for i := range q.lanes {
		q.lanes[i] = make(chan string, bufferSize)
	}
	return q
}

// Enqueue never blocks: a full lane returns ErrFull right away.
func (q *LocalQueue) Enqueue(ctx context.Context, jobID string, priority int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.lanes[clampPriority(priority)] <- jobID:
		return nil
	default:
		return ErrFull
	}
}

// Claim returns the next id, preferring higher lanes. timeout <= 0 waits
// until ctx is done.
func (q *LocalQueue) Claim(ctx context.Context, timeout time.Duration) (string, error) {
	high, normal, low := q.lanes[2], q.lanes[1], q.lanes[0]

	// сначала без ожидания, строго по приоритету
	for _, ch := range []chan string{high, normal, low} {
		select {
		case id := <-ch:
			return id, nil
		default:
		}
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-expired:
		return "", ErrEmpty
	case id := <-high:
		return id, nil
	case id := <-normal:
		return id, nil
	case id := <-low:
		return id, nil
	}
}

// Ack is a no-op: a claimed id has already left the channel.
func (q *LocalQueue) Ack(context.Context, string) error { return nil }

// Len reports ids waiting across all lanes.
func (q *LocalQueue) Len() int {
	n := 0
	for _, ch := range q.lanes {
		n += len(ch)
	}
	return n
}
