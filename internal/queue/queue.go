// Package queue delivers job ids from the submitting service to workers.
//
// Two implementations share one contract: Enqueue with a priority
// (0=low, 1=normal, 2=high), Claim the next id honouring priority, Ack once
// the job is handled. RedisPriorityQueue survives restarts and redelivers
// stale claims; LocalQueue lives inside one process.
package queue

import "errors"

var (
	// ErrEmpty is returned by Claim when no id arrived before the timeout.
	ErrEmpty = errors.New("queue: empty")
	// ErrFull is returned by LocalQueue.Enqueue when the lane buffer is full.
	ErrFull = errors.New("queue: full")
)

func clampPriority(p int) int {
	if p < 0 {
		return 0
	}
	if p > 2 {
		return 2
	}
	return p
}
