package queue

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type Lane struct {
	QueueKey      string
	ProcessingKey string
}

// LanesFor derives the high/normal/low lanes from the base keys.
func LanesFor(queueKey, processingKey string) (low, normal, high Lane) {
	lane := func(suffix string) Lane {
		return Lane{QueueKey: queueKey + ":" + suffix, ProcessingKey: processingKey + ":" + suffix}
	}
	return lane("low"), lane("normal"), lane("high")
}

// RedisPriorityQueue is a reliable queue with priorities on Redis lists.
// Lanes: high/normal/low.
// Claim: BRPOPLPUSH lane.queue -> lane.processing, claim time in claimedAtKey
// Ack:   LREM from the processing list recorded in processingMapKey
type RedisPriorityQueue struct {
	rdb              *redis.Client
	processingMapKey string
	claimedAtKey     string
	slot             time.Duration

	low    Lane
	normal Lane
	high   Lane
}

func NewRedisPriorityQueue(rdb *redis.Client, processingMapKey string, low, normal, high Lane) *RedisPriorityQueue {
	return &RedisPriorityQueue{
		rdb:              rdb,
		processingMapKey: processingMapKey,
		claimedAtKey:     processingMapKey + ":claimed_at",
		slot:             time.Second,
		low:              low,
		normal:           normal,
		high:             high,
	}
}

func (q *RedisPriorityQueue) laneByPriority(p int) Lane {
	switch clampPriority(p) {
	case 2:
		return q.high
	case 1:
		return q.normal
	default:
		return q.low
	}
}

func (q *RedisPriorityQueue) lanes() []Lane {
	return []Lane{q.high, q.normal, q.low}
}

func (q *RedisPriorityQueue) Enqueue(ctx context.Context, jobID string, priority int) error {
	ln := q.laneByPriority(priority)
	return q.rdb.LPush(ctx, ln.QueueKey, jobID).Err()
}

// Claim tries high->normal->low with small blocking slots, so it is
// "mostly blocking" but still respects priority. timeout <= 0 waits until
// ctx is done. Returns ErrEmpty when nothing arrived in time.
func (q *RedisPriorityQueue) Claim(ctx context.Context, timeout time.Duration) (string, error) {
	forever := timeout <= 0
	deadline := time.Now().Add(timeout)

	slot := q.slot
	if !forever && timeout < slot {
		slot = timeout
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !forever && time.Now().After(deadline) {
			return "", ErrEmpty
		}

		for _, ln := range q.lanes() {
			wait := slot
			if !forever {
				remain := time.Until(deadline)
				if remain <= 0 {
					return "", ErrEmpty
				}
				if remain < wait {
					wait = remain
				}
			}

			id, err := q.rdb.BRPopLPush(ctx, ln.QueueKey, ln.ProcessingKey, wait).Result()
			if err == nil {
				if err := q.recordClaim(ctx, id, ln); err != nil {
					// без записи о claim нельзя корректно сделать ack
					return "", err
				}
				return id, nil
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			return "", err
		}
	}
}

func (q *RedisPriorityQueue) recordClaim(ctx context.Context, id string, ln Lane) error {
	_, err := q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, q.processingMapKey, id, ln.ProcessingKey)
		pipe.HSet(ctx, q.claimedAtKey, id, time.Now().UnixMilli())
		return nil
	})
	return err
}

func (q *RedisPriorityQueue) Ack(ctx context.Context, jobID string) error {
	processingKey, err := q.rdb.HGet(ctx, q.processingMapKey, jobID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// mapping is missing (e.g. reaper already moved it): удалим из всех processing
			for _, ln := range q.lanes() {
				_ = q.rdb.LRem(ctx, ln.ProcessingKey, 1, jobID).Err()
			}
			_ = q.rdb.HDel(ctx, q.claimedAtKey, jobID).Err()
			return nil
		}
		return err
	}

	if err := q.rdb.LRem(ctx, processingKey, 1, jobID).Err(); err != nil {
		return err
	}
	_ = q.rdb.HDel(ctx, q.processingMapKey, jobID).Err()
	_ = q.rdb.HDel(ctx, q.claimedAtKey, jobID).Err()
	return nil
}

// requeueScript moves one id from processing back to the head of the
// queue only if it is still in processing (it may have been acked since
// the reaper listed it).
var requeueScript = redis.NewScript(`
if redis.call('LREM', KEYS[1], 1, ARGV[1]) == 1 then
  redis.call('RPUSH', KEYS[2], ARGV[1])
  redis.call('HDEL', KEYS[3], ARGV[1])
  redis.call('HDEL', KEYS[4], ARGV[1])
  return 1
end
return 0
`)

// stampScript records a claim time for an id still in processing that has
// none yet. Between BRPOPLPUSH and recordClaim a fresh claim looks like
// this; a worker that died in that gap leaves it so for good.
var stampScript = redis.NewScript(`
for _, v in ipairs(redis.call('LRANGE', KEYS[1], 0, -1)) do
  if v == ARGV[1] then
    return redis.call('HSETNX', KEYS[2], ARGV[1], ARGV[2])
  end
end
return 0
`)

// RequeueStale is the reaper: claims older than olderThan go back to their
// lane's queue, at most maxPerLane per lane. A claim without a recorded
// time is stamped now and only requeued once that stamp is stale.
// Delivery is at-least-once.
func (q *RedisPriorityQueue) RequeueStale(ctx context.Context, olderThan time.Duration, maxPerLane int64) (int64, error) {
	var moved int64
	cutoff := time.Now().Add(-olderThan).UnixMilli()

	for _, ln := range q.lanes() {
		ids, err := q.rdb.LRange(ctx, ln.ProcessingKey, 0, -1).Result()
		if err != nil {
			return moved, err
		}

		var laneMoved int64
		for _, id := range ids {
			if laneMoved >= maxPerLane {
				break
			}

			claimed, err := q.rdb.HGet(ctx, q.claimedAtKey, id).Result()
			if errors.Is(err, redis.Nil) {
				stampKeys := []string{ln.ProcessingKey, q.claimedAtKey}
				if err := stampScript.Run(ctx, q.rdb, stampKeys, id, time.Now().UnixMilli()).Err(); err != nil {
					return moved, err
				}
				continue
			}
			if err != nil {
				return moved, err
			}
			if ms, perr := strconv.ParseInt(claimed, 10, 64); perr == nil && ms > cutoff {
				continue // ещё выполняется
			}

			keys := []string{ln.ProcessingKey, ln.QueueKey, q.processingMapKey, q.claimedAtKey}
			n, err := requeueScript.Run(ctx, q.rdb, keys, id).Int64()
			if err != nil {
				return moved, err
			}
			laneMoved += n
		}
		moved += laneMoved
	}

	return moved, nil
}
