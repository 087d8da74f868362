package entity

import "snake-game/game/types"

// DirectionQueue buffers the directions pressed between ticks. Reversals
// are filtered when a direction is queued, so consuming never has to check.
type DirectionQueue struct {
	current types.Direction
	pending []types.Direction
}

func NewDirectionQueue(initial types.Direction) DirectionQueue {
	return DirectionQueue{
		current: initial,
		pending: make([]types.Direction, 0, types.MaxQueuedDirections),
	}
}

// Queue appends dir unless it reverses the last queued direction (or the
// current one when nothing is queued) or the queue is full. It reports
// whether dir was accepted.
func (q *DirectionQueue) Queue(dir types.Direction) bool {
	last := q.current
	if n := len(q.pending); n > 0 {
		if n >= types.MaxQueuedDirections {
			return false
		}
		last = q.pending[n-1]
	}
	if dir == last.Opposite() {
		return false
	}
	q.pending = append(q.pending, dir)
	return true
}

// ConsumeOne promotes the oldest queued direction to current.
func (q *DirectionQueue) ConsumeOne() types.Direction {
	if len(q.pending) > 0 {
		q.current = q.pending[0]
		copy(q.pending, q.pending[1:])
		q.pending = q.pending[:len(q.pending)-1]
	}
	return q.current
}

func (q *DirectionQueue) Current() types.Direction {
	return q.current
}

// Pending returns a copy of the queued directions, oldest first.
func (q *DirectionQueue) Pending() []types.Direction {
	out := make([]types.Direction, len(q.pending))
	copy(out, q.pending)
	return out
}

func (q *DirectionQueue) Reset(dir types.Direction) {
	q.current = dir
	q.pending = q.pending[:0]
}
