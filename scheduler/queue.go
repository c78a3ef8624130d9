/*
=================================================================================
QUEUE - ORDERED, PHASED, ROUND-SCOPED EVENT SCHEDULING
=================================================================================

Queue is a strict-ordered container of Steps keyed by QueueKey (round,
phase rank, sort-value, insertion timestamp): a container/heap-based
priority queue of re-sortable entries with O(log n) insert/remove, plus
phases, rounds, and a per-Process wall-clock timeout.

Single-threaded cooperative by design: nothing in this package
takes a lock. Concurrent access from multiple goroutines against the same
Queue is a caller error.
=================================================================================
*/
package scheduler

import (
	"container/heap"
	"sync/atomic"
	"time"

	"github.com/fieldmesh/sparsenet/errs"
)

type entry struct {
	step  Step
	key   QueueKey
	index int
}

// stepHeap implements container/heap.Interface exactly as
// neuron/signal_scheduler.go's SignalQueue does, but ordered by QueueKey
// instead of delivery time.
type stepHeap []*entry

func (h stepHeap) Len() int            { return len(h) }
func (h stepHeap) Less(i, j int) bool  { return h[i].key.Less(h[j].key) }
func (h stepHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *stepHeap) Push(x interface{}) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *stepHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Queue is a strict-ordered container of Steps. It is not safe for
// concurrent use; one Queue belongs to one single-threaded owner.
type Queue struct {
	heap    stepHeap
	entries map[Step]*entry

	currentRound int64
	nextTS       int64

	// timeoutMS is the wall-clock budget for a single Process call, zero
	// meaning unlimited. Set via SetTimeout.
	timeoutMS int64
}

// New returns an empty Queue starting at round 0.
func New() *Queue {
	return &Queue{
		heap:    make(stepHeap, 0),
		entries: make(map[Step]*entry),
	}
}

// SetTimeout configures the wall-clock budget, in milliseconds, that
// Process enforces between dequeues. Zero disables the timeout.
func (q *Queue) SetTimeout(ms int64) { q.timeoutMS = ms }

// CurrentRound returns the round new steps are scheduled into absent a
// NextRound request.
func (q *Queue) CurrentRound() int64 { return q.currentRound }

func (q *Queue) nextTimestamp() int64 { return atomic.AddInt64(&q.nextTS, 1) }

// AddStep assigns a fresh timestamp and round to s and inserts it,
// as follows: delayed phases pin to MaxRound, otherwise the
// step lands in the current round, or one round later if it asks for it.
func (q *Queue) AddStep(s Step) {
	round := q.currentRound
	if s.Phase().IsDelayed() {
		round = MaxRound
	} else if s.NextRound() {
		round = q.currentRound + 1
	}

	ts := q.nextTimestamp()
	key := QueueKey{
		Round:     round,
		PhaseRank: s.Phase().Rank(),
		SortValue: s.SortValue(),
		Timestamp: ts,
	}

	e := &entry{step: s, key: key}
	heap.Push(&q.heap, e)
	q.entries[s] = e
	s.setQueueKey(key, true)
}

// Resort re-evaluates s's SortValue and, if it changed while s is still
// queued, removes and reinserts it to keep heap order correct - the
// atomic remove-and-reinsert QueueInterceptor.ReceiveUpdate relies on.
func (q *Queue) Resort(s Step) {
	e, ok := q.entries[s]
	if !ok {
		return
	}
	newSV := s.SortValue()
	if newSV == e.key.SortValue {
		return
	}
	e.key.SortValue = newSV
	heap.Fix(&q.heap, e.index)
	s.setQueueKey(e.key, true)
}

// RemoveStep erases s from the queue. Returns errs.LogicError if s is not
// present.
func (q *Queue) RemoveStep(s Step) error {
	e, ok := q.entries[s]
	if !ok {
		return &errs.LogicError{Detail: "removeStep: step not queued"}
	}
	heap.Remove(&q.heap, e.index)
	delete(q.entries, s)
	s.setQueueKey(QueueKey{}, false)
	return nil
}

// Len reports the number of steps currently queued.
func (q *Queue) Len() int { return len(q.heap) }

// Filter decides whether a dequeued step should actually run. Returning
// false still marks the step unqueued and records TimestampOnProcess, but
// skips Process().
type Filter func(Step) bool

// Process repeatedly extracts the minimum-key step and runs it until the
// queue is empty, honoring an optional Filter and the queue's configured
// timeout. A per-queue wall-clock deadline is checked at every dequeue; if
// exceeded, Process returns an *errs.TimeoutError and leaves any remaining
// steps queued.
func (q *Queue) Process(filter Filter) error {
	var deadline time.Time
	hasDeadline := q.timeoutMS > 0
	if hasDeadline {
		deadline = time.Now().Add(time.Duration(q.timeoutMS) * time.Millisecond)
	}

	for q.heap.Len() > 0 {
		if hasDeadline && time.Now().After(deadline) {
			return &errs.TimeoutError{
				TimeoutMS: q.timeoutMS,
				Elapsed:   time.Since(deadline.Add(-time.Duration(q.timeoutMS) * time.Millisecond)).Milliseconds(),
			}
		}

		e := heap.Pop(&q.heap).(*entry)
		delete(q.entries, e.step)
		e.step.setQueueKey(QueueKey{}, false)
		if b, ok := e.step.(interface{ setTimestampOnProcess(int64) }); ok {
			b.setTimestampOnProcess(e.key.Timestamp)
		}

		if filter != nil && !filter(e.step) {
			continue
		}
		if err := e.step.Process(); err != nil {
			return err
		}
	}
	return nil
}
