// Package sched provides a single-threaded deferred task queue keyed by
// game time. Tasks fire once, in due-time order, when the owner polls the
// queue from its frame loop. There is no cancellation: callbacks that may
// become stale guard themselves.
package sched

import "container/heap"

// Task is a deferred callback.
type Task func()

type entry struct {
	due  float64
	seq  uint64 // insertion order, breaks ties between equal due times
	task Task
}

type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)   { *h = append(*h, x.(entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = entry{}
	*h = old[:n-1]
	return e
}

// Queue holds tasks until their due time.
type Queue struct {
	now     float64
	nextSeq uint64
	pending entryHeap
}

// New creates an empty queue starting at time zero.
func New() *Queue {
	return &Queue{}
}

// Now returns the time of the last poll.
func (q *Queue) Now() float64 {
	return q.now
}

// At schedules task to run on the first poll at or after due.
func (q *Queue) At(due float64, task Task) {
	if task == nil {
		return
	}
	heap.Push(&q.pending, entry{due: due, seq: q.nextSeq, task: task})
	q.nextSeq++
}

// After schedules task to run delay seconds after the last poll time.
func (q *Queue) After(delay float64, task Task) {
	if delay < 0 {
		delay = 0
	}
	q.At(q.now+delay, task)
}

// Poll advances the queue clock to now and runs every task that is due.
// Tasks scheduled by a running task with a due time <= now run in the same poll.
// Returns the number of tasks that ran.
func (q *Queue) Poll(now float64) int {
	if now > q.now {
		q.now = now
	}
	ran := 0
	for q.pending.Len() > 0 && q.pending[0].due <= q.now {
		e := heap.Pop(&q.pending).(entry)
		e.task()
		ran++
	}
	return ran
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	return q.pending.Len()
}

// Reset drops all pending tasks and rewinds the clock to zero.
func (q *Queue) Reset() {
	q.pending = q.pending[:0]
	q.now = 0
	q.nextSeq = 0
}
