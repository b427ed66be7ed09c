// Package queue provides the work queue workers drain.
package queue

import (
	"sync"

	"github.com/AndreyAkinshin/partest/internal/model"
)

// Queue is an unbounded FIFO of work items, safe for concurrent use.
//
// All items are enqueued before workers start and nothing is added afterwards,
// so a worker treats an empty TryTake as its signal to exit.
type Queue struct {
	mu    sync.Mutex
	items []model.WorkItem
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue appends an item.
func (q *Queue) Enqueue(item model.WorkItem) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, item)
}

// EnqueueAll appends items in order.
func (q *Queue) EnqueueAll(items []model.WorkItem) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, items...)
}

// TryTake removes and returns the oldest item without blocking.
// It returns false when the queue is empty.
func (q *Queue) TryTake() (model.WorkItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return model.WorkItem{}, false
	}
	item := q.items[0]
	q.items[0] = model.WorkItem{}
	q.items = q.items[1:]
	return item, true
}

// Len returns the number of items still queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
