package work

import "sync"

// Queue is a concurrent work queue with explicit completion accounting.
// Items are produced before consumers start (eager population); TryDequeue
// never blocks. Every dequeued item must be matched by exactly one
// Acknowledge call once its outcome has been recorded, regardless of
// success or failure.
type Queue[T any] struct {
	mu      sync.Mutex
	items   []T
	pending sync.WaitGroup
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Enqueue adds an item to the queue. It is called by the producer before
// any consumer starts dequeueing.
func (q *Queue[T]) Enqueue(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.pending.Add(1)
}

// TryDequeue removes and returns the next item. It returns false when the
// queue is empty; consumers treat that as "no work left" and exit.
func (q *Queue[T]) TryDequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return item, true
}

// Acknowledge marks one previously dequeued item as fully processed.
func (q *Queue[T]) Acknowledge() {
	q.pending.Done()
}

// Join blocks until every enqueued item has been acknowledged.
func (q *Queue[T]) Join() {
	q.pending.Wait()
}

// Len returns the number of items not yet dequeued.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Sink collects results from concurrent producers.
type Sink[T any] struct {
	mu      sync.Mutex
	results []T
}

// NewSink creates an empty sink.
func NewSink[T any]() *Sink[T] {
	return &Sink[T]{}
}

// Record appends a result. Safe for concurrent use.
func (s *Sink[T]) Record(result T) {
	s.mu.Lock()
	s.results = append(s.results, result)
	s.mu.Unlock()
}

// Drain returns all recorded results. It is called once, after all
// producers have finished.
func (s *Sink[T]) Drain() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := s.results
	s.results = nil
	return results
}
