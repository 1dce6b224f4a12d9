package receiver

import (
	"sync"
)

// Queue is a thread-safe unbounded FIFO that automatically doubles
// its capacity when it reaches 70% full. Send never blocks; Receive
// blocks until an item arrives or the queue is closed.
//
// Receivers use it between their background read goroutine (producer)
// and the relay loop (consumer). FIFO order is the delivery-order
// guarantee for queued receivers.
type Queue[T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	buf      []T
	head     int // read position
	tail     int // write position
	count    int
	capacity int
	closed   bool
}

// NewQueue creates a new queue with the given initial capacity.
func NewQueue[T any](initialCapacity int) *Queue[T] {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	q := &Queue[T]{
		buf:      make([]T, initialCapacity),
		capacity: initialCapacity,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Send adds an item to the queue. Grows the queue if at 70% capacity.
// Returns false if the queue is closed.
func (q *Queue[T]) Send(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	// Check if we need to grow (at or above 70% capacity after adding this item)
	threshold := (q.capacity * 70) / 100
	if threshold < 1 {
		threshold = 1
	}
	if q.count+1 >= threshold {
		q.grow()
	}

	// Add item
	q.buf[q.tail] = item
	q.tail = (q.tail + 1) % q.capacity
	q.count++

	// Signal waiting receivers
	q.cond.Signal()
	return true
}

// Receive removes and returns an item from the queue.
// Blocks until an item is available or the queue is closed.
// Returns the item and true, or zero value and false if closed and empty.
func (q *Queue[T]) Receive() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	// Wait for data or close
	for q.count == 0 && !q.closed {
		q.cond.Wait()
	}

	if q.count == 0 && q.closed {
		var zero T
		return zero, false
	}

	item := q.buf[q.head]
	var zero T
	q.buf[q.head] = zero // Clear reference for GC
	q.head = (q.head + 1) % q.capacity
	q.count--

	return item, true
}

// Close closes the queue. After closing, Send returns false.
// Receivers will get remaining items then receive closed signal.
// Safe to call more than once.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast() // Wake all waiters
}

// Len returns the current number of items in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the current capacity of the queue.
func (q *Queue[T]) Cap() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.capacity
}

// grow doubles the queue capacity. Must be called with lock held.
func (q *Queue[T]) grow() {
	newCapacity := q.capacity * 2
	newBuf := make([]T, newCapacity)

	// Copy existing items to new buffer
	if q.count > 0 {
		if q.head < q.tail {
			// Contiguous: [head...tail)
			copy(newBuf, q.buf[q.head:q.tail])
		} else {
			// Wrapped: [head...end) + [0...tail)
			n := copy(newBuf, q.buf[q.head:])
			copy(newBuf[n:], q.buf[:q.tail])
		}
	}

	q.buf = newBuf
	q.head = 0
	q.tail = q.count
	q.capacity = newCapacity
}
