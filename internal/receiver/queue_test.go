package receiver

import (
	"sync"
	"testing"
	"time"
)

func TestQueue_BasicSendReceive(t *testing.T) {
	q := NewQueue[int](10)

	// Send some items
	for i := 0; i < 5; i++ {
		if !q.Send(i) {
			t.Fatalf("Send(%d) returned false", i)
		}
	}

	if q.Len() != 5 {
		t.Errorf("Len() = %d, want 5", q.Len())
	}

	// Receive items
	for i := 0; i < 5; i++ {
		val, ok := q.Receive()
		if !ok {
			t.Fatalf("Receive() returned false for item %d", i)
		}
		if val != i {
			t.Errorf("received %d, want %d", val, i)
		}
	}

	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func TestQueue_GrowAt70Percent(t *testing.T) {
	q := NewQueue[int](10)

	// Send 7 items (70% of 10)
	for i := 0; i < 7; i++ {
		q.Send(i)
	}

	if q.Cap() <= 10 {
		t.Errorf("Cap() = %d, expected growth after 70%% fill", q.Cap())
	}

	// All items should still be accessible in order
	for i := 0; i < 7; i++ {
		val, ok := q.Receive()
		if !ok {
			t.Fatalf("Receive() returned false for item %d", i)
		}
		if val != i {
			t.Errorf("received %d, want %d", val, i)
		}
	}
}

func TestQueue_MultipleGrows(t *testing.T) {
	q := NewQueue[int](4)

	// Send 100 items - should trigger multiple grows
	for i := 0; i < 100; i++ {
		if !q.Send(i) {
			t.Fatalf("Send(%d) returned false", i)
		}
	}

	if q.Len() != 100 {
		t.Errorf("Len() = %d, want 100", q.Len())
	}
	if q.Cap() < 100 {
		t.Errorf("Cap() = %d, expected capacity to cover 100 items", q.Cap())
	}

	// Verify all items in order
	for i := 0; i < 100; i++ {
		val, ok := q.Receive()
		if !ok {
			t.Fatalf("Receive() returned false for item %d", i)
		}
		if val != i {
			t.Errorf("received %d, want %d", val, i)
		}
	}
}

func TestQueue_BlockingReceive(t *testing.T) {
	q := NewQueue[int](10)

	received := make(chan int, 1)

	// Start goroutine that waits for data
	go func() {
		val, ok := q.Receive()
		if ok {
			received <- val
		}
	}()

	// Give receiver time to start waiting
	time.Sleep(10 * time.Millisecond)

	// Send data
	q.Send(42)

	// Should receive the value
	select {
	case val := <-received:
		if val != 42 {
			t.Errorf("received %d, want 42", val)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for blocked receive")
	}
}

func TestQueue_Close(t *testing.T) {
	q := NewQueue[int](10)

	// Send some items
	q.Send(1)
	q.Send(2)

	// Close
	q.Close()

	// Send should return false after close
	if q.Send(3) {
		t.Error("Send should return false after Close")
	}

	// Can still receive existing items
	val, ok := q.Receive()
	if !ok || val != 1 {
		t.Errorf("Receive() = %d, %v; want 1, true", val, ok)
	}

	val, ok = q.Receive()
	if !ok || val != 2 {
		t.Errorf("Receive() = %d, %v; want 2, true", val, ok)
	}

	// No more items
	_, ok = q.Receive()
	if ok {
		t.Error("Receive should return false when empty and closed")
	}
}

func TestQueue_CloseUnblocksReceive(t *testing.T) {
	q := NewQueue[int](10)

	done := make(chan bool, 1)

	go func() {
		_, ok := q.Receive()
		done <- ok
	}()

	// Give receiver time to start waiting
	time.Sleep(10 * time.Millisecond)

	// Close should unblock the receiver
	q.Close()

	select {
	case ok := <-done:
		if ok {
			t.Error("Receive should return false when closed and empty")
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not unblock Receive")
	}
}

func TestQueue_CloseIdempotent(t *testing.T) {
	q := NewQueue[int](10)
	q.Close()
	q.Close() // must not panic or deadlock

	if q.Send(1) {
		t.Error("Send should return false after Close")
	}
}

func TestQueue_ConcurrentSendReceive(t *testing.T) {
	q := NewQueue[int](10)
	const numItems = 1000

	var wg sync.WaitGroup

	// Sender
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < numItems; i++ {
			q.Send(i)
		}
	}()

	// Receiver
	received := make([]int, 0, numItems)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < numItems; i++ {
			val, ok := q.Receive()
			if ok {
				received = append(received, val)
			}
		}
	}()

	wg.Wait()

	if len(received) != numItems {
		t.Fatalf("received %d items, want %d", len(received), numItems)
	}

	// Single producer, single consumer: order must be preserved
	for i, val := range received {
		if val != i {
			t.Fatalf("received[%d] = %d, want %d", i, val, i)
		}
	}
}

func TestQueue_WrapAround(t *testing.T) {
	q := NewQueue[int](5)

	// Fill partially
	q.Send(1)
	q.Send(2)
	q.Send(3)

	// Consume some
	q.Receive() // removes 1
	q.Receive() // removes 2

	// Add more - this wraps around
	q.Send(4)
	q.Send(5)
	q.Send(6)

	// Now trigger growth with wrap-around
	q.Send(7)
	q.Send(8)

	// Verify all items in order
	expected := []int{3, 4, 5, 6, 7, 8}
	for _, want := range expected {
		got, ok := q.Receive()
		if !ok {
			t.Fatalf("Receive failed, expected %d", want)
		}
		if got != want {
			t.Errorf("got %d, want %d", got, want)
		}
	}
}

func TestNewQueue_MinCapacity(t *testing.T) {
	// Capacity of 0 should be set to 1
	q := NewQueue[int](0)
	if q.Cap() != 1 {
		t.Errorf("Cap() = %d, want 1 for initial capacity 0", q.Cap())
	}

	// Negative capacity should be set to 1
	q = NewQueue[int](-5)
	if q.Cap() != 1 {
		t.Errorf("Cap() = %d, want 1 for negative initial capacity", q.Cap())
	}
}
