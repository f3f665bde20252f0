package store

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestWriteQueue_SerializesPerKey(t *testing.T) {
	q := newWriteQueue()
	defer q.Close()

	// Unsynchronized counter; only lane serialization keeps this safe.
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := q.Do(context.Background(), "k", func() error {
				counter++
				return nil
			})
			if err != nil {
				t.Errorf("Do failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("expected 100 increments, got %d", counter)
	}
}

func TestWriteQueue_PropagatesError(t *testing.T) {
	q := newWriteQueue()
	defer q.Close()

	sentinel := errors.New("boom")
	err := q.Do(context.Background(), "k", func() error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Errorf("expected sentinel error, got %v", err)
	}
}

func TestWriteQueue_ClosedRejectsWrites(t *testing.T) {
	q := newWriteQueue()
	q.Close()

	err := q.Do(context.Background(), "k", func() error { return nil })
	if !errors.Is(err, errQueueClosed) {
		t.Errorf("expected errQueueClosed, got %v", err)
	}

	// Close again is a no-op.
	q.Close()
}

func TestWriteQueue_IndependentKeys(t *testing.T) {
	q := newWriteQueue()
	defer q.Close()

	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.Do(context.Background(), "slow", func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started

	// A write on another key must not wait for the slow lane.
	done := make(chan struct{})
	go func() {
		q.Do(context.Background(), "fast", func() error { return nil })
		close(done)
	}()

	<-done
	close(release)
	wg.Wait()
}
