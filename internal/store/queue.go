package store

import (
	"context"
	"sync"
)

// writeQueue serializes read-modify-write cycles per storage key. Every
// persisted collection is a single JSON blob, so two concurrent writers
// that both read before either writes would lose one update; funnelling
// all writes for a key through one goroutine removes that race.
type writeQueue struct {
	mu     sync.Mutex
	lanes  map[string]chan task
	wg     sync.WaitGroup
	closed bool
}

type task struct {
	run func() error
	err chan error
}

func newWriteQueue() *writeQueue {
	return &writeQueue{
		lanes: make(map[string]chan task),
	}
}

// Do runs fn on key's writer goroutine and waits for its result. After
// fn has been accepted it always runs to completion; ctx only bounds
// the wait for a free lane slot.
func (q *writeQueue) Do(ctx context.Context, key string, fn func() error) error {
	lane, err := q.lane(key)
	if err != nil {
		return err
	}

	t := task{run: fn, err: make(chan error, 1)}
	select {
	case lane <- t:
	case <-ctx.Done():
		return ctx.Err()
	}

	return <-t.err
}

func (q *writeQueue) lane(key string) (chan task, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, errQueueClosed
	}
	lane, ok := q.lanes[key]
	if !ok {
		lane = make(chan task, 16)
		q.lanes[key] = lane
		q.wg.Add(1)
		go q.worker(lane)
	}
	return lane, nil
}

func (q *writeQueue) worker(lane chan task) {
	defer q.wg.Done()

	for t := range lane {
		t.err <- t.run()
	}
}

// Close drains all lanes and waits for in-flight writes to finish.
func (q *writeQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	for _, lane := range q.lanes {
		close(lane)
	}
	q.mu.Unlock()

	q.wg.Wait()
}
