package repository

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SnapshotWriter is the store-facing side of the write queue.
type SnapshotWriter interface {
	SaveSnapshot(id uuid.UUID, state string, start *time.Time) error
}

// WriteQueue serializes snapshot writes per candidate: each mutation enqueues
// the whole-document state, one goroutine per candidate applies writes in
// mutation order, and bursts within the debounce window coalesce to the
// latest snapshot. A failed write is logged and retained in memory only; the
// next enqueued snapshot supersedes it.
type WriteQueue struct {
	writer   SnapshotWriter
	debounce time.Duration

	mu     sync.Mutex
	chans  map[uuid.UUID]chan queuedWrite
	closed bool
	wg     sync.WaitGroup
}

type queuedWrite struct {
	state    string
	start    *time.Time
	hasState bool
	barrier  chan struct{}
}

func NewWriteQueue(writer SnapshotWriter, debounce time.Duration) *WriteQueue {
	return &WriteQueue{
		writer:   writer,
		debounce: debounce,
		chans:    make(map[uuid.UUID]chan queuedWrite),
	}
}

// Enqueue schedules a snapshot write for the candidate. It never blocks on
// the store; callers keep their in-memory state regardless of the outcome.
func (q *WriteQueue) Enqueue(id uuid.UUID, state string, start *time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.channelLocked(id) <- queuedWrite{state: state, start: start, hasState: true}
}

// Flush blocks until every write enqueued for the candidate before the call
// has been applied.
func (q *WriteQueue) Flush(id uuid.UUID) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	barrier := make(chan struct{})
	q.channelLocked(id) <- queuedWrite{barrier: barrier}
	q.mu.Unlock()
	<-barrier
}

// Close drains all queues and stops the workers. Enqueues after Close are
// dropped.
func (q *WriteQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	for _, ch := range q.chans {
		close(ch)
	}
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *WriteQueue) channelLocked(id uuid.UUID) chan queuedWrite {
	ch, ok := q.chans[id]
	if !ok {
		ch = make(chan queuedWrite, 64)
		q.chans[id] = ch
		q.wg.Add(1)
		go q.run(id, ch)
	}
	return ch
}

func (q *WriteQueue) run(id uuid.UUID, ch chan queuedWrite) {
	defer q.wg.Done()
	for {
		w, ok := <-ch
		if !ok {
			return
		}

		var (
			pending  queuedWrite
			barriers []chan struct{}
		)
		absorb := func(x queuedWrite) {
			if x.barrier != nil {
				barriers = append(barriers, x.barrier)
			}
			if x.hasState {
				pending = x
			}
		}
		absorb(w)

		timer := time.NewTimer(q.debounce)
	drain:
		for {
			select {
			case next, more := <-ch:
				if !more {
					break drain
				}
				absorb(next)
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(q.debounce)
			case <-timer.C:
				break drain
			}
		}
		timer.Stop()

		if pending.hasState {
			if err := q.writer.SaveSnapshot(id, pending.state, pending.start); err != nil {
				log.Printf("snapshot write for candidate %s failed, a later write will supersede: %v", id, err)
			}
		}
		for _, b := range barriers {
			close(b)
		}
	}
}
