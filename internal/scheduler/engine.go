package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidFireTime = errors.New("scheduler: invalid fire time")
	ErrStopped         = errors.New("scheduler: engine stopped")
)

type Kind string

const (
	// KindToastExpire dismisses a notification whose TTL ran out.
	KindToastExpire Kind = "toast-expire"
	// KindFocusPhaseEnd ends the running focus or break phase.
	KindFocusPhaseEnd Kind = "focus-phase-end"
)

// Event fires once at FireAt. ID identifies it for Cancel; Ref carries the
// owner's handle, such as a toast id.
type Event struct {
	ID     string
	Kind   Kind
	Ref    string
	FireAt time.Time
}

type queueItem struct {
	event Event
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].event.FireAt.Before(pq[j].event.FireAt)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Engine delivers scheduled events on C in fire-time order. Delivery never
// blocks: when C is full the event is counted in Dropped.
type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	out     chan Event
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(priorityQueue, 0),
		out:    make(chan Event, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// C carries due events. It is closed once Stop returns.
func (e *Engine) C() <-chan Event {
	return e.out
}

// Start launches the delivery goroutine. Later calls do nothing.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.run()
}

// Stop ends delivery and blocks until the delivery goroutine has closed C.
// Events still queued are discarded and Schedule fails with ErrStopped from
// then on.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Schedule(ev Event) error {
	if ev.FireAt.IsZero() {
		return ErrInvalidFireTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	heap.Push(&e.queue, queueItem{event: ev})
	e.signalWakeup()
	return nil
}

// Cancel removes every pending event with id and reports whether any was
// found. Events already delivered to C are not recalled.
func (e *Engine) Cancel(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.queue[:0]
	for _, item := range e.queue {
		if item.event.ID != id {
			kept = append(kept, item)
		}
	}
	found := len(kept) != len(e.queue)
	if !found {
		return false
	}
	clear(e.queue[len(kept):])
	e.queue = kept
	heap.Init(&e.queue)
	e.signalWakeup()
	return true
}

// Pending counts events still queued.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

// run sleeps until the earliest queued event is due, hands every due event
// to C and goes back to sleep. Schedule and Cancel wake it to re-arm the
// timer.
func (e *Engine) run() {
	defer close(e.doneCh)
	defer close(e.out)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		var due <-chan time.Time
		if wait, ok := e.untilNext(time.Now()); ok {
			timer.Reset(wait)
			due = timer.C
		}

		select {
		case <-e.stopCh:
			return
		case <-e.wakeup:
			timer.Stop()
		case <-due:
			e.deliver(e.takeDue(time.Now()))
		}
	}
}

func (e *Engine) deliver(events []Event) {
	for _, ev := range events {
		select {
		case e.out <- ev:
		default:
			atomic.AddUint64(&e.dropped, 1)
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// untilNext reports how long until the head of the queue is due. Overdue
// events yield zero.
func (e *Engine) untilNext(now time.Time) (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return 0, false
	}
	return max(e.queue[0].event.FireAt.Sub(now), 0), true
}

// takeDue pops every event whose fire time is not after now.
func (e *Engine) takeDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []Event
	for len(e.queue) > 0 && !e.queue[0].event.FireAt.After(now) {
		out = append(out, heap.Pop(&e.queue).(queueItem).event)
	}
	return out
}
