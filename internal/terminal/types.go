package terminal

import (
	"sync"
	"time"
)

// OutputKind distinguishes the events a session's reader publishes.
type OutputKind int

const (
	// OutputData carries bytes read from the device.
	OutputData OutputKind = iota
	// OutputEOF indicates the far end of the device closed.
	OutputEOF
	// OutputError carries a read failure message.
	OutputError
	// OutputClosed is the final event; no more output will ever arrive.
	OutputClosed
)

// String returns a human-readable kind name.
func (k OutputKind) String() string {
	switch k {
	case OutputData:
		return "output"
	case OutputEOF:
		return "eof"
	case OutputError:
		return "error"
	case OutputClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// OutputEvent is a single notification on a session's output queue.
type OutputEvent struct {
	Kind OutputKind
	Data []byte
	Err  string
}

// inputEvent is either queued text or the shutdown sentinel.
type inputEvent struct {
	data     []byte
	shutdown bool
}

// Options configures a session at creation time. Everything the subsystem
// needs is supplied here; nothing is read from process-wide state.
type Options struct {
	// Shell overrides the configured default shell binary.
	Shell string
	// WorkingDir is the shell's initial directory. Defaults to "/".
	WorkingDir string
	// Prompt, when non-empty, is injected as the shell's PS1.
	Prompt string
	// LoginShell appends the login flag to the shell's argument vector.
	LoginShell bool
	// Cols and Rows set the initial window size. Default 80x24.
	Cols int
	Rows int
}

// Info is a read-only snapshot of session metadata.
type Info struct {
	ID         string    `json:"id"`
	Shell      string    `json:"shell"`
	WorkingDir string    `json:"working_dir"`
	Cols       int       `json:"cols"`
	Rows       int       `json:"rows"`
	StartedAt  time.Time `json:"started_at"`
	Alive      bool      `json:"alive"`
}

// queue is an unbounded FIFO safe for concurrent producers and consumers.
// Pushes never block; consumers either poll or wait with a bounded timeout.
// A channel would block or drop under burst, so session queues are built on
// a mutex-guarded slice instead.
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	notify chan struct{}
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{notify: make(chan struct{}, 1)}
}

// push appends an item and wakes at most one waiting consumer.
func (q *queue[T]) push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
		// wakeup already pending
	}
}

// tryPop removes the head item without blocking.
func (q *queue[T]) tryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}

// popWait removes the head item, waiting up to d for one to arrive.
func (q *queue[T]) popWait(d time.Duration) (T, bool) {
	if v, ok := q.tryPop(); ok {
		return v, true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-q.notify:
		return q.tryPop()
	case <-timer.C:
		var zero T
		return zero, false
	}
}

// len reports the current queue depth.
func (q *queue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
