package netconn

import (
	"sync"
	"time"

	ferrors "github.com/zulfikawr/quickget/internal/errors"
)

// Task runs a connect-and-send on its own goroutine while the caller does
// other work.
//
// The task owns the socket until Join returns nil. If Join times out the
// task is abandoned: it keeps the socket and closes it itself once the
// blocking calls return. The caller must not touch the socket afterwards.
type Task struct {
	mu        sync.Mutex
	done      chan struct{}
	finished  bool
	abandoned bool
	err       error
	sock      *Socket
}

// Go starts fn on sock in the background.
func Go(sock *Socket, fn func(*Socket) error) *Task {
	t := &Task{
		done: make(chan struct{}),
		sock: sock,
	}
	go t.run(fn)
	return t
}

func (t *Task) run(fn func(*Socket) error) {
	err := fn(t.sock)

	t.mu.Lock()
	t.err = err
	t.finished = true
	if t.abandoned {
		t.sock.log.Debug("Closing socket of abandoned connection task")
		t.sock.Close()
	}
	t.mu.Unlock()

	close(t.done)
}

// Join waits for the task. timeout <= 0 waits without bound. A nil return
// means the task finished and the socket is back with the caller; the
// task's own outcome is available from Err.
func (t *Task) Join(timeout time.Duration) error {
	if timeout <= 0 {
		<-t.done
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-t.done:
		return nil
	case <-timer.C:
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished {
		// Finished between the timer firing and taking the lock
		return nil
	}
	t.abandoned = true
	return ferrors.New(ferrors.JoinTimeout, nil)
}

// Err returns the error fn returned. Only meaningful after a successful Join.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Done is closed when fn has returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
