package lcd

import (
	"sync"
	"time"
)

// Outcome is the result of Queue.Receive.
type Outcome int

// Receive outcomes.
const (
	// Received means a command was dequeued.
	Received Outcome = iota
	// TimedOut means nothing arrived within the timeout.
	TimedOut
	// Closed means the queue is closed and drained.
	Closed
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Received:
		return "received"
	case TimedOut:
		return "timed out"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Queue is an unbounded multi-producer single-consumer command queue.
// Send never blocks. Commands queued before Close are still delivered.
type Queue struct {
	lock   sync.Mutex
	items  commandList
	closed bool

	wakeUpCh chan struct{}
	closeCh  chan struct{}
}

type commandList struct {
	head *commandItem
	tail *commandItem
}

type commandItem struct {
	cmd  Command
	next *commandItem
}

func (l *commandList) append(item *commandItem) {
	if l.head == nil {
		l.head = item
	} else {
		l.tail.next = item
	}
	l.tail = item
}

func (l *commandList) pop() *commandItem {
	item := l.head
	if item != nil {
		if l.head = item.next; l.head == nil {
			l.tail = nil
		}
		item.next = nil
	}
	return item
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		wakeUpCh: make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
	}
}

// Send enqueues cmd. It fails with ErrClosed after Close.
func (q *Queue) Send(cmd Command) error {
	q.lock.Lock()
	if q.closed {
		q.lock.Unlock()
		return ErrClosed
	}
	q.items.append(&commandItem{cmd: cmd})
	q.lock.Unlock()
	select {
	case q.wakeUpCh <- struct{}{}:
	default:
	}
	return nil
}

// Close stops accepting commands. It is safe to call more than once.
func (q *Queue) Close() {
	q.lock.Lock()
	defer q.lock.Unlock()
	if !q.closed {
		q.closed = true
		close(q.closeCh)
	}
}

// Receive waits up to timeout for the next command.
func (q *Queue) Receive(timeout time.Duration) (Command, Outcome) {
	var timer *time.Timer
	for {
		q.lock.Lock()
		item, closed := q.items.pop(), q.closed
		q.lock.Unlock()
		if item != nil {
			if timer != nil {
				timer.Stop()
			}
			return item.cmd, Received
		}
		if closed {
			if timer != nil {
				timer.Stop()
			}
			return Command{}, Closed
		}
		if timer == nil {
			timer = time.NewTimer(timeout)
		}
		select {
		case <-q.wakeUpCh:
		case <-q.closeCh:
		case <-timer.C:
			return Command{}, TimedOut
		}
	}
}
