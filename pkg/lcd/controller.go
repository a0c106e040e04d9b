package lcd

import (
	"context"
	"sync"
)

// Controller is the caller side of the display. It is safe for concurrent
// use; it never touches the hardware itself.
type Controller struct {
	queue  *Queue
	stop   *stopFlag
	worker *worker

	shutdownOnce sync.Once
}

// New takes the hardware from p, starts the display worker and returns once
// the worker accepts commands. A hardware failure is returned as *InitError.
func New(p *Peripheral, conf *Config) (*Controller, error) {
	if conf == nil {
		conf = NewConfig()
	}
	w := newWorker(*conf)
	ready := make(chan error, 1)
	go w.run(p, ready)
	if err := <-ready; err != nil {
		w.queue.Close()
		return nil, &InitError{Err: err}
	}
	return &Controller{queue: w.queue, stop: w.stop, worker: w}, nil
}

// Submit queues a command.
func (c *Controller) Submit(cmd Command) error {
	return c.queue.Send(cmd)
}

// WriteMessage shows text centered on a cleared screen.
func (c *Controller) WriteMessage(text string) error {
	return c.Submit(NewMessage(text))
}

// WriteLines shows lines as one centered block.
func (c *Controller) WriteLines(lines ...string) error {
	return c.Submit(NewLines(lines...))
}

// Clear blanks the screen.
func (c *Controller) Clear() error {
	return c.Submit(NewAction(ActionClear))
}

// BacklightOn turns the backlight on.
func (c *Controller) BacklightOn() error {
	return c.Submit(NewAction(ActionBacklightOn))
}

// BacklightOff turns the backlight off.
func (c *Controller) BacklightOff() error {
	return c.Submit(NewAction(ActionBacklightOff))
}

// ShowTransaction shows a transaction summary awaiting confirmation.
func (c *Controller) ShowTransaction(txID, amount string) error {
	if r := []rune(txID); len(r) > 8 {
		txID = string(r[:8])
	}
	return c.WriteLines(
		"Transaction:",
		"ID: "+txID+"...",
		"Amount: "+amount,
		"Press OK to sign",
	)
}

// Shutdown turns the backlight off and stops the worker. Commands
// already queued are still applied. Any later call fails with ErrClosed.
func (c *Controller) Shutdown() {
	c.shutdownOnce.Do(func() {
		c.BacklightOff()
		c.stop.set()
		c.queue.Close()
	})
}

// Done is closed when the worker has released the hardware.
func (c *Controller) Done() <-chan struct{} {
	return c.worker.doneCh
}

// Wait blocks until the worker stops and returns its cleanup error.
func (c *Controller) Wait() error {
	<-c.worker.doneCh
	return c.worker.err
}

// State reports the worker state.
func (c *Controller) State() State {
	return c.worker.State()
}

// Run implements Runnable. The display is shut down when ctx is done, or
// Run returns early if something else shut it down.
func (c *Controller) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		c.Shutdown()
		if err := c.Wait(); err != nil {
			return err
		}
		return ctx.Err()
	case <-c.worker.doneCh:
		return c.worker.err
	}
}
