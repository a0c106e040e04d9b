package lcd

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/golang/glog"

	fx "github.com/robotalks/signer/pkg/framework"
)

// State is the lifecycle state of the display worker.
type State int32

// Worker states.
const (
	StateInitializing State = iota
	StateRunning
	StateStopping
	StateStopped
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// stopFlag only ever goes from unset to set.
type stopFlag struct {
	v int32
}

func (f *stopFlag) set() {
	atomic.StoreInt32(&f.v, 1)
}

func (f *stopFlag) isSet() bool {
	return atomic.LoadInt32(&f.v) != 0
}

// worker is the only code touching Hardware, and only from run's goroutine.
type worker struct {
	queue *Queue
	stop  *stopFlag
	conf  Config

	state  int32
	hw     *Hardware
	lineH  int
	doneCh chan struct{}
	err    error
}

func newWorker(conf Config) *worker {
	return &worker{
		queue:  NewQueue(),
		stop:   &stopFlag{},
		conf:   conf,
		doneCh: make(chan struct{}),
	}
}

func (w *worker) State() State {
	return State(atomic.LoadInt32(&w.state))
}

func (w *worker) setState(s State) {
	atomic.StoreInt32(&w.state, int32(s))
	glog.V(2).Infof("display worker %s", s)
}

func (w *worker) run(p *Peripheral, ready chan<- error) {
	defer close(w.doneCh)
	hw, err := w.acquire(p)
	if err != nil {
		w.setState(StateStopped)
		ready <- err
		return
	}
	w.hw, w.lineH = hw, w.conf.lineHeight(hw.Canvas)
	w.setState(StateRunning)
	glog.Info("display initialized")
	ready <- nil

	w.loop()
	w.err = w.release()
	w.setState(StateStopped)
	glog.Info("display worker stopped")
}

func (w *worker) acquire(p *Peripheral) (*Hardware, error) {
	hw, err := p.take()
	if err != nil {
		return nil, err
	}
	if err = hw.Backlight.Set(true); err != nil {
		hw.release()
		return nil, fmt.Errorf("backlight on: %w", err)
	}
	return hw, nil
}

func (w *worker) loop() {
	interval := w.conf.pollInterval()
	for {
		cmd, outcome := w.queue.Receive(interval)
		switch outcome {
		case Received:
			w.dispatch(cmd)
		case TimedOut:
			if w.stop.isSet() {
				return
			}
		case Closed:
			glog.V(2).Info("command queue closed")
			return
		}
	}
}

func (w *worker) dispatch(cmd Command) {
	cmd, err := cmd.Resolve()
	if err != nil {
		glog.Errorf("drop command: %v", err)
		return
	}
	switch cmd.Kind() {
	case KindMessage:
		if err = w.render(cmd.Lines()); err != nil {
			glog.Errorf("render message: %v", err)
		}
	case KindAction:
		if err = w.actuate(cmd.Action()); err != nil {
			glog.Errorf("action %s: %v", cmd.Action(), err)
		}
	default:
		glog.Errorf("drop command of kind %d", cmd.Kind())
	}
}

// render draws lines as a vertically centered block, each line centered
// horizontally.
func (w *worker) render(lines []string) error {
	canvas := w.hw.Canvas
	if err := canvas.Clear(w.conf.Background); err != nil {
		return fmt.Errorf("clear: %v", err)
	}
	bounds := canvas.Bounds()
	lh := w.lineH
	startY := (bounds.Dy() - len(lines)*lh) / 2
	centerX := bounds.Min.X + bounds.Dx()/2
	for i, line := range lines {
		pos := image.Pt(centerX, bounds.Min.Y+startY+i*lh+lh/2)
		if err := canvas.DrawText(line, pos, AlignCenter); err != nil {
			w.flush()
			return fmt.Errorf("line %d: %v", i, err)
		}
	}
	return w.flush()
}

func (w *worker) clear() error {
	if err := w.hw.Canvas.Clear(w.conf.Background); err != nil {
		return err
	}
	return w.flush()
}

func (w *worker) flush() error {
	if f, ok := w.hw.Canvas.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

func (w *worker) actuate(a Action) error {
	switch a {
	case ActionClear:
		return w.clear()
	case ActionBacklightOn:
		return w.hw.Backlight.Set(true)
	case ActionBacklightOff:
		return w.hw.Backlight.Set(false)
	}
	return fmt.Errorf("unknown action %d", a)
}

// release blanks the panel and hands the hardware back. All steps run even
// if one fails.
func (w *worker) release() error {
	w.setState(StateStopping)
	var errs fx.AggregatedError
	if err := w.clear(); err != nil {
		errs.Add(fmt.Errorf("clear: %w", err))
	}
	hw := w.hw
	w.hw = nil
	if err := hw.Backlight.Set(false); err != nil {
		errs.Add(fmt.Errorf("backlight off: %w", err))
	}
	if hw.Release != nil {
		if err := hw.Release(); err != nil {
			errs.Add(fmt.Errorf("release: %w", err))
		}
	}
	err := errs.Aggregate()
	if err != nil {
		glog.Errorf("display cleanup: %v", err)
	}
	return err
}
