// Package demo plays the bring-up sequence of the signer display.
package demo

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// Display is what the sequence drives; lcd.Controller implements it.
type Display interface {
	WriteMessage(text string) error
	WriteLines(lines ...string) error
	Clear() error
	BacklightOn() error
	BacklightOff() error
}

// Step is one entry of a sequence.
type Step struct {
	Name  string
	Do    func(Display) error
	Pause time.Duration
}

// Sequence is the bring-up demo: greeting, ready screen, signing
// progress with a backlight blink.
var Sequence = []Step{
	{"hello", func(d Display) error { return d.WriteMessage("Hello ESP32!") }, 2 * time.Second},
	{"ready", func(d Display) error {
		return d.WriteLines("Bitcoin Signer", "Ready to sign", "transactions")
	}, 2 * time.Second},
	{"clear", Display.Clear, time.Second},
	{"signing", func(d Display) error { return d.WriteMessage("Signing...") }, 2 * time.Second},
	{"backlight off", Display.BacklightOff, time.Second},
	{"backlight on", Display.BacklightOn, 0},
	{"done", func(d Display) error { return d.WriteMessage("Done!") }, 2 * time.Second},
}

// Run plays steps on d, pausing after each. It stops early when ctx is
// done or a step fails.
func Run(ctx context.Context, d Display, steps []Step) error {
	for _, step := range steps {
		glog.V(1).Infof("demo: %s", step.Name)
		if err := step.Do(d); err != nil {
			return err
		}
		if step.Pause <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(step.Pause):
		}
	}
	return nil
}

// Runner adapts Run to framework.Runnable.
type Runner struct {
	Display Display
	Steps   []Step
}

// Run implements framework.Runnable.
func (r *Runner) Run(ctx context.Context) error {
	steps := r.Steps
	if steps == nil {
		steps = Sequence
	}
	return Run(ctx, r.Display, steps)
}
