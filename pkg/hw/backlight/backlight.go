// Package backlight implements lcd.Backlight on a GPIO pin or in memory.
package backlight

import (
	"fmt"
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/robotalks/signer/pkg/lcd"
)

// GPIO switches a backlight with a single output pin.
type GPIO struct {
	Pin gpio.PinOut
	// ActiveLow inverts the pin level for boards where low means lit.
	ActiveLow bool
}

var (
	_ lcd.Backlight = (*GPIO)(nil)
	_ lcd.Backlight = (*Memory)(nil)
)

// Open looks up a registered pin by name, e.g. "GPIO4".
// host.Init must have been called.
func Open(name string, activeLow bool) (*GPIO, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("backlight pin %q not found", name)
	}
	return &GPIO{Pin: pin, ActiveLow: activeLow}, nil
}

// Set implements lcd.Backlight.
func (b *GPIO) Set(on bool) error {
	return b.Pin.Out(gpio.Level(on != b.ActiveLow))
}

// Memory is a backlight without hardware.
type Memory struct {
	on int32
}

// Set implements lcd.Backlight.
func (b *Memory) Set(on bool) error {
	var v int32
	if on {
		v = 1
	}
	atomic.StoreInt32(&b.on, v)
	return nil
}

// On reports the last state set.
func (b *Memory) On() bool {
	return atomic.LoadInt32(&b.on) != 0
}
