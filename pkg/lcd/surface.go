package lcd

import (
	"image"
	"image/color"
	"strconv"
	"sync/atomic"

	"github.com/golang/glog"
)

// Alignment is the horizontal anchoring of drawn text.
type Alignment int

// Alignments.
const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return "align(" + strconv.Itoa(int(a)) + ")"
}

// Canvas is the drawable part of the panel.
type Canvas interface {
	// Clear fills the whole canvas with c.
	Clear(c color.RGBA) error
	// DrawText draws one line of text vertically centered on pos.Y.
	// pos.X is interpreted according to align.
	DrawText(text string, pos image.Point, align Alignment) error
	// Bounds returns the drawable area.
	Bounds() image.Rectangle
}

// Flusher is implemented by canvases which buffer drawing. The worker
// calls Flush once a command has been drawn.
type Flusher interface {
	Flush() error
}

// LineHeighter is implemented by canvases which know their line pitch.
type LineHeighter interface {
	LineHeight() int
}

// Backlight is the discrete backlight actuator.
type Backlight interface {
	Set(on bool) error
}

// Hardware is the acquired display: canvas, backlight and a release hook.
type Hardware struct {
	Canvas    Canvas
	Backlight Backlight
	// Release is called once when the worker stops. Optional.
	Release func() error
}

// release calls Release on an init failure path, logging its error.
func (hw *Hardware) release() {
	if hw.Release == nil {
		return
	}
	if err := hw.Release(); err != nil {
		glog.Warningf("release display: %v", err)
	}
}

// OpenFunc brings up the display hardware.
type OpenFunc func() (*Hardware, error)

// Peripheral grants the display hardware to exactly one worker.
type Peripheral struct {
	open  OpenFunc
	taken int32
}

// NewPeripheral creates a Peripheral backed by open.
func NewPeripheral(open OpenFunc) *Peripheral {
	return &Peripheral{open: open}
}

// Static creates a Peripheral over already initialized hardware.
func Static(hw *Hardware) *Peripheral {
	return NewPeripheral(func() (*Hardware, error) { return hw, nil })
}

// Taken indicates the hardware has been handed to a worker.
func (p *Peripheral) Taken() bool {
	return atomic.LoadInt32(&p.taken) != 0
}

func (p *Peripheral) take() (*Hardware, error) {
	if !atomic.CompareAndSwapInt32(&p.taken, 0, 1) {
		return nil, ErrPeripheralTaken
	}
	hw, err := p.open()
	if err != nil {
		return nil, err
	}
	if hw == nil || hw.Canvas == nil || hw.Backlight == nil {
		if hw != nil {
			hw.release()
		}
		return nil, errIncompleteHardware
	}
	return hw, nil
}
