package lcd

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errFakeDraw = errors.New("draw failed")

// fakeHardware records every hardware call and keeps the visible state.
type fakeHardware struct {
	bounds     image.Rectangle
	lineHeight int
	failText   string

	lock      sync.Mutex
	ops       []string
	screen    []string
	cleared   color.RGBA
	backlight bool
	released  bool
}

func newFakeHardware() *fakeHardware {
	return &fakeHardware{bounds: image.Rect(0, 0, 240, 135)}
}

func (h *fakeHardware) record(op string) {
	h.ops = append(h.ops, op)
}

func (h *fakeHardware) Clear(c color.RGBA) error {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.record("clear")
	h.screen, h.cleared = nil, c
	return nil
}

func (h *fakeHardware) DrawText(text string, pos image.Point, align Alignment) error {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.failText != "" && text == h.failText {
		h.record("fail " + text)
		return errFakeDraw
	}
	h.record(fmt.Sprintf("text %s @%d,%d/%d", text, pos.X, pos.Y, align))
	h.screen = append(h.screen, text)
	return nil
}

func (h *fakeHardware) Bounds() image.Rectangle {
	return h.bounds
}

func (h *fakeHardware) LineHeight() int {
	return h.lineHeight
}

func (h *fakeHardware) Set(on bool) error {
	h.lock.Lock()
	defer h.lock.Unlock()
	if on {
		h.record("backlight on")
	} else {
		h.record("backlight off")
	}
	h.backlight = on
	return nil
}

func (h *fakeHardware) release() error {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.record("release")
	h.released = true
	return nil
}

func (h *fakeHardware) peripheral() *Peripheral {
	return Static(&Hardware{Canvas: h, Backlight: h, Release: h.release})
}

func (h *fakeHardware) Ops() []string {
	h.lock.Lock()
	defer h.lock.Unlock()
	return append([]string(nil), h.ops...)
}

func (h *fakeHardware) Screen() []string {
	h.lock.Lock()
	defer h.lock.Unlock()
	return append([]string(nil), h.screen...)
}

type controllerTestEnv struct {
	t    *testing.T
	hw   *fakeHardware
	ctl  *Controller
	conf *Config
}

func newControllerTestEnv(t *testing.T) *controllerTestEnv {
	env := &controllerTestEnv{t: t, hw: newFakeHardware(), conf: NewConfig()}
	env.conf.PollInterval = 10 * time.Millisecond
	return env
}

func (e *controllerTestEnv) start() *controllerTestEnv {
	ctl, err := New(e.hw.peripheral(), e.conf)
	require.NoError(e.t, err)
	e.ctl = ctl
	return e
}

// stop shuts down and returns all hardware ops after the init backlight-on.
func (e *controllerTestEnv) stop() []string {
	e.ctl.Shutdown()
	select {
	case <-e.ctl.Done():
	case <-time.After(time.Second):
		e.t.Fatal("worker stop timeout")
	}
	require.NoError(e.t, e.ctl.Wait())
	ops := e.hw.Ops()
	require.NotEmpty(e.t, ops)
	require.Equal(e.t, "backlight on", ops[0])
	return ops[1:]
}

var shutdownOps = []string{"backlight off", "clear", "backlight off", "release"}

func withShutdown(ops ...string) []string {
	return append(ops, shutdownOps...)
}
