package lcd

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestWriteMessage(t *testing.T) {
	env := newControllerTestEnv(t).start()
	require.Equal(t, StateRunning, env.ctl.State())
	require.NoError(t, env.ctl.WriteMessage("Hello ESP32!"))
	ops := env.stop()
	// 135px high, one 22px line: start at 56, baseline at 56+11.
	require.Equal(t, withShutdown(
		"clear",
		"text Hello ESP32! @120,67/1",
	), ops)
	require.Equal(t, StateStopped, env.ctl.State())
}

func TestWriteLinesCentersBlock(t *testing.T) {
	env := newControllerTestEnv(t).start()
	require.NoError(t, env.ctl.WriteLines(
		"Transaction:",
		"ID: abcd1234...",
		"Amount: 0.001",
		"Press OK to sign",
	))
	ops := env.stop()
	// (135 - 4*22) / 2 = 23
	require.Equal(t, withShutdown(
		"clear",
		"text Transaction: @120,34/1",
		"text ID: abcd1234... @120,56/1",
		"text Amount: 0.001 @120,78/1",
		"text Press OK to sign @120,100/1",
	), ops)
}

func TestLineHeightFromCanvas(t *testing.T) {
	env := newControllerTestEnv(t)
	env.hw.bounds = image.Rect(0, 0, 16, 8)
	env.hw.lineHeight = 1
	env.start()
	require.NoError(t, env.ctl.WriteLines("a", "b"))
	ops := env.stop()
	require.Equal(t, withShutdown("clear", "text a @8,3/1", "text b @8,4/1"), ops)
}

func TestBoundsOffset(t *testing.T) {
	env := newControllerTestEnv(t)
	env.hw.bounds = image.Rect(40, 52, 280, 187)
	env.start()
	require.NoError(t, env.ctl.WriteMessage("x"))
	ops := env.stop()
	require.Equal(t, withShutdown("clear", "text x @160,119/1"), ops)
}

func TestWriteLinesIsOneMessage(t *testing.T) {
	q := NewQueue()
	ctl := &Controller{queue: q}
	require.NoError(t, ctl.WriteLines("a", "b"))
	cmd, outcome := q.Receive(time.Second)
	require.Equal(t, Received, outcome)
	require.Equal(t, KindMessage, cmd.Kind())
	require.Equal(t, "a\nb", cmd.Text())
	_, outcome = q.Receive(time.Millisecond)
	require.Equal(t, TimedOut, outcome)
}

func TestShowTransaction(t *testing.T) {
	q := NewQueue()
	ctl := &Controller{queue: q}
	require.NoError(t, ctl.ShowTransaction("abcd1234ef567890", "0.001"))
	require.NoError(t, ctl.ShowTransaction("abc", "1"))

	cmd, _ := q.Receive(time.Second)
	require.Equal(t, []string{"Transaction:", "ID: abcd1234...", "Amount: 0.001", "Press OK to sign"}, cmd.Lines())
	cmd, _ = q.Receive(time.Second)
	require.Equal(t, "ID: abc...", cmd.Lines()[1])

	require.NoError(t, ctl.ShowTransaction("ünïcødé-id", "2"))
	cmd, _ = q.Receive(time.Second)
	require.Equal(t, "ID: ünïcødé-...", cmd.Lines()[1])
	require.True(t, utf8.ValidString(cmd.Text()))
}

func TestBacklightThenShutdown(t *testing.T) {
	env := newControllerTestEnv(t).start()
	require.NoError(t, env.ctl.BacklightOff())
	require.NoError(t, env.ctl.BacklightOn())
	ops := env.stop()
	require.Equal(t, withShutdown("backlight off", "backlight on"), ops)
	require.False(t, env.hw.backlight)
	require.True(t, env.hw.released)
	require.Empty(t, env.hw.Screen())
	require.Equal(t, Black, env.hw.cleared)
}

func TestClearIdempotent(t *testing.T) {
	run := func(clears int) *fakeHardware {
		hw := newFakeHardware()
		ctl, err := New(hw.peripheral(), nil)
		require.NoError(t, err)
		require.NoError(t, ctl.WriteMessage("Signing..."))
		for i := 0; i < clears; i++ {
			require.NoError(t, ctl.Clear())
		}
		require.NoError(t, ctl.BacklightOn())
		ctl.queue.Close()
		require.NoError(t, ctl.Wait())
		return hw
	}
	once, twice := run(1), run(2)
	require.Empty(t, once.Screen())
	require.Equal(t, once.Screen(), twice.Screen())
	require.Equal(t, once.cleared, twice.cleared)
	require.Equal(t, once.backlight, twice.backlight)
}

func TestSendAfterShutdown(t *testing.T) {
	env := newControllerTestEnv(t).start()
	env.stop()
	env.ctl.Shutdown()

	require.Equal(t, ErrClosed, env.ctl.WriteMessage("late"))
	require.Equal(t, ErrClosed, env.ctl.WriteLines("a", "b"))
	require.Equal(t, ErrClosed, env.ctl.Clear())
	require.Equal(t, ErrClosed, env.ctl.BacklightOn())
	require.Equal(t, ErrClosed, env.ctl.BacklightOff())
	require.Equal(t, ErrClosed, env.ctl.Submit(Raw("Action: clear")))
}

func TestIdleNoDraws(t *testing.T) {
	env := newControllerTestEnv(t).start()
	time.Sleep(5 * env.conf.PollInterval)
	require.Equal(t, StateRunning, env.ctl.State())
	require.Equal(t, []string{"backlight on"}, env.hw.Ops())
	require.Equal(t, shutdownOps, env.stop())
}

func TestStopFlagObservedOnTimeout(t *testing.T) {
	env := newControllerTestEnv(t).start()
	env.ctl.stop.set()
	select {
	case <-env.ctl.Done():
	case <-time.After(time.Second):
		t.Fatal("stop flag not observed")
	}
	require.Equal(t, []string{"backlight on", "clear", "backlight off", "release"}, env.hw.Ops())
}

func TestDrawErrorContained(t *testing.T) {
	env := newControllerTestEnv(t)
	env.hw.failText = "boom"
	env.start()
	require.NoError(t, env.ctl.WriteLines("boom", "never"))
	require.NoError(t, env.ctl.WriteMessage("after"))
	ops := env.stop()
	require.Equal(t, withShutdown("clear", "fail boom", "clear", "text after @120,67/1"), ops)
}

func TestInvalidRawDropped(t *testing.T) {
	env := newControllerTestEnv(t).start()
	require.NoError(t, env.ctl.Submit(Raw("Action: dance")))
	require.NoError(t, env.ctl.Submit(Raw("nonsense")))
	require.NoError(t, env.ctl.Submit(Raw("Action: clear")))
	require.NoError(t, env.ctl.Submit(Raw("Message: ok")))
	ops := env.stop()
	require.Equal(t, withShutdown("clear", "clear", "text ok @120,67/1"), ops)
}

func TestPerProducerOrder(t *testing.T) {
	const producers, count = 3, 50
	env := newControllerTestEnv(t).start()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < count; i++ {
				if err := env.ctl.WriteMessage(fmt.Sprintf("%d-%d", p, i)); err != nil {
					t.Error(err)
				}
			}
		}(p)
	}
	wg.Wait()
	ops := env.stop()

	next := make([]int, producers)
	for _, op := range ops {
		var p, i int
		if n, _ := fmt.Sscanf(op, "text %d-%d", &p, &i); n != 2 {
			continue
		}
		require.Equalf(t, next[p], i, "producer %d out of order", p)
		next[p]++
	}
	for p := range next {
		require.Equal(t, count, next[p])
	}
}

func TestInitErrors(t *testing.T) {
	errOpen := errors.New("no panel")
	_, err := New(NewPeripheral(func() (*Hardware, error) { return nil, errOpen }), nil)
	require.Error(t, err)
	var initErr *InitError
	require.True(t, errors.As(err, &initErr))
	require.True(t, errors.Is(err, errOpen))

	_, err = New(NewPeripheral(func() (*Hardware, error) { return &Hardware{}, nil }), nil)
	require.True(t, errors.Is(err, errIncompleteHardware))
}

func TestIncompleteHardwareReleased(t *testing.T) {
	hw := newFakeHardware()
	_, err := New(Static(&Hardware{Canvas: hw, Release: hw.release}), nil)
	require.True(t, errors.Is(err, errIncompleteHardware))
	require.True(t, hw.released)

	errPort := errors.New("port busy")
	released := 0
	_, err = New(Static(&Hardware{
		Canvas:    hw,
		Backlight: &failingBacklight{err: errors.New("pin fault")},
		Release:   func() error { released++; return errPort },
	}), nil)
	require.Error(t, err)
	require.Equal(t, 1, released)
}

func TestPeripheralTakenOnce(t *testing.T) {
	hw := newFakeHardware()
	p := hw.peripheral()
	ctl, err := New(p, nil)
	require.NoError(t, err)
	require.True(t, p.Taken())

	_, err = New(p, nil)
	require.True(t, errors.Is(err, ErrPeripheralTaken))

	ctl.Shutdown()
	require.NoError(t, ctl.Wait())
	_, err = New(p, nil)
	require.True(t, errors.Is(err, ErrPeripheralTaken))
}

type failingBacklight struct {
	err error
}

func (b *failingBacklight) Set(bool) error {
	return b.err
}

func TestBacklightInitFailure(t *testing.T) {
	hw := newFakeHardware()
	errPin := errors.New("pin fault")
	p := Static(&Hardware{Canvas: hw, Backlight: &failingBacklight{err: errPin}, Release: hw.release})
	_, err := New(p, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "pin fault")
	require.True(t, hw.released)
}

func TestCleanupErrors(t *testing.T) {
	hw := newFakeHardware()
	errPin := errors.New("pin fault")
	bl := &switchableBacklight{}
	ctl, err := New(Static(&Hardware{Canvas: hw, Backlight: bl}), nil)
	require.NoError(t, err)
	bl.fail(errPin)
	ctl.Shutdown()
	err = ctl.Wait()
	require.Error(t, err)
	require.True(t, errors.Is(err, errPin))
}

type switchableBacklight struct {
	lock sync.Mutex
	err  error
}

func (b *switchableBacklight) fail(err error) {
	b.lock.Lock()
	b.err = err
	b.lock.Unlock()
}

func (b *switchableBacklight) Set(bool) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.err
}

func TestRun(t *testing.T) {
	env := newControllerTestEnv(t).start()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- env.ctl.Run(ctx)
	}()
	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	require.Equal(t, StateStopped, env.ctl.State())
	require.Equal(t, ErrClosed, env.ctl.Clear())
}

// flushingCanvas buffers like a framebuffered panel.
type flushingCanvas struct {
	*fakeHardware
}

func (c flushingCanvas) Flush() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.record("flush")
	return nil
}

func TestFlushOncePerCommand(t *testing.T) {
	hw := newFakeHardware()
	p := Static(&Hardware{Canvas: flushingCanvas{hw}, Backlight: hw, Release: hw.release})
	ctl, err := New(p, nil)
	require.NoError(t, err)
	require.NoError(t, ctl.WriteLines("a", "b"))
	require.NoError(t, ctl.BacklightOff())
	require.NoError(t, ctl.Clear())
	ctl.Shutdown()
	require.NoError(t, ctl.Wait())
	require.Equal(t, []string{
		"backlight on",
		"clear", "text a @120,56/1", "text b @120,78/1", "flush",
		"backlight off",
		"clear", "flush",
		"backlight off",
		"clear", "flush", "backlight off", "release",
	}, hw.Ops())
}
