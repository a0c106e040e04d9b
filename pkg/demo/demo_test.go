package demo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
	fail  string
}

func (r *recorder) do(call string) error {
	r.calls = append(r.calls, call)
	if call == r.fail {
		return errors.New("fail")
	}
	return nil
}

func (r *recorder) WriteMessage(text string) error { return r.do(fmt.Sprintf("msg %q", text)) }
func (r *recorder) WriteLines(lines ...string) error {
	return r.do(fmt.Sprintf("lines %q", strings.Join(lines, "|")))
}
func (r *recorder) Clear() error        { return r.do("clear") }
func (r *recorder) BacklightOn() error  { return r.do("on") }
func (r *recorder) BacklightOff() error { return r.do("off") }

func noPause(steps []Step) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		s.Pause = 0
		out[i] = s
	}
	return out
}

func TestSequence(t *testing.T) {
	r := &recorder{}
	require.NoError(t, Run(context.Background(), r, noPause(Sequence)))
	require.Equal(t, []string{
		`msg "Hello ESP32!"`,
		`lines "Bitcoin Signer|Ready to sign|transactions"`,
		"clear",
		`msg "Signing..."`,
		"off",
		"on",
		`msg "Done!"`,
	}, r.calls)
}

func TestSequencePauses(t *testing.T) {
	var pauses []time.Duration
	for _, s := range Sequence {
		pauses = append(pauses, s.Pause)
	}
	require.Equal(t, []time.Duration{
		2 * time.Second,
		2 * time.Second,
		time.Second,
		2 * time.Second,
		time.Second,
		0,
		2 * time.Second,
	}, pauses)
}

func TestStepFailure(t *testing.T) {
	r := &recorder{fail: "clear"}
	require.Error(t, Run(context.Background(), r, noPause(Sequence)))
	require.Len(t, r.calls, 3)
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &recorder{}
	err := (&Runner{Display: r, Steps: []Step{
		{"hello", func(d Display) error { return d.WriteMessage("hi") }, time.Hour},
		{"clear", Display.Clear, 0},
	}}).Run(ctx)
	require.Equal(t, context.Canceled, err)
	require.Equal(t, []string{`msg "hi"`}, r.calls)
}
