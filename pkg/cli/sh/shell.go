// Package sh provides an ishell backed operator shell for the display.
package sh

import (
	"context"
	"fmt"

	"github.com/abiosoft/ishell"
	"github.com/logrusorgru/aurora"

	"github.com/robotalks/signer/pkg/lcd"
)

// Display is what shell commands drive; lcd.Controller implements it.
type Display interface {
	Submit(cmd lcd.Command) error
	WriteMessage(text string) error
	WriteLines(lines ...string) error
	Clear() error
	BacklightOn() error
	BacklightOff() error
	ShowTransaction(txID, amount string) error
	Shutdown()
	State() lcd.State
}

// Shell provides ishell backed interactive shell.
type Shell struct {
	Shell   *ishell.Shell
	Display Display
	// Args, when set, are evaluated as a single command instead of
	// running interactively.
	Args []string
}

// ActionFunc performs a command on the display.
type ActionFunc func(d Display, args []string) error

const (
	shellKey = "$shell"
	prompt   = "signer > "
)

var commands []*ishell.Cmd

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(d Display) *Shell {
	s := &Shell{Shell: ishell.New(), Display: d}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Action wraps fn as an ishell func printing OK or the error.
func Action(fn ActionFunc) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if err := fn(ShellFrom(c).Display, c.Args); err != nil {
			c.Err(err)
			return
		}
		c.Println(aurora.Green("OK"))
	}
}

// FormatState colours a worker state for display.
func FormatState(st lcd.State) string {
	switch st {
	case lcd.StateRunning:
		return aurora.Green(st.String()).String()
	case lcd.StateStopped:
		return aurora.Red(st.String()).String()
	}
	return aurora.Yellow(st.String()).String()
}

// Run implements framework.Runnable. It returns when the user exits the
// shell or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	if len(s.Args) > 0 {
		return s.Shell.Process(s.Args...)
	}
	s.Shell.Println(fmt.Sprintf("Display %s, type help for commands.", FormatState(s.Display.State())))
	done := make(chan struct{})
	go func() {
		s.Shell.Run()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.Shell.Close()
		return ctx.Err()
	}
}
