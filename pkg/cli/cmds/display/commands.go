// Package display registers the display commands with the shell.
package display

import (
	"errors"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/signer/pkg/cli/sh"
	"github.com/robotalks/signer/pkg/lcd"
)

var errTextRequired = errors.New("TEXT required")

var (
	// MessageCmd shows a message; \n in TEXT breaks lines.
	MessageCmd = ishell.Cmd{
		Name:    "msg",
		Aliases: []string{"m"},
		Help:    "TEXT...",
		Func:    sh.Action(writeMessage),
	}

	// LinesCmd shows each argument on its own line.
	LinesCmd = ishell.Cmd{
		Name:    "lines",
		Aliases: []string{"l"},
		Help:    "LINE...",
		Func:    sh.Action(writeLines),
	}

	// ClearCmd clears the panel.
	ClearCmd = ishell.Cmd{
		Name:    "clear",
		Aliases: []string{"c"},
		Func:    sh.Action(func(d sh.Display, _ []string) error { return d.Clear() }),
	}

	// BacklightOnCmd turns the backlight on.
	BacklightOnCmd = ishell.Cmd{
		Name: "bl.on",
		Func: sh.Action(func(d sh.Display, _ []string) error { return d.BacklightOn() }),
	}

	// BacklightOffCmd turns the backlight off.
	BacklightOffCmd = ishell.Cmd{
		Name: "bl.off",
		Func: sh.Action(func(d sh.Display, _ []string) error { return d.BacklightOff() }),
	}

	// TransactionCmd shows the sign prompt of a transaction.
	TransactionCmd = ishell.Cmd{
		Name: "tx",
		Help: "TXID AMOUNT",
		Func: sh.Action(showTransaction),
	}

	// RawCmd submits a text protocol line, e.g. "Action: clear".
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "KEY: VALUE",
		Func: sh.Action(submitRaw),
	}

	// StateCmd prints the worker state.
	StateCmd = ishell.Cmd{
		Name: "state",
		Func: func(c *ishell.Context) {
			c.Println(sh.FormatState(sh.ShellFrom(c).Display.State()))
		},
	}

	// ShutdownCmd stops the display worker.
	ShutdownCmd = ishell.Cmd{
		Name: "shutdown",
		Func: sh.Action(func(d sh.Display, _ []string) error {
			d.Shutdown()
			return nil
		}),
	}
)

func init() {
	sh.AddCmds(
		&MessageCmd,
		&LinesCmd,
		&ClearCmd,
		&BacklightOnCmd,
		&BacklightOffCmd,
		&TransactionCmd,
		&RawCmd,
		&StateCmd,
		&ShutdownCmd,
	)
}

// unescape turns a typed \n into a line break.
func unescape(text string) string {
	return strings.Replace(text, `\n`, "\n", -1)
}

func writeMessage(d sh.Display, args []string) error {
	if len(args) == 0 {
		return errTextRequired
	}
	return d.WriteMessage(unescape(strings.Join(args, " ")))
}

func writeLines(d sh.Display, args []string) error {
	if len(args) == 0 {
		return errTextRequired
	}
	return d.WriteLines(args...)
}

func showTransaction(d sh.Display, args []string) error {
	if len(args) != 2 {
		return errors.New("TXID and AMOUNT required")
	}
	return d.ShowTransaction(args[0], args[1])
}

func submitRaw(d sh.Display, args []string) error {
	if len(args) == 0 {
		return errTextRequired
	}
	return d.Submit(lcd.Raw(strings.Join(args, " ")))
}
