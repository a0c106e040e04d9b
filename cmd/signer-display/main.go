package main

import (
	"flag"
	"log"

	"github.com/robotalks/signer/pkg/bridge/mqtt"
	"github.com/robotalks/signer/pkg/bridge/stream"
	"github.com/robotalks/signer/pkg/bridge/websocket"
	"github.com/robotalks/signer/pkg/cli/sh"
	"github.com/robotalks/signer/pkg/demo"
	fx "github.com/robotalks/signer/pkg/framework"
	"github.com/robotalks/signer/pkg/hw/backlight"
	"github.com/robotalks/signer/pkg/hw/fb"
	"github.com/robotalks/signer/pkg/hw/screen"
	"github.com/robotalks/signer/pkg/hw/st7789"
	"github.com/robotalks/signer/pkg/hw/term"
	"github.com/robotalks/signer/pkg/lcd"

	_ "github.com/robotalks/signer/pkg/cli/cmds/display"
)

var (
	surface   = "st7789"
	playDemo  bool
	withShell bool
)

func init() {
	flag.StringVar(&surface, "surface", surface, "Display surface: st7789, term or memory.")
	flag.BoolVar(&playDemo, "demo", playDemo, "Play the demo sequence, then exit.")
	flag.BoolVar(&withShell, "shell", withShell, "Run the operator shell, remaining args are run as one command.")
	lcd.SetupFlags()
	st7789.SetupFlags()
	term.SetupFlags()
	mqtt.SetupFlags()
	websocket.SetupFlags()
	stream.SetupFlags()
}

func peripheral(runner *fx.Runner) *lcd.Peripheral {
	switch surface {
	case "st7789":
		return st7789.Default().Peripheral()
	case "term":
		if withShell {
			log.Fatalln("-shell cannot share the terminal with -surface=term")
		}
		conf := term.NewConfig()
		conf.OnQuit = runner.Stop
		return conf.Peripheral()
	case "memory":
		w, h := int16(240), int16(135)
		return lcd.Static(&lcd.Hardware{
			Canvas:    screen.New(fb.New(w, h)),
			Backlight: &backlight.Memory{},
		})
	}
	log.Fatalf("unknown surface %q", surface)
	return nil
}

func main() {
	flag.Parse()

	runner := fx.NewRunner().HandleSignals()
	ctl, err := lcd.NewConfig().NewController(peripheral(runner))
	if err != nil {
		log.Fatalln(err)
	}

	runnables := []fx.Runnable{fx.NamedRun("display", ctl)}
	if conf := mqtt.NewConfig(); conf.Enabled() {
		b, err := conf.NewBridge(ctl)
		if err != nil {
			ctl.Shutdown()
			log.Fatalln(err)
		}
		runnables = append(runnables, fx.NamedRun("mqtt", b))
	}
	if conf := websocket.NewConfig(); conf.Enabled() {
		runnables = append(runnables, fx.NamedRun("websocket", conf.NewServer(ctl)))
	}
	if conf := stream.NewConfig(); conf.Enabled() {
		if conf.IsStdin() && (withShell || surface == "term") {
			ctl.Shutdown()
			log.Fatalln("-input=- needs stdin, which is taken by the shell or terminal")
		}
		b, err := conf.NewBridge(ctl)
		if err != nil {
			ctl.Shutdown()
			log.Fatalln(err)
		}
		runnables = append(runnables, fx.NamedRun("input", b))
	}
	if playDemo {
		runnables = append(runnables, fx.NamedRun("demo", &demo.Runner{Display: ctl}))
	}
	if withShell {
		s := sh.New(ctl)
		s.Args = flag.Args()
		runnables = append(runnables, fx.NamedRun("shell", s))
	}
	runner.RunOrFail(runnables...)
}
